package common

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPeso renders an amount in centavos as a peso display string,
// e.g. 320000 -> "₱3,200.00". Negative amounts carry a leading minus.
func FormatPeso(centavos int64) string {
	negative := centavos < 0
	if negative {
		centavos = -centavos
	}
	pesos := centavos / 100
	cents := centavos % 100
	grouped := groupThousands(strconv.FormatInt(pesos, 10))
	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s₱%s.%02d", sign, grouped, cents)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
