package common

import "testing"

func TestFormatPeso(t *testing.T) {
	cases := []struct {
		centavos int64
		want     string
	}{
		{0, "₱0.00"},
		{75000, "₱750.00"},
		{320000, "₱3,200.00"},
		{1335000, "₱13,350.00"},
		{123456789012, "₱1,234,567,890.12"},
		{-150000, "-₱1,500.00"},
	}
	for _, tc := range cases {
		if got := FormatPeso(tc.centavos); got != tc.want {
			t.Fatalf("FormatPeso(%d) = %q, want %q", tc.centavos, got, tc.want)
		}
	}
}
