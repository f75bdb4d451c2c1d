package pricing

import "errors"

// Money represents a monetary value stored in centavos.
type Money = int64

// MaxRentalDays caps the billable duration. Keeping it well below the int64
// horizon rules out overflow in the centavo multiplications.
const MaxRentalDays = 365

// Computation guard errors.
var (
	ErrInvalidDuration = errors.New("pricing: duration must be between one day and one year")
	ErrInvalidRate     = errors.New("pricing: day rate must be positive")
)

// Addon describes an optional service included in a rental.
type Addon struct {
	Name    string
	Price   Money
	IsDaily bool
}

// Quote aggregates computed rental pricing components.
type Quote struct {
	BaseTotal    Money
	AddonCharges []Money
	FinalTotal   Money
}

// Price calculates the rental total: the vehicle's day rate times the
// duration, plus each add-on charged either once or per day.
func Price(ratePerDay Money, days int, addons []Addon) (Quote, error) {
	if days < 1 || days > MaxRentalDays {
		return Quote{}, ErrInvalidDuration
	}
	if ratePerDay <= 0 {
		return Quote{}, ErrInvalidRate
	}
	base := ratePerDay * Money(days)
	charges := make([]Money, 0, len(addons))
	total := base
	for _, addon := range addons {
		charge := addon.Price
		if addon.IsDaily {
			charge = addon.Price * Money(days)
		}
		charges = append(charges, charge)
		total += charge
	}
	return Quote{
		BaseTotal:    base,
		AddonCharges: charges,
		FinalTotal:   total,
	}, nil
}
