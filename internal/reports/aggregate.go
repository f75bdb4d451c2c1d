package reports

import (
	"time"

	"github.com/noah-isme/backend-rental/internal/db"
)

// CarCount pairs a vehicle model with how many times it was rented.
type CarCount struct {
	CarModel string `json:"car_model"`
	Rentals  int    `json:"rentals"`
}

// WeekBucket holds revenue for one Monday-aligned week.
type WeekBucket struct {
	WeekStart time.Time `json:"week_start"`
	Revenue   int64     `json:"revenue"`
}

// RevenueTotal sums the final totals across all transactions.
func RevenueTotal(txs []db.Transaction) int64 {
	var total int64
	for _, tx := range txs {
		total += tx.FinalTotal
	}
	return total
}

// RentalCounts groups transactions per vehicle model, most rented first.
// Models with equal counts keep the order they first appeared in.
func RentalCounts(txs []db.Transaction) []CarCount {
	counts := make(map[string]int, len(txs))
	order := make([]string, 0, len(txs))
	for _, tx := range txs {
		if _, seen := counts[tx.CarModel]; !seen {
			order = append(order, tx.CarModel)
		}
		counts[tx.CarModel]++
	}
	out := make([]CarCount, 0, len(order))
	for _, model := range order {
		out = append(out, CarCount{CarModel: model, Rentals: counts[model]})
	}
	// Stable insertion sort keeps first-appearance order among equal counts.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Rentals > out[j-1].Rentals; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// WeeklyRevenue buckets revenue into Monday-aligned weeks, ascending, with
// zero-revenue weeks filled in between the first and last transaction.
func WeeklyRevenue(txs []db.Transaction) []WeekBucket {
	if len(txs) == 0 {
		return nil
	}
	byWeek := make(map[time.Time]int64)
	var first, last time.Time
	for _, tx := range txs {
		week := mondayOf(tx.OccurredAt)
		byWeek[week] += tx.FinalTotal
		if first.IsZero() || week.Before(first) {
			first = week
		}
		if last.IsZero() || week.After(last) {
			last = week
		}
	}
	var out []WeekBucket
	for week := first; !week.After(last); week = week.AddDate(0, 0, 7) {
		out = append(out, WeekBucket{WeekStart: week, Revenue: byWeek[week]})
	}
	return out
}

func mondayOf(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}
