package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
)

// Querier defines the database access required for reporting.
type Querier interface {
	ListTransactions(ctx context.Context) ([]db.Transaction, error)
}

// Service aggregates the transaction ledger into admin reports, with an
// optional short-TTL Redis cache in front of the full-scan queries.
type Service struct {
	Q   Querier
	R   *redis.Client
	TTL time.Duration
}

// Summary is the headline revenue report.
type Summary struct {
	TransactionCount int    `json:"transaction_count"`
	RevenueTotal     int64  `json:"revenue_total"`
	RevenueDisplay   string `json:"revenue_display"`
}

// Transactions returns the full booking ledger, newest first.
func (s *Service) Transactions(ctx context.Context) ([]db.Transaction, error) {
	if s == nil || s.Q == nil {
		return nil, fmt.Errorf("reports service not configured")
	}
	return s.Q.ListTransactions(ctx)
}

// Summarize computes the overall revenue summary.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	var summary Summary
	if ok := s.fromCache(ctx, "reports:summary", &summary); ok {
		return summary, nil
	}
	txs, err := s.Transactions(ctx)
	if err != nil {
		return Summary{}, err
	}
	total := RevenueTotal(txs)
	summary = Summary{
		TransactionCount: len(txs),
		RevenueTotal:     total,
		RevenueDisplay:   common.FormatPeso(total),
	}
	s.store(ctx, "reports:summary", summary)
	return summary, nil
}

// TopCars returns rental counts per vehicle, most rented first. A limit of
// zero or less returns every vehicle.
func (s *Service) TopCars(ctx context.Context, limit int) ([]CarCount, error) {
	key := fmt.Sprintf("reports:top-cars:%d", limit)
	var counts []CarCount
	if ok := s.fromCache(ctx, key, &counts); ok {
		return counts, nil
	}
	txs, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	counts = RentalCounts(txs)
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	s.store(ctx, key, counts)
	return counts, nil
}

// Weekly returns gap-filled weekly revenue buckets in ascending order.
func (s *Service) Weekly(ctx context.Context) ([]WeekBucket, error) {
	var weeks []WeekBucket
	if ok := s.fromCache(ctx, "reports:weekly", &weeks); ok {
		return weeks, nil
	}
	txs, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	weeks = WeeklyRevenue(txs)
	s.store(ctx, "reports:weekly", weeks)
	return weeks, nil
}

func (s *Service) fromCache(ctx context.Context, key string, dst any) bool {
	if s == nil || s.R == nil || s.TTL <= 0 {
		return false
	}
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s == nil || s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}
