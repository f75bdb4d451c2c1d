package fleet

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
	"github.com/noah-isme/backend-rental/internal/events"
	"github.com/noah-isme/backend-rental/internal/obs"
)

// Store captures the fleet persistence operations.
type Store interface {
	ListCars(ctx context.Context, onlyAvailable bool) ([]db.Car, error)
	SetCarsAvailability(ctx context.Context, ids []int64, available bool) (int64, []string, error)
}

// Service manages fleet-wide availability for admins.
type Service struct {
	Store  Store
	Events *events.Bus
	Log    zerolog.Logger
}

// UpdateResult reports how many of the requested cars were updated and which
// categories were touched.
type UpdateResult struct {
	Requested   int      `json:"requested"`
	Updated     int64    `json:"updated"`
	Available   bool     `json:"available"`
	CategoryIDs []string `json:"category_ids"`
}

// ListCars returns the whole fleet including unavailable units.
func (s *Service) ListCars(ctx context.Context) ([]db.Car, error) {
	if s == nil || s.Store == nil {
		return nil, fmt.Errorf("fleet service not configured")
	}
	return s.Store.ListCars(ctx, false)
}

// SetAvailability flips the availability flag for the given cars in a single
// statement. Unknown ids are skipped; if nothing matched the request fails
// with not-found.
func (s *Service) SetAvailability(ctx context.Context, ids []int64, available bool) (UpdateResult, error) {
	if s == nil || s.Store == nil {
		return UpdateResult{}, fmt.Errorf("fleet service not configured")
	}
	if len(ids) == 0 {
		return UpdateResult{}, common.ValidationError("car_ids is required", nil)
	}
	updated, categoryIDs, err := s.Store.SetCarsAvailability(ctx, ids, available)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("set availability: %w", err)
	}
	if updated == 0 {
		return UpdateResult{}, common.NotFoundError("no matching cars", nil)
	}

	if obs.AvailabilityUpdatesTotal != nil {
		state := "unavailable"
		if available {
			state = "available"
		}
		obs.AvailabilityUpdatesTotal.WithLabelValues(state).Add(float64(updated))
	}
	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicFleetAvailabilityChanged, idsKey(ids), map[string]any{
			"carIds":    ids,
			"available": available,
			"updated":   updated,
		}); err != nil {
			s.Log.Warn().Err(err).Msg("emit availability event")
		}
	}

	return UpdateResult{Requested: len(ids), Updated: updated, Available: available, CategoryIDs: categoryIDs}, nil
}

func idsKey(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ",")
}
