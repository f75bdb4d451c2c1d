package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
	"github.com/noah-isme/backend-rental/internal/events"
	"github.com/noah-isme/backend-rental/internal/obs"
	"github.com/noah-isme/backend-rental/internal/pricing"
)

// Querier captures the persistence operations a booking needs.
type Querier interface {
	GetUserByID(ctx context.Context, id pgtype.UUID) (db.User, error)
	GetCarByID(ctx context.Context, id int64) (db.Car, error)
	GetServicesByIDs(ctx context.Context, ids []int64) ([]db.Service, error)
	CreateTransaction(ctx context.Context, arg db.CreateTransactionParams) (db.Transaction, error)
}

// Service books rentals and records their immutable transaction snapshots.
type Service struct {
	Queries Querier
	Events  *events.Bus
	Log     zerolog.Logger
	Now     func() time.Time
}

// Input describes a booking request.
type Input struct {
	CarID      int64   `json:"car_id" validate:"required,gt=0"`
	Duration   int     `json:"duration" validate:"required,gte=1,lte=365"`
	ServiceIDs []int64 `json:"service_ids" validate:"omitempty,dive,gt=0"`
}

// LineItem is one add-on charge inside a receipt.
type LineItem struct {
	Name          string `json:"name"`
	Charge        int64  `json:"charge"`
	ChargeDisplay string `json:"charge_display"`
	IsDaily       bool   `json:"is_daily"`
}

// Receipt summarises a completed booking.
type Receipt struct {
	TransactionID     int64      `json:"transaction_id"`
	OccurredAt        time.Time  `json:"occurred_at"`
	CarModel          string     `json:"car_model"`
	Duration          int        `json:"duration"`
	BaseTotal         int64      `json:"base_total"`
	BaseTotalDisplay  string     `json:"base_total_display"`
	Services          []LineItem `json:"services"`
	FinalTotal        int64      `json:"final_total"`
	FinalTotalDisplay string     `json:"final_total_display"`
}

// Book validates the request, prices the rental, and appends the transaction.
func (s *Service) Book(ctx context.Context, userID string, in Input) (Receipt, error) {
	if s == nil || s.Queries == nil {
		return Receipt{}, errors.New("booking service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Receipt{}, common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
	}
	var uid pgtype.UUID
	if err := uid.Scan(userID); err != nil {
		return Receipt{}, common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, err)
	}
	if in.Duration < 1 {
		s.countBooking("rejected")
		return Receipt{}, common.ValidationError("duration must be at least 1 day", nil)
	}

	user, err := s.Queries.GetUserByID(ctx, uid)
	if err != nil {
		return Receipt{}, common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, err)
	}

	car, err := s.Queries.GetCarByID(ctx, in.CarID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.countBooking("rejected")
			return Receipt{}, common.NotFoundError("car not found", err)
		}
		return Receipt{}, fmt.Errorf("get car: %w", err)
	}
	if !car.IsAvailable {
		s.countBooking("rejected")
		return Receipt{}, common.NewAppError(common.CodeCarUnavailable, "car is not available for rental", http.StatusConflict, nil)
	}

	addons, services, err := s.resolveServices(ctx, in.ServiceIDs)
	if err != nil {
		s.countBooking("rejected")
		return Receipt{}, err
	}

	quote, err := pricing.Price(car.PricePerDay, in.Duration, addons)
	if err != nil {
		s.countBooking("rejected")
		return Receipt{}, common.ValidationError("invalid booking parameters", err)
	}

	occurredAt := s.now()
	tx, err := s.Queries.CreateTransaction(ctx, db.CreateTransactionParams{
		OccurredAt:   occurredAt,
		UserName:     user.Name,
		UserEmail:    user.Email,
		CarModel:     car.Name,
		Duration:     int32(in.Duration),
		ServicesUsed: servicesSnapshot(services, quote.AddonCharges),
		FinalTotal:   quote.FinalTotal,
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("create transaction: %w", err)
	}

	s.countBooking("accepted")
	if obs.BookingRevenueCentavos != nil {
		obs.BookingRevenueCentavos.Add(float64(quote.FinalTotal))
	}

	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicBookingCreated, strconv.FormatInt(tx.ID, 10), map[string]any{
			"transactionId": tx.ID,
			"userEmail":     user.Email,
			"carModel":      car.Name,
			"duration":      in.Duration,
			"finalTotal":    quote.FinalTotal,
		}); err != nil {
			s.Log.Warn().Err(err).Int64("transaction_id", tx.ID).Msg("emit booking event")
		}
	}

	items := make([]LineItem, 0, len(services))
	for i, svc := range services {
		items = append(items, LineItem{
			Name:          svc.Name,
			Charge:        quote.AddonCharges[i],
			ChargeDisplay: common.FormatPeso(quote.AddonCharges[i]),
			IsDaily:       svc.IsDaily,
		})
	}
	return Receipt{
		TransactionID:     tx.ID,
		OccurredAt:        tx.OccurredAt,
		CarModel:          car.Name,
		Duration:          in.Duration,
		BaseTotal:         quote.BaseTotal,
		BaseTotalDisplay:  common.FormatPeso(quote.BaseTotal),
		Services:          items,
		FinalTotal:        quote.FinalTotal,
		FinalTotalDisplay: common.FormatPeso(quote.FinalTotal),
	}, nil
}

func (s *Service) resolveServices(ctx context.Context, ids []int64) ([]pricing.Addon, []db.Service, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	rows, err := s.Queries.GetServicesByIDs(ctx, unique)
	if err != nil {
		return nil, nil, fmt.Errorf("get services: %w", err)
	}
	if len(rows) != len(unique) {
		return nil, nil, common.ValidationError("one or more services do not exist", nil)
	}
	addons := make([]pricing.Addon, 0, len(rows))
	for _, row := range rows {
		addons = append(addons, pricing.Addon{Name: row.Name, Price: row.Price, IsDaily: row.IsDaily})
	}
	return addons, rows, nil
}

func (s *Service) countBooking(result string) {
	if obs.BookingsTotal != nil {
		obs.BookingsTotal.WithLabelValues(result).Inc()
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// servicesSnapshot renders the denormalized services text stored on the
// transaction, e.g. "Insurance and Waivers (₱1,500.00), Driver (₱2,250.00)".
// A rental without add-ons stores the empty string; views render that as
// "None" at display time.
func servicesSnapshot(services []db.Service, charges []int64) string {
	if len(services) == 0 {
		return ""
	}
	parts := make([]string, 0, len(services))
	for i, svc := range services {
		parts = append(parts, fmt.Sprintf("%s (%s)", svc.Name, common.FormatPeso(charges[i])))
	}
	return strings.Join(parts, ", ")
}
