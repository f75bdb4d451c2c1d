package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
	"github.com/noah-isme/backend-rental/internal/events"
)

type fakeBookingQueries struct {
	user         db.User
	cars         map[int64]db.Car
	services     map[int64]db.Service
	transactions []db.Transaction
}

func newFakeBookingQueries() *fakeBookingQueries {
	return &fakeBookingQueries{
		user: db.User{
			ID:    pgtype.UUID{Bytes: uuid.New(), Valid: true},
			Name:  "Test User",
			Email: "test@user.com",
		},
		cars: map[int64]db.Car{
			1: {ID: 1, CategoryID: "1", Name: "Toyota Innova (MPV)", PricePerDay: 320000, IsAvailable: true},
			2: {ID: 2, CategoryID: "1", Name: "Nissan Terra (SUV)", PricePerDay: 450000, IsAvailable: false},
		},
		services: map[int64]db.Service{
			1: {ID: 1, Name: "Insurance and Waivers", Price: 150000},
			2: {ID: 2, Name: "Driver", Price: 75000, IsDaily: true},
		},
	}
}

func (f *fakeBookingQueries) GetUserByID(_ context.Context, id pgtype.UUID) (db.User, error) {
	if id == f.user.ID {
		return f.user, nil
	}
	return db.User{}, pgx.ErrNoRows
}

func (f *fakeBookingQueries) GetCarByID(_ context.Context, id int64) (db.Car, error) {
	car, ok := f.cars[id]
	if !ok {
		return db.Car{}, pgx.ErrNoRows
	}
	return car, nil
}

func (f *fakeBookingQueries) GetServicesByIDs(_ context.Context, ids []int64) ([]db.Service, error) {
	var out []db.Service
	for _, id := range ids {
		if svc, ok := f.services[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (f *fakeBookingQueries) CreateTransaction(_ context.Context, arg db.CreateTransactionParams) (db.Transaction, error) {
	tx := db.Transaction{
		ID:           int64(len(f.transactions) + 1),
		OccurredAt:   arg.OccurredAt,
		UserName:     arg.UserName,
		UserEmail:    arg.UserEmail,
		CarModel:     arg.CarModel,
		Duration:     arg.Duration,
		ServicesUsed: arg.ServicesUsed,
		FinalTotal:   arg.FinalTotal,
	}
	f.transactions = append(f.transactions, tx)
	return tx, nil
}

type fakeEventStore struct {
	events []db.DomainEvent
}

func (f *fakeEventStore) InsertDomainEvent(_ context.Context, arg db.InsertDomainEventParams) (db.DomainEvent, error) {
	ev := db.DomainEvent{
		ID:          pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Topic:       arg.Topic,
		AggregateID: arg.AggregateID,
		Payload:     arg.Payload,
		OccurredAt:  pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	f.events = append(f.events, ev)
	return ev, nil
}

func newTestService(q *fakeBookingQueries, store events.EventStore) *Service {
	svc := &Service{Queries: q}
	if store != nil {
		svc.Events = &events.Bus{Store: store}
	}
	return svc
}

func userIDString(u db.User) string {
	id, _ := uuid.FromBytes(u.ID.Bytes[:])
	return id.String()
}

func TestBookComputesSnapshotAndTotal(t *testing.T) {
	q := newFakeBookingQueries()
	store := &fakeEventStore{}
	svc := newTestService(q, store)

	receipt, err := svc.Book(context.Background(), userIDString(q.user), Input{
		CarID:      1,
		Duration:   3,
		ServiceIDs: []int64{1, 2},
	})
	require.NoError(t, err)
	require.Equal(t, int64(960000), receipt.BaseTotal)
	require.Equal(t, int64(1335000), receipt.FinalTotal)
	require.Equal(t, "₱13,350.00", receipt.FinalTotalDisplay)
	require.Len(t, receipt.Services, 2)
	require.Equal(t, int64(150000), receipt.Services[0].Charge)
	require.Equal(t, int64(225000), receipt.Services[1].Charge)

	require.Len(t, q.transactions, 1)
	tx := q.transactions[0]
	require.Equal(t, "Test User", tx.UserName)
	require.Equal(t, "test@user.com", tx.UserEmail)
	require.Equal(t, "Toyota Innova (MPV)", tx.CarModel)
	require.Equal(t, int32(3), tx.Duration)
	require.Equal(t, "Insurance and Waivers (₱1,500.00), Driver (₱2,250.00)", tx.ServicesUsed)
	require.Equal(t, int64(1335000), tx.FinalTotal)

	require.Len(t, store.events, 1)
	require.Equal(t, events.TopicBookingCreated, store.events[0].Topic)
	require.Equal(t, "1", store.events[0].AggregateID)
}

func TestBookWithoutServicesStoresEmptySnapshot(t *testing.T) {
	q := newFakeBookingQueries()
	svc := newTestService(q, nil)

	receipt, err := svc.Book(context.Background(), userIDString(q.user), Input{CarID: 1, Duration: 2})
	require.NoError(t, err)
	require.Equal(t, int64(640000), receipt.FinalTotal)
	require.Equal(t, "", q.transactions[0].ServicesUsed)
}

func TestBookRejectsExcessiveDuration(t *testing.T) {
	q := newFakeBookingQueries()
	svc := newTestService(q, nil)

	_, err := svc.Book(context.Background(), userIDString(q.user), Input{CarID: 1, Duration: 100000})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeValidation, appErr.Code)
}

func TestBookRejectsUnavailableCar(t *testing.T) {
	q := newFakeBookingQueries()
	svc := newTestService(q, nil)

	_, err := svc.Book(context.Background(), userIDString(q.user), Input{CarID: 2, Duration: 1})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeCarUnavailable, appErr.Code)
	require.Empty(t, q.transactions)
}

func TestBookRejectsUnknownCar(t *testing.T) {
	q := newFakeBookingQueries()
	svc := newTestService(q, nil)

	_, err := svc.Book(context.Background(), userIDString(q.user), Input{CarID: 99, Duration: 1})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeNotFound, appErr.Code)
}

func TestBookRejectsBadDuration(t *testing.T) {
	q := newFakeBookingQueries()
	svc := newTestService(q, nil)

	_, err := svc.Book(context.Background(), userIDString(q.user), Input{CarID: 1, Duration: 0})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeValidation, appErr.Code)
}

func TestBookRejectsUnknownService(t *testing.T) {
	q := newFakeBookingQueries()
	svc := newTestService(q, nil)

	_, err := svc.Book(context.Background(), userIDString(q.user), Input{
		CarID:      1,
		Duration:   1,
		ServiceIDs: []int64{1, 99},
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeValidation, appErr.Code)
	require.Empty(t, q.transactions)
}

func TestBookDeduplicatesServiceIDs(t *testing.T) {
	q := newFakeBookingQueries()
	svc := newTestService(q, nil)

	receipt, err := svc.Book(context.Background(), userIDString(q.user), Input{
		CarID:      1,
		Duration:   1,
		ServiceIDs: []int64{1, 1, 1},
	})
	require.NoError(t, err)
	require.Len(t, receipt.Services, 1)
	require.Equal(t, int64(320000+150000), receipt.FinalTotal)
}
