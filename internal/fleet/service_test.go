package fleet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
)

type fakeStore struct {
	cars map[int64]db.Car
}

func newFakeStore() *fakeStore {
	return &fakeStore{cars: map[int64]db.Car{
		1: {ID: 1, CategoryID: "1", Name: "Toyota Innova (MPV)", PricePerDay: 320000, IsAvailable: true},
		2: {ID: 2, CategoryID: "1", Name: "Nissan Terra (SUV)", PricePerDay: 450000, IsAvailable: true},
		3: {ID: 3, CategoryID: "2", Name: "Toyota Vios / Honda City", PricePerDay: 175000, IsAvailable: false},
	}}
}

func (f *fakeStore) ListCars(_ context.Context, onlyAvailable bool) ([]db.Car, error) {
	var out []db.Car
	for id := int64(1); id <= int64(len(f.cars)); id++ {
		car := f.cars[id]
		if onlyAvailable && !car.IsAvailable {
			continue
		}
		out = append(out, car)
	}
	return out, nil
}

func (f *fakeStore) SetCarsAvailability(_ context.Context, ids []int64, available bool) (int64, []string, error) {
	var matched int64
	var categories []string
	seen := map[string]struct{}{}
	for _, id := range ids {
		car, ok := f.cars[id]
		if !ok {
			continue
		}
		car.IsAvailable = available
		f.cars[id] = car
		matched++
		if _, ok := seen[car.CategoryID]; !ok {
			seen[car.CategoryID] = struct{}{}
			categories = append(categories, car.CategoryID)
		}
	}
	return matched, categories, nil
}

func TestSetAvailabilitySkipsUnknownIDs(t *testing.T) {
	store := newFakeStore()
	svc := &Service{Store: store}

	result, err := svc.SetAvailability(context.Background(), []int64{1, 2, 99}, false)
	require.NoError(t, err)
	require.Equal(t, 3, result.Requested)
	require.Equal(t, int64(2), result.Updated)
	require.Equal(t, []string{"1"}, result.CategoryIDs)
	require.False(t, store.cars[1].IsAvailable)
	require.False(t, store.cars[2].IsAvailable)
}

func TestSetAvailabilityNoMatches(t *testing.T) {
	svc := &Service{Store: newFakeStore()}

	_, err := svc.SetAvailability(context.Background(), []int64{98, 99}, true)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeNotFound, appErr.Code)
}

func TestSetAvailabilityEmptyRequest(t *testing.T) {
	svc := &Service{Store: newFakeStore()}

	_, err := svc.SetAvailability(context.Background(), nil, true)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeValidation, appErr.Code)
}

func TestSetAvailabilityReapplySameState(t *testing.T) {
	store := newFakeStore()
	svc := &Service{Store: store}

	result, err := svc.SetAvailability(context.Background(), []int64{1}, true)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Updated)
}

func TestAvailabilityHandler(t *testing.T) {
	store := newFakeStore()
	var invalidated []string
	handler := Handler{
		Service: &Service{Store: store},
		Invalidate: func(_ *http.Request, categoryIDs []string) {
			invalidated = categoryIDs
		},
	}

	body := strings.NewReader(`{"car_ids":[1,3],"available":true}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/cars/availability", body)
	rec := httptest.NewRecorder()
	handler.SetAvailability(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"1", "2"}, invalidated)

	var resp struct {
		Data UpdateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(2), resp.Data.Updated)
	require.True(t, store.cars[3].IsAvailable)
}

func TestAvailabilityHandlerRequiresFlag(t *testing.T) {
	handler := Handler{Service: &Service{Store: newFakeStore()}}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/cars/availability", strings.NewReader(`{"car_ids":[1]}`))
	rec := httptest.NewRecorder()
	handler.SetAvailability(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCarsIncludesUnavailable(t *testing.T) {
	svc := &Service{Store: newFakeStore()}
	cars, err := svc.ListCars(context.Background())
	require.NoError(t, err)
	require.Len(t, cars, 3)
}
