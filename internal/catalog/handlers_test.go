package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-rental/internal/catalog"
	"github.com/noah-isme/backend-rental/internal/db"
)

type fakeCatalogQueries struct {
	categories []db.Category
	cars       []db.Car
	services   []db.Service
	carCalls   int
}

func newFakeCatalogQueries() *fakeCatalogQueries {
	return &fakeCatalogQueries{
		categories: []db.Category{
			{ID: "1", Name: "6 Seaters (SUVs, MPVs, Vans)"},
			{ID: "2", Name: "4 Seaters (Sedans & Specialty)"},
		},
		cars: []db.Car{
			{ID: 1, CategoryID: "1", Name: "Toyota Innova (MPV)", PricePerDay: 320000, IsAvailable: true},
			{ID: 2, CategoryID: "1", Name: "Nissan Terra (SUV)", PricePerDay: 450000, IsAvailable: false},
			{ID: 3, CategoryID: "2", Name: "Toyota Vios / Honda City", PricePerDay: 175000, IsAvailable: true},
		},
		services: []db.Service{
			{ID: 1, Name: "Insurance and Waivers", Price: 150000},
			{ID: 2, Name: "RFID Pass (Toll Fees)", Price: 75000},
		},
	}
}

func (f *fakeCatalogQueries) ListCategories(context.Context) ([]db.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalogQueries) GetCategoryByID(_ context.Context, id string) (db.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return db.Category{}, pgx.ErrNoRows
}

func (f *fakeCatalogQueries) ListCarsByCategory(_ context.Context, categoryID string, onlyAvailable bool) ([]db.Car, error) {
	f.carCalls++
	var out []db.Car
	for _, c := range f.cars {
		if c.CategoryID != categoryID {
			continue
		}
		if onlyAvailable && !c.IsAvailable {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCatalogQueries) ListServices(context.Context) ([]db.Service, error) {
	return f.services, nil
}

func newTestRouter(t *testing.T, svc *catalog.Service) *chi.Mux {
	t.Helper()
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})
	router := chi.NewRouter()
	router.Get("/api/v1/categories", handler.Categories)
	router.Get("/api/v1/categories/{id}/cars", handler.CategoryCars)
	router.Get("/api/v1/services", handler.Services)
	return router
}

func TestCategoriesEndpoint(t *testing.T) {
	svc, err := catalog.NewService(catalog.ServiceConfig{Queries: newFakeCatalogQueries()})
	require.NoError(t, err)
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []catalog.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, "6 Seaters (SUVs, MPVs, Vans)", body.Data[0].Name)
}

func TestCategoryCarsFiltersAvailability(t *testing.T) {
	svc, err := catalog.NewService(catalog.ServiceConfig{Queries: newFakeCatalogQueries()})
	require.NoError(t, err)
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories/1/cars", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data catalog.CategoryCars `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "1", body.Data.Category.ID)
	require.Len(t, body.Data.Cars, 1)
	require.Equal(t, "Toyota Innova (MPV)", body.Data.Cars[0].Name)
	require.Equal(t, "₱3,200.00", body.Data.Cars[0].PriceDisplay)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories/1/cars?available=false", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Cars, 2)
}

func TestCategoryCarsUnknownCategory(t *testing.T) {
	svc, err := catalog.NewService(catalog.ServiceConfig{Queries: newFakeCatalogQueries()})
	require.NoError(t, err)
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories/99/cars", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestServicesEndpoint(t *testing.T) {
	svc, err := catalog.NewService(catalog.ServiceConfig{Queries: newFakeCatalogQueries()})
	require.NoError(t, err)
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/services", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []catalog.AddonService `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, "₱1,500.00", body.Data[0].PriceDisplay)
}

func TestCategoryCarsServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	queries := newFakeCatalogQueries()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Queries: queries,
		Cache:   catalog.NewCache(client, time.Minute),
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.ListCarsByCategory(ctx, "1", true)
	require.NoError(t, err)
	_, err = svc.ListCarsByCategory(ctx, "1", true)
	require.NoError(t, err)
	require.Equal(t, 1, queries.carCalls)

	svc.InvalidateCars(ctx, "1")
	_, err = svc.ListCarsByCategory(ctx, "1", true)
	require.NoError(t, err)
	require.Equal(t, 2, queries.carCalls)
}
