package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
)

// Cache keys for public catalog payloads.
const (
	cacheKeyCategories = "catalog:categories"
	cacheKeyServices   = "catalog:services"
)

type queryProvider interface {
	ListCategories(ctx context.Context) ([]db.Category, error)
	GetCategoryByID(ctx context.Context, id string) (db.Category, error)
	ListCarsByCategory(ctx context.Context, categoryID string, onlyAvailable bool) ([]db.Car, error)
	ListServices(ctx context.Context) ([]db.Service, error)
}

// Service orchestrates catalog queries, DTO assembly, and caching.
type Service struct {
	queries queryProvider
	cache   *Cache
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries queryProvider
	Cache   *Cache
}

// Category represents the public category payload.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Car represents a rentable vehicle in list responses.
type Car struct {
	ID           int64  `json:"id"`
	CategoryID   string `json:"category_id"`
	Name         string `json:"name"`
	PricePerDay  int64  `json:"price_per_day"`
	PriceDisplay string `json:"price_display"`
	IsAvailable  bool   `json:"is_available"`
}

// AddonService represents an optional extra offered with a rental.
type AddonService struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	PriceDisplay string `json:"price_display"`
	IsDaily      bool   `json:"is_daily"`
}

// CategoryCars bundles a category with its vehicles.
type CategoryCars struct {
	Category Category `json:"category"`
	Cars     []Car    `json:"cars"`
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	return &Service{queries: cfg.Queries, cache: cfg.Cache}, nil
}

// ListCategories returns all rental categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	if s.cache != nil {
		var cached []Category
		if ok, err := s.cache.GetJSON(ctx, cacheKeyCategories, &cached); err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	result := make([]Category, 0, len(rows))
	for _, row := range rows {
		result = append(result, Category{ID: row.ID, Name: row.Name})
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKeyCategories, result)
	}
	return result, nil
}

// ListCarsByCategory returns the available cars under a category. An unknown
// category id yields a not-found error rather than an empty list.
func (s *Service) ListCarsByCategory(ctx context.Context, categoryID string, onlyAvailable bool) (CategoryCars, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return CategoryCars{}, common.ValidationError("category id is required", nil)
	}
	key := carsCacheKey(categoryID, onlyAvailable)
	if s.cache != nil {
		var cached CategoryCars
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	category, err := s.queries.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CategoryCars{}, common.NotFoundError("category not found", err)
		}
		return CategoryCars{}, fmt.Errorf("get category: %w", err)
	}
	rows, err := s.queries.ListCarsByCategory(ctx, categoryID, onlyAvailable)
	if err != nil {
		return CategoryCars{}, fmt.Errorf("list cars: %w", err)
	}
	result := CategoryCars{
		Category: Category{ID: category.ID, Name: category.Name},
		Cars:     convertCars(rows),
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, result)
	}
	return result, nil
}

// ListServices returns the add-on services offered with every rental.
func (s *Service) ListServices(ctx context.Context) ([]AddonService, error) {
	if s.cache != nil {
		var cached []AddonService
		if ok, err := s.cache.GetJSON(ctx, cacheKeyServices, &cached); err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.queries.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	result := make([]AddonService, 0, len(rows))
	for _, row := range rows {
		result = append(result, AddonService{
			ID:           row.ID,
			Name:         row.Name,
			Price:        row.Price,
			PriceDisplay: common.FormatPeso(row.Price),
			IsDaily:      row.IsDaily,
		})
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKeyServices, result)
	}
	return result, nil
}

// InvalidateCars drops cached car listings after availability changes.
func (s *Service) InvalidateCars(ctx context.Context, categoryIDs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, 2*len(categoryIDs))
	for _, id := range categoryIDs {
		keys = append(keys, carsCacheKey(id, true), carsCacheKey(id, false))
	}
	_ = s.cache.Invalidate(ctx, keys...)
}

func carsCacheKey(categoryID string, onlyAvailable bool) string {
	return fmt.Sprintf("catalog:cars:%s:%t", categoryID, onlyAvailable)
}

func convertCars(rows []db.Car) []Car {
	cars := make([]Car, 0, len(rows))
	for _, row := range rows {
		cars = append(cars, Car{
			ID:           row.ID,
			CategoryID:   row.CategoryID,
			Name:         row.Name,
			PricePerDay:  row.PricePerDay,
			PriceDisplay: common.FormatPeso(row.PricePerDay),
			IsAvailable:  row.IsAvailable,
		})
	}
	return cars
}
