package fleet

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/backend-rental/internal/common"
)

// Handler exposes admin fleet endpoints.
type Handler struct {
	Service    *Service
	Invalidate func(r *http.Request, categoryIDs []string)
}

type availabilityRequest struct {
	CarIDs    []int64 `json:"car_ids"`
	Available *bool   `json:"available"`
}

// Cars handles GET /api/v1/admin/cars.
func (h *Handler) Cars(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "fleet service not configured", nil)
		return
	}
	cars, err := h.Service.ListCars(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	views := make([]carView, 0, len(cars))
	for _, car := range cars {
		views = append(views, carView{
			ID:           car.ID,
			CategoryID:   car.CategoryID,
			Name:         car.Name,
			PricePerDay:  car.PricePerDay,
			PriceDisplay: common.FormatPeso(car.PricePerDay),
			IsAvailable:  car.IsAvailable,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// SetAvailability handles PATCH /api/v1/admin/cars/availability.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "fleet service not configured", nil)
		return
	}
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid request payload", nil)
		return
	}
	if req.Available == nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "available is required", nil)
		return
	}
	result, err := h.Service.SetAvailability(r.Context(), req.CarIDs, *req.Available)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if h.Invalidate != nil {
		h.Invalidate(r, result.CategoryIDs)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

type carView struct {
	ID           int64  `json:"id"`
	CategoryID   string `json:"category_id"`
	Name         string `json:"name"`
	PricePerDay  int64  `json:"price_per_day"`
	PriceDisplay string `json:"price_display"`
	IsAvailable  bool   `json:"is_available"`
}
