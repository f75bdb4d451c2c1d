package reports

import (
	"net/http"
	"strconv"
	"time"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
)

// Handler exposes admin reporting endpoints.
type Handler struct {
	Service *Service
}

// TransactionView is the admin-facing booking record payload.
type TransactionView struct {
	ID           int64     `json:"id"`
	OccurredAt   time.Time `json:"occurred_at"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	CarModel     string    `json:"car_model"`
	Duration     int32     `json:"duration"`
	ServicesUsed string    `json:"services_used"`
	FinalTotal   int64     `json:"final_total"`
	TotalDisplay string    `json:"total_display"`
}

// Transactions handles GET /api/v1/admin/transactions.
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "reports service not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	if perPage > 100 {
		perPage = 100
	}
	txs, err := h.Service.Transactions(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	total := len(txs)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	views := make([]TransactionView, 0, end-start)
	for _, tx := range txs[start:end] {
		views = append(views, convertTransaction(tx))
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	common.JSON(w, http.StatusOK, map[string]any{
		"data": views,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: total,
		},
	})
}

// Summary handles GET /api/v1/admin/reports/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "reports service not configured", nil)
		return
	}
	summary, err := h.Service.Summarize(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}

// TopCars handles GET /api/v1/admin/reports/top-cars.
func (h *Handler) TopCars(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "reports service not configured", nil)
		return
	}
	limit := common.AtoiDefault(r.URL.Query().Get("limit"), 0)
	counts, err := h.Service.TopCars(r.Context(), limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": counts})
}

// WeeklyRevenue handles GET /api/v1/admin/reports/weekly-revenue.
func (h *Handler) WeeklyRevenue(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "reports service not configured", nil)
		return
	}
	weeks, err := h.Service.Weekly(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if weeks == nil {
		weeks = []WeekBucket{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": weeks})
}

func convertTransaction(tx db.Transaction) TransactionView {
	servicesUsed := tx.ServicesUsed
	if servicesUsed == "" {
		servicesUsed = "None"
	}
	return TransactionView{
		ID:           tx.ID,
		OccurredAt:   tx.OccurredAt,
		UserName:     tx.UserName,
		UserEmail:    tx.UserEmail,
		CarModel:     tx.CarModel,
		Duration:     tx.Duration,
		ServicesUsed: servicesUsed,
		FinalTotal:   tx.FinalTotal,
		TotalDisplay: common.FormatPeso(tx.FinalTotal),
	}
}
