package reports_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
	"github.com/noah-isme/backend-rental/internal/reports"
)

type fakeLedger struct {
	txs   []db.Transaction
	calls int
}

func (f *fakeLedger) ListTransactions(context.Context) ([]db.Transaction, error) {
	f.calls++
	return f.txs, nil
}

func sampleLedger() *fakeLedger {
	at := func(d int) time.Time { return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC) }
	return &fakeLedger{txs: []db.Transaction{
		{ID: 3, OccurredAt: at(20), UserName: "Test User", UserEmail: "test@user.com", CarModel: "Mazda 3", Duration: 2, ServicesUsed: "Insurance and Waivers (₱1,500.00)", FinalTotal: 440000},
		{ID: 2, OccurredAt: at(4), UserName: "Test User", UserEmail: "test@user.com", CarModel: "Toyota Vios / Honda City", Duration: 1, ServicesUsed: "", FinalTotal: 175000},
		{ID: 1, OccurredAt: at(2), UserName: "Test User", UserEmail: "test@user.com", CarModel: "Toyota Vios / Honda City", Duration: 1, ServicesUsed: "", FinalTotal: 175000},
	}}
}

func TestSummarize(t *testing.T) {
	svc := &reports.Service{Q: sampleLedger()}
	summary, err := svc.Summarize(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, summary.TransactionCount)
	require.Equal(t, int64(790000), summary.RevenueTotal)
	require.Equal(t, "₱7,900.00", summary.RevenueDisplay)
}

func TestTopCarsLimit(t *testing.T) {
	svc := &reports.Service{Q: sampleLedger()}
	counts, err := svc.TopCars(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, []reports.CarCount{{CarModel: "Toyota Vios / Honda City", Rentals: 2}}, counts)
}

func TestWeeklyThroughService(t *testing.T) {
	svc := &reports.Service{Q: sampleLedger()}
	weeks, err := svc.Weekly(context.Background())
	require.NoError(t, err)
	require.Len(t, weeks, 3)
	require.Equal(t, int64(350000), weeks[0].Revenue)
	require.Equal(t, int64(0), weeks[1].Revenue)
	require.Equal(t, int64(440000), weeks[2].Revenue)
}

func TestSummaryUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ledger := sampleLedger()
	svc := &reports.Service{Q: ledger, R: client, TTL: time.Minute}

	_, err := svc.Summarize(context.Background())
	require.NoError(t, err)
	_, err = svc.Summarize(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, ledger.calls)
}

func TestTransactionsEndpoint(t *testing.T) {
	handler := reports.Handler{Service: &reports.Service{Q: sampleLedger()}}
	rec := httptest.NewRecorder()
	handler.Transactions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/transactions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []reports.TransactionView `json:"data"`
		Pagination common.Pagination         `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 3)
	require.Equal(t, int64(3), body.Data[0].ID)
	require.Equal(t, "₱4,400.00", body.Data[0].TotalDisplay)
	require.Equal(t, "None", body.Data[1].ServicesUsed)
	require.Equal(t, 3, body.Pagination.TotalItems)
	require.Equal(t, "3", rec.Header().Get("X-Total-Count"))
}

func TestTransactionsEndpointPagination(t *testing.T) {
	handler := reports.Handler{Service: &reports.Service{Q: sampleLedger()}}
	rec := httptest.NewRecorder()
	handler.Transactions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/transactions?page=2&limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []reports.TransactionView `json:"data"`
		Pagination common.Pagination         `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, int64(1), body.Data[0].ID)
	require.Equal(t, 2, body.Pagination.Page)
	require.Equal(t, 2, body.Pagination.PerPage)
	require.Equal(t, 3, body.Pagination.TotalItems)
}

func TestWeeklyRevenueEndpointEmptyLedger(t *testing.T) {
	handler := reports.Handler{Service: &reports.Service{Q: &fakeLedger{}}}
	rec := httptest.NewRecorder()
	handler.WeeklyRevenue(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports/weekly-revenue", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":[]}`, rec.Body.String())
}
