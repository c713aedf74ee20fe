// Package report serves the monthly views: summary, chart and CSV export.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fluxo/internal/http/authn"
	"github.com/MrJamesThe3rd/fluxo/internal/money"
	"github.com/MrJamesThe3rd/fluxo/internal/period"
	"github.com/MrJamesThe3rd/fluxo/internal/report"
	"github.com/MrJamesThe3rd/fluxo/internal/summary"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

type Handler struct {
	svc    *transaction.Service
	format *money.Formatter
	now    func() time.Time
}

func NewHandler(svc *transaction.Service, format *money.Formatter) *Handler {
	return &Handler{
		svc:    svc,
		format: format,
		now:    time.Now,
	}
}

// WithClock replaces the clock that picks the default month.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/chart", h.chart)
	r.Get("/export", h.export)
}

type totalsResponse struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

type categoryResponse struct {
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
}

type summaryResponse struct {
	Month          string             `json:"month"`
	Label          string             `json:"label"`
	PreviousMonth  string             `json:"previous_month"`
	Current        totalsResponse     `json:"current"`
	Previous       totalsResponse     `json:"previous"`
	Delta          int64              `json:"delta"`
	DeltaFormatted string             `json:"delta_formatted"`
	Categories     []categoryResponse `json:"categories"`
	Count          int                `json:"count"`
}

type sliceResponse struct {
	Label string  `json:"label"`
	Value int64   `json:"value"`
	Color string  `json:"color"`
	Share float64 `json:"share"`
}

type chartResponse struct {
	Month   string          `json:"month"`
	Empty   bool            `json:"empty"`
	Message string          `json:"message,omitempty"`
	Total   int64           `json:"total"`
	Slices  []sliceResponse `json:"slices"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}

	resp := summaryResponse{
		Month:          s.Month,
		Label:          period.MonthLabel(s.Month, h.format.Tag()),
		PreviousMonth:  s.PreviousMonth,
		Current:        toTotals(s.Current),
		Previous:       toTotals(s.Previous),
		Delta:          s.Delta,
		DeltaFormatted: h.format.Format(s.Delta),
		Categories:     make([]categoryResponse, len(s.Categories)),
		Count:          len(s.Transactions),
	}

	for i, c := range s.Categories {
		resp.Categories[i] = categoryResponse{Name: c.Name, Amount: c.Amount, Formatted: h.format.Format(c.Amount)}
	}

	writeJSON(w, resp)
}

func (h *Handler) chart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}

	c := report.BuildChart(s.Categories)

	resp := chartResponse{
		Month:  s.Month,
		Empty:  c.Empty,
		Total:  c.Total,
		Slices: make([]sliceResponse, len(c.Slices)),
	}

	if c.Empty {
		resp.Message = report.EmptyChartMessage
	}

	for i, sl := range c.Slices {
		resp.Slices[i] = sliceResponse{Label: sl.Label, Value: sl.Value, Color: sl.Color, Share: c.Share(i)}
	}

	writeJSON(w, resp)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.CSVFilename(s.Month)))

	if err := report.WriteCSV(w, s.Transactions); err != nil {
		slog.Error("failed to write csv export", "error", err, "month", s.Month)
	}
}

// load summarizes the month of the request, writing the error response
// itself when it fails.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (summary.MonthSummary, bool) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = period.MonthKey(h.now())
	}

	if _, err := period.ParseMonthKey(month); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return summary.MonthSummary{}, false
	}

	txs, err := h.svc.List(r.Context(), authn.OwnerID(r))
	if err != nil {
		slog.Error("failed to list transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return summary.MonthSummary{}, false
	}

	s, err := summary.Summarize(txs, month)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, period.ErrInvalidMonthKey) {
			status = http.StatusBadRequest
		}

		http.Error(w, err.Error(), status)

		return summary.MonthSummary{}, false
	}

	return s, true
}

func toTotals(t summary.Totals) totalsResponse {
	return totalsResponse{Income: t.Income, Expense: t.Expense, Balance: t.Balance}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
