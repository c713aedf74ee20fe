package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fluxo/internal/http/authn"
	"github.com/MrJamesThe3rd/fluxo/internal/http/request"
	"github.com/MrJamesThe3rd/fluxo/internal/money"
	"github.com/MrJamesThe3rd/fluxo/internal/period"
	"github.com/MrJamesThe3rd/fluxo/internal/summary"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

// Amounts travel as decimal strings in major units, like the form fields.
type createTransactionRequest struct {
	Type     transaction.Type `json:"type" validate:"required,oneof=income expense"`
	Amount   string           `json:"amount" validate:"required"`
	Category string           `json:"category" validate:"max=64"`
	Note     string           `json:"note" validate:"max=500"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	amount, err := money.ParsePositiveCents(req.Amount)
	if err != nil {
		writeError(w, &transaction.ValidationError{Field: "amount", Err: err})
		return
	}

	tx, err := h.svc.Create(r.Context(), authn.OwnerID(r), transaction.CreateParams{
		Type:     req.Type,
		Amount:   amount,
		Category: req.Category,
		Note:     req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.List(r.Context(), authn.OwnerID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	if month := r.URL.Query().Get("month"); month != "" {
		if _, err := period.ParseMonthKey(month); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		txs = summary.FilterMonth(txs, month)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), authn.OwnerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), authn.OwnerID(r), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Type     *transaction.Type `json:"type,omitempty" validate:"omitempty,oneof=income expense"`
	Amount   *string           `json:"amount,omitempty"`
	Category *string           `json:"category,omitempty" validate:"omitempty,max=64"`
	Note     *string           `json:"note,omitempty" validate:"omitempty,max=500"`
	DayKey   *string           `json:"day_key,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := transaction.Patch{
		Type:     req.Type,
		Category: req.Category,
		Note:     req.Note,
		DayKey:   req.DayKey,
	}

	if req.Amount != nil {
		amount, err := money.ParsePositiveCents(*req.Amount)
		if err != nil {
			writeError(w, &transaction.ValidationError{Field: "amount", Err: err})
			return
		}

		patch.Amount = &amount
	}

	owner := authn.OwnerID(r)

	if err := h.svc.Update(r.Context(), owner, id, patch); err != nil {
		writeError(w, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), owner, id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var reqErr *request.Error

	switch {
	case errors.As(err, &reqErr):
		http.Error(w, reqErr.Msg, http.StatusBadRequest)
	case transaction.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	default:
		slog.Error("failed to handle transaction request", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
