package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fluxo/internal/http/authn"
	"github.com/MrJamesThe3rd/fluxo/internal/importer"
	"github.com/MrJamesThe3rd/fluxo/internal/money"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

// maxUpload caps the multipart form kept in memory.
const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type transactionResponse struct {
	ID        uuid.UUID        `json:"id"`
	Type      transaction.Type `json:"type"`
	Amount    int64            `json:"amount"`
	AmountARS string           `json:"amount_ars"`
	Category  string           `json:"category"`
	Note      string           `json:"note"`
	DayKey    string           `json:"day_key"`
	CreatedAt time.Time        `json:"created_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	txs, err := h.importSvc.Import(r.Context(), authn.OwnerID(r), file)
	if err != nil {
		var rowErr *importer.RowError

		switch {
		case errors.As(err, &rowErr),
			errors.Is(err, importer.ErrEmptyFile),
			errors.Is(err, importer.ErrMissingColumn),
			transaction.IsValidation(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			slog.Error("failed to import csv", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, transactionResponse{
			ID:        tx.ID,
			Type:      tx.Type,
			Amount:    tx.Amount,
			AmountARS: money.Major(tx.Amount),
			Category:  tx.Category,
			Note:      tx.Note,
			DayKey:    tx.DayKey,
			CreatedAt: tx.CreatedAt,
		})
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}
