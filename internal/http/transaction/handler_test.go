package transaction_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fluxo/internal/auth"
	"github.com/MrJamesThe3rd/fluxo/internal/http/authn"
	httptx "github.com/MrJamesThe3rd/fluxo/internal/http/transaction"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

var today = time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)

func newServer(t *testing.T) (http.Handler, *transaction.MockRepository, uuid.UUID) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	owner := uuid.New()

	svc := transaction.NewService(repo).WithClock(func() time.Time { return today })

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := authn.WithUser(req.Context(), &auth.User{ID: owner, Email: "ana@example.com"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/transactions", httptx.NewHandler(svc).Routes)

	return r, repo, owner
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(repo *transaction.MockRepository, owner uuid.UUID)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "created with today's day key",
			body: `{"type":"expense","amount":"1250,50","category":"comida","note":"almuerzo"}`,
			setupMock: func(repo *transaction.MockRepository, owner uuid.UUID) {
				repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, owner, tx.OwnerID)
						assert.Equal(t, int64(125050), tx.Amount)
						assert.Equal(t, "2025-03-05", tx.DayKey)
						tx.ID = uuid.New()

						return nil
					})
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"amount_ars":"1250.50"`,
		},
		{
			name:       "invalid amount",
			body:       `{"type":"expense","amount":"abc"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "amount: invalid amount",
		},
		{
			name:       "zero amount",
			body:       `{"type":"income","amount":"0"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "amount: invalid amount",
		},
		{
			name:       "invalid type",
			body:       `{"type":"transfer","amount":"10"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "type must be one of",
		},
		{
			name: "store failure hides details",
			body: `{"type":"income","amount":"10"}`,
			setupMock: func(repo *transaction.MockRepository, _ uuid.UUID) {
				repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(errors.New("pq: connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo, owner := newServer(t)
			if tt.setupMock != nil {
				tt.setupMock(repo, owner)
			}

			rec := do(h, http.MethodPost, "/transactions/", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestHandler_ListByMonth(t *testing.T) {
	h, repo, owner := newServer(t)

	repo.EXPECT().ListTransactions(gomock.Any(), owner).Return([]*transaction.Transaction{
		{ID: uuid.New(), Type: transaction.TypeIncome, Amount: 100, DayKey: "2025-03-01"},
		{ID: uuid.New(), Type: transaction.TypeExpense, Amount: 200, DayKey: "2025-02-28"},
		{ID: uuid.New(), Type: transaction.TypeExpense, Amount: 300, DayKey: "garbage"},
	}, nil)

	rec := do(h, http.MethodGet, "/transactions/?month=2025-03", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "2025-03-01", got[0]["day_key"])
}

func TestHandler_ListInvalidMonth(t *testing.T) {
	h, repo, owner := newServer(t)
	repo.EXPECT().ListTransactions(gomock.Any(), owner).Return(nil, nil)

	rec := do(h, http.MethodGet, "/transactions/?month=2025-13", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Get(t *testing.T) {
	h, repo, owner := newServer(t)
	id := uuid.New()

	repo.EXPECT().GetTransaction(gomock.Any(), owner, id).Return(nil, transaction.ErrNotFound)

	rec := do(h, http.MethodGet, "/transactions/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodGet, "/transactions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Update(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(repo *transaction.MockRepository, owner, id uuid.UUID)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "note only",
			body: `{"note":"nuevo"}`,
			setupMock: func(repo *transaction.MockRepository, owner, id uuid.UUID) {
				repo.EXPECT().UpdateTransaction(gomock.Any(), owner, id, transaction.Patch{Note: new("nuevo")}).Return(nil)
				repo.EXPECT().GetTransaction(gomock.Any(), owner, id).
					Return(&transaction.Transaction{ID: id, Note: "nuevo", DayKey: "2025-03-01"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid day key never reaches the store",
			body:       `{"day_key":"2025-13-01"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid amount",
			body:       `{"amount":"-3"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown record",
			body: `{"amount":"10.00"}`,
			setupMock: func(repo *transaction.MockRepository, owner, id uuid.UUID) {
				repo.EXPECT().UpdateTransaction(gomock.Any(), owner, id, transaction.Patch{Amount: new(int64(1000))}).
					Return(transaction.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo, owner := newServer(t)
			id := uuid.New()

			if tt.setupMock != nil {
				tt.setupMock(repo, owner, id)
			}

			rec := do(h, http.MethodPatch, "/transactions/"+id.String(), tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	h, repo, owner := newServer(t)
	id := uuid.New()

	repo.EXPECT().DeleteTransaction(gomock.Any(), owner, id).Return(nil)

	rec := do(h, http.MethodDelete, "/transactions/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
