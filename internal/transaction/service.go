package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fluxo/internal/period"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]*Transaction, error)
	UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, patch Patch) error
	DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error

	BeginImport(ctx context.Context, ownerID uuid.UUID) (ImportTx, error)
}

type ImportTx interface {
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the clock used to stamp the day key of new transactions.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateParams struct {
	Type     Type
	Amount   int64
	Category string
	Note     string
}

// ImportParams carries a record whose day key is already known.
type ImportParams struct {
	CreateParams
	DayKey string
}

// Patch holds the fields of an update. Nil fields are left untouched.
type Patch struct {
	Type     *Type
	Amount   *int64
	Category *string
	Note     *string
	DayKey   *string
}

func (p Patch) IsEmpty() bool {
	return p.Type == nil && p.Amount == nil && p.Category == nil && p.Note == nil && p.DayKey == nil
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*Transaction, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	tx := &Transaction{
		OwnerID:  ownerID,
		Type:     params.Type,
		Amount:   params.Amount,
		Category: normalizeCategory(params.Category),
		Note:     params.Note,
		DayKey:   period.DayKey(s.now()),
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if txs == nil {
		txs = []*Transaction{}
	}

	return txs, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, ownerID, id)
}

// Update validates the patch and writes only the provided fields.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, patch Patch) error {
	if err := patch.validate(); err != nil {
		return err
	}

	if patch.IsEmpty() {
		return nil
	}

	if patch.Category != nil {
		patch.Category = new(normalizeCategory(*patch.Category))
	}

	return s.repo.UpdateTransaction(ctx, ownerID, id, patch)
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, ownerID, id)
}

// CreateBatch stores all params in a single database transaction. Nothing is
// written when any row fails validation.
func (s *Service) CreateBatch(ctx context.Context, ownerID uuid.UUID, params []ImportParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs := make([]*Transaction, len(params))

	for i, p := range params {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		if !period.ValidDayKey(p.DayKey) {
			return nil, fmt.Errorf("row %d: %w", i+1, &ValidationError{Field: "day_key", Err: ErrInvalidDayKey})
		}

		txs[i] = &Transaction{
			OwnerID:  ownerID,
			Type:     p.Type,
			Amount:   p.Amount,
			Category: normalizeCategory(p.Category),
			Note:     p.Note,
			DayKey:   p.DayKey,
		}
	}

	itx, err := s.repo.BeginImport(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func (p CreateParams) validate() error {
	if !p.Type.Valid() {
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}

	if p.Amount <= 0 {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}

	return nil
}

func (p Patch) validate() error {
	if p.Type != nil && !p.Type.Valid() {
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}

	if p.Amount != nil && *p.Amount <= 0 {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}

	if p.DayKey != nil && !period.ValidDayKey(*p.DayKey) {
		return &ValidationError{Field: "day_key", Err: ErrInvalidDayKey}
	}

	return nil
}

func normalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return DefaultCategory
	}

	return c
}
