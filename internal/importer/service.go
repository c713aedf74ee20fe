package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

// Creator stores a batch of parsed records atomically.
type Creator interface {
	CreateBatch(ctx context.Context, ownerID uuid.UUID, params []transaction.ImportParams) ([]*transaction.Transaction, error)
}

type Service struct {
	parser *Parser
	txs    Creator
}

func NewService(txs Creator) *Service {
	return &Service{
		parser: NewParser(),
		txs:    txs,
	}
}

// Import parses r and stores every row for ownerID. Nothing is stored when
// any row is invalid.
func (s *Service) Import(ctx context.Context, ownerID uuid.UUID, r io.Reader) ([]*transaction.Transaction, error) {
	params, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	created, err := s.txs.CreateBatch(ctx, ownerID, params)
	if err != nil {
		return nil, fmt.Errorf("store imported rows: %w", err)
	}

	if created == nil {
		created = []*transaction.Transaction{}
	}

	return created, nil
}
