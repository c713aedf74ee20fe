package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// DefaultCategory is used whenever a category is left blank.
const DefaultCategory = "otros"

// Categories is the suggestion list offered by forms. It is not enforced:
// any non-empty category is stored and aggregated as-is.
var Categories = []string{
	"comida",
	"transporte",
	"hogar",
	"servicios",
	"salud",
	"ocio",
	"compras",
	"otros",
}

// Transaction represents a single income or expense owned by one user.
type Transaction struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Type      Type
	Amount    int64 // Amount in cents, zero when missing in storage
	Category  string
	Note      string
	DayKey    string // YYYY-MM-DD
	CreatedAt time.Time
	UpdatedAt *time.Time
}
