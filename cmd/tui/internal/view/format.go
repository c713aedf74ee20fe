package view

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount stored as cents for display.
func (a *App) FormatAmount(cents int64) string {
	return a.Money.Format(cents)
}

// FormatRecordAmount prefixes the sign of the record type.
func (a *App) FormatRecordAmount(tx *transaction.Transaction) string {
	return a.Money.FormatSigned(tx.Amount, tx.Type == transaction.TypeIncome)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
