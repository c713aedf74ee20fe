// Package summary derives the monthly view of a flat transaction list:
// totals for the selected and previous month, the balance delta between
// them, and the expense breakdown by category.
package summary

import (
	"fmt"

	"github.com/MrJamesThe3rd/fluxo/internal/period"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

// Totals is the income/expense/balance triple of a set of transactions.
type Totals struct {
	Income  int64
	Expense int64
	Balance int64
}

// CategoryAmount is the expense total of one category.
type CategoryAmount struct {
	Name   string
	Amount int64
}

// MonthSummary is the aggregated view of one month.
type MonthSummary struct {
	Month         string
	PreviousMonth string

	// Transactions holds the records of Month in the input order.
	Transactions []*transaction.Transaction

	Current  Totals
	Previous Totals
	Delta    int64

	Categories []CategoryAmount
}

// Summarize aggregates all records for month (YYYY-MM). Records with a
// malformed day key fall into no month.
func Summarize(all []*transaction.Transaction, month string) (MonthSummary, error) {
	prev, err := period.PreviousMonthKey(month)
	if err != nil {
		return MonthSummary{}, fmt.Errorf("summarizing %q: %w", month, err)
	}

	current := FilterMonth(all, month)
	previous := FilterMonth(all, prev)

	s := MonthSummary{
		Month:         month,
		PreviousMonth: prev,
		Transactions:  current,
		Current:       TotalsOf(current),
		Previous:      TotalsOf(previous),
		Categories:    Breakdown(current),
	}
	s.Delta = s.Current.Balance - s.Previous.Balance

	return s, nil
}

// FilterMonth keeps the records whose day key falls in month, preserving order.
func FilterMonth(txs []*transaction.Transaction, month string) []*transaction.Transaction {
	out := []*transaction.Transaction{}

	for _, tx := range txs {
		if tx != nil && period.InMonth(tx.DayKey, month) {
			out = append(out, tx)
		}
	}

	return out
}

func TotalsOf(txs []*transaction.Transaction) Totals {
	var t Totals

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			t.Income += tx.Amount
		case transaction.TypeExpense:
			t.Expense += tx.Amount
		}
	}

	t.Balance = t.Income - t.Expense

	return t
}

// Breakdown sums expenses per category in order of first occurrence.
func Breakdown(txs []*transaction.Transaction) []CategoryAmount {
	out := []CategoryAmount{}
	index := make(map[string]int)

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryAmount{Name: tx.Category})
		}

		out[i].Amount += tx.Amount
	}

	return out
}
