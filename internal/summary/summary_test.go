package summary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fluxo/internal/period"
	"github.com/MrJamesThe3rd/fluxo/internal/summary"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

func tx(day string, typ transaction.Type, amount int64, category string) *transaction.Transaction {
	return &transaction.Transaction{DayKey: day, Type: typ, Amount: amount, Category: category}
}

func sample() []*transaction.Transaction {
	return []*transaction.Transaction{
		tx("2025-03-20", transaction.TypeExpense, 1500, "ocio"),
		tx("2025-03-05", transaction.TypeIncome, 100000, "sueldo"),
		tx("2025-03-04", transaction.TypeExpense, 2500, "comida"),
		tx("2025-03-03", transaction.TypeExpense, 500, "ocio"),
		tx("2025-03-02", transaction.TypeExpense, 700, "mascotas"),
		tx("2025-02-28", transaction.TypeIncome, 90000, "sueldo"),
		tx("2025-02-10", transaction.TypeExpense, 10000, "hogar"),
		tx("2024-03-10", transaction.TypeExpense, 999, "comida"),
		tx("garbage", transaction.TypeExpense, 12345, "comida"),
		tx("", transaction.TypeIncome, 12345, "otros"),
	}
}

func TestSummarize(t *testing.T) {
	got, err := summary.Summarize(sample(), "2025-03")
	require.NoError(t, err)

	assert.Equal(t, "2025-03", got.Month)
	assert.Equal(t, "2025-02", got.PreviousMonth)
	assert.Len(t, got.Transactions, 5)
	assert.Equal(t, "2025-03-20", got.Transactions[0].DayKey)

	assert.Equal(t, summary.Totals{Income: 100000, Expense: 5200, Balance: 94800}, got.Current)
	assert.Equal(t, summary.Totals{Income: 90000, Expense: 10000, Balance: 80000}, got.Previous)
	assert.Equal(t, int64(14800), got.Delta)

	assert.Equal(t, []summary.CategoryAmount{
		{Name: "ocio", Amount: 2000},
		{Name: "comida", Amount: 2500},
		{Name: "mascotas", Amount: 700},
	}, got.Categories)
}

func TestSummarize_Invariants(t *testing.T) {
	all := sample()

	for _, month := range []string{"2025-03", "2025-02", "2024-03", "2023-01"} {
		got, err := summary.Summarize(all, month)
		require.NoError(t, err)

		assert.Equal(t, got.Current.Income-got.Current.Expense, got.Current.Balance, month)
		assert.Equal(t, got.Previous.Income-got.Previous.Expense, got.Previous.Balance, month)

		var categoryTotal int64
		for _, c := range got.Categories {
			categoryTotal += c.Amount
			assert.NotEqual(t, "sueldo", c.Name, "income must not reach the breakdown")
		}

		assert.Equal(t, got.Current.Expense, categoryTotal, month)
	}
}

func TestSummarize_YearRollover(t *testing.T) {
	all := []*transaction.Transaction{
		tx("2024-12-31", transaction.TypeIncome, 300, "otros"),
		tx("2025-01-01", transaction.TypeIncome, 100, "otros"),
	}

	got, err := summary.Summarize(all, "2025-01")
	require.NoError(t, err)

	assert.Equal(t, "2024-12", got.PreviousMonth)
	assert.Equal(t, int64(300), got.Previous.Balance)
	assert.Equal(t, int64(-200), got.Delta)
}

func TestSummarize_Empty(t *testing.T) {
	got, err := summary.Summarize(nil, "2025-03")
	require.NoError(t, err)

	assert.Empty(t, got.Transactions)
	assert.Equal(t, summary.Totals{}, got.Current)
	assert.Empty(t, got.Categories)
	assert.Zero(t, got.Delta)
}

func TestSummarize_MissingAmountCountsAsZero(t *testing.T) {
	all := []*transaction.Transaction{
		tx("2025-03-01", transaction.TypeExpense, 100, "comida"),
		{DayKey: "2025-03-02", Type: transaction.TypeExpense, Category: "comida"},
	}

	got, err := summary.Summarize(all, "2025-03")
	require.NoError(t, err)

	assert.Equal(t, int64(100), got.Current.Expense)
	assert.Equal(t, []summary.CategoryAmount{{Name: "comida", Amount: 100}}, got.Categories)
}

func TestSummarize_InvalidMonth(t *testing.T) {
	_, err := summary.Summarize(sample(), "2025-13")
	assert.ErrorIs(t, err, period.ErrInvalidMonthKey)
}
