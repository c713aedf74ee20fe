package report

import "github.com/MrJamesThe3rd/fluxo/internal/summary"

// Palette is cycled by slice position.
var Palette = []string{
	"#3b82f6",
	"#16a34a",
	"#f59e0b",
	"#ef4444",
	"#8b5cf6",
	"#06b6d4",
	"#e11d48",
	"#64748b",
}

// EmptyChartMessage is shown instead of a chart when a month has no expenses.
const EmptyChartMessage = "No expenses to show for this month."

// Slice is one category of the expense chart. Value is in cents.
type Slice struct {
	Label string
	Value int64
	Color string
}

// Chart is the chart-ready projection of a category breakdown.
type Chart struct {
	Empty  bool
	Slices []Slice
	Total  int64
}

// BuildChart keeps the breakdown order and skips categories with no expense.
func BuildChart(categories []summary.CategoryAmount) Chart {
	c := Chart{Slices: []Slice{}}

	for _, cat := range categories {
		if cat.Amount == 0 {
			continue
		}

		c.Slices = append(c.Slices, Slice{
			Label: cat.Name,
			Value: cat.Amount,
			Color: Palette[len(c.Slices)%len(Palette)],
		})
		c.Total += cat.Amount
	}

	c.Empty = len(c.Slices) == 0

	return c
}

// Share returns the fraction of the total taken by slice i.
func (c Chart) Share(i int) float64 {
	if c.Total == 0 || i < 0 || i >= len(c.Slices) {
		return 0
	}

	return float64(c.Slices[i].Value) / float64(c.Total)
}
