package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fluxo/internal/report"
)

const (
	chartLabelWidth = 14
	chartBarWidth   = 30
)

// renderChart draws the expense breakdown as horizontal bars.
func (a *App) renderChart(c report.Chart) string {
	if c.Empty {
		return faintStyle.Render(report.EmptyChartMessage)
	}

	lines := make([]string, 0, len(c.Slices))

	for i, s := range c.Slices {
		share := c.Share(i)

		width := int(share*chartBarWidth + 0.5)
		if width == 0 {
			width = 1
		}

		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(strings.Repeat("█", width))
		pad := strings.Repeat(" ", chartBarWidth-width)

		lines = append(lines, fmt.Sprintf("%-*s %s%s %5.1f%%  %s",
			chartLabelWidth, truncate(s.Label, chartLabelWidth), bar, pad, share*100, a.FormatAmount(s.Value)))
	}

	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
