package view

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fluxo/internal/period"
	"github.com/MrJamesThe3rd/fluxo/internal/report"
	"github.com/MrJamesThe3rd/fluxo/internal/summary"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

type exportState int

const (
	exportStatePath exportState = iota
	exportStateExporting
	exportStateResult
)

// ExportModel writes the records of one month to fluxo-<month>.csv.
type ExportModel struct {
	CommonModel
	app *App

	state   exportState
	month   string
	form    *huh.Form
	dir     *string
	spinner spinner.Model

	written string
	count   int
	err     error
}

func NewExportModel(app *App, month string) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	dir := "."

	m := ExportModel{
		app:     app,
		month:   month,
		dir:     &dir,
		spinner: s,
	}
	m.form = m.buildPathForm()

	return m
}

func (m ExportModel) Title() string { return "Export CSV" }

func (m ExportModel) ShortHelp() string {
	return "Enter: export | Esc: back"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.state != exportStateExporting {
		return m, Back
	}

	switch m.state {
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	}

	return m, nil
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.dir))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.written = result.path
		m.count = result.count

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output directory").
				Description(fmt.Sprintf("Writes %s, the directory is created if needed", report.CSVFilename(m.month))).
				Placeholder(".").
				Value(m.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	label := period.MonthLabel(m.month, m.app.Money.Tag())

	switch m.state {
	case exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(
			titleStyle.Render("Export "+label) + "\n\n" + m.form.View(),
		)

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Exporting %s...", m.spinner.View(), label),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)",
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		successStyle.Render(fmt.Sprintf("Exported %d transactions to %s", m.count, m.written)) +
			"\n\n(Esc to go back)",
	)
}

type exportResultMsg struct {
	path  string
	count int
	err   error
}

// runExportCmd writes the month as currently loaded in the session.
func (m ExportModel) runExportCmd(dir string) tea.Cmd {
	records := m.app.Session.Records()
	month := m.month

	return func() tea.Msg {
		s, err := summary.Summarize(records, month)
		if err != nil {
			return exportResultMsg{err: err}
		}

		if dir == "" {
			dir = "."
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("create directory: %w", err)}
		}

		path := filepath.Join(dir, report.CSVFilename(month))

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: fmt.Errorf("create file: %w", err)}
		}

		if err := writeCSVFile(f, s.Transactions); err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{path: path, count: len(s.Transactions)}
	}
}

// writeCSVFile writes the records and closes wc. A failed close is reported.
func writeCSVFile(wc io.WriteCloser, txs []*transaction.Transaction) error {
	if err := report.WriteCSV(wc, txs); err != nil {
		_ = wc.Close()
		return err
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	return nil
}
