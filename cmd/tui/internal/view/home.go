package view

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fluxo/internal/edit"
	"github.com/MrJamesThe3rd/fluxo/internal/period"
	"github.com/MrJamesThe3rd/fluxo/internal/report"
	"github.com/MrJamesThe3rd/fluxo/internal/summary"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

type homeState int

const (
	homeStateBrowse homeState = iota
	homeStateEdit
	homeStateConfirmDelete
)

// editFields mirrors edit.Form for the huh bindings.
type editFields struct {
	typ      transaction.Type
	amount   string
	category string
	note     string
	dayKey   string
}

func (f *editFields) form() edit.Form {
	return edit.Form{Type: f.typ, Amount: f.amount, Category: f.category, Note: f.note, DayKey: f.dayKey}
}

type HomeModel struct {
	CommonModel
	app *App

	state   homeState
	month   string
	summary summary.MonthSummary
	table   table.Model
	loading bool
	status  string
	err     error

	edit    *edit.Controller
	form    *huh.Form
	fields  *editFields
	release func()

	confirm   *huh.Form
	confirmed *bool
	deleting  uuid.UUID
}

func NewHomeModel(app *App) HomeModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Amount", Width: 18},
		{Title: "Note", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := HomeModel{
		app:     app,
		month:   period.MonthKey(app.Now()),
		table:   t,
		loading: true,
		edit:    edit.NewController(app.Tx, app.ownerID()),
	}
	m.refresh()

	return m
}

func (m HomeModel) Title() string { return period.MonthLabel(m.month, m.app.Money.Tag()) }

func (m HomeModel) ShortHelp() string {
	switch m.state {
	case homeStateEdit:
		return "Tab: next field | Enter: save | Esc: cancel"
	case homeStateConfirmDelete:
		return "←/→: choose | Enter: confirm | Esc: cancel"
	}

	return "←/→: month | n: new | e: edit | d: delete | x: export | i: import | r: reload | o: sign out | q: quit"
}

// Browsing reports whether no form is open, so single-key shortcuts are free.
func (m HomeModel) Browsing() bool {
	return m.state == homeStateBrowse
}

func (m HomeModel) Init() tea.Cmd {
	return m.app.ReloadCmd()
}

func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReloadedMsg:
		m.loading = false
		if msg.Err != nil {
			slog.Error("failed to load transactions", "error", msg.Err)
			m.err = errUnavailable

			return m, nil
		}

		m.err = nil
		m.refresh()

		return m, nil

	case editSavedMsg:
		if m.release != nil {
			m.release()
			m.release = nil
		}

		if msg.err != nil {
			slog.Error("failed to update transaction", "error", msg.err)
		}

		if m.edit.Complete(msg.err) {
			m.state = homeStateBrowse
			m.form = nil
			m.status = "Saved."
			m.table.Focus()

			return m, m.app.ReloadCmd()
		}

		m.form = m.buildEditForm()

		return m, m.form.Init()

	case deletedMsg:
		if msg.err != nil {
			slog.Error("failed to delete transaction", "error", msg.err)

			m.status = ""
			m.err = errors.New("could not delete the transaction, try again")

			return m, nil
		}

		m.status = "Deleted."

		return m, m.app.ReloadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(5, msg.Height-24))

		return m, nil
	}

	switch m.state {
	case homeStateEdit:
		return m.updateEdit(msg)
	case homeStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m HomeModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "left", "h":
		return m.shiftMonth(-1), nil
	case "right", "l":
		return m.shiftMonth(1), nil
	case "n":
		return m, func() tea.Msg { return OpenCreateMsg{} }
	case "i":
		return m, func() tea.Msg { return OpenImportMsg{} }
	case "x":
		month := m.month
		return m, func() tea.Msg { return OpenExportMsg{Month: month} }
	case "r":
		m.loading = true
		return m, m.app.ReloadCmd()
	case "e", "enter":
		return m.beginEdit()
	case "d":
		return m.beginDelete()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m HomeModel) shiftMonth(n int) HomeModel {
	month, err := period.ShiftMonthKey(m.month, n)
	if err != nil {
		return m
	}

	m.month = month
	m.status = ""
	m.table.SetCursor(0)
	m.refresh()

	return m
}

func (m HomeModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.summary.Transactions) {
		return nil
	}

	return m.summary.Transactions[idx]
}

func (m HomeModel) beginEdit() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	if err := m.edit.Begin(tx, m.month); err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.form = m.buildEditForm()
	m.state = homeStateEdit
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m HomeModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, saving := m.edit.State().(edit.Saving); saving {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.edit.Cancel()
		m.state = homeStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if err := m.edit.SetForm(m.fields.form()); err != nil {
		m.status = err.Error()
		return m, nil
	}

	release, err := m.app.Session.Acquire()
	if err != nil {
		m.status = err.Error()
		m.form = m.buildEditForm()

		return m, m.form.Init()
	}

	id, patch, err := m.edit.Submit()
	if err != nil {
		release()

		m.form = m.buildEditForm()

		return m, m.form.Init()
	}

	m.release = release

	return m, m.saveCmd(id, patch)
}

// buildEditForm binds a fresh form to the values the controller holds.
func (m *HomeModel) buildEditForm() *huh.Form {
	var f edit.Form

	switch s := m.edit.State().(type) {
	case edit.Editing:
		f = s.Form
	case edit.Saving:
		f = s.Form
	}

	m.fields = &editFields{typ: f.Type, amount: f.Amount, category: f.Category, note: f.Note, dayKey: f.DayKey}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&m.fields.typ),
			huh.NewInput().Title("Amount").Value(&m.fields.amount),
			huh.NewInput().Title("Category").Suggestions(transaction.Categories).Value(&m.fields.category),
			huh.NewInput().Title("Note").Value(&m.fields.note),
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&m.fields.dayKey),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m HomeModel) beginDelete() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	m.deleting = tx.ID
	m.confirmed = new(false)
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete this transaction?").
				Description(fmt.Sprintf("%s  %s  %s", tx.DayKey, tx.Category, m.app.FormatRecordAmount(tx))).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)
	m.state = homeStateConfirmDelete
	m.table.Blur()

	return m, m.confirm.Init()
}

func (m HomeModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = homeStateBrowse
		m.confirm = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = homeStateBrowse
	m.confirm = nil
	m.table.Focus()

	if !*m.confirmed {
		return m, nil
	}

	return m, m.deleteCmd(m.deleting)
}

// refresh recomputes the month summary from the session records.
func (m *HomeModel) refresh() {
	s, err := summary.Summarize(m.app.Session.Records(), m.month)
	if err != nil {
		m.err = err
		return
	}

	m.summary = s

	rows := make([]table.Row, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		rows = append(rows, table.Row{
			tx.DayKey,
			tx.Category,
			m.app.FormatRecordAmount(tx),
			strings.ReplaceAll(tx.Note, "\n", " "),
		})
	}

	m.table.SetRows(rows)
}

func (m HomeModel) View() string {
	s := m.summary

	header := titleStyle.Render(period.MonthLabel(m.month, m.app.Money.Tag()))
	if u := m.app.Session.User(); u != nil {
		header += faintStyle.Render("  " + u.Email)
	}

	totals := m.app.renderTotals(s.Current)

	deltaStyle := incomeStyle
	sign := "+"

	if s.Delta < 0 {
		deltaStyle = expenseStyle
		sign = ""
	}

	compare := faintStyle.Render(fmt.Sprintf("vs %s: ", period.MonthLabel(s.PreviousMonth, m.app.Money.Tag()))) +
		deltaStyle.Render(sign+m.app.FormatAmount(s.Delta))
	previous := "  " + m.app.renderTotals(s.Previous)

	chart := m.app.renderChart(report.BuildChart(s.Categories))

	list := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if len(s.Transactions) == 0 {
		list = faintStyle.Render("No transactions this month.")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", totals, compare, previous, "", chart, "", list)

	switch {
	case m.state == homeStateEdit && m.form != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.viewEditPanel())
	case m.state == homeStateConfirmDelete && m.confirm != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Render(m.confirm.View()))
	}

	var notes []string
	if m.loading {
		notes = append(notes, faintStyle.Render("Loading..."))
	}

	if m.err != nil {
		notes = append(notes, errorStyle.Render(m.err.Error()))
	}

	if m.status != "" {
		notes = append(notes, faintStyle.Render(m.status))
	}

	if len(notes) > 0 {
		content = strings.Join(notes, "\n") + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// renderTotals prints one month's income, expense and balance on a line.
func (a *App) renderTotals(t summary.Totals) string {
	return fmt.Sprintf("Income %s   Expense %s   Balance %s",
		incomeStyle.Render(a.FormatAmount(t.Income)),
		expenseStyle.Render(a.FormatAmount(t.Expense)),
		activeStyle(a.FormatAmount(t.Balance)),
	)
}

func (m HomeModel) viewEditPanel() string {
	body := "Edit Transaction\n\n" + m.form.View()

	switch s := m.edit.State().(type) {
	case edit.Saving:
		body = "Edit Transaction\n\n" + faintStyle.Render("Saving...")
	case edit.Editing:
		if len(s.Errors) > 0 {
			body += "\n" + errorStyle.Render(s.Errors.Error())
		}

		if s.Failure != nil {
			body += "\n" + errorStyle.Render(s.Failure.Error())
		}
	}

	return panelStyle.Width(46).Render(body)
}

// Messages

type editSavedMsg struct {
	err error
}

type deletedMsg struct {
	err error
}

func (m HomeModel) saveCmd(id uuid.UUID, patch transaction.Patch) tea.Cmd {
	owner := m.app.ownerID()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return editSavedMsg{err: m.app.Tx.Update(ctx, owner, id, patch)}
	}
}

func (m HomeModel) deleteCmd(id uuid.UUID) tea.Cmd {
	owner := m.app.ownerID()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return deletedMsg{err: m.app.Tx.Delete(ctx, owner, id)}
	}
}
