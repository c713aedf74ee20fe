package view

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fluxo/internal/money"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

type createFields struct {
	typ      transaction.Type
	amount   string
	category string
	note     string
}

// CreateModel is the new-transaction form. The category starts at the last
// one used on this machine.
type CreateModel struct {
	CommonModel
	app *App

	form    *huh.Form
	fields  *createFields
	release func()
	err     error
}

func NewCreateModel(app *App) CreateModel {
	m := CreateModel{
		app: app,
		fields: &createFields{
			typ:      transaction.TypeExpense,
			category: app.Prefs.LastCategory(),
		},
	}
	m.form = m.buildForm()

	return m
}

func (m CreateModel) Title() string { return "New transaction" }

func (m CreateModel) ShortHelp() string {
	return "Tab: next field | Enter: save | Esc: back"
}

func (m CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(createdMsg); ok {
		if m.release != nil {
			m.release()
			m.release = nil
		}

		if res.err != nil {
			slog.Error("failed to create transaction", "error", res.err)

			m.err = errUnavailable
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		if err := m.app.Prefs.SetLastCategory(res.tx.Category); err != nil {
			slog.Warn("failed to save last category", "error", err)
		}

		return m, tea.Batch(Back, m.app.ReloadCmd())
	}

	if m.release != nil {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	release, err := m.app.Session.Acquire()
	if err != nil {
		m.err = err
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	amount, err := money.ParsePositiveCents(m.fields.amount)
	if err != nil {
		release()

		m.err = err
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	m.release = release
	m.err = nil

	return m, m.createCmd(transaction.CreateParams{
		Type:     m.fields.typ,
		Amount:   amount,
		Category: m.fields.category,
		Note:     m.fields.note,
	})
}

func (m CreateModel) View() string {
	body := m.form.View()
	if m.release != nil {
		body = faintStyle.Render("Saving...")
	}

	parts := []string{titleStyle.Render("New transaction"), "", body}
	if m.err != nil {
		parts = append(parts, "", errorStyle.Render(m.err.Error()))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m CreateModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&m.fields.typ),

			huh.NewInput().
				Title("Amount").
				Placeholder("1250.50").
				Value(&m.fields.amount).
				Validate(func(s string) error {
					_, err := money.ParsePositiveCents(s)
					return err
				}),

			huh.NewInput().
				Title("Category").
				Suggestions(transaction.Categories).
				Value(&m.fields.category),

			huh.NewInput().
				Title("Note").
				Value(&m.fields.note),
		),
	).WithWidth(45).WithShowHelp(false)
}

type createdMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m CreateModel) createCmd(params transaction.CreateParams) tea.Cmd {
	owner := m.app.ownerID()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.app.Tx.Create(ctx, owner, params)

		return createdMsg{tx: tx, err: err}
	}
}
