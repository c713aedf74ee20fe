package view

import (
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fluxo/internal/auth"
)

type loginMode string

const (
	modeSignIn loginMode = "signin"
	modeSignUp loginMode = "signup"
)

// loginFields outlives model copies so the form bindings stay valid.
type loginFields struct {
	mode     loginMode
	email    string
	password string
}

type LoginModel struct {
	CommonModel
	app *App

	form    *huh.Form
	fields  *loginFields
	pending bool
	err     error
}

func NewLoginModel(app *App) LoginModel {
	m := LoginModel{
		app:    app,
		fields: &loginFields{mode: modeSignIn},
	}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string { return "Sign in" }

func (m LoginModel) ShortHelp() string {
	return "Tab: next field | Enter: submit | Ctrl+C: quit"
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(authResultMsg); ok {
		m.pending = false
		if res.err != nil {
			m.err = res.err
			m.fields.password = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, nil
	}

	if m.pending {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.pending = true
	m.err = nil

	return m, m.authCmd(*m.fields)
}

func (m LoginModel) View() string {
	header := titleStyle.Render("Fluxo")

	body := m.form.View()
	if m.pending {
		body = faintStyle.Render("Signing in...")
	}

	parts := []string{header, "", body}
	if m.err != nil {
		parts = append(parts, "", errorStyle.Render(m.err.Error()))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[loginMode]().
				Title("Account").
				Options(
					huh.NewOption("Sign in", modeSignIn),
					huh.NewOption("Create account", modeSignUp),
				).
				Value(&m.fields.mode),

			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fields.email).
				Validate(func(s string) error {
					if s == "" {
						return auth.ErrInvalidEmail
					}

					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fields.password).
				Validate(func(s string) error {
					if m.fields.mode == modeSignUp && len(s) < auth.MinPasswordLength {
						return auth.ErrWeakPassword
					}

					if s == "" {
						return errors.New("password is required")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

var errUnavailable = errors.New("could not reach the server, try again")

type authResultMsg struct {
	err error
}

// authCmd runs off the update loop: the session notifies its listeners
// synchronously and they post back into the program.
func (m LoginModel) authCmd(f loginFields) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error
		if f.mode == modeSignUp {
			err = m.app.Session.SignUp(ctx, f.email, f.password)
		} else {
			err = m.app.Session.SignIn(ctx, f.email, f.password)
		}

		if err != nil && !isUserFacing(err) {
			slog.Error("failed to authenticate", "error", err)
			err = errUnavailable
		}

		return authResultMsg{err: err}
	}
}

func isUserFacing(err error) bool {
	for _, target := range []error{
		auth.ErrInvalidEmail,
		auth.ErrWeakPassword,
		auth.ErrEmailInUse,
		auth.ErrInvalidCredentials,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
