package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fluxo/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/fluxo/internal/auth"
	authStore "github.com/MrJamesThe3rd/fluxo/internal/auth/store"
	"github.com/MrJamesThe3rd/fluxo/internal/config"
	"github.com/MrJamesThe3rd/fluxo/internal/database"
	"github.com/MrJamesThe3rd/fluxo/internal/importer"
	"github.com/MrJamesThe3rd/fluxo/internal/money"
	"github.com/MrJamesThe3rd/fluxo/internal/preference"
	"github.com/MrJamesThe3rd/fluxo/internal/session"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
	txStore "github.com/MrJamesThe3rd/fluxo/internal/transaction/store"
)

type View int

const (
	ViewLoading View = iota
	ViewLogin
	ViewHome
	ViewCreate
	ViewImport
	ViewExport
)

type model struct {
	app *view.App

	currentView View
	width       int
	height      int

	loginView  view.LoginModel
	homeView   view.HomeModel
	createView view.CreateModel
	importView view.ImportModel
	exportView view.ExportModel
}

type startedMsg struct{}

func newApp() *view.App {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Level())

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	format, err := money.NewFormatter(cfg.Locale.Tag, cfg.Locale.Symbol)
	if err != nil {
		slog.Error("failed to build currency formatter", "error", err)
		os.Exit(1)
	}

	prefsPath := cfg.Preference.Path
	if prefsPath == "" {
		if prefsPath, err = preference.DefaultPath(); err != nil {
			slog.Error("failed to resolve preferences path", "error", err)
			os.Exit(1)
		}
	}

	prefs, err := preference.Open(prefsPath)
	if err != nil {
		slog.Error("failed to open preferences", "error", err)
		os.Exit(1)
	}

	authSvc := auth.NewService(authStore.New(db), cfg.Auth.Secret, cfg.Auth.TokenTTL)
	txSvc := transaction.NewService(txStore.New(db))

	return &view.App{
		Session: session.New(authSvc, txSvc),
		Tx:      txSvc,
		Import:  importer.NewService(txSvc),
		Prefs:   prefs,
		Money:   format,
		Now:     time.Now,
	}
}

// setupLogging sends slog output to a file, the terminal belongs to the UI.
func setupLogging(level slog.Level) {
	f, err := tea.LogToFile(filepath.Join(os.TempDir(), "fluxo-tui.log"), "fluxo")
	if err != nil {
		return
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
}

func initialModel(app *view.App) model {
	return model{
		app:         app,
		currentView: ViewLoading,
	}
}

func (m model) Init() tea.Cmd {
	sess := m.app.Session

	// No token is kept between runs, so the first auth state is signed out.
	return func() tea.Msg {
		sess.Start(nil)
		return startedMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.currentView == ViewLoading || (m.currentView == ViewHome && m.homeView.Browsing()) {
				return m, tea.Quit
			}
		case "o":
			if m.currentView == ViewHome && m.homeView.Browsing() {
				sess := m.app.Session
				return m, func() tea.Msg {
					sess.SignOut()
					return nil
				}
			}
		}

	case view.AuthChangedMsg:
		if msg.User == nil {
			m.currentView = ViewLogin
			m.loginView = view.NewLoginModel(m.app)

			return m, m.loginView.Init()
		}

		m.currentView = ViewHome
		m.homeView = view.NewHomeModel(m.app)

		return m, tea.Batch(m.homeView.Init(), m.resize())

	case view.ReloadedMsg:
		if msg.Err == nil {
			m.app.Session.Apply(msg.Reload, msg.Records)
		}

		switch m.currentView {
		case ViewLoading, ViewLogin:
			return m, nil
		case ViewCreate, ViewImport, ViewExport:
			// the home screen renders from the session, keep it current
			var newModel tea.Model
			newModel, _ = m.homeView.Update(msg)
			m.homeView = newModel.(view.HomeModel)

			return m, nil
		}

	case view.BackMsg:
		m.currentView = ViewHome
		return m, nil

	case view.OpenCreateMsg:
		m.currentView = ViewCreate
		m.createView = view.NewCreateModel(m.app)

		return m, m.createView.Init()

	case view.OpenImportMsg:
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.app)

		return m, m.importView.Init()

	case view.OpenExportMsg:
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.app, msg.Month)

		return m, m.exportView.Init()
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewHome:
		var newModel tea.Model
		newModel, cmd = m.homeView.Update(msg)
		m.homeView = newModel.(view.HomeModel)
	case ViewCreate:
		var newModel tea.Model
		newModel, cmd = m.createView.Update(msg)
		m.createView = newModel.(view.CreateModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) resize() tea.Cmd {
	if m.width == 0 {
		return nil
	}

	w, h := m.width, m.height

	return func() tea.Msg { return tea.WindowSizeMsg{Width: w, Height: h} }
}

func (m model) View() string {
	var (
		body string
		help string
	)

	switch m.currentView {
	case ViewLoading:
		return lipgloss.NewStyle().Padding(2).Render("Fluxo\n\nLoading...")
	case ViewLogin:
		body, help = m.loginView.View(), m.loginView.ShortHelp()
	case ViewHome:
		body, help = m.homeView.View(), m.homeView.ShortHelp()
	case ViewCreate:
		body, help = m.createView.View(), m.createView.ShortHelp()
	case ViewImport:
		body, help = m.importView.View(), m.importView.ShortHelp()
	case ViewExport:
		body, help = m.exportView.View(), m.exportView.ShortHelp()
	default:
		return "Unknown View"
	}

	return body + "\n" + lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(help)
}

func main() {
	app := newApp()

	p := tea.NewProgram(initialModel(app), tea.WithAltScreen())

	unsubscribe := app.Session.OnAuthChange(func(u *auth.User) {
		p.Send(view.AuthChangedMsg{User: u})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
