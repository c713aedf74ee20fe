package view

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fluxo/internal/auth"
	"github.com/MrJamesThe3rd/fluxo/internal/importer"
	"github.com/MrJamesThe3rd/fluxo/internal/money"
	"github.com/MrJamesThe3rd/fluxo/internal/preference"
	"github.com/MrJamesThe3rd/fluxo/internal/session"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

// App bundles what every screen needs.
type App struct {
	Session *session.Session
	Tx      *transaction.Service
	Import  *importer.Service
	Prefs   *preference.Store
	Money   *money.Formatter
	Now     func() time.Time
}

func (a *App) ownerID() uuid.UUID {
	if u := a.Session.User(); u != nil {
		return u.ID
	}

	return uuid.Nil
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// AuthChangedMsg carries the new user, nil after sign-out.
type AuthChangedMsg struct {
	User *auth.User
}

type OpenCreateMsg struct{}

type OpenImportMsg struct{}

type OpenExportMsg struct {
	Month string
}

// ReloadedMsg is the outcome of a list call started by ReloadCmd.
type ReloadedMsg struct {
	Reload  session.Reload
	Records []*transaction.Transaction
	Err     error
}

// ReloadCmd re-lists the records of the signed-in user.
func (a *App) ReloadCmd() tea.Cmd {
	r, err := a.Session.BeginReload()
	if err != nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := a.Tx.List(ctx, r.OwnerID)

		return ReloadedMsg{Reload: r, Records: txs, Err: err}
	}
}
