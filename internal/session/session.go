// Package session is the application context of an interactive client: the
// signed-in user, the records last loaded for that user and the busy flag
// that guards form submissions. It is created at start-up, populated on
// sign-in and cleared on sign-out.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fluxo/internal/auth"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

var (
	ErrSignedOut = errors.New("not signed in")
	ErrBusy      = errors.New("another operation is in progress")
)

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*auth.Token, error)
	SignUp(ctx context.Context, email, password string) (*auth.Token, error)
}

type Lister interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]*transaction.Transaction, error)
}

// Listener receives the new user on every auth change, nil when signed out.
type Listener func(user *auth.User)

type Session struct {
	auth Authenticator
	txs  Lister

	mu        sync.Mutex
	ready     bool
	user      *auth.User
	token     string
	records   []*transaction.Transaction
	listeners map[int]Listener
	nextID    int

	// issued counts reloads started; applied is the newest one stored.
	issued  uint64
	applied uint64
	busy    bool
	// hold identifies the current Acquire so a stale release is a no-op.
	hold uint64
}

func New(a Authenticator, txs Lister) *Session {
	return &Session{
		auth:      a,
		txs:       txs,
		listeners: map[int]Listener{},
	}
}

// Start delivers the initial auth state, nil when nobody is signed in.
func (s *Session) Start(user *auth.User) {
	s.mu.Lock()
	s.ready = true
	s.user = user
	s.mu.Unlock()

	s.notify(user)
}

// Ready reports whether the first auth state has been delivered.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ready
}

// OnAuthChange registers fn and calls it right away when the session is
// already ready. The returned func unregisters it.
func (s *Session) OnAuthChange(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	ready, user := s.ready, s.user
	s.mu.Unlock()

	if ready {
		fn(user)
	}

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	tok, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	s.signedIn(tok)

	return nil
}

func (s *Session) SignUp(ctx context.Context, email, password string) error {
	tok, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	s.signedIn(tok)

	return nil
}

// SignOut forgets the user and the cached records. Reloads still in flight
// are discarded when they complete.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.records = nil
	s.applied = s.issued
	s.busy = false
	s.hold++
	s.mu.Unlock()

	s.notify(nil)
}

func (s *Session) User() *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}

// Token returns the signed token of the current user.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token
}

func (s *Session) Records() []*transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.records
}

// Reload is a ticket for one list call.
type Reload struct {
	OwnerID uuid.UUID
	seq     uint64
}

// BeginReload issues a ticket for the current user.
func (s *Session) BeginReload() (Reload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return Reload{}, ErrSignedOut
	}

	s.issued++

	return Reload{OwnerID: s.user.ID, seq: s.issued}, nil
}

// Apply stores the records of a completed reload. Results of a reload issued
// before the newest applied one, or before a sign-out, are dropped.
func (s *Session) Apply(r Reload, records []*transaction.Transaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil || s.user.ID != r.OwnerID || r.seq <= s.applied {
		return false
	}

	s.applied = r.seq
	s.records = records

	return true
}

// Reload lists the user's records and stores them.
func (s *Session) Reload(ctx context.Context) error {
	r, err := s.BeginReload()
	if err != nil {
		return err
	}

	records, err := s.txs.List(ctx, r.OwnerID)
	if err != nil {
		return err
	}

	s.Apply(r, records)

	return nil
}

// Acquire sets the busy flag. The returned func clears it.
func (s *Session) Acquire() (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return nil, ErrBusy
	}

	s.busy = true
	s.hold++
	hold := s.hold

	return func() {
		s.mu.Lock()
		if s.hold == hold {
			s.busy = false
		}
		s.mu.Unlock()
	}, nil
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.busy
}

func (s *Session) signedIn(tok *auth.Token) {
	user := tok.User

	s.mu.Lock()
	s.ready = true
	s.user = &user
	s.token = tok.Value
	s.records = nil
	s.applied = s.issued
	s.mu.Unlock()

	s.notify(&user)
}

func (s *Session) notify(user *auth.User) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}
