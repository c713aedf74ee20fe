package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/fluxo/internal/auth"
)

// memRepo keeps accounts in a map keyed by email.
type memRepo struct {
	accounts map[string]*auth.Account
	err      error
}

func newMemRepo() *memRepo {
	return &memRepo{accounts: map[string]*auth.Account{}}
}

func (m *memRepo) CreateUser(_ context.Context, email string, hash []byte) (*auth.User, error) {
	if m.err != nil {
		return nil, m.err
	}

	if _, ok := m.accounts[email]; ok {
		return nil, auth.ErrEmailInUse
	}

	acc := &auth.Account{User: auth.User{ID: uuid.New(), Email: email}, PasswordHash: hash}
	m.accounts[email] = acc

	return &acc.User, nil
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	if m.err != nil {
		return nil, m.err
	}

	acc, ok := m.accounts[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	return acc, nil
}

var start = time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

func newService(repo auth.Repository) *auth.Service {
	return auth.NewService(repo, "test-secret", time.Hour).
		WithHashCost(bcrypt.MinCost).
		WithClock(func() time.Time { return start })
}

func TestService_SignUp(t *testing.T) {
	type testCase struct {
		name     string
		email    string
		password string
		wantErr  error
	}

	tests := []testCase{
		{name: "Success", email: "  Ana@Example.com ", password: "secret1"},
		{name: "InvalidEmail", email: "not-an-email", password: "secret1", wantErr: auth.ErrInvalidEmail},
		{name: "EmptyEmail", email: "", password: "secret1", wantErr: auth.ErrInvalidEmail},
		{name: "WeakPassword", email: "ana@example.com", password: "12345", wantErr: auth.ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newMemRepo())

			tok, err := svc.SignUp(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "ana@example.com", tok.User.Email)
			assert.NotEmpty(t, tok.Value)
			assert.Equal(t, start.Add(time.Hour), tok.ExpiresAt)
		})
	}
}

func TestService_SignUp_EmailInUse(t *testing.T) {
	svc := newService(newMemRepo())

	_, err := svc.SignUp(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), "ANA@example.com", "secret2")
	assert.ErrorIs(t, err, auth.ErrEmailInUse)
	assert.Equal(t, "email already in use", err.Error())
}

func TestService_SignIn(t *testing.T) {
	svc := newService(newMemRepo())

	created, err := svc.SignUp(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)

	tok, err := svc.SignIn(context.Background(), "Ana@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.User, tok.User)

	_, err = svc.SignIn(context.Background(), "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.SignIn(context.Background(), "bob@example.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_SignIn_RepoError(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("connection refused")

	_, err := newService(repo).SignIn(context.Background(), "ana@example.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Verify(t *testing.T) {
	svc := newService(newMemRepo())

	tok, err := svc.SignUp(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)

	user, err := svc.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, tok.User, *user)

	_, err = svc.Verify(tok.Value + "x")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	other := auth.NewService(newMemRepo(), "other-secret", time.Hour).
		WithClock(func() time.Time { return start })
	_, err = other.Verify(tok.Value)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestService_Verify_Expired(t *testing.T) {
	now := start
	svc := auth.NewService(newMemRepo(), "test-secret", time.Hour).
		WithHashCost(bcrypt.MinCost).
		WithClock(func() time.Time { return now })

	tok, err := svc.SignUp(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)

	now = start.Add(2 * time.Hour)

	_, err = svc.Verify(tok.Value)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
