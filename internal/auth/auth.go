// Package auth is the identity provider: it registers users, checks their
// passwords and issues the signed tokens the API and the TUI session carry.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted on sign up.
const MinPasswordLength = 6

// Errors returned here are meant to be shown to the user verbatim.
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = fmt.Errorf("password should be at least %d characters", MinPasswordLength)
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrUserNotFound       = errors.New("user not found")
)

// User is the signed-in identity.
type User struct {
	ID    uuid.UUID
	Email string
}

// Account is a stored user with its password hash.
type Account struct {
	User
	PasswordHash []byte
}

type Repository interface {
	CreateUser(ctx context.Context, email string, passwordHash []byte) (*User, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// Token is a signed session for a user.
type Token struct {
	Value     string
	ExpiresAt time.Time
	User      User
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Service struct {
	repo     Repository
	secret   []byte
	ttl      time.Duration
	hashCost int
	now      func() time.Time
	validate *validator.Validate
}

func NewService(repo Repository, secret string, ttl time.Duration) *Service {
	return &Service{
		repo:     repo,
		secret:   []byte(secret),
		ttl:      ttl,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		validate: validator.New(),
	}
}

// WithHashCost sets the bcrypt cost used for new passwords.
func (s *Service) WithHashCost(cost int) *Service {
	s.hashCost = cost
	return s
}

// WithClock replaces the clock used to issue and check tokens.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) SignUp(ctx context.Context, email, password string) (*Token, error) {
	email = normalizeEmail(email)

	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}

	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, hash)
	if err != nil {
		return nil, err
	}

	return s.issue(*user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Token, error) {
	acc, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(acc.User)
}

// Verify checks the signature and expiry of a token and returns its user.
func (s *Service) Verify(raw string) (*User, error) {
	var c claims

	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &User{ID: id, Email: c.Email}, nil
}

func (s *Service) issue(user User) (*Token, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &Token{Value: signed, ExpiresAt: expiresAt, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
