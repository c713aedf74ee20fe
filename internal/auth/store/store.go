package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/fluxo/internal/auth"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, email string, passwordHash []byte) (*auth.User, error) {
	query := `
		INSERT INTO users (email, password_hash, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id
	`

	user := auth.User{Email: email}

	err := s.db.QueryRowContext(ctx, query, email, string(passwordHash)).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, auth.ErrEmailInUse
		}

		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &user, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	query := `SELECT id, email, password_hash FROM users WHERE email = $1`

	var (
		acc  auth.Account
		hash string
	)

	err := s.db.QueryRowContext(ctx, query, email).Scan(&acc.ID, &acc.Email, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}

		return nil, fmt.Errorf("finding user: %w", err)
	}

	acc.PasswordHash = []byte(hash)

	return &acc, nil
}
