// Package repository provides persistence implementations for the
// account and user-data services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresAuthRepository implements account operations against a
// PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository using
// the provided *sql.DB.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// UserExists returns true if a user with the given login exists.
func (r *PostgresAuthRepository) UserExists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)
	`, login).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("UserExists failed: %w", err)
	}
	return exists, nil
}

// RegisterUser creates a new user record with the given login and
// opaque bearer token.
func (r *PostgresAuthRepository) RegisterUser(ctx context.Context, login, token string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (login, token) VALUES ($1, $2)
	`, login, token)
	if err != nil {
		return fmt.Errorf("RegisterUser failed: %w", err)
	}
	return nil
}

// UserByToken resolves a bearer token to the account login. Returns
// sql.ErrNoRows when the token is unknown.
func (r *PostgresAuthRepository) UserByToken(ctx context.Context, token string) (string, error) {
	var login string
	err := r.DB.QueryRowContext(ctx, `
		SELECT login FROM users WHERE token = $1
	`, token).Scan(&login)
	if err != nil {
		return "", err
	}
	return login, nil
}
