// Package service provides business-logic services for account
// management and user-data access, delegating persistence to
// repository interfaces.
package service

import (
	"context"

	"github.com/google/uuid"
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given login exists.
	UserExists(ctx context.Context, login string) (bool, error)
	// RegisterUser creates a new user record with the given login and
	// bearer token.
	RegisterUser(ctx context.Context, login, token string) error
	// UserByToken resolves a bearer token to the account login.
	UserByToken(ctx context.Context, token string) (string, error)
}

// AuthService implements account operations by delegating to an
// AuthRepository.
type AuthService struct {
	repo AuthRepository
}

// NewAuthService constructs a new AuthService using the provided
// repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// UserExists checks whether a user with the specified login exists.
func (s *AuthService) UserExists(ctx context.Context, login string) (bool, error) {
	return s.repo.UserExists(ctx, login)
}

// RegisterUser registers a new account and returns the opaque bearer
// token the client presents on every call.
func (s *AuthService) RegisterUser(ctx context.Context, login string) (string, error) {
	token := uuid.NewString()
	if err := s.repo.RegisterUser(ctx, login, token); err != nil {
		return "", err
	}
	return token, nil
}

// UserByToken resolves a bearer token to the account login.
func (s *AuthService) UserByToken(ctx context.Context, token string) (string, error) {
	return s.repo.UserByToken(ctx, token)
}
