package service

import (
	"context"
	"database/sql"
	"testing"
)

type mockAuthRepo struct {
	userExistsFn   func(ctx context.Context, login string) (bool, error)
	registerUserFn func(ctx context.Context, login, token string) error
	userByTokenFn  func(ctx context.Context, token string) (string, error)
}

func (m *mockAuthRepo) UserExists(ctx context.Context, login string) (bool, error) {
	return m.userExistsFn(ctx, login)
}

func (m *mockAuthRepo) RegisterUser(ctx context.Context, login, token string) error {
	return m.registerUserFn(ctx, login, token)
}

func (m *mockAuthRepo) UserByToken(ctx context.Context, token string) (string, error) {
	return m.userByTokenFn(ctx, token)
}

func TestRegisterUserIssuesToken(t *testing.T) {
	var storedLogin, storedToken string
	repo := &mockAuthRepo{
		registerUserFn: func(_ context.Context, login, token string) error {
			storedLogin, storedToken = login, token
			return nil
		},
	}

	token, err := NewAuthService(repo).RegisterUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if storedLogin != "alice" || storedToken != token {
		t.Errorf("stored (%q, %q), issued %q", storedLogin, storedToken, token)
	}
}

func TestRegisterUserRepoFailure(t *testing.T) {
	repo := &mockAuthRepo{
		registerUserFn: func(context.Context, string, string) error {
			return sql.ErrConnDone
		},
	}

	token, err := NewAuthService(repo).RegisterUser(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected error")
	}
	if token != "" {
		t.Errorf("no token may be issued on failure, got %q", token)
	}
}

func TestUserByToken(t *testing.T) {
	repo := &mockAuthRepo{
		userByTokenFn: func(_ context.Context, token string) (string, error) {
			if token == "tok-123" {
				return "alice", nil
			}
			return "", sql.ErrNoRows
		},
	}
	svc := NewAuthService(repo)

	login, err := svc.UserByToken(context.Background(), "tok-123")
	if err != nil || login != "alice" {
		t.Errorf("UserByToken = (%q, %v)", login, err)
	}

	if _, err := svc.UserByToken(context.Background(), "bogus"); err != sql.ErrNoRows {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}
