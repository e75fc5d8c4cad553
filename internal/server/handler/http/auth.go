package http

import (
	"context"
	"encoding/json"
	"net/http"
)

// AuthService defines the interface for account operations required by
// the HTTP handlers.
type AuthService interface {
	// UserExists checks whether a user with the given login exists.
	UserExists(context.Context, string) (bool, error)
	// RegisterUser registers a new account and returns its bearer token.
	RegisterUser(context.Context, string) (string, error)
}

// AuthHandler handles HTTP requests for account registration.
type AuthHandler struct {
	// AuthService performs the underlying account operations.
	AuthService AuthService
}

// RegisterRequest represents the JSON payload for registration.
type RegisterRequest struct {
	// Login is the account name to register.
	Login string `json:"login"`
}

// RegisterResponse carries the issued bearer token back to the client.
type RegisterResponse struct {
	Login string `json:"login"`
	Token string `json:"token"`
}

// Register handles account registration requests.
// It expects a JSON body with a non-empty "login" field. If the account
// does not already exist it is created and the opaque bearer token the
// client must present on every sync call is returned.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	exists, err := h.AuthService.UserExists(r.Context(), req.Login)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if exists {
		http.Error(w, "user already exists", http.StatusConflict)
		return
	}

	token, err := h.AuthService.RegisterUser(r.Context(), req.Login)
	if err != nil {
		http.Error(w, "failed to save user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(RegisterResponse{Login: req.Login, Token: token})
}
