package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avdeyev/SettlementKeeper/internal/middleware"
	"github.com/avdeyev/SettlementKeeper/internal/models"
)

// UserDataService defines the interface for settlement storage
// operations required by the UserDataHandler.
type UserDataService interface {
	// List returns every settlement stored for the account.
	List(ctx context.Context, login string) ([]models.Settlement, error)
	// Get returns one settlement; sql.ErrNoRows when absent.
	Get(ctx context.Context, login, settlementID string) (*models.Settlement, error)
	// Save upserts one settlement.
	Save(ctx context.Context, login, settlementID string, s models.Settlement) error
	// Delete removes one settlement.
	Delete(ctx context.Context, login, settlementID string) error
}

// UserDataHandler handles HTTP requests for settlement storage.
type UserDataHandler struct {
	UserDataService UserDataService
}

// authorized confirms the authenticated account matches the {login}
// path segment. Identity comes from the token, never from the path.
func authorized(w http.ResponseWriter, r *http.Request) (string, bool) {
	login := middleware.GetUserIDFromContext(r.Context())
	if login == "" || login != chi.URLParam(r, "login") {
		http.Error(w, "account mismatch", http.StatusUnauthorized)
		return "", false
	}
	return login, true
}

// List handles GET /api/users/{login}/userdata, returning all of the
// account's settlements as a JSON array.
func (h *UserDataHandler) List(w http.ResponseWriter, r *http.Request) {
	login, ok := authorized(w, r)
	if !ok {
		return
	}
	settlements, err := h.UserDataService.List(r.Context(), login)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if settlements == nil {
		settlements = []models.Settlement{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(settlements)
}

// Get handles GET /api/users/{login}/userdata/{settlementID}. A
// settlement that does not exist yields 404, distinct from other
// failures.
func (h *UserDataHandler) Get(w http.ResponseWriter, r *http.Request) {
	login, ok := authorized(w, r)
	if !ok {
		return
	}
	settlement, err := h.UserDataService.Get(r.Context(), login, chi.URLParam(r, "settlementID"))
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "settlement not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(settlement)
}

// Save handles PUT /api/users/{login}/userdata/{settlementID}. The
// upsert is idempotent.
func (h *UserDataHandler) Save(w http.ResponseWriter, r *http.Request) {
	login, ok := authorized(w, r)
	if !ok {
		return
	}
	settlementID := chi.URLParam(r, "settlementID")
	if settlementID == "" {
		http.Error(w, "settlement_id is required", http.StatusBadRequest)
		return
	}
	var s models.Settlement
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if err := h.UserDataService.Save(r.Context(), login, settlementID, s); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message":       "Data saved successfully",
		"settlement_id": settlementID,
	})
}

// Delete handles DELETE /api/users/{login}/userdata/{settlementID}.
func (h *UserDataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	login, ok := authorized(w, r)
	if !ok {
		return
	}
	settlementID := chi.URLParam(r, "settlementID")
	if settlementID == "" {
		http.Error(w, "settlement_id is required", http.StatusBadRequest)
		return
	}
	if err := h.UserDataService.Delete(r.Context(), login, settlementID); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message":       "Data deleted successfully",
		"settlement_id": settlementID,
	})
}
