package service

import (
	"context"

	"github.com/avdeyev/SettlementKeeper/internal/models"
)

// UserDataRepository defines the persistence operations needed by the
// UserDataService.
type UserDataRepository interface {
	// GetAll retrieves every live settlement belonging to the user.
	GetAll(ctx context.Context, login string) ([]models.Settlement, error)
	// Get fetches a single settlement; sql.ErrNoRows when absent.
	Get(ctx context.Context, login, settlementID string) (*models.Settlement, error)
	// Upsert inserts or replaces one settlement for the user.
	Upsert(ctx context.Context, login, settlementID string, s models.Settlement) error
	// Delete soft-deletes one settlement for the user.
	Delete(ctx context.Context, login, settlementID string) error
}

// UserDataService implements settlement storage business logic.
type UserDataService struct {
	repo UserDataRepository
}

// NewUserDataService constructs a UserDataService with the provided
// repository.
func NewUserDataService(repo UserDataRepository) *UserDataService {
	return &UserDataService{repo: repo}
}

// List returns every live settlement for the user.
func (s *UserDataService) List(ctx context.Context, login string) ([]models.Settlement, error) {
	return s.repo.GetAll(ctx, login)
}

// Get returns one settlement for the user.
func (s *UserDataService) Get(ctx context.Context, login, settlementID string) (*models.Settlement, error) {
	return s.repo.Get(ctx, login, settlementID)
}

// Save upserts one settlement for the user.
func (s *UserDataService) Save(ctx context.Context, login, settlementID string, settlement models.Settlement) error {
	return s.repo.Upsert(ctx, login, settlementID, settlement)
}

// Delete removes one settlement for the user.
func (s *UserDataService) Delete(ctx context.Context, login, settlementID string) error {
	return s.repo.Delete(ctx, login, settlementID)
}
