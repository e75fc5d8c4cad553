package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avdeyev/SettlementKeeper/internal/models"
)

// PostgresUserDataRepository implements settlement persistence against
// a PostgreSQL database. Each settlement is one row keyed by
// (user_login, settlement_id) with the full document body as JSONB,
// mirroring the one-item-per-settlement shape of the hosted store.
type PostgresUserDataRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresUserDataRepository creates a new PostgresUserDataRepository
// using the provided *sql.DB.
func NewPostgresUserDataRepository(db *sql.DB) *PostgresUserDataRepository {
	return &PostgresUserDataRepository{DB: db}
}

// GetAll fetches every live settlement for the specified user.
//
//	ctx:   context for cancellation and deadlines
//	login: identifier of the user
//
// Returns a slice of models.Settlement or an error if the query or
// scanning fails.
func (r *PostgresUserDataRepository) GetAll(ctx context.Context, login string) ([]models.Settlement, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT data FROM user_data WHERE user_login = $1 AND deleted = false
	`, login)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var s models.Settlement
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}

// Get fetches a single live settlement. Returns sql.ErrNoRows when the
// settlement does not exist for the user.
func (r *PostgresUserDataRepository) Get(ctx context.Context, login, settlementID string) (*models.Settlement, error) {
	var data []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT data FROM user_data
		WHERE user_login = $1 AND settlement_id = $2 AND deleted = false
	`, login, settlementID).Scan(&data)
	if err != nil {
		return nil, err
	}
	var s models.Settlement
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode settlement: %w", err)
	}
	return &s, nil
}

// Upsert inserts or replaces one settlement for the user. The write is
// idempotent: replaying it leaves the row unchanged apart from
// updated_at.
func (r *PostgresUserDataRepository) Upsert(ctx context.Context, login, settlementID string, s models.Settlement) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settlement: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO user_data (user_login, settlement_id, data, deleted, updated_at)
		VALUES ($1, $2, $3, false, $4)
		ON CONFLICT (user_login, settlement_id) DO UPDATE SET
			data = EXCLUDED.data,
			deleted = false,
			updated_at = EXCLUDED.updated_at
	`, login, settlementID, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// Delete soft-deletes one settlement for the user. The cleaner purges
// the row after the retention window.
func (r *PostgresUserDataRepository) Delete(ctx context.Context, login, settlementID string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE user_data SET deleted = true, updated_at = $3
		WHERE user_login = $1 AND settlement_id = $2
	`, login, settlementID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
