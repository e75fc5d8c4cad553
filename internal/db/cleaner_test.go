package db

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
)

func TestSoftDeleteCleanerPurges(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_data`)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartSoftDeleteCleaner(ctx, db, 10*time.Millisecond, time.Hour, zap.NewNop())

	deadline := time.After(2 * time.Second)
	for mock.ExpectationsWereMet() != nil {
		select {
		case <-deadline:
			t.Fatalf("cleaner never issued the purge: %v", mock.ExpectationsWereMet())
		case <-time.After(5 * time.Millisecond):
		}
	}
}
