package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mindflow/backend/pkg/config"
	"github.com/mindflow/backend/pkg/logger"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"pg error", &pgconn.PgError{Code: CodeUniqueViolation}, CodeUniqueViolation},
		{"wrapped pg error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeForeignKeyViolation}), CodeForeignKeyViolation},
		{"plain error", errors.New("boom"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Fatalf("ErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsContention(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: CodeSerializationFailure}, true},
		{"deadlock", fmt.Errorf("shift: %w", &pgconn.PgError{Code: CodeDeadlockDetected}), true},
		{"lock not available", &pgconn.PgError{Code: CodeLockNotAvailable}, true},
		{"unique violation", &pgconn.PgError{Code: CodeUniqueViolation}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContention(tt.err); got != tt.want {
				t.Fatalf("IsContention() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Integration tests: skipped unless TEST_DATABASE_URL is set.
func TestDatabaseIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	}

	ctx := context.Background()
	log := logger.New(&config.Config{LogLevel: "error"})
	db, err := NewPool(ctx, dsn, log)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{`DROP TABLE IF EXISTS tx_probe`, `CREATE TABLE tx_probe (n int)`} {
		if _, err := db.DB().ExecContext(ctx, stmt); err != nil {
			t.Fatalf("prepare probe table: %v", err)
		}
	}
	t.Cleanup(func() {
		_, _ = db.DB().ExecContext(context.Background(), `DROP TABLE IF EXISTS tx_probe`)
	})

	t.Run("Ping", func(t *testing.T) {
		if err := db.Ping(ctx); err != nil {
			t.Fatalf("Ping: %v", err)
		}
	})

	t.Run("WithTx_RollbackOnError", func(t *testing.T) {
		sentinel := errors.New("abort")
		err := db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO tx_probe (n) VALUES (1)`); err != nil {
				return err
			}
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}

		var n int
		if err := db.DB().QueryRowContext(ctx, `SELECT count(*) FROM tx_probe`).Scan(&n); err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 0 {
			t.Fatalf("expected rollback to leave 0 rows, got %d", n)
		}
	})

	t.Run("WithTx_Commit", func(t *testing.T) {
		err := db.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO tx_probe (n) VALUES (2)`)
			return err
		})
		if err != nil {
			t.Fatalf("WithTx: %v", err)
		}

		var n int
		if err := db.DB().QueryRowContext(ctx, `SELECT count(*) FROM tx_probe`).Scan(&n); err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 committed row, got %d", n)
		}
	})
}
