package migrator

import (
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations runs all pending goose migrations from the embedded FS against dbUrl.
func RunMigrations(dbUrl string, files fs.FS) error {
	return withGoose(dbUrl, files, func(db *sql.DB) error {
		if err := goose.Up(db, "."); err != nil {
			return fmt.Errorf("failed to up migrations: %w", err)
		}
		return nil
	})
}

// Rollback reverts the most recently applied migration.
func Rollback(dbUrl string, files fs.FS) error {
	return withGoose(dbUrl, files, func(db *sql.DB) error {
		if err := goose.Down(db, "."); err != nil {
			return fmt.Errorf("failed to down migration: %w", err)
		}
		return nil
	})
}

// Version returns the currently applied migration version.
func Version(dbUrl string, files fs.FS) (int64, error) {
	var version int64
	err := withGoose(dbUrl, files, func(db *sql.DB) error {
		v, err := goose.GetDBVersion(db)
		if err != nil {
			return fmt.Errorf("failed to read migration version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func withGoose(dbUrl string, files fs.FS, fn func(*sql.DB) error) error {
	db, err := sql.Open("pgx", dbUrl)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	goose.SetBaseFS(files)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return fn(db)
}
