// Package migrate runs database migrations from embedded SQL files using golang-migrate.
package migrate

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"pknews/client/internal/db"
)

// ErrNoChange is returned when Up/Down has nothing to do (already at target version).
var ErrNoChange = migrate.ErrNoChange

// Apply migrates sqlDB in the given direction ("up" or "down"). Returns nil on success and
// ErrNoChange when already at the target. sqlDB stays open.
func Apply(sqlDB *sql.DB, direction string) error {
	if sqlDB == nil {
		return errors.New("migrate: database is nil")
	}
	if direction != "up" && direction != "down" {
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}

	sourceDriver, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}
	dbDriver, err := sqlite.WithInstance(sqlDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	// m.Close would close sqlDB through the driver; only the source is released here.
	defer func() { _ = sourceDriver.Close() }()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}
	return err
}

// Up applies all pending migrations and treats ErrNoChange as success.
func Up(sqlDB *sql.DB) error {
	if err := Apply(sqlDB, "up"); err != nil && !errors.Is(err, ErrNoChange) {
		return err
	}
	return nil
}
