// Package migrate runs database migrations from embedded SQL files using golang-migrate.
package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"hotel-booking-account/backend/internal/db"
)

// ErrNoChange is returned when Up/Down has nothing to do (already at target version).
var ErrNoChange = migrate.ErrNoChange

// Directions accepted by Run.
const (
	Up   = "up"
	Down = "down"
)

// Result is the schema state after Run.
type Result struct {
	Version uint
	Dirty   bool
	Changed bool
}

// Run applies migrations in the given direction using the provided DSN.
// steps > 0 limits how many migrations are applied; 0 means all. Already
// being at the target is not an error; Result.Changed is then false.
func Run(dsn, direction string, steps int) (Result, error) {
	if strings.TrimSpace(dsn) == "" {
		return Result{}, errors.New("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if direction != Up && direction != Down {
		return Result{}, fmt.Errorf("direction must be up or down, got %q", direction)
	}
	if steps < 0 {
		return Result{}, fmt.Errorf("steps must not be negative, got %d", steps)
	}

	sourceDriver, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return Result{}, fmt.Errorf("migrate source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dsn)
	if err != nil {
		return Result{}, fmt.Errorf("migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := apply(m, direction, steps); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return Result{}, err
		}
		res, verr := version(m)
		return res, verr
	}
	res, err := version(m)
	res.Changed = true
	return res, err
}

func apply(m *migrate.Migrate, direction string, steps int) error {
	switch {
	case steps > 0 && direction == Up:
		return m.Steps(steps)
	case steps > 0:
		return m.Steps(-steps)
	case direction == Up:
		return m.Up()
	default:
		return m.Down()
	}
}

func version(m *migrate.Migrate) (Result, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("migrate version: %w", err)
	}
	return Result{Version: v, Dirty: dirty}, nil
}
