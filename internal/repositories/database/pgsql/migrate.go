package pgsql

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	pkgerrors "github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies every pending up migration. It reports whether any ran.
func RunMigrations(databaseURL string) (bool, error) {
	// separate stdlib connection; the pool stays untouched
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return false, pkgerrors.Wrap(err, "open migration database")
	}
	defer migrationDB.Close()

	if err := migrationDB.Ping(); err != nil {
		return false, pkgerrors.Wrap(err, "ping migration database")
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return false, pkgerrors.Wrap(err, "create postgres driver")
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return false, pkgerrors.Wrap(err, "create iofs source")
	}

	m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
	if err != nil {
		return false, pkgerrors.Wrap(err, "create migrate instance")
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return false, nil
		}
		return false, pkgerrors.Wrap(err, "run migrations")
	}
	return true, nil
}
