package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// RunMigrations applies all pending embedded migrations against the given
// database handle. It is a no-op when the schema is already current.
func RunMigrations(sqlDB *sql.DB, driverName string) error {
	if sqlDB == nil {
		return errors.New("migration database handle is required")
	}

	var (
		drv database.Driver
		err error
	)
	switch driverName {
	case "postgres":
		drv, err = migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
	case "sqlite", "":
		drv, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("unsupported migration driver %q", driverName)
	}
	if err != nil {
		return err
	}

	src, err := iofs.New(embeddedMigrations, migrationsDir)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, drv)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
