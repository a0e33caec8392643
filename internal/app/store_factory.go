package app

import (
	"strings"

	"github.com/shrimpsizemoose/olympiad/internal/store"
	"github.com/shrimpsizemoose/olympiad/internal/store/postgres"
	"github.com/shrimpsizemoose/olympiad/internal/store/sqlite"
)

func DatabaseType(dsn string) store.DatabaseType {
	if strings.HasPrefix(dsn, "postgres") {
		return store.DBTypePostgres
	}
	return store.DBTypeSQLite
}

// NewStore opens the database named by dsn and brings its schema up to date.
func NewStore(dsn, migrationsDir string) (store.Store, error) {
	switch DatabaseType(dsn) {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(dsn, migrationsDir)
	default:
		return sqlite.NewSQLiteStore(dsn, migrationsDir)
	}
}
