package app

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/encore/internal/store"
	"github.com/shrimpsizemoose/encore/internal/store/postgres"
	"github.com/shrimpsizemoose/encore/internal/store/sqlite"
)

func NewStore(dsn string) (store.CompetitionStore, error) {
	dbType := store.DBTypeSQLite
	if strings.HasPrefix(dsn, "postgres") {
		dbType = store.DBTypePostgres
	}

	switch dbType {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(dsn)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(&store.DBConfig{DSN: dsn, Type: dbType})
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", dsn)
	}
}
