package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/migrations"
)

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
	// IsUniqueViolation recognises the driver's unique-constraint error.
	IsUniqueViolation func(error) bool
	// TranslateSQL rewrites the Postgres-dialect migrations, nil for Postgres.
	TranslateSQL func(string) string

	tx *sqlx.Tx
}

func (s *BaseStore) Close() error {
	if s.tx != nil {
		return nil
	}
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *BaseStore) ext() sqlx.ExtContext {
	if s.tx != nil {
		return s.tx
	}
	return s.DB
}

func (s *BaseStore) q(query string) string {
	if s.Converter == nil {
		return query
	}
	return s.Converter(query)
}

// ApplyMigrations applies the embedded SQL migrations in name order, translating dialect if needed
func (s *BaseStore) ApplyMigrations() error {
	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		query := string(content)
		if s.TranslateSQL != nil {
			query = s.TranslateSQL(query)
		}

		logger.Info.Printf("Applying migration: %s", name)
		for _, stmt := range strings.Split(query, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := s.DB.Exec(stmt); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", name, err)
			}
		}
	}

	return nil
}

func (s *BaseStore) InTx(ctx context.Context, fn func(CompetitionStore) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return s.wrap("failed to begin transaction", err)
	}

	txStore := &BaseStore{
		DB:                s.DB,
		Converter:         s.Converter,
		IsUniqueViolation: s.IsUniqueViolation,
		TranslateSQL:      s.TranslateSQL,
		tx:                tx,
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error.Printf("Rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return s.wrap("failed to commit transaction", err)
	}
	return nil
}

// wrap tags driver failures so callers can tell a conflict from an outage.
func (s *BaseStore) wrap(msg string, err error) error {
	if s.IsUniqueViolation != nil && s.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", msg, models.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, models.ErrDependency, err)
}

// get returns (false, nil) when no row matches.
func (s *BaseStore) get(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := sqlx.GetContext(ctx, s.ext(), dest, s.q(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *BaseStore) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := s.ext().ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *BaseStore) selectRows(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, s.ext(), dest, s.q(query), args...)
}
