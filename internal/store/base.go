package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"
)

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB *sqlx.DB
	// Converter rewrites '?' placeholders of static queries for the dialect.
	Converter func(string) string
	// Builder is used for queries whose WHERE clause depends on the caller.
	Builder   sq.StatementBuilderType
	TxOptions *sql.TxOptions
	// IsConflict reports driver errors that a client should retry.
	IsConflict func(error) bool

	ext sqlx.ExtContext
}

func (s *BaseStore) q() sqlx.ExtContext {
	if s.ext != nil {
		return s.ext
	}
	return s.DB
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		logger.Debug.Printf("Applying migration: %s", file.Name())
		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) WithTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.DB.BeginTxx(ctx, s.TxOptions)
	if err != nil {
		return s.wrap("begin transaction", err)
	}

	txStore := *s
	txStore.ext = tx

	if err := fn(&txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error.Printf("Rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return s.wrap("commit transaction", err)
	}
	return nil
}

func (s *BaseStore) wrap(op string, err error) error {
	if s.IsConflict != nil && s.IsConflict(err) {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func (s *BaseStore) get(ctx context.Context, dest any, op, query string, args ...any) (bool, error) {
	err := sqlx.GetContext(ctx, s.q(), dest, s.Converter(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, s.wrap(op, err)
	}
	return true, nil
}

func (s *BaseStore) selectAll(ctx context.Context, dest any, op, query string, args ...any) error {
	if err := sqlx.SelectContext(ctx, s.q(), dest, s.Converter(query), args...); err != nil {
		return s.wrap(op, err)
	}
	return nil
}

func (s *BaseStore) exec(ctx context.Context, op, query string, args ...any) error {
	if _, err := s.q().ExecContext(ctx, s.Converter(query), args...); err != nil {
		return s.wrap(op, err)
	}
	return nil
}

func (s *BaseStore) namedExec(ctx context.Context, op, query string, arg any) error {
	if _, err := sqlx.NamedExecContext(ctx, s.q(), query, arg); err != nil {
		return s.wrap(op, err)
	}
	return nil
}

func (s *BaseStore) selectBuilt(ctx context.Context, dest any, op string, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s query: %w", op, err)
	}
	if err := sqlx.SelectContext(ctx, s.q(), dest, query, args...); err != nil {
		return s.wrap(op, err)
	}
	return nil
}
