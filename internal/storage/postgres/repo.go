// Package postgres implements a Postgres repository on pgx v5. Replace runs
// a TRUNCATE followed by a COPY protocol bulk insert inside one transaction,
// so the old catalog stays visible until the new one commits.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hd9319/ecommerce-app/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN     string
	Table   string
	Columns []string
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, closeFn, nil
}

// Replace truncates the target table and COPYs the given rows into it inside
// a single transaction.
func (r *Repository) Replace(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+pgFQN(r.cfg.Table)); err != nil {
		return 0, fmt.Errorf("truncate %s: %w", r.cfg.Table, mapErr(err))
	}

	n, err := tx.CopyFrom(ctx, tableIdent(r.cfg.Table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return 0, fmt.Errorf("copy into %s: %s (%s)", r.cfg.Table, pgErr.Detail, pgErr.SQLState())
		}
		return 0, fmt.Errorf("copy into %s: %w", r.cfg.Table, mapErr(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// Exec executes a SQL statement against the pool with positional arguments.
func (r *Repository) Exec(ctx context.Context, sqlText string, args ...any) error {
	_, err := r.pool.Exec(ctx, sqlText, args...)
	return mapErr(err)
}

// mapErr translates undefined_table (42P01) into the portable sentinel.
func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return fmt.Errorf("%w: %s", storage.ErrTableNotFound, pgErr.Message)
	}
	return err
}

// tableIdent splits a dotted name into a pgx identifier.
func tableIdent(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(name, "."))
}

// pgIdent safely double-quotes a Postgres identifier.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "public.electronics".
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}
