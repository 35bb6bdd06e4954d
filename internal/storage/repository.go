// Package storage defines the backend-agnostic repository abstraction and a
// registry of concrete backends keyed by kind ("postgres", "mssql", "mysql",
// "sqlite"). Backends register themselves at init time; callers open a
// Repository through New and stay ignorant of the driver underneath.
package storage

import (
	"context"
	"fmt"
	"regexp"
	"sync"
)

// Repository is the write surface the pipeline loads through.
//
// Replace atomically swaps the table contents: it deletes every existing row
// and inserts the given rows inside one transaction, so readers never observe
// a half-loaded table. Rows are positional and must line up with columns.
type Repository interface {
	Replace(ctx context.Context, columns []string, rows [][]any) (int64, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Close()
}

// ColumnSpec carries the portable column description backends translate into
// their own SQL types when bootstrapping tables. Identity marks an
// auto-incrementing primary key; Default is a raw SQL expression that must be
// valid in every configured dialect (literals and CURRENT_TIMESTAMP are).
type ColumnSpec struct {
	Name     string
	Type     string // "text", "float" or "int"
	Nullable bool
	Default  string
	Identity bool
}

// Config selects and configures a backend.
type Config struct {
	Kind    string
	DSN     string
	Table   string
	Columns []string
	Schema  []ColumnSpec
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// identPattern admits plain or schema-qualified SQL identifiers. Table names
// arrive from the environment, so they are allow-listed here rather than
// trusted into interpolated DDL and DML.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidTableName reports whether name is safe to embed in SQL statements.
func ValidTableName(name string) bool { return identPattern.MatchString(name) }

// Register installs (or replaces) the factory for a backend kind. Called from
// backend packages' init functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Table != "" && !ValidTableName(cfg.Table) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Table)
	}
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a snapshot of the registered backend kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	return kinds
}
