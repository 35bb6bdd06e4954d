package mssql

import (
	"context"
	"fmt"

	"github.com/hd9319/ecommerce-app/internal/ddl"
	"github.com/hd9319/ecommerce-app/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("mssql", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		stmt, err := buildCreateTableSQL(cfg)
		if err != nil {
			return err
		}
		return repo.Exec(ctx, stmt)
	})
}

// wrappedRepo adapts *mssql.Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() { w.closeFn() }

// buildCreateTableSQL wraps the generic builder in an existence guard since
// T-SQL has no CREATE TABLE IF NOT EXISTS.
func buildCreateTableSQL(cfg storage.Config) (string, error) {
	t := ddl.TableDef{Name: cfg.Table}
	for _, c := range cfg.Schema {
		if c.Identity {
			t.Columns = append(t.Columns, ddl.ColumnDef{
				Name:     c.Name,
				SQLType:  "BIGINT IDENTITY(1,1) PRIMARY KEY",
				Nullable: true, // NOT NULL is implied by the primary key
			})
			continue
		}
		t.Columns = append(t.Columns, ddl.ColumnDef{
			Name:     c.Name,
			SQLType:  msType(c.Type),
			Nullable: c.Nullable,
			Default:  c.Default,
		})
	}
	create, err := ddl.BuildCreateTableSQL(t, msIdent, false)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\n%s", cfg.Table, create), nil
}

func msType(portable string) string {
	switch portable {
	case "float":
		return "FLOAT"
	case "int":
		return "INT"
	case "timestamp":
		return "DATETIME2"
	default:
		return "NVARCHAR(1024)"
	}
}
