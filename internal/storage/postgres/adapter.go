package postgres

import (
	"context"

	"github.com/hd9319/ecommerce-app/internal/ddl"
	"github.com/hd9319/ecommerce-app/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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

	storage.RegisterDDL("postgres", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		stmt, err := ddl.BuildCreateTableSQL(tableDef(cfg), pgIdent, true)
		if err != nil {
			return err
		}
		return repo.Exec(ctx, stmt)
	})
}

// wrappedRepo adapts *postgres.Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() { w.closeFn() }

// tableDef maps the portable column schema onto Postgres types.
func tableDef(cfg storage.Config) ddl.TableDef {
	t := ddl.TableDef{Name: cfg.Table}
	for _, c := range cfg.Schema {
		if c.Identity {
			t.Columns = append(t.Columns, ddl.ColumnDef{
				Name:     c.Name,
				SQLType:  "BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY",
				Nullable: true, // NOT NULL is implied by the primary key
			})
			continue
		}
		t.Columns = append(t.Columns, ddl.ColumnDef{
			Name:     c.Name,
			SQLType:  pgType(c.Type),
			Nullable: c.Nullable,
			Default:  c.Default,
		})
	}
	return t
}

func pgType(portable string) string {
	switch portable {
	case "float":
		return "DOUBLE PRECISION"
	case "int":
		return "INTEGER"
	case "timestamp":
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}
