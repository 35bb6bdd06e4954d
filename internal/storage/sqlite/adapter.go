package sqlite

import (
	"context"

	"github.com/hd9319/ecommerce-app/internal/ddl"
	"github.com/hd9319/ecommerce-app/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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

	storage.RegisterDDL("sqlite", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		t := ddl.TableDef{Name: cfg.Table}
		for _, c := range cfg.Schema {
			if c.Identity {
				t.Columns = append(t.Columns, ddl.ColumnDef{
					Name:     c.Name,
					SQLType:  "INTEGER PRIMARY KEY AUTOINCREMENT",
					Nullable: true, // NOT NULL is implied by the primary key
				})
				continue
			}
			t.Columns = append(t.Columns, ddl.ColumnDef{
				Name:     c.Name,
				SQLType:  sqType(c.Type),
				Nullable: c.Nullable,
				Default:  c.Default,
			})
		}
		stmt, err := ddl.BuildCreateTableSQL(t, sqIdent, true)
		if err != nil {
			return err
		}
		return repo.Exec(ctx, stmt)
	})
}

// wrappedRepo adapts *sqlite.Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() { w.closeFn() }

func sqType(portable string) string {
	switch portable {
	case "float":
		return "REAL"
	case "int":
		return "INTEGER"
	case "timestamp":
		return "TEXT"
	default:
		return "TEXT"
	}
}
