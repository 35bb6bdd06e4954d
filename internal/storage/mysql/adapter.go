package mysql

import (
	"context"

	"github.com/hd9319/ecommerce-app/internal/ddl"
	"github.com/hd9319/ecommerce-app/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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

	storage.RegisterDDL("mysql", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		t := ddl.TableDef{Name: cfg.Table}
		for _, c := range cfg.Schema {
			if c.Identity {
				t.Columns = append(t.Columns, ddl.ColumnDef{
					Name:     c.Name,
					SQLType:  "BIGINT AUTO_INCREMENT PRIMARY KEY",
					Nullable: true, // NOT NULL is implied by the primary key
				})
				continue
			}
			t.Columns = append(t.Columns, ddl.ColumnDef{
				Name:     c.Name,
				SQLType:  myType(c.Type),
				Nullable: c.Nullable,
				Default:  c.Default,
			})
		}
		stmt, err := ddl.BuildCreateTableSQL(t, myIdent, true)
		if err != nil {
			return err
		}
		return repo.Exec(ctx, stmt)
	})
}

// wrappedRepo adapts *mysql.Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() { w.closeFn() }

func myType(portable string) string {
	switch portable {
	case "float":
		return "DOUBLE"
	case "int":
		return "INT"
	case "timestamp":
		return "TIMESTAMP"
	default:
		return "VARCHAR(1024)"
	}
}
