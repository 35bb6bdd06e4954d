package load

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hd9319/ecommerce-app/internal/apperr"
	"github.com/hd9319/ecommerce-app/internal/schema"
	"github.com/hd9319/ecommerce-app/internal/storage"
	"github.com/hd9319/ecommerce-app/internal/transform"
	"github.com/hd9319/ecommerce-app/pkg/records"
)

// fakeRepo captures Replace and Exec calls for assertions.
type fakeRepo struct {
	columns    []string
	rows       [][]any
	execd      []string
	replaceErr error
	execErr    error
}

func (f *fakeRepo) Replace(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	f.columns = columns
	f.rows = rows
	return int64(len(rows)), nil
}

func (f *fakeRepo) Exec(ctx context.Context, sql string, args ...any) error {
	if f.execErr != nil {
		return f.execErr
	}
	f.execd = append(f.execd, sql)
	return nil
}

func (f *fakeRepo) Close() {}

func TestLoader_ProjectsColumnMap(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	l := &Loader{
		Repo:  repo,
		Table: "Electronics",
		Columns: schema.ColumnMap{
			{Source: "brand", Dest: "Brand"},
			{Source: "sku", Dest: "PartNumber"},
			{Source: "salePrice", Dest: "SalePrice"},
		},
		Log: zerolog.Nop(),
	}

	n, err := l.Load(context.Background(), []records.Record{
		{"brand": "ACER", "sku": "1", "salePrice": 549.99, "extra": "ignored"},
		{"brand": "LG", "sku": "2", "salePrice": 99.0, "regularPrice": nil},
	})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if n != 2 {
		t.Fatalf("Load = %d rows, want 2", n)
	}

	wantColumns := []string{"Brand", "PartNumber", "SalePrice"}
	if !reflect.DeepEqual(repo.columns, wantColumns) {
		t.Fatalf("columns = %v, want %v", repo.columns, wantColumns)
	}
	wantRows := [][]any{
		{"ACER", "1", 549.99},
		{"LG", "2", 99.0},
	}
	if !reflect.DeepEqual(repo.rows, wantRows) {
		t.Fatalf("rows = %v, want %v", repo.rows, wantRows)
	}
}

func TestLoader_ErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		repoErr  error
		wantKind apperr.Kind
	}{
		{
			name:     "missing_table_is_config",
			repoErr:  fmt.Errorf("clear Electronics: %w", storage.ErrTableNotFound),
			wantKind: apperr.KindConfig,
		},
		{
			name:     "other_sql_failure_is_load",
			repoErr:  errors.New("deadlock"),
			wantKind: apperr.KindLoad,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			l := &Loader{
				Repo:    &fakeRepo{replaceErr: tc.repoErr},
				Table:   "Electronics",
				Columns: schema.ElectronicsColumns(),
				Log:     zerolog.Nop(),
			}
			_, err := l.Load(context.Background(), []records.Record{{"brand": "A"}})
			if err == nil {
				t.Fatal("Load returned nil error")
			}
			if kind, ok := apperr.KindOf(err); !ok || kind != tc.wantKind {
				t.Fatalf("error kind = %v (classified %v), want %v", kind, ok, tc.wantKind)
			}
		})
	}
}

func TestSeedBrands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind       string
		wantDelete string
		wantInsert string
	}{
		{
			// Postgres folds unquoted identifiers to lower case, so the
			// statements must quote the same way provisioning did.
			kind:       "postgres",
			wantDelete: `DELETE FROM "Brands"`,
			wantInsert: `INSERT INTO "Brands" ("Name", "SupplierSource") SELECT DISTINCT "Brand", 'BB' FROM "Electronics" WHERE "Brand" IS NOT NULL`,
		},
		{
			kind:       "mysql",
			wantDelete: "DELETE FROM `Brands`",
			wantInsert: "INSERT INTO `Brands` (`Name`, `SupplierSource`) SELECT DISTINCT `Brand`, 'BB' FROM `Electronics` WHERE `Brand` IS NOT NULL",
		},
		{
			kind:       "mssql",
			wantDelete: "DELETE FROM [Brands]",
			wantInsert: "INSERT INTO [Brands] ([Name], [SupplierSource]) SELECT DISTINCT [Brand], 'BB' FROM [Electronics] WHERE [Brand] IS NOT NULL",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.kind, func(t *testing.T) {
			t.Parallel()

			repo := &fakeRepo{}
			if err := SeedBrands(context.Background(), repo, tc.kind, "Brands", "Electronics", "BB"); err != nil {
				t.Fatalf("SeedBrands error: %v", err)
			}
			if len(repo.execd) != 2 {
				t.Fatalf("statements = %v, want delete then insert", repo.execd)
			}
			if repo.execd[0] != tc.wantDelete {
				t.Fatalf("first statement = %q, want %q", repo.execd[0], tc.wantDelete)
			}
			if repo.execd[1] != tc.wantInsert {
				t.Fatalf("second statement = %q, want %q", repo.execd[1], tc.wantInsert)
			}
		})
	}
}

func TestSeedBrands_RejectsUnsafeNames(t *testing.T) {
	t.Parallel()

	err := SeedBrands(context.Background(), &fakeRepo{}, "mysql", "Brands; DROP TABLE x", "Electronics", "BB")
	if err == nil {
		t.Fatal("SeedBrands accepted an unsafe table name")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindConfig {
		t.Fatalf("error kind = %v (classified %v), want KindConfig", kind, ok)
	}
}

// TestLoader_RerunLeavesIdenticalContent runs the catalog chain and load
// twice from the same raw snapshot rows. Replace is a total replacement, so
// a rerun must hand the repository an identical payload and leave identical
// destination content.
func TestLoader_RerunLeavesIdenticalContent(t *testing.T) {
	t.Parallel()

	raw := []records.Record{
		{
			"brand": "ACER", "sku": "10054425", "categoryName": "Laptops",
			"highResImage": "https://img/1.jpg", "regularPrice": 699.99,
			"salePrice": 549.99, "shortDescription": "15.6in",
			"customerRating": 4.5, "customerRatingCount": float64(20),
			"customerReviewCount": float64(8), "productUrl": "https://shop/1",
		},
		{
			"brand": "LG", "sku": "20000001",
			"highResImage": "https://img/2.jpg", "salePrice": 99.0,
			"productUrl": "https://shop/2",
		},
	}

	repo := &fakeRepo{}
	l := &Loader{
		Repo:    repo,
		Table:   "Electronics",
		Columns: schema.ElectronicsColumns(),
		Log:     zerolog.Nop(),
	}

	contract := schema.Electronics()
	var firstColumns []string
	var firstRows [][]any
	for run := 0; run < 2; run++ {
		// Fresh clones each run, as a real rerun re-reads the snapshot.
		recs := make([]records.Record, len(raw))
		for i, r := range raw {
			recs[i] = r.Clone()
		}
		rows, err := transform.ForContract(contract, nil).Apply(recs)
		if err != nil {
			t.Fatalf("run %d: transform error: %v", run, err)
		}
		if _, err := l.Load(context.Background(), rows); err != nil {
			t.Fatalf("run %d: Load error: %v", run, err)
		}
		if run == 0 {
			firstColumns = repo.columns
			firstRows = repo.rows
		}
	}

	if !reflect.DeepEqual(repo.columns, firstColumns) {
		t.Fatalf("second run columns = %v, first run = %v", repo.columns, firstColumns)
	}
	if !reflect.DeepEqual(repo.rows, firstRows) {
		t.Fatalf("second run rows = %v, first run = %v", repo.rows, firstRows)
	}
}
