// Package load projects validated records through a column map and hands
// them to a storage backend as one atomic table replacement.
package load

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/hd9319/ecommerce-app/internal/apperr"
	"github.com/hd9319/ecommerce-app/internal/schema"
	"github.com/hd9319/ecommerce-app/internal/storage"
	"github.com/hd9319/ecommerce-app/pkg/records"
)

// sourceCodePattern admits the short alphanumeric supplier codes ("BB")
// spliced into the seeding statement as a literal.
var sourceCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,16}$`)

// Loader writes a record batch into one table through a Repository.
type Loader struct {
	Repo    storage.Repository
	Table   string
	Columns schema.ColumnMap
	Log     zerolog.Logger
}

// Load replaces the target table's contents with recs. The delete and the
// inserts share a transaction inside the repository, so a failure partway
// through leaves the previous contents intact.
//
// A missing target table is reported as a configuration error: the pipeline
// never creates product tables on the fly, that is provisioning's job.
func (l *Loader) Load(ctx context.Context, recs []records.Record) (int64, error) {
	columns := l.Columns.Dests()
	sources := l.Columns.Sources()

	rows := make([][]any, len(recs))
	for i, rec := range recs {
		row := make([]any, len(sources))
		for j, src := range sources {
			row[j] = rec[src]
		}
		rows[i] = row
	}

	n, err := l.Repo.Replace(ctx, columns, rows)
	if err != nil {
		if errors.Is(err, storage.ErrTableNotFound) {
			return 0, apperr.Config(l.Table, err)
		}
		return 0, apperr.Load(l.Table, err)
	}

	l.Log.Info().
		Str("table", l.Table).
		Int64("rows", n).
		Msg("table replaced")
	return n, nil
}

// SeedBrands rebuilds the brand lookup table from the distinct brands present
// in the product table, tagging each row with the supplier source code. It
// runs only after a successful product load, and its failure is reported but
// does not fail the run. Identifiers are quoted per storage kind so the
// statements hit the tables provisioning created.
func SeedBrands(ctx context.Context, repo storage.Repository, kind, brandsTable, productTable, source string) error {
	if !storage.ValidTableName(brandsTable) {
		return apperr.Configf(brandsTable, "invalid brands table name %q", brandsTable)
	}
	if !storage.ValidTableName(productTable) {
		return apperr.Configf(productTable, "invalid product table name %q", productTable)
	}
	if !sourceCodePattern.MatchString(source) {
		return apperr.Configf(source, "invalid supplier source code %q", source)
	}

	brands := storage.QuoteName(kind, brandsTable)
	products := storage.QuoteName(kind, productTable)

	if err := repo.Exec(ctx, "DELETE FROM "+brands); err != nil {
		return apperr.Load(brandsTable, err)
	}
	seed := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) SELECT DISTINCT %s, '%s' FROM %s WHERE %s IS NOT NULL",
		brands,
		storage.QuoteName(kind, "Name"), storage.QuoteName(kind, "SupplierSource"),
		storage.QuoteName(kind, "Brand"), source, products, storage.QuoteName(kind, "Brand"),
	)
	if err := repo.Exec(ctx, seed); err != nil {
		return apperr.Load(brandsTable, err)
	}
	return nil
}
