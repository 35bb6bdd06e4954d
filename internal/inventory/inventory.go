// Package inventory implements the supplier inventory flow: a CSV feed is
// read, cleaned, validated against the inventory contract, loaded into the
// Inventory table and finally merged into the product table's Quantity
// column by (Brand, PartNumber).
package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hd9319/ecommerce-app/internal/apperr"
	"github.com/hd9319/ecommerce-app/internal/load"
	"github.com/hd9319/ecommerce-app/internal/schema"
	"github.com/hd9319/ecommerce-app/internal/storage"
	"github.com/hd9319/ecommerce-app/internal/transform"
	"github.com/hd9319/ecommerce-app/internal/transform/builtin"
	"github.com/hd9319/ecommerce-app/internal/validate"
	"github.com/hd9319/ecommerce-app/pkg/records"
)

// Pipeline runs the inventory flow against an already-open repository.
type Pipeline struct {
	Repo           storage.Repository
	InventoryTable string
	ProductTable   string
	Kind           string
	Log            zerolog.Logger
}

// ReadCSV parses a supplier inventory feed. The first row is the header;
// empty cells are left absent so defaulting and required-field filtering see
// them the same way as missing JSON fields. A malformed feed is fatal, there
// is only one file per run.
func ReadCSV(name string, r io.Reader) ([]records.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, apperr.Parse(name, fmt.Errorf("read header: %w", err))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var recs []records.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Parse(name, err)
		}
		rec := make(records.Record, len(header))
		for i, field := range header {
			if i >= len(row) {
				break
			}
			if v := row[i]; v != "" {
				rec[field] = v
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Run cleans, validates and loads recs, then merges quantities into the
// product table. The merge only runs after a successful load so the product
// table never picks up quantities from a half-applied feed.
func (p *Pipeline) Run(ctx context.Context, recs []records.Record) (int64, error) {
	contract := schema.Inventory()

	dropped := map[string]int{}
	chain := append(
		transform.Chain{builtin.Normalize{}},
		transform.ForContract(contract, func(reason string) { dropped[reason]++ })...,
	)
	cleaned, err := chain.Apply(recs)
	if err != nil {
		return 0, err
	}
	for reason, n := range dropped {
		p.Log.Warn().Str("type", "transform").Int("rows", n).Msg(reason)
	}

	if mm := validate.Table(cleaned, contract); len(mm) > 0 {
		return 0, validate.Err(mm)
	}

	loader := &load.Loader{
		Repo:    p.Repo,
		Table:   p.InventoryTable,
		Columns: schema.InventoryColumns(),
		Log:     p.Log,
	}
	n, err := loader.Load(ctx, cleaned)
	if err != nil {
		return 0, err
	}

	if err := p.merge(ctx); err != nil {
		return n, err
	}
	return n, nil
}

// merge copies supplier quantities into the product table for every matching
// (Brand, PartNumber) pair. Products without a feed row keep the unknown
// quantity sentinel they were loaded with.
func (p *Pipeline) merge(ctx context.Context) error {
	stmt, err := MergeSQL(p.Kind, p.ProductTable, p.InventoryTable)
	if err != nil {
		return err
	}
	if err := p.Repo.Exec(ctx, stmt); err != nil {
		if errors.Is(err, storage.ErrTableNotFound) {
			return apperr.Config(p.ProductTable, err)
		}
		return apperr.Load(p.ProductTable, err)
	}
	p.Log.Info().
		Str("product_table", p.ProductTable).
		Str("inventory_table", p.InventoryTable).
		Msg("quantities merged")
	return nil
}

// MergeSQL renders the join update for the given dialect. Table names are
// allow-listed, the join columns are fixed. Identifiers are quoted the same
// way the backend quotes them during provisioning and replacement, so a
// table created as "Electronics" on Postgres is not folded to electronics
// here.
func MergeSQL(kind, productTable, inventoryTable string) (string, error) {
	if !storage.ValidTableName(productTable) {
		return "", apperr.Configf(productTable, "invalid product table name %q", productTable)
	}
	if !storage.ValidTableName(inventoryTable) {
		return "", apperr.Configf(inventoryTable, "invalid inventory table name %q", inventoryTable)
	}

	var (
		products  = storage.QuoteName(kind, productTable)
		inv       = storage.QuoteName(kind, inventoryTable)
		brand     = storage.QuoteName(kind, "Brand")
		part      = storage.QuoteName(kind, "PartNumber")
		qty       = storage.QuoteName(kind, "Quantity")
		joinCond  = fmt.Sprintf("P.%s = I.%s AND P.%s = I.%s", brand, brand, part, part)
		setClause = fmt.Sprintf("P.%s = I.%s", qty, qty)
	)

	switch kind {
	case "mysql":
		return fmt.Sprintf(
			"UPDATE %s AS P INNER JOIN %s AS I ON %s SET %s",
			products, inv, joinCond, setClause,
		), nil
	case "mssql":
		return fmt.Sprintf(
			"UPDATE P SET %s FROM %s AS P INNER JOIN %s AS I ON %s",
			setClause, products, inv, joinCond,
		), nil
	case "postgres", "sqlite":
		// The SET target must not carry the alias in UPDATE..FROM form.
		return fmt.Sprintf(
			"UPDATE %s AS P SET %s = I.%s FROM %s AS I WHERE %s",
			products, qty, qty, inv, joinCond,
		), nil
	default:
		return "", apperr.Configf(kind, "no quantity merge statement for storage.kind=%s", kind)
	}
}
