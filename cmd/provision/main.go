// The provision binary creates the Electronics, Inventory and Brands tables
// for the configured backend. It is the documented out-of-band migration
// step; the pipeline itself never creates product tables.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/hd9319/ecommerce-app/internal/apperr"
	"github.com/hd9319/ecommerce-app/internal/config"
	"github.com/hd9319/ecommerce-app/internal/logging"
	"github.com/hd9319/ecommerce-app/internal/schema"
	"github.com/hd9319/ecommerce-app/internal/storage"

	_ "github.com/hd9319/ecommerce-app/internal/storage/all"
)

func main() {
	var logDir string
	flag.StringVar(&logDir, "log-dir", "logs", "directory for the dated log file")
	flag.Parse()

	log := logging.Setup("provision", logDir)

	cfg, err := config.Load()
	if err != nil {
		fatal(log, err)
	}

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{
		Kind: cfg.DB.Kind,
		DSN:  cfg.DB.DSN(),
	})
	if err != nil {
		fatal(log, apperr.Config(cfg.DB.Kind, err))
	}
	defer repo.Close()

	tables := []struct {
		name string
		spec []storage.ColumnSpec
	}{
		{cfg.DB.ProductTable, schema.ElectronicsTable()},
		{cfg.DB.InventoryTable, schema.InventoryTable()},
		{cfg.DB.BrandsTable, schema.BrandsTable()},
	}
	for _, t := range tables {
		if t.name == "" {
			continue
		}
		if !storage.ValidTableName(t.name) {
			fatal(log, apperr.Configf(t.name, "invalid table name %q", t.name))
		}
		err := storage.EnsureTable(ctx, repo, storage.Config{
			Kind:   cfg.DB.Kind,
			Table:  t.name,
			Schema: t.spec,
		})
		if err != nil {
			fatal(log, apperr.Load(t.name, err))
		}
		log.Info().Str("table", t.name).Msg("table ensured")
	}
}

func fatal(log zerolog.Logger, err error) {
	kind := "unknown"
	if k, ok := apperr.KindOf(err); ok {
		kind = k.String()
	}
	var appErr *apperr.Error
	ev := log.Error().Str("type", kind)
	if errors.As(err, &appErr) && appErr.Resource != "" {
		ev = ev.Str("resource", appErr.Resource)
	}
	ev.Msg(err.Error())
	os.Exit(1)
}
