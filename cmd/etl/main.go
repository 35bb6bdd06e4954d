// The etl binary runs the daily catalog pipeline: extract the scraped JSON
// snapshots, transform and validate them against the product contract, and
// replace the Electronics table in one transaction. On success the Brands
// lookup table is reseeded from the loaded catalog.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hd9319/ecommerce-app/internal/apperr"
	"github.com/hd9319/ecommerce-app/internal/config"
	"github.com/hd9319/ecommerce-app/internal/extract"
	"github.com/hd9319/ecommerce-app/internal/load"
	"github.com/hd9319/ecommerce-app/internal/logging"
	"github.com/hd9319/ecommerce-app/internal/metrics"
	"github.com/hd9319/ecommerce-app/internal/metrics/prompush"
	"github.com/hd9319/ecommerce-app/internal/schema"
	"github.com/hd9319/ecommerce-app/internal/storage"
	"github.com/hd9319/ecommerce-app/internal/transform"
	"github.com/hd9319/ecommerce-app/internal/validate"

	// register all backends with the storage factory.
	_ "github.com/hd9319/ecommerce-app/internal/storage/all"
)

func main() {
	var (
		dataDir  string
		logDir   string
		skipSeed bool
	)
	flag.StringVar(&dataDir, "data-dir", "", "snapshot directory (overrides DATA_DIR)")
	flag.StringVar(&logDir, "log-dir", "logs", "directory for the dated log file")
	flag.BoolVar(&skipSeed, "skip-brand-seed", false, "do not reseed the brands table after loading")
	flag.Parse()

	log := logging.Setup("etl", logDir)

	cfg, err := config.Load()
	if err != nil {
		fatal(log, err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if cfg.PushgatewayURL != "" {
		b, err := prompush.NewBackend("catalog-etl", cfg.PushgatewayURL)
		if err != nil {
			fatal(log, err)
		}
		metrics.SetBackend(b)
	}

	ctx := context.Background()
	if err := run(ctx, cfg, log, !skipSeed); err != nil {
		if ferr := metrics.Flush(); ferr != nil {
			log.Warn().Err(ferr).Msg("metrics push failed")
		}
		fatal(log, err)
	}
	if err := metrics.Flush(); err != nil {
		log.Warn().Err(err).Msg("metrics push failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, seedBrands bool) error {
	started := time.Now()

	// Extract.
	stepStart := time.Now()
	ex := &extract.Extractor{Dir: cfg.DataDir, Subset: schema.ExtractSubset(), Log: log}
	table, err := ex.Extract(ctx)
	metrics.RecordStep("extract", err, time.Since(stepStart))
	if err != nil {
		return err
	}
	metrics.RecordRows("extracted", int64(len(table.Rows)))

	// Transform. Drops are data quality, not failures; they are counted and
	// reported in aggregate after the chain runs.
	contract := schema.Electronics()
	dropped := map[string]int{}
	stepStart = time.Now()
	chain := transform.ForContract(contract, func(reason string) { dropped[reason]++ })
	rows, err := chain.Apply(table.Rows)
	metrics.RecordStep("transform", err, time.Since(stepStart))
	if err != nil {
		return err
	}
	var droppedTotal int64
	for reason, n := range dropped {
		droppedTotal += int64(n)
		log.Warn().Str("type", "transform").Int("rows", n).Msg(reason)
	}
	metrics.RecordRows("dropped", droppedTotal)

	// Validate.
	stepStart = time.Now()
	mm := validate.Table(rows, contract)
	err = validate.Err(mm)
	metrics.RecordStep("validate", err, time.Since(stepStart))
	if err != nil {
		return err
	}

	// Load.
	repo, err := storage.New(ctx, storage.Config{
		Kind:    cfg.DB.Kind,
		DSN:     cfg.DB.DSN(),
		Table:   cfg.DB.ProductTable,
		Columns: schema.ElectronicsColumns().Dests(),
	})
	if err != nil {
		return apperr.Config(cfg.DB.Kind, err)
	}
	defer repo.Close()

	stepStart = time.Now()
	loader := &load.Loader{
		Repo:    repo,
		Table:   cfg.DB.ProductTable,
		Columns: schema.ElectronicsColumns(),
		Log:     log,
	}
	n, err := loader.Load(ctx, rows)
	metrics.RecordStep("load", err, time.Since(stepStart))
	if err != nil {
		return err
	}
	metrics.RecordRows("loaded", n)

	if seedBrands {
		if err := load.SeedBrands(ctx, repo, cfg.DB.Kind, cfg.DB.BrandsTable, cfg.DB.ProductTable, "BB"); err != nil {
			// The catalog itself landed; a stale brand list is tolerable.
			log.Warn().Err(err).Msg("brand seeding failed")
		}
	}

	log.Info().
		Int("extracted", len(table.Rows)).
		Int64("dropped", droppedTotal).
		Int64("loaded", n).
		Dur("elapsed", time.Since(started)).
		Msg("catalog run complete")
	return nil
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
