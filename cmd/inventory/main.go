// The inventory binary downloads the supplier inventory feed over FTP,
// loads it into the Inventory table and merges quantities into the product
// catalog by (Brand, PartNumber).
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hd9319/ecommerce-app/internal/apperr"
	"github.com/hd9319/ecommerce-app/internal/config"
	"github.com/hd9319/ecommerce-app/internal/ftpfetch"
	"github.com/hd9319/ecommerce-app/internal/inventory"
	"github.com/hd9319/ecommerce-app/internal/logging"
	"github.com/hd9319/ecommerce-app/internal/metrics"
	"github.com/hd9319/ecommerce-app/internal/metrics/prompush"
	"github.com/hd9319/ecommerce-app/internal/storage"

	_ "github.com/hd9319/ecommerce-app/internal/storage/all"
)

func main() {
	var (
		logDir       string
		skipDownload bool
	)
	flag.StringVar(&logDir, "log-dir", "logs", "directory for the dated log file")
	flag.BoolVar(&skipDownload, "skip-download", false, "use the existing local feed instead of fetching over FTP")
	flag.Parse()

	log := logging.Setup("inventory", logDir)

	cfg, err := config.Load()
	if err != nil {
		fatal(log, err)
	}
	ftpCfg, err := config.LoadFTP()
	if err != nil {
		fatal(log, err)
	}
	if cfg.DB.InventoryTable == "" {
		fatal(log, apperr.Configf("PDB_INVENTORY_TABLE", "required environment variable PDB_INVENTORY_TABLE is not set"))
	}

	if cfg.PushgatewayURL != "" {
		b, err := prompush.NewBackend("inventory", cfg.PushgatewayURL)
		if err != nil {
			fatal(log, err)
		}
		metrics.SetBackend(b)
	}

	ctx := context.Background()
	if err := run(ctx, cfg, ftpCfg, log, skipDownload); err != nil {
		if ferr := metrics.Flush(); ferr != nil {
			log.Warn().Err(ferr).Msg("metrics push failed")
		}
		fatal(log, err)
	}
	if err := metrics.Flush(); err != nil {
		log.Warn().Err(err).Msg("metrics push failed")
	}
}

func run(ctx context.Context, cfg *config.Config, ftpCfg config.FTP, log zerolog.Logger, skipDownload bool) error {
	started := time.Now()

	if !skipDownload {
		port, err := strconv.Atoi(ftpCfg.Port)
		if err != nil {
			return apperr.Configf("FTP_PORT", "invalid FTP_PORT %q", ftpCfg.Port)
		}
		client := &ftpfetch.Client{
			Host:     ftpCfg.Host,
			Port:     port,
			User:     ftpCfg.User,
			Password: ftpCfg.Password,
			Log:      log,
		}
		stepStart := time.Now()
		err = client.Download(ctx, ftpCfg.InventoryFile, ftpCfg.LocalPath)
		metrics.RecordStep("download", err, time.Since(stepStart))
		if err != nil {
			return err
		}
	}

	f, err := os.Open(ftpCfg.LocalPath)
	if err != nil {
		return apperr.Config(ftpCfg.LocalPath, err)
	}
	recs, err := inventory.ReadCSV(ftpCfg.LocalPath, f)
	f.Close()
	if err != nil {
		return err
	}
	metrics.RecordRows("extracted", int64(len(recs)))

	repo, err := storage.New(ctx, storage.Config{
		Kind:  cfg.DB.Kind,
		DSN:   cfg.DB.DSN(),
		Table: cfg.DB.InventoryTable,
	})
	if err != nil {
		return apperr.Config(cfg.DB.Kind, err)
	}
	defer repo.Close()

	p := &inventory.Pipeline{
		Repo:           repo,
		InventoryTable: cfg.DB.InventoryTable,
		ProductTable:   cfg.DB.ProductTable,
		Kind:           cfg.DB.Kind,
		Log:            log,
	}
	stepStart := time.Now()
	n, err := p.Run(ctx, recs)
	metrics.RecordStep("load", err, time.Since(stepStart))
	if err != nil {
		return err
	}
	metrics.RecordRows("loaded", n)

	log.Info().
		Int("feed_rows", len(recs)).
		Int64("loaded", n).
		Dur("elapsed", time.Since(started)).
		Msg("inventory run complete")
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
