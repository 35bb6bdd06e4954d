// The scrape binary produces the dated JSON snapshot directory the etl
// binary consumes. Brands are discovered from the retailer home page and
// fetched through the search API by a bounded worker pool.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hd9319/ecommerce-app/internal/config"
	"github.com/hd9319/ecommerce-app/internal/logging"
	"github.com/hd9319/ecommerce-app/internal/scraper"
)

func main() {
	var (
		dataDir string
		logDir  string
		brands  string
		delay   time.Duration
		workers int
	)
	flag.StringVar(&dataDir, "data-dir", "", "snapshot directory (defaults to data/<MM_DD_YYYY>)")
	flag.StringVar(&logDir, "log-dir", "logs", "directory for the dated log file")
	flag.StringVar(&brands, "brands", "", "comma-separated brand subset; empty scrapes every discovered brand")
	flag.DurationVar(&delay, "delay", time.Second, "pause between search API requests")
	flag.IntVar(&workers, "workers", 1, "concurrent brand downloads")
	flag.Parse()

	log := logging.Setup("scrape", logDir)
	_ = godotenv.Load()

	if dataDir == "" {
		dataDir = os.Getenv("DATA_DIR")
	}
	if dataDir == "" {
		dataDir = filepath.Join("data", time.Now().Format(config.SnapshotDateLayout))
	}

	domain := envDefault("SCRAPE_DOMAIN", "https://www.bestbuy.ca")
	c := &scraper.Client{
		Domain:    domain,
		HomePage:  envDefault("SCRAPE_HOME_PAGE", domain+"/en-ca"),
		SearchAPI: envDefault("SCRAPE_SEARCH_API", domain+"/api/v2/json/search"),
		Region:    envDefault("SCRAPE_REGION", "ON"),
		Delay:     delay,
		Workers:   workers,
		DataDir:   dataDir,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		Log:       log,
	}

	var subset []string
	if brands != "" {
		for _, b := range strings.Split(brands, ",") {
			if b = strings.TrimSpace(b); b != "" {
				subset = append(subset, b)
			}
		}
	}

	if err := c.Run(context.Background(), subset); err != nil {
		log.Error().Err(err).Msg("scrape failed")
		os.Exit(1)
	}
	log.Info().Str("directory", dataDir).Msg("scrape complete")
}

func envDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
