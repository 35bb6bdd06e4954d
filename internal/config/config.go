// Package config loads pipeline configuration from environment variables.
//
// All connection settings are required; a missing variable is a fatal
// startup condition reported with the variable's name. A .env file in the
// working directory is honored when present so local runs do not need a
// wrapper script, while deployed environments keep using real env vars.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/hd9319/ecommerce-app/internal/apperr"
)

// SnapshotDateLayout is the directory-name layout for one day's scrape.
const SnapshotDateLayout = "01_02_2006"

// DB holds destination database settings (PDB_* variables).
type DB struct {
	Kind           string // storage kind: mssql | postgres | mysql | sqlite
	Host           string
	Database       string
	ProductTable   string
	InventoryTable string
	BrandsTable    string
	Username       string
	Password       string
}

// FTP holds supplier inventory retrieval settings (FTP_* variables).
type FTP struct {
	Host          string
	Port          string
	User          string
	Password      string
	InventoryFile string // remote filename
	LocalPath     string // local destination (AA_INVENTORY_PATH)
}

// Config is the resolved runtime configuration for one pipeline run.
type Config struct {
	DB  DB
	FTP FTP

	// DataDir is the snapshot directory for this run. Defaults to
	// data/<MM_DD_YYYY> using today's date, matching the scraper's output.
	DataDir string

	// PushgatewayURL enables metrics pushing when non-empty.
	PushgatewayURL string
}

// Load reads database configuration from the environment. FTP settings are
// loaded separately by LoadFTP since the catalog pipeline does not need them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:        getEnv("DATA_DIR", filepath.Join("data", time.Now().Format(SnapshotDateLayout))),
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
	}

	var err error
	if cfg.DB, err = loadDB(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFTP reads the FTP variable set. It is required only for inventory
// retrieval runs.
func LoadFTP() (FTP, error) {
	_ = godotenv.Load()

	var f FTP
	var err error
	if f.Host, err = requireEnv("FTP_HOST"); err != nil {
		return f, err
	}
	if f.Port, err = requireEnv("FTP_PORT"); err != nil {
		return f, err
	}
	if f.User, err = requireEnv("FTP_USER"); err != nil {
		return f, err
	}
	if f.Password, err = requireEnv("FTP_PASSWORD"); err != nil {
		return f, err
	}
	if f.InventoryFile, err = requireEnv("FTP_INVENTORY_FILE"); err != nil {
		return f, err
	}
	if f.LocalPath, err = requireEnv("AA_INVENTORY_PATH"); err != nil {
		return f, err
	}
	return f, nil
}

func loadDB() (DB, error) {
	var d DB
	var err error
	if d.Kind, err = requireEnv("PDB_DRIVER"); err != nil {
		return d, err
	}
	if d.Host, err = requireEnv("PDB_HOST"); err != nil {
		return d, err
	}
	if d.Database, err = requireEnv("PDB_DATABASE"); err != nil {
		return d, err
	}
	if d.ProductTable, err = requireEnv("PDB_PRODUCT_TABLE"); err != nil {
		return d, err
	}
	if d.Username, err = requireEnv("PDB_USERNAME"); err != nil {
		return d, err
	}
	if d.Password, err = requireEnv("PDB_PASSWORD"); err != nil {
		return d, err
	}
	// Optional: only inventory runs touch this table.
	d.InventoryTable = os.Getenv("PDB_INVENTORY_TABLE")
	d.BrandsTable = getEnv("PDB_BRANDS_TABLE", "Brands")
	return d, nil
}

// DSN builds a connection string for the configured storage kind.
func (d DB) DSN() string {
	switch d.Kind {
	case "mssql":
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(d.Username, d.Password),
			Host:     d.Host,
			RawQuery: url.Values{"database": {d.Database}}.Encode(),
		}
		return u.String()
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.Username, d.Password),
			Host:   d.Host,
			Path:   d.Database,
		}
		return u.String()
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
			d.Username, d.Password, d.Host, d.Database)
	case "sqlite":
		// Host doubles as the database file path for local runs.
		return d.Host
	default:
		return ""
	}
}

func requireEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", apperr.Configf(name, "required environment variable %s is not set", name)
	}
	return v, nil
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
