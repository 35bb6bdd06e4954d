// Package extract reads one day's worth of per-brand JSON snapshot files
// and concatenates them into a single flat table of raw records.
//
// Each snapshot file carries an envelope:
//
//	{ "brand": "ACER", "results": [ {raw product fields...}, ... ] }
//
// The brand tag comes from the envelope, not the individual records, and is
// injected into every row before projection. A malformed file contributes
// zero rows and a logged warning, so one bad page download cannot fail the
// whole batch. A missing or empty snapshot directory is fatal before any
// extraction starts.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hd9319/ecommerce-app/internal/apperr"
	"github.com/hd9319/ecommerce-app/pkg/records"
)

// Extractor reads snapshot files from Dir. When Subset is non-empty the
// output is projected down to those fields, in that order; otherwise the
// column ordering is inferred from the first eligible file.
type Extractor struct {
	Dir    string
	Subset []string
	Log    zerolog.Logger
}

// Table is the extractor's output: ordered columns plus the concatenated
// rows across all files, in file iteration order.
type Table struct {
	Columns []string
	Rows    []records.Record
}

// snapshotEnvelope mirrors the on-disk snapshot file shape.
type snapshotEnvelope struct {
	Brand   *string          `json:"brand"`
	Results []records.Record `json:"results"`
}

// Extract reads every *.json file under Dir and returns the concatenated
// table. Files are visited in lexical name order so reruns are
// deterministic.
func (e *Extractor) Extract(ctx context.Context) (*Table, error) {
	files, err := e.listSnapshots()
	if err != nil {
		return nil, err
	}

	columns, err := e.templateColumns(files)
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: columns}
	for _, path := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		env, err := readSnapshot(path)
		if err != nil {
			// Recoverable: skip the file, keep the batch.
			e.Log.Warn().
				Str("type", "parse").
				Str("file", path).
				Err(err).
				Msg("skipping malformed snapshot file")
			continue
		}
		t.Rows = append(t.Rows, e.project(env)...)
	}

	e.Log.Info().
		Int("files", len(files)).
		Int("rows", len(t.Rows)).
		Str("directory", e.Dir).
		Msg("extraction complete")
	return t, nil
}

// listSnapshots returns the sorted snapshot file paths. A missing directory
// or a directory containing no JSON files is a configuration error: the
// template builder needs at least one file to infer the row shape.
func (e *Extractor) listSnapshots() ([]string, error) {
	entries, err := os.ReadDir(e.Dir)
	if err != nil {
		return nil, apperr.Config(e.Dir, fmt.Errorf("invalid snapshot directory: %w", err))
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(e.Dir, entry.Name()))
	}
	if len(files) == 0 {
		return nil, apperr.Configf(e.Dir, "no snapshot files in %s", e.Dir)
	}
	sort.Strings(files)
	return files, nil
}

// templateColumns derives the canonical column order. A configured subset
// wins; otherwise the first readable file seeds the shape, with brand
// leading and the remaining fields in sorted order so that concatenation
// across brands stays stable even when later files introduce no new fields.
// A malformed file is passed over here without logging; the main pass warns
// about it when it skips the same file.
func (e *Extractor) templateColumns(files []string) ([]string, error) {
	if len(e.Subset) > 0 {
		return append([]string(nil), e.Subset...), nil
	}

	for _, path := range files {
		env, err := readSnapshot(path)
		if err != nil {
			continue
		}

		set := map[string]struct{}{}
		for _, rec := range env.Results {
			for k := range rec {
				set[k] = struct{}{}
			}
		}
		delete(set, "brand")

		rest := make([]string, 0, len(set))
		for k := range set {
			rest = append(rest, k)
		}
		sort.Strings(rest)
		return append([]string{"brand"}, rest...), nil
	}
	return nil, apperr.Parse(e.Dir, fmt.Errorf("no readable snapshot file to infer columns from"))
}

// project tags each record with the envelope brand and restricts it to the
// template columns. Fields absent from a record stay absent; downstream
// steps decide whether that drops the row or fills a default.
func (e *Extractor) project(env *snapshotEnvelope) []records.Record {
	columns := e.Subset
	if len(columns) == 0 {
		columns = nil // keep everything when no subset was configured
	}

	out := make([]records.Record, 0, len(env.Results))
	for _, raw := range env.Results {
		var rec records.Record
		if columns == nil {
			rec = raw.Clone()
		} else {
			rec = make(records.Record, len(columns))
			for _, c := range columns {
				if v, ok := raw[c]; ok {
					rec[c] = v
				}
			}
		}
		if env.Brand != nil {
			rec["brand"] = *env.Brand
		} else {
			rec["brand"] = nil
		}
		out = append(out, rec)
	}
	return out
}

func readSnapshot(path string) (*snapshotEnvelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var env snapshotEnvelope
	if err := json.NewDecoder(f).Decode(&env); err != nil {
		return nil, err
	}
	return &env, nil
}
