package builtin

import (
	"strings"

	"github.com/hd9319/ecommerce-app/pkg/records"
)

// Normalize trims surrounding whitespace from every string value. Supplier
// files in particular arrive with padded cells.
type Normalize struct{}

// Apply mutates the records in place and returns the same slice.
func (Normalize) Apply(in []records.Record) ([]records.Record, error) {
	for _, rec := range in {
		for k, v := range rec {
			if s, ok := v.(string); ok {
				rec[k] = strings.TrimSpace(s)
			}
		}
	}
	return in, nil
}
