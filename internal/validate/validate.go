// Package validate is the hard gate between transformation and loading.
//
// It asserts that every column's runtime type is exactly the type the
// contract declares. Any mismatch aborts the run before a single row
// reaches the loader; partially-typed data is never loaded.
package validate

import (
	"fmt"
	"strings"

	"github.com/hd9319/ecommerce-app/internal/apperr"
	"github.com/hd9319/ecommerce-app/internal/schema"
	"github.com/hd9319/ecommerce-app/pkg/records"
)

// Mismatch reports one column whose runtime type diverges from the
// declared schema type.
type Mismatch struct {
	Column   string
	Expected string // declared schema type
	Actual   string // offending runtime type, e.g. "string"
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: expected %s, got %s", m.Column, m.Expected, m.Actual)
}

// Table checks every contract field across all records in a single pass and
// returns the list of mismatches, at most one per column. An empty result
// means the table is safe to load.
//
// nil values are tolerated on non-required fields (they load as SQL NULL);
// a nil in a required field is reported as a mismatch since the transform
// chain guarantees required fields survive with concrete values.
func Table(recs []records.Record, c schema.Contract) []Mismatch {
	var mismatches []Mismatch

	for _, f := range c.Fields {
		if m, ok := checkColumn(recs, f); ok {
			mismatches = append(mismatches, m)
		}
	}
	return mismatches
}

// Err converts a non-empty mismatch list into a fatal validation error.
// It returns nil for an empty list.
func Err(mismatches []Mismatch) error {
	if len(mismatches) == 0 {
		return nil
	}
	parts := make([]string, len(mismatches))
	for i, m := range mismatches {
		parts[i] = m.String()
	}
	return apperr.Validation(
		fmt.Errorf("%d column type mismatch(es): %s", len(mismatches), strings.Join(parts, "; ")))
}

func checkColumn(recs []records.Record, f schema.Field) (Mismatch, bool) {
	for _, rec := range recs {
		v, ok := rec[f.Name]
		if !ok || v == nil {
			if f.Required {
				return Mismatch{Column: f.Name, Expected: f.Type, Actual: "nil"}, true
			}
			continue
		}
		if actual, ok := runtimeTypeOK(v, f.Type); !ok {
			return Mismatch{Column: f.Name, Expected: f.Type, Actual: actual}, true
		}
	}
	return Mismatch{}, false
}

// runtimeTypeOK reports whether v's dynamic type is the exact representation
// for the declared schema type. On failure it returns the observed type name.
func runtimeTypeOK(v any, declared string) (string, bool) {
	switch declared {
	case schema.TypeText:
		if _, ok := v.(string); ok {
			return "", true
		}
	case schema.TypeFloat:
		if _, ok := v.(float64); ok {
			return "", true
		}
	case schema.TypeInt:
		if _, ok := v.(int32); ok {
			return "", true
		}
	}
	return fmt.Sprintf("%T", v), false
}
