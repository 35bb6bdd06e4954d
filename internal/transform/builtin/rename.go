package builtin

import "github.com/hd9319/ecommerce-app/pkg/records"

// Rename moves values from raw source field names to their canonical names
// (e.g. highResImage -> imageUrl). When the canonical name already holds a
// value the raw one is discarded rather than overwriting it.
type Rename struct {
	Fields map[string]string // raw name -> canonical name
}

// Apply mutates the records in place and returns the same slice.
func (r Rename) Apply(in []records.Record) ([]records.Record, error) {
	if len(r.Fields) == 0 {
		return in, nil
	}
	for _, rec := range in {
		for raw, canonical := range r.Fields {
			v, ok := rec[raw]
			if !ok {
				continue
			}
			delete(rec, raw)
			if _, taken := rec[canonical]; !taken {
				rec[canonical] = v
			}
		}
	}
	return in, nil
}
