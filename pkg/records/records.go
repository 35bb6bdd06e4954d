// Package records defines the unit of data flowing through the pipeline.
//
// A Record is one raw or transformed product/inventory row keyed by field
// name. Parsers produce Records with whatever value types encoding/json or
// encoding/csv hand back (string, float64, nil, ...); the transform chain is
// responsible for narrowing those to the canonical types before load.
package records

// Record is a single row keyed by field name.
type Record map[string]any

// Clone returns a shallow copy of the record. Values are shared; this is
// sufficient because the pipeline only ever replaces values, never mutates
// them in place.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the field exists with a usable value: present, non-nil
// and, for strings, non-empty.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return false
	}
	return true
}
