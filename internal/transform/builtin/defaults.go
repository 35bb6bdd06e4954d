package builtin

import "github.com/hd9319/ecommerce-app/pkg/records"

// Defaults fills missing optional values in place. A value is filled when
// the field is absent or nil; an empty string is a present value and is
// left alone.
//
// This step must run after Require so it never masks a field whose absence
// should have disqualified the row.
type Defaults struct {
	Values map[string]any
}

// Apply mutates the records in place and returns the same slice.
func (d Defaults) Apply(in []records.Record) ([]records.Record, error) {
	if len(d.Values) == 0 {
		return in, nil
	}
	for _, rec := range in {
		for field, def := range d.Values {
			v, ok := rec[field]
			if !ok || v == nil {
				rec[field] = def
			}
		}
	}
	return in, nil
}
