package builtin

import (
	"fmt"
	"strings"

	"github.com/hd9319/ecommerce-app/pkg/records"
)

// Require drops any record missing a value for one or more of the listed
// fields. "Missing" means absent, nil, or an empty string; non-string zero
// values (0, false) count as present.
//
// These fields are exclusion criteria, not default-fill candidates: a
// catalog row without an identity, price, or image is unusable and polluting
// the destination table with it would be worse than dropping it.
type Require struct {
	Fields []string
	OnDrop func(reason string)
}

// Apply returns the surviving records, preserving order. The input backing
// array is reused.
func (r Require) Apply(in []records.Record) ([]records.Record, error) {
	if len(r.Fields) == 0 {
		return in, nil
	}

	out := in[:0]
	for _, rec := range in {
		if missing := r.missingFields(rec); len(missing) > 0 {
			if r.OnDrop != nil {
				r.OnDrop(fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", ")))
			}
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r Require) missingFields(rec records.Record) []string {
	var missing []string
	for _, f := range r.Fields {
		if !rec.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}
