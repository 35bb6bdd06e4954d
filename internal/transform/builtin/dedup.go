// Package builtin contains the reusable transformation steps composed by the
// transform chain.
package builtin

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/hd9319/ecommerce-app/pkg/records"
)

// DeDup collapses duplicate records by business key, keeping the first
// occurrence. Output order follows input order, matching the "first
// encountered wins" contract for repeated (brand, sku) pairs across files.
//
// Keys are hashed with 128-bit xxh3 rather than held as concatenated
// strings, which keeps the seen-set small for large snapshot days. Records
// missing a key field cannot be keyed and pass through untouched.
type DeDup struct {
	Keys   []string
	OnDrop func(reason string)
}

// Apply returns the de-duplicated slice. The input backing array is reused.
func (d DeDup) Apply(in []records.Record) ([]records.Record, error) {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in, nil
	}

	seen := make(map[xxh3.Uint128]struct{}, len(in))
	out := in[:0]
	for _, rec := range in {
		key, ok := d.keyOf(rec)
		if !ok {
			out = append(out, rec)
			continue
		}
		if _, dup := seen[key]; dup {
			if d.OnDrop != nil {
				d.OnDrop(fmt.Sprintf("duplicate key (%s)", d.describe(rec)))
			}
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

// keyOf builds the hash input. Each field is length-prefixed so a value
// containing a would-be separator cannot make two different key tuples hash
// alike; nil gets a marker no length prefix can produce.
func (d DeDup) keyOf(r records.Record) (xxh3.Uint128, bool) {
	var b strings.Builder
	for _, k := range d.Keys {
		v, ok := r[k]
		if !ok {
			return xxh3.Uint128{}, false
		}
		var s string
		switch t := v.(type) {
		case nil:
			b.WriteString("-:")
			continue
		case string:
			s = t
		default:
			s = fmt.Sprint(t)
		}
		fmt.Fprintf(&b, "%d:", len(s))
		b.WriteString(s)
	}
	return xxh3.Hash128([]byte(b.String())), true
}

func (d DeDup) describe(r records.Record) string {
	parts := make([]string, 0, len(d.Keys))
	for _, k := range d.Keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, r[k]))
	}
	return strings.Join(parts, ", ")
}
