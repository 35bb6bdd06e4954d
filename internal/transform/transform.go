// Package transform composes the ordered record transformations that turn a
// raw extracted table into rows matching a schema.Contract.
//
// The chain for the product catalog is, in order:
//
//  1. DeDup on (brand, sku), keeping the first occurrence
//  2. Require brand, sku, salePrice and the raw image field; a row missing
//     any of them is dropped entirely
//  3. Defaults for the remaining soft fields
//  4. Rename raw field names to canonical ones
//  5. Coerce every field to its declared type
//
// Order matters: defaulting runs after required-field filtering so it only
// ever touches fields that are allowed to be absent, and coercion runs last
// so it sees canonical names. Unlike the drop-based steps, a coercion
// failure is fatal for the whole run.
package transform

import (
	"github.com/hd9319/ecommerce-app/internal/schema"
	"github.com/hd9319/ecommerce-app/internal/transform/builtin"
	"github.com/hd9319/ecommerce-app/pkg/records"
)

// Step is a single transformation applied to a batch of records.
type Step interface {
	Apply(in []records.Record) ([]records.Record, error)
}

// Chain is an ordered list of steps.
type Chain []Step

// Apply runs every step in order, stopping at the first error.
func (c Chain) Apply(in []records.Record) ([]records.Record, error) {
	out := in
	var err error
	for _, s := range c {
		if out, err = s.Apply(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ForContract builds the standard chain for a contract. onDrop, when
// non-nil, receives a reason string for every row excluded by the dedup or
// required-field steps (data-quality drops are expected and reported in
// aggregate, not treated as errors).
func ForContract(c schema.Contract, onDrop func(reason string)) Chain {
	defaults := make(map[string]any, len(c.Fields))
	for _, f := range c.Fields {
		if f.Default == nil {
			continue
		}
		// Defaults run before the rename step, so fill under the raw name.
		defaults[rawName(c, f.Name)] = f.Default
	}

	return Chain{
		builtin.DeDup{Keys: c.Key, OnDrop: onDrop},
		builtin.Require{Fields: c.RequireRaw, OnDrop: onDrop},
		builtin.Defaults{Values: defaults},
		builtin.Rename{Fields: c.Rename},
		builtin.Coerce{Types: c.Types()},
	}
}

// rawName maps a canonical field name back to its pre-rename source name.
func rawName(c schema.Contract, canonical string) string {
	for raw, to := range c.Rename {
		if to == canonical {
			return raw
		}
	}
	return canonical
}
