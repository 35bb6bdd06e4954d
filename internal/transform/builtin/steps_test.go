package builtin

import (
	"reflect"
	"testing"

	"github.com/hd9319/ecommerce-app/pkg/records"
)

/*
TestDeDupApply covers the keep-first contract:

  - The first occurrence of a key survives; later ones are dropped.
  - Output preserves input order.
  - Records missing a key field cannot be keyed and always pass through.
*/
func TestDeDupApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		keys    []string
		in      []records.Record
		wantIdx []int // indices from 'in' that should survive, in order
	}{
		{
			name: "no_duplicates",
			keys: []string{"brand", "sku"},
			in: []records.Record{
				{"brand": "ACER", "sku": "1"},
				{"brand": "ACER", "sku": "2"},
			},
			wantIdx: []int{0, 1},
		},
		{
			name: "first_occurrence_wins",
			keys: []string{"brand", "sku"},
			in: []records.Record{
				{"brand": "ACER", "sku": "1", "salePrice": 10.0},
				{"brand": "ACER", "sku": "1", "salePrice": 99.0}, // dup -> drop
				{"brand": "LG", "sku": "1"},
			},
			wantIdx: []int{0, 2},
		},
		{
			name: "missing_key_field_passes_through",
			keys: []string{"brand", "sku"},
			in: []records.Record{
				{"brand": "ACER"}, // no sku, unkeyable
				{"brand": "ACER"}, // also unkeyable, still kept
			},
			wantIdx: []int{0, 1},
		},
		{
			name: "key_fields_not_confused_across_positions",
			keys: []string{"brand", "sku"},
			in: []records.Record{
				{"brand": "AB", "sku": "C"},
				{"brand": "A", "sku": "BC"},
			},
			wantIdx: []int{0, 1},
		},
		{
			// Field boundaries hold even when a value contains a byte that
			// could read as a separator.
			name: "separator_bytes_in_values_not_confused",
			keys: []string{"brand", "sku"},
			in: []records.Record{
				{"brand": "A\x1fB", "sku": "C"},
				{"brand": "A", "sku": "B\x1fC"},
			},
			wantIdx: []int{0, 1},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := make([]records.Record, len(tc.in))
			copy(in, tc.in)

			var drops int
			got, err := DeDup{Keys: tc.keys, OnDrop: func(string) { drops++ }}.Apply(in)
			if err != nil {
				t.Fatalf("Apply error: %v", err)
			}

			want := make([]records.Record, 0, len(tc.wantIdx))
			for _, i := range tc.wantIdx {
				want = append(want, tc.in[i])
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("Apply = %v, want %v", got, want)
			}
			if wantDrops := len(tc.in) - len(tc.wantIdx); drops != wantDrops {
				t.Fatalf("OnDrop called %d times, want %d", drops, wantDrops)
			}
		})
	}
}

/*
TestRequireApply covers filtering semantics: a record is kept only if all
required fields exist, are non-nil and, when strings, are non-empty.
Non-string zero values (0, false) count as present.
*/
func TestRequireApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fields  []string
		in      []records.Record
		wantIdx []int
	}{
		{
			name:   "all_present",
			fields: []string{"brand", "sku"},
			in: []records.Record{
				{"brand": "ACER", "sku": "1"},
				{"brand": "LG", "sku": "2"},
			},
			wantIdx: []int{0, 1},
		},
		{
			name:   "missing_nil_and_empty_dropped",
			fields: []string{"brand"},
			in: []records.Record{
				{"sku": "1"},                  // absent -> drop
				{"brand": "ACER", "sku": "2"}, // keep
				{"brand": "", "sku": "3"},     // empty string -> drop
				{"brand": nil, "sku": "4"},    // nil -> drop
			},
			wantIdx: []int{1},
		},
		{
			name:   "non_string_zero_values_kept",
			fields: []string{"salePrice"},
			in: []records.Record{
				{"salePrice": 0.0},
				{"salePrice": false},
			},
			wantIdx: []int{0, 1},
		},
		{
			name:    "no_fields_is_noop",
			fields:  nil,
			in:      []records.Record{{"brand": nil}},
			wantIdx: []int{0},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := make([]records.Record, len(tc.in))
			copy(in, tc.in)

			got, err := Require{Fields: tc.fields}.Apply(in)
			if err != nil {
				t.Fatalf("Apply error: %v", err)
			}
			want := make([]records.Record, 0, len(tc.wantIdx))
			for _, i := range tc.wantIdx {
				want = append(want, tc.in[i])
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("Apply = %v, want %v", got, want)
			}
		})
	}
}

func TestDefaultsApply(t *testing.T) {
	t.Parallel()

	defaults := Defaults{Values: map[string]any{
		"categoryName": "Other",
		"ratings":      int32(0),
	}}

	in := []records.Record{
		{"categoryName": "Laptops", "ratings": int32(5)}, // untouched
		{"categoryName": nil},                            // nil filled
		{},                                               // absent filled
		{"categoryName": ""},                             // empty string is a value, kept
	}
	got, err := defaults.Apply(in)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	want := []records.Record{
		{"categoryName": "Laptops", "ratings": int32(5)},
		{"categoryName": "Other", "ratings": int32(0)},
		{"categoryName": "Other", "ratings": int32(0)},
		{"categoryName": "", "ratings": int32(0)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Apply = %v, want %v", got, want)
	}
}

func TestRenameApply(t *testing.T) {
	t.Parallel()

	rename := Rename{Fields: map[string]string{
		"highResImage":     "imageUrl",
		"shortDescription": "description",
	}}

	in := []records.Record{
		{"highResImage": "http://img", "shortDescription": "desc"},
		{"imageUrl": "already", "highResImage": "raw"}, // canonical wins
		{"brand": "ACER"},                              // nothing to rename
	}
	got, err := rename.Apply(in)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	want := []records.Record{
		{"imageUrl": "http://img", "description": "desc"},
		{"imageUrl": "already"},
		{"brand": "ACER"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Apply = %v, want %v", got, want)
	}
}

func TestNormalizeApply(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{"brand": "  ACER ", "sku": "1", "inventory": 3},
	}
	got, err := Normalize{}.Apply(in)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	want := []records.Record{
		{"brand": "ACER", "sku": "1", "inventory": 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Apply = %v, want %v", got, want)
	}
}
