package transform

import (
	"reflect"
	"testing"

	"github.com/hd9319/ecommerce-app/internal/schema"
	"github.com/hd9319/ecommerce-app/pkg/records"
)

// TestForContract_Electronics runs the full catalog chain over a small raw
// batch and checks the surviving rows field by field: dedup keeps the first
// (brand, sku), rows missing exclusion criteria are dropped, soft fields get
// their defaults, raw names are renamed and every value lands in its
// declared runtime type.
func TestForContract_Electronics(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{
			"brand": "ACER", "sku": "10054425", "salePrice": 549.99,
			"highResImage": "http://img/1", "regularPrice": 699.99,
			"categoryName": "Laptops", "shortDescription": "A laptop",
			"customerRating": 4.5, "customerRatingCount": 12.0,
			"customerReviewCount": 3.0, "productUrl": "http://p/1",
		},
		// duplicate key, different price: first one must win
		{
			"brand": "ACER", "sku": "10054425", "salePrice": 1.0,
			"highResImage": "http://img/other",
		},
		// no image: dropped by the required-field step
		{
			"brand": "LG", "sku": "20000001", "salePrice": 99.0,
		},
		// minimal valid row: soft fields default
		{
			"brand": "LG", "sku": "20000002", "salePrice": 199.0,
			"highResImage": "http://img/2",
		},
	}

	var drops []string
	chain := ForContract(schema.Electronics(), func(reason string) { drops = append(drops, reason) })
	got, err := chain.Apply(in)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("survivors = %d, want 2 (%v)", len(got), got)
	}
	if len(drops) != 2 {
		t.Fatalf("drops = %v, want 2 entries", drops)
	}

	first := records.Record{
		"brand": "ACER", "sku": "10054425", "salePrice": 549.99,
		"imageUrl": "http://img/1", "regularPrice": 699.99,
		"categoryName": "Laptops", "description": "A laptop",
		"customerRating": 4.5, "customerRatingCount": int32(12),
		"customerReviewCount": int32(3), "productUrl": "http://p/1",
	}
	if !reflect.DeepEqual(got[0], first) {
		t.Fatalf("row 0 = %v, want %v", got[0], first)
	}

	second := got[1]
	wantDefaults := map[string]any{
		"categoryName":        "Other",
		"description":         "",
		"customerRating":      float64(0),
		"customerRatingCount": int32(0),
		"customerReviewCount": int32(0),
	}
	for field, want := range wantDefaults {
		if gotV := second[field]; !reflect.DeepEqual(gotV, want) {
			t.Errorf("row 1 %s = %v (%T), want %v (%T)", field, gotV, gotV, want, want)
		}
	}
	if second["imageUrl"] != "http://img/2" {
		t.Errorf("row 1 imageUrl = %v, want renamed raw image", second["imageUrl"])
	}
}

// TestChain_StopsOnError verifies a failing step short-circuits the rest.
func TestChain_StopsOnError(t *testing.T) {
	t.Parallel()

	calls := 0
	counting := stepFunc(func(in []records.Record) ([]records.Record, error) {
		calls++
		return in, nil
	})
	chain := Chain{
		counting,
		stepFunc(func([]records.Record) ([]records.Record, error) {
			return nil, errTest
		}),
		counting,
	}
	if _, err := chain.Apply(nil); err != errTest {
		t.Fatalf("Apply error = %v, want errTest", err)
	}
	if calls != 1 {
		t.Fatalf("later steps ran after error: calls = %d, want 1", calls)
	}
}

type stepFunc func(in []records.Record) ([]records.Record, error)

func (f stepFunc) Apply(in []records.Record) ([]records.Record, error) { return f(in) }

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "test error" }
