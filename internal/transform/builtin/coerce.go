package builtin

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/hd9319/ecommerce-app/internal/apperr"
	"github.com/hd9319/ecommerce-app/internal/schema"
	"github.com/hd9319/ecommerce-app/pkg/records"
)

// Coerce converts every field to the runtime type its declared schema type
// demands: text -> string, float -> float64, int -> int32.
//
// Unlike the drop-based steps, coercion is strict: a value that cannot be
// represented exactly in its declared type (a non-numeric string in a
// numeric column, a fractional value in an int column, an int32 overflow)
// fails the whole run instead of silently truncating or nulling. nil values
// pass through; required fields were already enforced upstream and nullable
// ones stay null.
type Coerce struct {
	Types map[string]string // field -> schema.TypeText | TypeFloat | TypeInt
}

// Apply mutates the records in place and returns the same slice, or a
// validation-kind error naming the first unconvertible field.
func (c Coerce) Apply(in []records.Record) ([]records.Record, error) {
	if len(c.Types) == 0 {
		return in, nil
	}
	for i, rec := range in {
		for field, typ := range c.Types {
			v, ok := rec[field]
			if !ok || v == nil {
				continue
			}
			cv, err := coerceValue(v, typ)
			if err != nil {
				return nil, apperr.Validation(
					fmt.Errorf("row %d field %q: %w", i, field, err))
			}
			rec[field] = cv
		}
	}
	return in, nil
}

func coerceValue(v any, typ string) (any, error) {
	switch typ {
	case schema.TypeText:
		switch t := v.(type) {
		case string:
			return t, nil
		case float64:
			return strconv.FormatFloat(t, 'g', -1, 64), nil
		case bool:
			return strconv.FormatBool(t), nil
		case json.Number:
			return t.String(), nil
		default:
			return nil, fmt.Errorf("cannot coerce %T to text", v)
		}

	case schema.TypeFloat:
		switch t := v.(type) {
		case float64:
			return t, nil
		case int:
			return float64(t), nil
		case int32:
			return float64(t), nil
		case int64:
			return float64(t), nil
		case json.Number:
			f, err := t.Float64()
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", t.String())
			}
			return f, nil
		case string:
			f, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", t)
			}
			return f, nil
		default:
			return nil, fmt.Errorf("cannot coerce %T to float", v)
		}

	case schema.TypeInt:
		switch t := v.(type) {
		case int32:
			return t, nil
		case int:
			return intToInt32(int64(t))
		case int64:
			return intToInt32(t)
		case float64:
			if t != math.Trunc(t) {
				return nil, fmt.Errorf("%v has a fractional part", t)
			}
			return intToInt32(int64(t))
		case json.Number:
			i, err := t.Int64()
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer", t.String())
			}
			return intToInt32(i)
		case string:
			i, err := strconv.ParseInt(t, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer", t)
			}
			return int32(i), nil
		default:
			return nil, fmt.Errorf("cannot coerce %T to int", v)
		}

	default:
		return nil, fmt.Errorf("unknown schema type %q", typ)
	}
}

func intToInt32(i int64) (any, error) {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return nil, fmt.Errorf("%d overflows int32", i)
	}
	return int32(i), nil
}
