package dataset

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Converter coerces one cell value.
type Converter func(v any) (any, error)

// Nullable wraps fn so nil values pass through unconverted.
func Nullable(fn Converter) Converter {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return fn(v)
	}
}

// Built-in converters. Each fails on values it cannot coerce.
var (
	ToString Converter = func(v any) (any, error) { return cast.ToStringE(text(v)) }
	ToInt    Converter = func(v any) (any, error) { return cast.ToInt64E(text(v)) }
	ToFloat  Converter = func(v any) (any, error) { return cast.ToFloat64E(text(v)) }
	ToBool   Converter = func(v any) (any, error) { return cast.ToBoolE(text(v)) }
	ToTime   Converter = func(v any) (any, error) { return cast.ToTimeE(text(v)) }

	ToDecimal Converter = func(v any) (any, error) {
		switch x := v.(type) {
		case decimal.Decimal:
			return x, nil
		case float64:
			return decimal.NewFromFloat(x), nil
		case float32:
			return decimal.NewFromFloat32(x), nil
		}
		s, err := cast.ToStringE(text(v))
		if err != nil {
			return nil, err
		}
		return decimal.NewFromString(s)
	}
)

// text turns driver byte slices into strings so cast treats them as text.
func text(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
