package generic

import (
	"fmt"
	"time"

	"github.com/hamba/avro/v2"
)

// EncodeString wraps a string as Utf8.
func EncodeString(_ avro.Schema, v string) (any, error) {
	return Utf8(v), nil
}

// EncodeBytes passes bytes through.
func EncodeBytes(_ avro.Schema, v []byte) (any, error) {
	return v, nil
}

// EncodeInt passes an int32 through.
func EncodeInt(_ avro.Schema, v int32) (any, error) {
	return v, nil
}

// EncodeLong passes an int64 through.
func EncodeLong(_ avro.Schema, v int64) (any, error) {
	return v, nil
}

// EncodeFloat passes a float32 through.
func EncodeFloat(_ avro.Schema, v float32) (any, error) {
	return v, nil
}

// EncodeDouble passes a float64 through.
func EncodeDouble(_ avro.Schema, v float64) (any, error) {
	return v, nil
}

// EncodeBoolean passes a bool through.
func EncodeBoolean(_ avro.Schema, v bool) (any, error) {
	return v, nil
}

// EncodeTimestampMillis extracts epoch milliseconds from a time.
func EncodeTimestampMillis(_ avro.Schema, v time.Time) (any, error) {
	return v.UnixMilli(), nil
}

// EncodeEnumName builds an EnumSymbol for the given schema and symbol.
func EncodeEnumName(schema avro.Schema, symbol string) (any, error) {
	return NewEnumSymbol(schema, symbol)
}

// ListEncoder encodes a slice into an Array. The element schema is taken from
// the array schema it receives.
func ListEncoder[T any](elem func(avro.Schema, T) (any, error)) func(avro.Schema, []T) (any, error) {
	return func(schema avro.Schema, v []T) (any, error) {
		as, ok := Deref(schema).(*avro.ArraySchema)
		if !ok {
			return nil, fmt.Errorf("%w: array schema required, got %s", ErrSchemaMismatch, describe(schema))
		}
		itemSchema := Deref(as.Items())

		items := make([]any, len(v))
		for i, item := range v {
			encoded, err := elem(itemSchema, item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = encoded
		}
		return &Array{schema: as, Items: items}, nil
	}
}

// MapEncoder encodes every value of a map. Keys pass through unchanged.
func MapEncoder[T any](value func(avro.Schema, T) (any, error)) func(avro.Schema, map[string]T) (any, error) {
	return func(schema avro.Schema, v map[string]T) (any, error) {
		ms, ok := Deref(schema).(*avro.MapSchema)
		if !ok {
			return nil, fmt.Errorf("%w: map schema required, got %s", ErrSchemaMismatch, describe(schema))
		}
		valueSchema := Deref(ms.Values())

		out := make(map[string]any, len(v))
		for k, item := range v {
			encoded, err := value(valueSchema, item)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = encoded
		}
		return out, nil
	}
}

// OptionalEncoder encodes the non-null branch of a null|T union. A nil pointer
// encodes to nil.
func OptionalEncoder[T any](inner func(avro.Schema, T) (any, error)) func(avro.Schema, *T) (any, error) {
	return func(schema avro.Schema, v *T) (any, error) {
		if v == nil {
			return nil, nil
		}
		branch, err := NonNull(schema)
		if err != nil {
			return nil, err
		}
		return inner(branch, *v)
	}
}

// RecordEncoder adapts a generated EncodeX function to the encoder signature.
func RecordEncoder[T any](encode func(avro.Schema, T) (*Record, error)) func(avro.Schema, T) (any, error) {
	return func(schema avro.Schema, v T) (any, error) {
		r, err := encode(schema, v)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
