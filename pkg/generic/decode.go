package generic

import (
	"fmt"
	"time"
)

// DecodeString accepts a string or a Utf8 value.
func DecodeString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case Utf8:
		return s.String(), nil
	default:
		return "", shapeError("string", v)
	}
}

// DecodeBytes accepts a byte slice or a buffer exposing Bytes().
func DecodeBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case interface{ Bytes() []byte }:
		return b.Bytes(), nil
	default:
		return nil, shapeError("bytes", v)
	}
}

// DecodeInt accepts an int32.
func DecodeInt(v any) (int32, error) {
	i, ok := v.(int32)
	if !ok {
		return 0, shapeError("int32", v)
	}
	return i, nil
}

// DecodeLong accepts an int64.
func DecodeLong(v any) (int64, error) {
	i, ok := v.(int64)
	if !ok {
		return 0, shapeError("int64", v)
	}
	return i, nil
}

// DecodeFloat accepts a float32.
func DecodeFloat(v any) (float32, error) {
	f, ok := v.(float32)
	if !ok {
		return 0, shapeError("float32", v)
	}
	return f, nil
}

// DecodeDouble accepts a float64.
func DecodeDouble(v any) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, shapeError("float64", v)
	}
	return f, nil
}

// DecodeBoolean accepts a bool.
func DecodeBoolean(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, shapeError("bool", v)
	}
	return b, nil
}

// DecodeTimestampMillis turns epoch milliseconds into a UTC time.
func DecodeTimestampMillis(v any) (time.Time, error) {
	ms, ok := v.(int64)
	if !ok {
		return time.Time{}, shapeError("int64 epoch millis", v)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// DecodeEnumName returns the symbol name of an enum value. It accepts an
// EnumSymbol, a string or a Utf8 value.
func DecodeEnumName(v any) (string, error) {
	switch e := v.(type) {
	case *EnumSymbol:
		return e.Symbol, nil
	case string:
		return e, nil
	case Utf8:
		return e.String(), nil
	default:
		return "", shapeError("enum symbol", v)
	}
}

// ListDecoder decodes an Array or []any element by element.
func ListDecoder[T any](elem func(any) (T, error)) func(any) ([]T, error) {
	return func(v any) ([]T, error) {
		var items []any
		switch l := v.(type) {
		case *Array:
			items = l.Items
		case []any:
			items = l
		default:
			return nil, shapeError("list", v)
		}

		out := make([]T, len(items))
		for i, item := range items {
			decoded, err := elem(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = decoded
		}
		return out, nil
	}
}

// MapDecoder decodes every value of a map, coercing keys to strings.
func MapDecoder[T any](value func(any) (T, error)) func(any) (map[string]T, error) {
	return func(v any) (map[string]T, error) {
		switch m := v.(type) {
		case map[string]any:
			out := make(map[string]T, len(m))
			for k, item := range m {
				decoded, err := value(item)
				if err != nil {
					return nil, fmt.Errorf("[%q]: %w", k, err)
				}
				out[k] = decoded
			}
			return out, nil
		case map[any]any:
			out := make(map[string]T, len(m))
			for rawKey, item := range m {
				k, err := mapKey(rawKey)
				if err != nil {
					return nil, err
				}
				decoded, err := value(item)
				if err != nil {
					return nil, fmt.Errorf("[%q]: %w", k, err)
				}
				out[k] = decoded
			}
			return out, nil
		default:
			return nil, shapeError("map", v)
		}
	}
}

func mapKey(k any) (string, error) {
	switch key := k.(type) {
	case string:
		return key, nil
	case Utf8:
		return key.String(), nil
	case fmt.Stringer:
		return key.String(), nil
	default:
		return "", shapeError("string map key", k)
	}
}

// OptionalDecoder decodes the non-null branch of a null|T union. A nil value
// decodes to a nil pointer.
func OptionalDecoder[T any](inner func(any) (T, error)) func(any) (*T, error) {
	return func(v any) (*T, error) {
		if v == nil {
			return nil, nil
		}
		decoded, err := inner(v)
		if err != nil {
			return nil, err
		}
		return &decoded, nil
	}
}

// RecordDecoder adapts a generated DecodeX function to a container value.
func RecordDecoder[T any](decode func(*Record) (T, error)) func(any) (T, error) {
	return func(v any) (T, error) {
		r, ok := v.(*Record)
		if !ok || r == nil {
			var zero T
			return zero, shapeError("record", v)
		}
		return decode(r)
	}
}
