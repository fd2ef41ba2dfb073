package generic

import (
	"fmt"
	"time"

	"github.com/hamba/avro/v2"
)

// Marshal encodes a record to Avro binary using its own schema.
func Marshal(r *Record) ([]byte, error) {
	native, err := toNative(r.schema, r)
	if err != nil {
		return nil, err
	}
	data, err := avro.Marshal(r.schema, native)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal avro data: %w", err)
	}
	return data, nil
}

// Unmarshal decodes Avro binary written with schema into a Record.
func Unmarshal(schema avro.Schema, data []byte) (*Record, error) {
	rs, ok := Deref(schema).(*avro.RecordSchema)
	if !ok {
		return nil, fmt.Errorf("%w: record schema required, got %s", ErrSchemaMismatch, describe(schema))
	}

	var native any
	if err := avro.Unmarshal(rs, data, &native); err != nil {
		return nil, fmt.Errorf("failed to unmarshal avro data: %w", err)
	}

	v, err := fromNative(rs, native)
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// toNative converts container values into the plain Go values hamba/avro
// encodes generically.
func toNative(schema avro.Schema, v any) (any, error) {
	schema = Deref(schema)
	if v == nil {
		return nil, nil
	}

	switch s := schema.(type) {
	case *avro.RecordSchema:
		r, ok := v.(*Record)
		if !ok {
			return nil, shapeError("record", v)
		}
		out := make(map[string]any, len(s.Fields()))
		for _, f := range s.Fields() {
			fv, err := toNative(f.Type(), r.Get(f.Name()))
			if err != nil {
				return nil, NewFieldError(s.FullName(), f.Name(), err)
			}
			out[f.Name()] = fv
		}
		return out, nil
	case *avro.ArraySchema:
		var items []any
		switch l := v.(type) {
		case *Array:
			items = l.Items
		case []any:
			items = l
		default:
			return nil, shapeError("list", v)
		}
		out := make([]any, len(items))
		for i, item := range items {
			nv, err := toNative(s.Items(), item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = nv
		}
		return out, nil
	case *avro.MapSchema:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, shapeError("map", v)
		}
		out := make(map[string]any, len(m))
		for k, item := range m {
			nv, err := toNative(s.Values(), item)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = nv
		}
		return out, nil
	case *avro.EnumSchema:
		return DecodeEnumName(v)
	case *avro.UnionSchema:
		branch, err := NonNull(s)
		if err != nil {
			return nil, err
		}
		native, err := toNative(branch, v)
		if err != nil {
			return nil, err
		}
		// hamba resolves generic union values from a {"<branch name>": value} map.
		return map[string]any{unionBranchName(branch): native}, nil
	}

	switch schema.Type() {
	case avro.String:
		return DecodeString(v)
	case avro.Long:
		if isTimestampMillis(schema) {
			ms, err := DecodeLong(v)
			if err != nil {
				return nil, err
			}
			return time.UnixMilli(ms).UTC(), nil
		}
	}
	return v, nil
}

// fromNative converts values produced by hamba/avro generic decoding into
// container values.
func fromNative(schema avro.Schema, v any) (any, error) {
	schema = Deref(schema)
	if v == nil {
		return nil, nil
	}

	switch s := schema.(type) {
	case *avro.RecordSchema:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, shapeError("record map", v)
		}
		r := &Record{schema: s, values: make(map[string]any, len(s.Fields()))}
		for _, f := range s.Fields() {
			fv, err := fromNative(f.Type(), m[f.Name()])
			if err != nil {
				return nil, NewFieldError(s.FullName(), f.Name(), err)
			}
			r.values[f.Name()] = fv
		}
		return r, nil
	case *avro.ArraySchema:
		l, ok := v.([]any)
		if !ok {
			return nil, shapeError("list", v)
		}
		items := make([]any, len(l))
		for i, item := range l {
			cv, err := fromNative(s.Items(), item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = cv
		}
		return &Array{schema: s, Items: items}, nil
	case *avro.MapSchema:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, shapeError("map", v)
		}
		out := make(map[string]any, len(m))
		for k, item := range m {
			cv, err := fromNative(s.Values(), item)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = cv
		}
		return out, nil
	case *avro.EnumSchema:
		name, err := DecodeEnumName(v)
		if err != nil {
			return nil, err
		}
		return &EnumSymbol{schema: s, Symbol: name}, nil
	case *avro.UnionSchema:
		branch, err := NonNull(s)
		if err != nil {
			return nil, err
		}
		// Unresolved union values come back wrapped as {"<branch name>": value}.
		if m, ok := v.(map[string]any); ok && len(m) == 1 {
			if inner, ok := m[unionBranchName(branch)]; ok {
				v = inner
			}
		}
		return fromNative(branch, v)
	}

	switch schema.Type() {
	case avro.Int:
		switch i := v.(type) {
		case int:
			return int32(i), nil
		case int32:
			return i, nil
		}
		return nil, shapeError("int", v)
	case avro.Long:
		switch i := v.(type) {
		case int64:
			return i, nil
		case int:
			return int64(i), nil
		case time.Time:
			return i.UnixMilli(), nil
		}
		return nil, shapeError("long", v)
	}
	return v, nil
}

func isTimestampMillis(s avro.Schema) bool {
	p, ok := s.(*avro.PrimitiveSchema)
	return ok && p.Logical() != nil && p.Logical().Type() == avro.TimestampMillis
}

func unionBranchName(s avro.Schema) string {
	if named, ok := s.(avro.NamedSchema); ok {
		return named.FullName()
	}
	name := string(s.Type())
	if p, ok := s.(*avro.PrimitiveSchema); ok && p.Logical() != nil {
		name += "." + string(p.Logical().Type())
	}
	return name
}
