// Package generic is the runtime used by code generated by avropoet.
//
// It defines the dynamically typed container (Record, Array, EnumSymbol, Utf8)
// that generated Decode/Encode functions convert from and to, the decoders and
// encoders those functions are composed of, and a binary bridge to Avro via
// hamba/avro.
package generic

import (
	"fmt"

	"github.com/hamba/avro/v2"
)

// Utf8 is the wire-oriented text representation. Encoders always produce it;
// decoders accept it as well as plain strings.
type Utf8 []byte

// String returns the text as a Go string.
func (u Utf8) String() string {
	return string(u)
}

// Record is a generic record: a record schema plus field values by name.
type Record struct {
	schema *avro.RecordSchema
	values map[string]any
}

// NewRecord creates an empty record for the given schema.
func NewRecord(schema avro.Schema) (*Record, error) {
	rs, ok := Deref(schema).(*avro.RecordSchema)
	if !ok {
		return nil, fmt.Errorf("%w: record schema required, got %s", ErrSchemaMismatch, describe(schema))
	}
	return &Record{schema: rs, values: make(map[string]any, len(rs.Fields()))}, nil
}

// Schema returns the record schema.
func (r *Record) Schema() *avro.RecordSchema {
	return r.schema
}

// Get returns the value of a field, or nil when it is unset.
func (r *Record) Get(name string) any {
	return r.values[name]
}

// Put sets the value of a field.
func (r *Record) Put(name string, v any) {
	r.values[name] = v
}

// FieldSchema returns the schema of the named field, or nil if the record has
// no such field.
func (r *Record) FieldSchema(name string) avro.Schema {
	for _, f := range r.schema.Fields() {
		if f.Name() == name {
			return Deref(f.Type())
		}
	}
	return nil
}

// Array is a generic array: the array schema plus its items.
type Array struct {
	schema *avro.ArraySchema
	Items  []any
}

// NewArray creates an array for the given schema.
func NewArray(schema avro.Schema, items []any) (*Array, error) {
	as, ok := Deref(schema).(*avro.ArraySchema)
	if !ok {
		return nil, fmt.Errorf("%w: array schema required, got %s", ErrSchemaMismatch, describe(schema))
	}
	return &Array{schema: as, Items: items}, nil
}

// Schema returns the array schema.
func (a *Array) Schema() *avro.ArraySchema {
	return a.schema
}

// EnumSymbol is a generic enum value: the enum schema plus the active symbol.
type EnumSymbol struct {
	schema *avro.EnumSchema
	Symbol string
}

// NewEnumSymbol creates an enum value. The symbol must belong to the schema.
func NewEnumSymbol(schema avro.Schema, symbol string) (*EnumSymbol, error) {
	es, ok := Deref(schema).(*avro.EnumSchema)
	if !ok {
		return nil, fmt.Errorf("%w: enum schema required, got %s", ErrSchemaMismatch, describe(schema))
	}
	for _, s := range es.Symbols() {
		if s == symbol {
			return &EnumSymbol{schema: es, Symbol: symbol}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not a symbol of %s", ErrSchemaMismatch, symbol, es.FullName())
}

// Schema returns the enum schema.
func (e *EnumSymbol) Schema() *avro.EnumSchema {
	return e.schema
}

// String returns the symbol.
func (e *EnumSymbol) String() string {
	return e.Symbol
}

// Deref resolves a reference schema to the named schema it points to.
func Deref(s avro.Schema) avro.Schema {
	if ref, ok := s.(*avro.RefSchema); ok {
		return ref.Schema()
	}
	return s
}

// NonNull returns the non-null branch of a null|T union.
func NonNull(s avro.Schema) (avro.Schema, error) {
	us, ok := Deref(s).(*avro.UnionSchema)
	if !ok {
		return nil, fmt.Errorf("%w: union schema required, got %s", ErrSchemaMismatch, describe(s))
	}
	types := us.Types()
	if len(types) != 2 || types[0].Type() != avro.Null || types[1].Type() == avro.Null {
		return nil, fmt.Errorf("%w: only null|T unions are supported, got %s", ErrSchemaMismatch, us.String())
	}
	return Deref(types[1]), nil
}

func describe(s avro.Schema) string {
	if s == nil {
		return "no schema"
	}
	return string(s.Type())
}
