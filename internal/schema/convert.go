package schema

import (
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
)

// ErrRecursive is returned for a named type that (transitively) contains itself.
var ErrRecursive = errors.New("recursive schema reference")

// FromAvro converts a parsed Avro schema into the Node model.
// References are dereferenced and the same full name always yields the same *Node.
func FromAvro(s avro.Schema) (*Node, error) {
	c := &converter{
		named:    make(map[string]*Node),
		visiting: make(map[string]bool),
	}
	return c.convert(s)
}

type converter struct {
	named    map[string]*Node
	visiting map[string]bool
}

func (c *converter) convert(s avro.Schema) (*Node, error) {
	if ref, ok := s.(*avro.RefSchema); ok {
		s = ref.Schema()
	}

	if named, ok := s.(avro.NamedSchema); ok {
		fullName := named.FullName()
		if n, ok := c.named[fullName]; ok {
			return n, nil
		}
		if c.visiting[fullName] {
			return nil, fmt.Errorf("%w: %s", ErrRecursive, fullName)
		}
		c.visiting[fullName] = true
		defer delete(c.visiting, fullName)
	}

	switch s.Type() {
	case avro.Record:
		return c.record(s.(*avro.RecordSchema))
	case avro.Enum:
		e := s.(*avro.EnumSchema)
		n := Enum(e.Namespace(), e.Name(), e.Doc(), e.Symbols()...)
		c.named[e.FullName()] = n
		return n, nil
	case avro.Fixed:
		f := s.(*avro.FixedSchema)
		n := Fixed(f.Namespace(), f.Name(), f.Size())
		c.named[f.FullName()] = n
		return n, nil
	case avro.Array:
		items, err := c.convert(s.(*avro.ArraySchema).Items())
		if err != nil {
			return nil, err
		}
		return Array(items), nil
	case avro.Map:
		values, err := c.convert(s.(*avro.MapSchema).Values())
		if err != nil {
			return nil, err
		}
		return Map(values), nil
	case avro.Union:
		types := s.(*avro.UnionSchema).Types()
		branches := make([]*Node, 0, len(types))
		for _, t := range types {
			b, err := c.convert(t)
			if err != nil {
				return nil, err
			}
			branches = append(branches, b)
		}
		return Union(branches...), nil
	case avro.String:
		return primitive(s, KindString), nil
	case avro.Bytes:
		return primitive(s, KindBytes), nil
	case avro.Int:
		return primitive(s, KindInt), nil
	case avro.Long:
		return primitive(s, KindLong), nil
	case avro.Float:
		return primitive(s, KindFloat), nil
	case avro.Double:
		return primitive(s, KindDouble), nil
	case avro.Boolean:
		return primitive(s, KindBoolean), nil
	case avro.Null:
		return Primitive(KindNull), nil
	default:
		return nil, fmt.Errorf("unknown avro schema type %q", s.Type())
	}
}

func (c *converter) record(r *avro.RecordSchema) (*Node, error) {
	fields := make([]Field, 0, len(r.Fields()))
	for _, f := range r.Fields() {
		t, err := c.convert(f.Type())
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", r.FullName(), f.Name(), err)
		}
		fields = append(fields, Field{Name: f.Name(), Doc: f.Doc(), Type: t})
	}
	n := Record(r.Namespace(), r.Name(), r.Doc(), fields...)
	c.named[r.FullName()] = n
	return n, nil
}

func primitive(s avro.Schema, kind Kind) *Node {
	n := Primitive(kind)
	p, ok := s.(*avro.PrimitiveSchema)
	if !ok || p.Logical() == nil {
		return n
	}
	return WithLogical(n, LogicalType(p.Logical().Type()))
}
