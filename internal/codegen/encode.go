package codegen

import (
	"github.com/Sokol111/avropoet/internal/schema"
	"github.com/dave/jennifer/jen"
)

// EncodeExpr returns an expression of type (any, error) encoding valueSrc, a
// value of the Go type of node. schemaSrc is the Avro schema of the position
// being written; list, map and optional encoders derive the schema of their
// items from it.
func (s *Synthesizer) EncodeExpr(node *schema.Node, schemaSrc, valueSrc jen.Code) (jen.Code, error) {
	enc, err := s.encoder(node, nodePath(node))
	if err != nil {
		return nil, err
	}
	return jen.Add(enc).Call(schemaSrc, valueSrc), nil
}

func (s *Synthesizer) encoder(node *schema.Node, path string) (*jen.Statement, error) {
	switch node.Kind() {
	case schema.KindString:
		return runtime("EncodeString"), nil
	case schema.KindBytes:
		return runtime("EncodeBytes"), nil
	case schema.KindInt:
		return runtime("EncodeInt"), nil
	case schema.KindLong:
		if node.IsTimestampMillis() {
			return runtime("EncodeTimestampMillis"), nil
		}
		return runtime("EncodeLong"), nil
	case schema.KindFloat:
		return runtime("EncodeFloat"), nil
	case schema.KindDouble:
		return runtime("EncodeDouble"), nil
	case schema.KindBoolean:
		return runtime("EncodeBoolean"), nil
	case schema.KindArray:
		elem, err := s.encoder(node.Items(), path+"[]")
		if err != nil {
			return nil, err
		}
		return runtime("ListEncoder").Call(elem), nil
	case schema.KindMap:
		value, err := s.encoder(node.Values(), path+"{}")
		if err != nil {
			return nil, err
		}
		return runtime("MapEncoder").Call(value), nil
	case schema.KindUnion:
		if !node.IsNullableUnion() {
			return nil, unsupportedUnion(path, node)
		}
		inner, err := s.encoder(node.Branches()[1], path)
		if err != nil {
			return nil, err
		}
		return runtime("OptionalEncoder").Call(inner), nil
	case schema.KindRecord:
		return runtime("RecordEncoder").Call(s.named(node, "Encode")), nil
	case schema.KindEnum:
		return s.named(node, "Encode"), nil
	case schema.KindFixed:
		return nil, unsupported(path, "fixed %s", node.FullName())
	case schema.KindNull:
		return nil, unsupported(path, "null outside of a null|T union")
	}
	return nil, invalidShape(path, "unknown schema kind %s", node.Kind())
}
