package codegen

import (
	"github.com/Sokol111/avropoet/internal/schema"
	"github.com/dave/jennifer/jen"
)

// Synthesizer builds the decode and encode expressions for schema nodes.
//
// Expressions are compositions of the function values in pkg/generic, so a
// nested collection is a nested call such as
// generic.ListDecoder(generic.MapDecoder(generic.DecodeString)). Records and
// enums are never inlined: their expressions call the generated DecodeX and
// EncodeX functions of that type.
type Synthesizer struct {
	shared *SharedSet
}

func NewSynthesizer(shared *SharedSet) *Synthesizer {
	return &Synthesizer{shared: shared}
}

// DecodeExpr returns an expression of type (T, error) decoding src, an `any`
// taken from a generic container, into the Go type of node.
func (s *Synthesizer) DecodeExpr(node *schema.Node, src jen.Code) (jen.Code, error) {
	dec, err := s.decoder(node, nodePath(node))
	if err != nil {
		return nil, err
	}
	return jen.Add(dec).Call(src), nil
}

func (s *Synthesizer) decoder(node *schema.Node, path string) (*jen.Statement, error) {
	switch node.Kind() {
	case schema.KindString:
		return runtime("DecodeString"), nil
	case schema.KindBytes:
		return runtime("DecodeBytes"), nil
	case schema.KindInt:
		return runtime("DecodeInt"), nil
	case schema.KindLong:
		if node.IsTimestampMillis() {
			return runtime("DecodeTimestampMillis"), nil
		}
		return runtime("DecodeLong"), nil
	case schema.KindFloat:
		return runtime("DecodeFloat"), nil
	case schema.KindDouble:
		return runtime("DecodeDouble"), nil
	case schema.KindBoolean:
		return runtime("DecodeBoolean"), nil
	case schema.KindArray:
		elem, err := s.decoder(node.Items(), path+"[]")
		if err != nil {
			return nil, err
		}
		return runtime("ListDecoder").Call(elem), nil
	case schema.KindMap:
		value, err := s.decoder(node.Values(), path+"{}")
		if err != nil {
			return nil, err
		}
		return runtime("MapDecoder").Call(value), nil
	case schema.KindUnion:
		if !node.IsNullableUnion() {
			return nil, unsupportedUnion(path, node)
		}
		inner, err := s.decoder(node.Branches()[1], path)
		if err != nil {
			return nil, err
		}
		return runtime("OptionalDecoder").Call(inner), nil
	case schema.KindRecord:
		return runtime("RecordDecoder").Call(s.named(node, "Decode")), nil
	case schema.KindEnum:
		return s.named(node, "Decode"), nil
	case schema.KindFixed:
		return nil, unsupported(path, "fixed %s", node.FullName())
	case schema.KindNull:
		return nil, unsupported(path, "null outside of a null|T union")
	}
	return nil, invalidShape(path, "unknown schema kind %s", node.Kind())
}

// named refers to a generated function of a record or enum, qualified with
// the shared package when the type was emitted by a shared unit.
func (s *Synthesizer) named(node *schema.Node, prefix string) *jen.Statement {
	if ref, ok := s.shared.Lookup(node.FullName()); ok {
		return jen.Qual(ref.ImportPath, prefix+ref.GoName)
	}
	return jen.Id(prefix + TypeName(node.Name()))
}

func runtime(name string) *jen.Statement {
	return jen.Qual(GenericImport, name)
}

func nodePath(node *schema.Node) string {
	if node.IsNamed() {
		return node.FullName()
	}
	return node.String()
}

func unsupportedUnion(path string, node *schema.Node) error {
	return unsupported(path, "union %s, only the two-branch null|T union is supported", node)
}
