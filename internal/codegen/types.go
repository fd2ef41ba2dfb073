package codegen

import (
	"path"

	"github.com/Sokol111/avropoet/internal/schema"
	"github.com/dave/jennifer/jen"
)

// Import paths referenced by generated code.
const (
	AvroImport    = "github.com/hamba/avro/v2"
	GenericImport = "github.com/Sokol111/avropoet/pkg/generic"
)

// DescriptorKind is the shape of a resolved Go type.
type DescriptorKind int

const (
	DescScalar DescriptorKind = iota + 1
	DescTimestamp
	DescRecord
	DescEnum
	DescList
	DescMap
	DescOptional
)

// Descriptor is the Go type a schema node resolves to.
type Descriptor struct {
	Kind DescriptorKind
	// Scalar is set for DescScalar.
	Scalar schema.Kind
	// FullName, GoName and ImportPath are set for DescRecord and DescEnum.
	// ImportPath is empty for types emitted into the current unit.
	FullName   string
	GoName     string
	ImportPath string
	// Elem is set for DescList, DescMap and DescOptional.
	Elem *Descriptor
}

func Scalar(kind schema.Kind) *Descriptor {
	return &Descriptor{Kind: DescScalar, Scalar: kind}
}

func Timestamp() *Descriptor {
	return &Descriptor{Kind: DescTimestamp}
}

func ListOf(elem *Descriptor) *Descriptor {
	return &Descriptor{Kind: DescList, Elem: elem}
}

func MapOf(elem *Descriptor) *Descriptor {
	return &Descriptor{Kind: DescMap, Elem: elem}
}

func OptionalOf(elem *Descriptor) *Descriptor {
	return &Descriptor{Kind: DescOptional, Elem: elem}
}

func NamedRecord(fullName, goName, importPath string) *Descriptor {
	return &Descriptor{Kind: DescRecord, FullName: fullName, GoName: goName, ImportPath: importPath}
}

func NamedEnum(fullName, goName, importPath string) *Descriptor {
	return &Descriptor{Kind: DescEnum, FullName: fullName, GoName: goName, ImportPath: importPath}
}

// Code renders the descriptor as a Go type expression.
func (d *Descriptor) Code() jen.Code {
	switch d.Kind {
	case DescScalar:
		return scalarCode(d.Scalar)
	case DescTimestamp:
		return jen.Qual("time", "Time")
	case DescRecord, DescEnum:
		if d.ImportPath != "" {
			return jen.Qual(d.ImportPath, d.GoName)
		}
		return jen.Id(d.GoName)
	case DescList:
		return jen.Index().Add(d.Elem.Code())
	case DescMap:
		return jen.Map(jen.String()).Add(d.Elem.Code())
	case DescOptional:
		return jen.Op("*").Add(d.Elem.Code())
	}
	return jen.Interface()
}

// String returns the Go spelling of the type, qualified with the last import
// path element for types of other packages.
func (d *Descriptor) String() string {
	switch d.Kind {
	case DescScalar:
		return scalarName(d.Scalar)
	case DescTimestamp:
		return "time.Time"
	case DescRecord, DescEnum:
		if d.ImportPath != "" {
			return path.Base(d.ImportPath) + "." + d.GoName
		}
		return d.GoName
	case DescList:
		return "[]" + d.Elem.String()
	case DescMap:
		return "map[string]" + d.Elem.String()
	case DescOptional:
		return "*" + d.Elem.String()
	}
	return "any"
}

func scalarCode(kind schema.Kind) jen.Code {
	switch kind {
	case schema.KindString:
		return jen.String()
	case schema.KindBytes:
		return jen.Index().Byte()
	case schema.KindInt:
		return jen.Int32()
	case schema.KindLong:
		return jen.Int64()
	case schema.KindFloat:
		return jen.Float32()
	case schema.KindDouble:
		return jen.Float64()
	case schema.KindBoolean:
		return jen.Bool()
	}
	return jen.Interface()
}

func scalarName(kind schema.Kind) string {
	switch kind {
	case schema.KindString:
		return "string"
	case schema.KindBytes:
		return "[]byte"
	case schema.KindInt:
		return "int32"
	case schema.KindLong:
		return "int64"
	case schema.KindFloat:
		return "float32"
	case schema.KindDouble:
		return "float64"
	case schema.KindBoolean:
		return "bool"
	}
	return "any"
}

// TypeKind distinguishes generated type definitions.
type TypeKind int

const (
	TypeRecord TypeKind = iota + 1
	TypeEnum
)

func (k TypeKind) String() string {
	switch k {
	case TypeRecord:
		return "record"
	case TypeEnum:
		return "enum"
	}
	return "unknown"
}

// Key identifies a named schema type within one generation run.
type Key struct {
	Namespace string
	Name      string
}

func (k Key) String() string {
	if k.Namespace == "" {
		return k.Name
	}
	return k.Namespace + "." + k.Name
}

func keyOf(n *schema.Node) Key {
	return Key{Namespace: n.Namespace(), Name: n.Name()}
}

// GeneratedField is one field of a generated struct, in schema order.
type GeneratedField struct {
	Name   string
	GoName string
	Doc    string
	Type   *Descriptor
	Schema *schema.Node
}

// GeneratedType is a Go type definition derived from a record or enum schema.
type GeneratedType struct {
	Kind      TypeKind
	Namespace string
	Name      string
	GoName    string
	Doc       string
	Fields    []GeneratedField
	Symbols   []string
}

func (t *GeneratedType) Key() Key {
	return Key{Namespace: t.Namespace, Name: t.Name}
}

func (t *GeneratedType) FullName() string {
	return t.Key().String()
}

// FunctionKind is the role of a generated top-level function.
type FunctionKind int

const (
	FuncDecode FunctionKind = iota + 1
	FuncEncode
	FuncParse
)

func (k FunctionKind) String() string {
	switch k {
	case FuncDecode:
		return "decode"
	case FuncEncode:
		return "encode"
	case FuncParse:
		return "parse"
	}
	return "unknown"
}

// Function is a generated top-level conversion function attached to a type.
type Function struct {
	Name  string
	Owner Key
	Kind  FunctionKind
	// Decl is the complete function declaration.
	Decl jen.Code
}
