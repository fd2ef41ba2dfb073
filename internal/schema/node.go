// Package schema holds the immutable schema model the code generator walks.
//
// A Node is built either from a parsed Avro schema (see FromAvro and Parser) or
// directly with the constructor functions, which is what most tests do.
package schema

import "strings"

// Kind is the closed set of schema node kinds.
type Kind int

const (
	KindRecord Kind = iota + 1
	KindEnum
	KindArray
	KindMap
	KindUnion
	KindFixed
	KindString
	KindBytes
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBoolean
	KindNull
)

var kindNames = map[Kind]string{
	KindRecord:  "record",
	KindEnum:    "enum",
	KindArray:   "array",
	KindMap:     "map",
	KindUnion:   "union",
	KindFixed:   "fixed",
	KindString:  "string",
	KindBytes:   "bytes",
	KindInt:     "int",
	KindLong:    "long",
	KindFloat:   "float",
	KindDouble:  "double",
	KindBoolean: "boolean",
	KindNull:    "null",
}

// String returns the Avro name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsPrimitive reports whether the kind has no children and no name.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindString, KindBytes, KindInt, KindLong, KindFloat, KindDouble, KindBoolean, KindNull:
		return true
	}
	return false
}

// LogicalType refines the native representation of a primitive.
type LogicalType string

const (
	LogicalNone            LogicalType = ""
	LogicalTimestampMillis LogicalType = "timestamp-millis"
)

// Field is one field of a record node.
type Field struct {
	Name string
	Doc  string
	Type *Node
}

// Node is one schema definition or sub-definition. Nodes are never mutated
// after construction; the same *Node may be shared by several parents.
type Node struct {
	kind      Kind
	name      string
	namespace string
	doc       string
	logical   LogicalType
	size      int
	fields    []Field
	symbols   []string
	items     *Node
	values    *Node
	branches  []*Node
}

// Primitive returns a primitive node of the given kind.
func Primitive(kind Kind) *Node {
	return &Node{kind: kind}
}

// WithLogical returns a copy of a primitive node carrying a logical type.
func WithLogical(n *Node, logical LogicalType) *Node {
	cp := *n
	cp.logical = logical
	return &cp
}

// Record returns a record node. Field order is kept as given.
func Record(namespace, name, doc string, fields ...Field) *Node {
	return &Node{
		kind:      KindRecord,
		name:      name,
		namespace: namespace,
		doc:       doc,
		fields:    append([]Field(nil), fields...),
	}
}

// Enum returns an enum node.
func Enum(namespace, name, doc string, symbols ...string) *Node {
	return &Node{
		kind:      KindEnum,
		name:      name,
		namespace: namespace,
		doc:       doc,
		symbols:   append([]string(nil), symbols...),
	}
}

// Fixed returns a fixed node of the given size.
func Fixed(namespace, name string, size int) *Node {
	return &Node{kind: KindFixed, name: name, namespace: namespace, size: size}
}

// Array returns an array node.
func Array(items *Node) *Node {
	return &Node{kind: KindArray, items: items}
}

// Map returns a map node. Keys are always strings.
func Map(values *Node) *Node {
	return &Node{kind: KindMap, values: values}
}

// Union returns a union node with the branches in declared order.
func Union(branches ...*Node) *Node {
	return &Node{kind: KindUnion, branches: append([]*Node(nil), branches...)}
}

// Nullable is shorthand for Union(Primitive(KindNull), n).
func Nullable(n *Node) *Node {
	return Union(Primitive(KindNull), n)
}

func (n *Node) Kind() Kind { return n.kind }
func (n *Node) Name() string { return n.name }
func (n *Node) Namespace() string { return n.namespace }
func (n *Node) Doc() string { return n.doc }
func (n *Node) Logical() LogicalType { return n.logical }
func (n *Node) Size() int { return n.size }
func (n *Node) Items() *Node { return n.items }
func (n *Node) Values() *Node { return n.values }
func (n *Node) Fields() []Field { return append([]Field(nil), n.fields...) }
func (n *Node) Symbols() []string { return append([]string(nil), n.symbols...) }
func (n *Node) Branches() []*Node { return append([]*Node(nil), n.branches...) }
func (n *Node) IsNamed() bool { return n.name != "" }
func (n *Node) IsTimestampMillis() bool { return n.kind == KindLong && n.logical == LogicalTimestampMillis }

// FullName returns namespace.name, or name when the namespace is empty.
func (n *Node) FullName() string {
	if n.namespace == "" {
		return n.name
	}
	return n.namespace + "." + n.name
}

// IsNullableUnion reports whether the node is the two-branch null|T union.
func (n *Node) IsNullableUnion() bool {
	return n.kind == KindUnion &&
		len(n.branches) == 2 &&
		n.branches[0].kind == KindNull &&
		n.branches[1].kind != KindNull
}

// Field returns the field with the given name.
func (n *Node) Field(name string) (Field, bool) {
	for _, f := range n.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// String renders a short description used in error messages.
func (n *Node) String() string {
	switch n.kind {
	case KindRecord, KindEnum, KindFixed:
		return n.kind.String() + " " + n.FullName()
	case KindArray:
		return "array<" + n.items.String() + ">"
	case KindMap:
		return "map<" + n.values.String() + ">"
	case KindUnion:
		parts := make([]string, len(n.branches))
		for i, b := range n.branches {
			parts[i] = b.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	if n.logical != LogicalNone {
		return n.kind.String() + "(" + string(n.logical) + ")"
	}
	return n.kind.String()
}
