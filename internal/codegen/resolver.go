package codegen

import "github.com/Sokol111/avropoet/internal/schema"

// Resolver maps schema nodes to Go type descriptors. Resolving a record or
// enum registers its type and conversion functions in the Registry, nested
// types first. Types found in the SharedSet are referenced, never registered.
type Resolver struct {
	registry *Registry
	shared   *SharedSet
	synth    *Synthesizer
	visiting map[Key]bool
}

func NewResolver(registry *Registry, shared *SharedSet) *Resolver {
	return &Resolver{
		registry: registry,
		shared:   shared,
		synth:    NewSynthesizer(shared),
		visiting: make(map[Key]bool),
	}
}

// Resolve returns the descriptor of node.
func (r *Resolver) Resolve(node *schema.Node) (*Descriptor, error) {
	return r.resolve(node, nodePath(node))
}

func (r *Resolver) resolve(node *schema.Node, path string) (*Descriptor, error) {
	switch node.Kind() {
	case schema.KindString, schema.KindBytes, schema.KindInt, schema.KindFloat, schema.KindDouble, schema.KindBoolean:
		return Scalar(node.Kind()), nil
	case schema.KindLong:
		if node.IsTimestampMillis() {
			return Timestamp(), nil
		}
		return Scalar(schema.KindLong), nil
	case schema.KindArray:
		elem, err := r.resolve(node.Items(), path+"[]")
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	case schema.KindMap:
		value, err := r.resolve(node.Values(), path+"{}")
		if err != nil {
			return nil, err
		}
		return MapOf(value), nil
	case schema.KindUnion:
		if !node.IsNullableUnion() {
			return nil, unsupportedUnion(path, node)
		}
		inner, err := r.resolve(node.Branches()[1], path)
		if err != nil {
			return nil, err
		}
		return OptionalOf(inner), nil
	case schema.KindRecord:
		return r.record(node)
	case schema.KindEnum:
		return r.enum(node)
	case schema.KindFixed:
		return nil, unsupported(path, "fixed %s", node.FullName())
	case schema.KindNull:
		return nil, unsupported(path, "null outside of a null|T union")
	}
	return nil, invalidShape(path, "unknown schema kind %s", node.Kind())
}

func (r *Resolver) record(node *schema.Node) (*Descriptor, error) {
	key := keyOf(node)

	if ref, ok := r.shared.Lookup(key.String()); ok {
		if ref.Kind != TypeRecord {
			return nil, invalidShape(key.String(), "shared type is an %s, not a record", ref.Kind)
		}
		return NamedRecord(ref.FullName, ref.GoName, ref.ImportPath), nil
	}
	if t, ok := r.registry.Lookup(key); ok {
		if t.Kind != TypeRecord {
			return nil, invalidShape(key.String(), "registered type is an %s, not a record", t.Kind)
		}
		return NamedRecord(key.String(), t.GoName, ""), nil
	}
	if r.visiting[key] {
		return nil, unsupported(key.String(), "recursive record")
	}
	r.visiting[key] = true
	defer delete(r.visiting, key)

	fields := make([]GeneratedField, 0, len(node.Fields()))
	goNames := make(map[string]string)
	for _, f := range node.Fields() {
		path := key.String() + "." + f.Name
		desc, err := r.resolve(f.Type, path)
		if err != nil {
			return nil, err
		}

		goName := FieldName(f.Name)
		if other, ok := goNames[goName]; ok {
			return nil, invalidShape(path, "Go field name %s is already used by field %s", goName, other)
		}
		goNames[goName] = f.Name

		fields = append(fields, GeneratedField{
			Name:   f.Name,
			GoName: goName,
			Doc:    f.Doc,
			Type:   desc,
			Schema: f.Type,
		})
	}

	t := &GeneratedType{
		Kind:      TypeRecord,
		Namespace: key.Namespace,
		Name:      key.Name,
		GoName:    TypeName(key.Name),
		Doc:       node.Doc(),
		Fields:    fields,
	}
	if err := r.register(t, r.synth.RecordFunctions); err != nil {
		return nil, err
	}
	return NamedRecord(key.String(), t.GoName, ""), nil
}

func (r *Resolver) enum(node *schema.Node) (*Descriptor, error) {
	key := keyOf(node)

	if ref, ok := r.shared.Lookup(key.String()); ok {
		if ref.Kind != TypeEnum {
			return nil, invalidShape(key.String(), "shared type is a %s, not an enum", ref.Kind)
		}
		return NamedEnum(ref.FullName, ref.GoName, ref.ImportPath), nil
	}
	if t, ok := r.registry.Lookup(key); ok {
		if t.Kind != TypeEnum {
			return nil, invalidShape(key.String(), "registered type is a %s, not an enum", t.Kind)
		}
		return NamedEnum(key.String(), t.GoName, ""), nil
	}

	t := &GeneratedType{
		Kind:      TypeEnum,
		Namespace: key.Namespace,
		Name:      key.Name,
		GoName:    TypeName(key.Name),
		Doc:       node.Doc(),
		Symbols:   node.Symbols(),
	}
	consts := make(map[string]string, len(t.Symbols))
	for _, sym := range t.Symbols {
		name := EnumConstName(t.GoName, sym)
		if other, ok := consts[name]; ok {
			return nil, invalidShape(key.String(), "symbols %s and %s map to the same constant %s", other, sym, name)
		}
		consts[name] = sym
	}

	if err := r.register(t, r.synth.EnumFunctions); err != nil {
		return nil, err
	}
	return NamedEnum(key.String(), t.GoName, ""), nil
}

func (r *Resolver) register(t *GeneratedType, functions func(*GeneratedType) ([]*Function, error)) error {
	fns, err := functions(t)
	if err != nil {
		return err
	}
	added, err := r.registry.Register(t)
	if err != nil {
		return err
	}
	if added {
		r.registry.AddFunctions(fns...)
	}
	return nil
}
