package codegen

import (
	"slices"

	"github.com/samber/lo"
)

// Registry accumulates the types and functions of one generation run.
//
// Types are kept in first-registration order and deduplicated by Key: a
// second registration of the same Key is a no-op. A Registry is not safe for
// concurrent use; parallel runs each own one.
type Registry struct {
	types     []*GeneratedType
	index     map[Key]*GeneratedType
	goNames   map[string]Key
	functions []*Function
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Register adds t unless a type with the same Key is already present. It
// reports whether t was added. Two different keys declaring the same Go
// identifier, be it a type, an enum constant or a conversion function, are
// rejected.
func (r *Registry) Register(t *GeneratedType) (bool, error) {
	key := t.Key()
	if _, ok := r.index[key]; ok {
		return false, nil
	}

	idents := Identifiers(t)
	for _, id := range idents {
		if other, ok := r.goNames[id]; ok {
			return false, invalidShape(key.String(), "Go identifier %s is already declared by %s", id, other)
		}
	}
	if dup := lo.FindDuplicates(idents); len(dup) > 0 {
		return false, invalidShape(key.String(), "Go identifier %s is declared twice", dup[0])
	}

	r.types = append(r.types, t)
	r.index[key] = t
	for _, id := range idents {
		r.goNames[id] = key
	}
	return true, nil
}

// Identifiers lists the package-level Go names a generated type declares:
// the type itself, its enum constants and its conversion functions.
func Identifiers(t *GeneratedType) []string {
	switch t.Kind {
	case TypeEnum:
		idents := []string{t.GoName}
		for _, sym := range t.Symbols {
			idents = append(idents, EnumConstName(t.GoName, sym))
		}
		return append(idents, "Parse"+t.GoName, "Decode"+t.GoName, "Encode"+t.GoName)
	case TypeRecord:
		return []string{t.GoName, "Decode" + t.GoName, "Encode" + t.GoName}
	}
	return []string{t.GoName}
}

func (r *Registry) Lookup(key Key) (*GeneratedType, bool) {
	t, ok := r.index[key]
	return t, ok
}

// AddFunctions appends generated functions in call order.
func (r *Registry) AddFunctions(fns ...*Function) {
	r.functions = append(r.functions, fns...)
}

// Types returns the registered types in first-registration order.
func (r *Registry) Types() []*GeneratedType {
	return slices.Clone(r.types)
}

// Functions returns the registered functions in registration order.
func (r *Registry) Functions() []*Function {
	return slices.Clone(r.functions)
}

// Names returns the full names of the registered types in order.
func (r *Registry) Names() []string {
	return lo.Map(r.types, func(t *GeneratedType, _ int) string {
		return t.FullName()
	})
}

// Empty reports whether nothing has been registered since the last Reset.
func (r *Registry) Empty() bool {
	return len(r.types) == 0 && len(r.functions) == 0
}

// Reset clears all accumulated state.
func (r *Registry) Reset() {
	r.types = nil
	r.index = make(map[Key]*GeneratedType)
	r.goNames = make(map[string]Key)
	r.functions = nil
}
