package codegen

import (
	"slices"

	"github.com/Sokol111/avropoet/internal/schema"
)

// SharedRef locates a type emitted by an earlier shared unit.
type SharedRef struct {
	FullName   string
	GoName     string
	ImportPath string
	Kind       TypeKind
}

// SharedSet holds the shared schema sources of a build and indexes the types
// their units emitted. Dependent runs parse against Sources and resolve any
// indexed name to the shared package instead of registering it again.
//
// A SharedSet is filled sequentially and only read afterwards, so concurrent
// dependent runs may share it once it is complete.
type SharedSet struct {
	sources []schema.Source
	refs    map[string]SharedRef
}

func NewSharedSet() *SharedSet {
	return &SharedSet{refs: make(map[string]SharedRef)}
}

// Add records src as a shared source and indexes the types of its unit.
// The first unit to emit a full name keeps it.
func (s *SharedSet) Add(src schema.Source, unit *Unit) {
	s.sources = append(s.sources, src)
	if unit == nil {
		return
	}
	for _, t := range unit.Types {
		if _, ok := s.refs[t.FullName()]; ok {
			continue
		}
		s.refs[t.FullName()] = SharedRef{
			FullName:   t.FullName(),
			GoName:     t.GoName,
			ImportPath: unit.ImportPath,
			Kind:       t.Kind,
		}
	}
}

// Lookup returns the shared type registered under fullName. It is safe to
// call on a nil set.
func (s *SharedSet) Lookup(fullName string) (SharedRef, bool) {
	if s == nil {
		return SharedRef{}, false
	}
	ref, ok := s.refs[fullName]
	return ref, ok
}

// Sources returns the shared sources in the order they were added.
func (s *SharedSet) Sources() []schema.Source {
	if s == nil {
		return nil
	}
	return slices.Clone(s.sources)
}

func (s *SharedSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.sources)
}
