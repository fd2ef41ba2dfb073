// Package source finds the schema files of a build and watches them for
// changes.
package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Sokol111/avropoet/internal/schema"
	"github.com/samber/lo"
)

// DefaultExtensions are the schema file extensions accepted when Options
// leaves them empty.
var DefaultExtensions = []string{".avsc", ".json"}

// DefaultSharedDir is the directory name marking shared schemas.
const DefaultSharedDir = "shared"

type Options struct {
	// Extensions accepted by discovery, matched case-insensitively.
	Extensions []string
	// SharedDir is a directory name; schemas below any directory of that
	// name are shared.
	SharedDir string
}

func (o Options) withDefaults() Options {
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	if o.SharedDir == "" {
		o.SharedDir = DefaultSharedDir
	}
	return o
}

// Matches reports whether path has one of the accepted extensions.
func (o Options) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.ContainsFunc(o.withDefaults().Extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}

// Set is the outcome of discovery. Both lists are sorted by path,
// case-insensitively.
type Set struct {
	Shared    []schema.Source
	Dependent []schema.Source
}

func (s Set) Len() int {
	return len(s.Shared) + len(s.Dependent)
}

// Discover walks root and reads every schema file below it. Files under a
// SharedDir directory are returned as shared, the rest as dependent.
func Discover(root string, opts Options) (Set, error) {
	opts = opts.withDefaults()

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !opts.Matches(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return Set{}, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	slices.SortFunc(paths, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	isShared := func(rel string, _ int) bool {
		dirs := strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/")
		return slices.Contains(dirs, opts.SharedDir)
	}

	shared, err := read(root, lo.Filter(paths, isShared))
	if err != nil {
		return Set{}, err
	}
	dependent, err := read(root, lo.Reject(paths, isShared))
	if err != nil {
		return Set{}, err
	}

	return Set{Shared: shared, Dependent: dependent}, nil
}

func read(root string, paths []string) ([]schema.Source, error) {
	sources := make([]schema.Source, 0, len(paths))
	for _, rel := range paths {
		src, err := schema.ReadSource(filepath.Join(root, rel))
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}
