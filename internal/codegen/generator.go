// Package codegen turns Avro record schemas into Go source units.
//
// One run resolves a top-level record: every reachable record and enum becomes
// a GeneratedType in the Registry, together with the Decode/Encode functions
// converting it from and to the generic container in pkg/generic. The
// Generator hands the accumulated Unit to an Emitter and must be Reset before
// the next run.
//
// Basic usage:
//
//	gen := codegen.NewGenerator(sink, logger, codegen.Options{ImportRoot: "example.com/gen"})
//	defer gen.Reset()
//
//	unit, err := gen.Generate(ctx, src, shared)
//	if err != nil {
//		return err
//	}
package codegen

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sokol111/avropoet/internal/schema"
	"go.uber.org/zap"
)

// Unit is everything one top-level schema contributes to the output: the
// ordered type definitions and conversion functions plus where they go.
type Unit struct {
	Namespace  string
	Name       string
	Doc        string
	Package    string
	ImportPath string
	Types      []*GeneratedType
	Functions  []*Function
}

func (u *Unit) FullName() string {
	return Key{Namespace: u.Namespace, Name: u.Name}.String()
}

// Emitter renders a Unit. Implementations decide paths, imports and formatting.
type Emitter interface {
	Emit(ctx context.Context, unit *Unit) error
}

// Options configure how units are placed.
type Options struct {
	// ImportRoot is the Go import path the namespace directories hang off.
	ImportRoot string
	// DefaultNamespace is used for top-level schemas without a namespace.
	DefaultNamespace string
}

// Generator runs one top-level schema at a time against its own Registry.
type Generator struct {
	parser   *schema.Parser
	registry *Registry
	emitter  Emitter
	logger   *zap.Logger
	opts     Options
}

func NewGenerator(emitter Emitter, logger *zap.Logger, opts Options) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		parser:   schema.NewParser(),
		registry: NewRegistry(),
		emitter:  emitter,
		logger:   logger,
		opts:     opts,
	}
}

// Generate parses src against the shared sources, resolves it and emits the
// resulting unit. The caller must call Reset before the next Generate, whether
// this one succeeded or not.
func (g *Generator) Generate(ctx context.Context, src schema.Source, shared *SharedSet) (*Unit, error) {
	if !g.registry.Empty() {
		return nil, ErrRegistryNotReset
	}

	node, err := g.parser.Parse(src, shared.Sources())
	if err != nil {
		if errors.Is(err, schema.ErrRecursive) {
			return nil, &SchemaError{Path: src.Name(), Err: fmt.Errorf("%w: %w", ErrUnsupportedConstruct, err)}
		}
		return nil, err
	}

	return g.GenerateNode(ctx, node, shared)
}

// GenerateNode is Generate for an already parsed schema.
func (g *Generator) GenerateNode(ctx context.Context, node *schema.Node, shared *SharedSet) (*Unit, error) {
	if !g.registry.Empty() {
		return nil, ErrRegistryNotReset
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unit, err := g.resolve(node, shared)
	if err != nil {
		return nil, err
	}

	if g.emitter != nil {
		if err := g.emitter.Emit(ctx, unit); err != nil {
			return nil, fmt.Errorf("failed to emit %s: %w", unit.FullName(), err)
		}
	}

	g.logger.Debug("schema generated",
		zap.String("schema", unit.FullName()),
		zap.String("package", unit.ImportPath),
		zap.Strings("types", g.registry.Names()),
		zap.Int("functions", len(unit.Functions)),
		zap.Int("shared_sources", shared.Len()),
	)

	return unit, nil
}

func (g *Generator) resolve(node *schema.Node, shared *SharedSet) (*Unit, error) {
	if node.Kind() != schema.KindRecord {
		return nil, invalidShape(nodePath(node), "top-level schema must be a record, got %s", node.Kind())
	}
	if ref, ok := shared.Lookup(node.FullName()); ok {
		return nil, invalidShape(node.FullName(), "already emitted by shared package %s", ref.ImportPath)
	}

	if _, err := NewResolver(g.registry, shared).Resolve(node); err != nil {
		return nil, err
	}

	namespace := node.Namespace()
	if namespace == "" {
		namespace = g.opts.DefaultNamespace
	}

	return &Unit{
		Namespace:  namespace,
		Name:       node.Name(),
		Doc:        node.Doc(),
		Package:    PackageName(namespace),
		ImportPath: ImportPath(g.opts.ImportRoot, namespace),
		Types:      g.registry.Types(),
		Functions:  g.registry.Functions(),
	}, nil
}

// Reset clears the registry so the Generator can run again.
func (g *Generator) Reset() {
	g.registry.Reset()
}

// Registry exposes the current run's registry.
func (g *Generator) Registry() *Registry {
	return g.registry
}
