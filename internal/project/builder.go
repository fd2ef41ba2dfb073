// Package project runs a whole build: discovery, the shared schemas in order,
// then every dependent schema, optionally in parallel.
package project

import (
	"context"
	"fmt"
	"time"

	"github.com/Sokol111/avropoet/internal/codegen"
	"github.com/Sokol111/avropoet/internal/emitter"
	"github.com/Sokol111/avropoet/internal/schema"
	"github.com/Sokol111/avropoet/internal/source"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Input is the directory discovery starts from.
	Input   string
	Source  source.Options
	Codegen codegen.Options
	// Parallelism bounds concurrent dependent runs. Values below 2 run them
	// sequentially on a single Generator.
	Parallelism int
}

// Result summarizes a finished build.
type Result struct {
	BuildID string
	// Units holds the shared units first, then the dependent ones, each group
	// in discovery order.
	Units     []*codegen.Unit
	Shared    int
	Dependent int
}

// Builder renders a whole build in memory and writes it to its sink only once
// every unit has been generated and checked, so a failed build leaves the
// output untouched.
type Builder struct {
	opts   Options
	sink   emitter.Sink
	logger *zap.Logger
}

func NewBuilder(opts Options, sink emitter.Sink, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{opts: opts, sink: sink, logger: logger}
}

// Build discovers the schemas below Options.Input and generates them.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	set, err := source.Discover(b.opts.Input, b.opts.Source)
	if err != nil {
		return nil, err
	}
	return b.BuildSet(ctx, set)
}

// BuildSet generates an already discovered set. Shared schemas run first and
// strictly in order, each one able to reference the previous ones.
func (b *Builder) BuildSet(ctx context.Context, set source.Set) (*Result, error) {
	started := time.Now()
	res := &Result{BuildID: uuid.NewString(), Shared: len(set.Shared), Dependent: len(set.Dependent)}
	log := b.logger.With(zap.String("build_id", res.BuildID))

	log.Info("build started",
		zap.Int("shared", res.Shared),
		zap.Int("dependent", res.Dependent),
		zap.Int("parallelism", b.opts.Parallelism),
	)

	staged := &emitter.MemorySink{}
	emit := emitter.New(staged, log)

	shared := codegen.NewSharedSet()
	gen := codegen.NewGenerator(emit, log, b.opts.Codegen)
	for _, src := range set.Shared {
		unit, err := run(ctx, gen, src, shared)
		if err != nil {
			return nil, err
		}
		shared.Add(src, unit)
		res.Units = append(res.Units, unit)
	}

	var (
		units []*codegen.Unit
		err   error
	)
	if b.opts.Parallelism > 1 {
		units, err = b.parallel(ctx, log, emit, set.Dependent, shared)
	} else {
		units, err = sequential(ctx, gen, set.Dependent, shared)
	}
	if err != nil {
		return nil, err
	}
	res.Units = append(res.Units, units...)

	if err := checkConflicts(res.Units); err != nil {
		return nil, err
	}
	if err := staged.Flush(ctx, b.sink); err != nil {
		return nil, fmt.Errorf("failed to write generated files: %w", err)
	}

	log.Info("build finished",
		zap.Int("units", len(res.Units)),
		zap.Duration("took", time.Since(started)),
	)
	return res, nil
}

func sequential(ctx context.Context, gen *codegen.Generator, sources []schema.Source, shared *codegen.SharedSet) ([]*codegen.Unit, error) {
	units := make([]*codegen.Unit, 0, len(sources))
	for _, src := range sources {
		unit, err := run(ctx, gen, src, shared)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

// parallel gives every goroutine its own Generator; the shared set is only
// read from here on.
func (b *Builder) parallel(ctx context.Context, log *zap.Logger, emit codegen.Emitter, sources []schema.Source, shared *codegen.SharedSet) ([]*codegen.Unit, error) {
	units := make([]*codegen.Unit, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Parallelism)
	for i, src := range sources {
		g.Go(func() error {
			gen := codegen.NewGenerator(emit, log, b.opts.Codegen)
			unit, err := run(gctx, gen, src, shared)
			if err != nil {
				return err
			}
			units[i] = unit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func run(ctx context.Context, gen *codegen.Generator, src schema.Source, shared *codegen.SharedSet) (*codegen.Unit, error) {
	defer gen.Reset()

	unit, err := gen.Generate(ctx, src, shared)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", src.Name(), err)
	}
	return unit, nil
}

// checkConflicts rejects two units declaring the same Go identifier in one
// package, which happens when separate schemas inline the same named type.
func checkConflicts(units []*codegen.Unit) error {
	owners := make(map[string]string)
	for _, unit := range units {
		for _, t := range unit.Types {
			for _, ident := range codegen.Identifiers(t) {
				id := unit.ImportPath + "." + ident
				if other, ok := owners[id]; ok {
					return &codegen.SchemaError{
						Path: t.FullName(),
						Err: fmt.Errorf("%w: %s is declared in package %s by both %s and %s; move it to a shared schema",
							codegen.ErrSchemaShape, ident, unit.ImportPath, other, unit.FullName()),
					}
				}
				owners[id] = unit.FullName()
			}
		}
	}
	return nil
}

// Packages lists the distinct import paths a result wrote to.
func (r *Result) Packages() []string {
	return lo.Uniq(lo.Map(r.Units, func(u *codegen.Unit, _ int) string {
		return u.ImportPath
	}))
}
