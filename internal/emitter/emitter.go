package emitter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Sokol111/avropoet/internal/codegen"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Sink stores rendered files under a path relative to the output root.
type Sink interface {
	Write(ctx context.Context, path string, data []byte) error
}

// Emitter renders units and writes them to a Sink. It implements
// codegen.Emitter and is safe for concurrent use if its Sink is.
type Emitter struct {
	sink   Sink
	logger *zap.Logger
}

var _ codegen.Emitter = (*Emitter)(nil)

func New(sink Sink, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{sink: sink, logger: logger}
}

// Emit renders unit and writes it to Path(unit).
func (e *Emitter) Emit(ctx context.Context, unit *codegen.Unit) error {
	var buf bytes.Buffer
	if err := Render(unit).Render(&buf); err != nil {
		return fmt.Errorf("failed to render %s: %w", unit.FullName(), err)
	}

	path := Path(unit)
	if err := e.sink.Write(ctx, path, buf.Bytes()); err != nil {
		return err
	}

	e.logger.Debug("file emitted",
		zap.String("path", path),
		zap.String("schema", unit.FullName()),
		zap.Int("bytes", buf.Len()),
	)
	return nil
}

// FileSink writes files below Root, creating directories as needed.
type FileSink struct {
	Root string
}

func (s FileSink) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := filepath.Join(s.Root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", full, err)
	}
	return nil
}

// MemorySink keeps files in memory. The zero value is ready to use.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *MemorySink) Write(_ context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[path] = slices.Clone(data)
	return nil
}

// Get returns the content written to path.
func (s *MemorySink) Get(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.files[path]
	return data, ok
}

// Paths returns the written paths in sorted order.
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := lo.Keys(s.files)
	slices.Sort(paths)
	return paths
}

// Flush writes every file to dst in path order.
func (s *MemorySink) Flush(ctx context.Context, dst Sink) error {
	for _, path := range s.Paths() {
		data, _ := s.Get(path)
		if err := dst.Write(ctx, path, data); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops everything written to it. It backs validation runs.
type Discard struct{}

func (Discard) Write(context.Context, string, []byte) error {
	return nil
}
