package schema

import (
	"fmt"
	"os"

	"github.com/hamba/avro/v2"
)

// Source is the raw text of one schema file.
type Source struct {
	// Path identifies the source in logs and errors. It may be empty.
	Path string
	Data []byte
}

// ReadSource reads a schema file from disk.
func ReadSource(path string) (Source, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from discovery of the input directory
	if err != nil {
		return Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Source{Path: path, Data: data}, nil
}

// Name returns the path, or a placeholder for in-memory sources.
func (s Source) Name() string {
	if s.Path == "" {
		return "<inline>"
	}
	return s.Path
}

// Parser turns schema sources into Node trees.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses src with the given shared sources registered first, so that
// src may reference their named types. Every call uses its own schema cache:
// named types of one parsed file are never visible to another.
func (p *Parser) Parse(src Source, shared []Source) (*Node, error) {
	parsed, err := p.ParseAvro(src, shared)
	if err != nil {
		return nil, err
	}

	node, err := FromAvro(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to convert schema %s: %w", src.Name(), err)
	}
	return node, nil
}

// ParseAvro parses src into a hamba schema without converting it. The returned
// schema is what generated encoders expect at runtime.
func (p *Parser) ParseAvro(src Source, shared []Source) (avro.Schema, error) {
	cache := &avro.SchemaCache{}
	for _, s := range shared {
		if _, err := avro.ParseWithCache(string(s.Data), "", cache); err != nil {
			return nil, fmt.Errorf("invalid shared schema %s: %w", s.Name(), err)
		}
	}
	parsed, err := avro.ParseWithCache(string(src.Data), "", cache)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", src.Name(), err)
	}
	return parsed, nil
}
