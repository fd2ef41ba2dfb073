package codegen

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedConstruct marks schema kinds or shapes the generator does not
	// implement: fixed, a bare null, unions other than null|T, recursive records.
	ErrUnsupportedConstruct = errors.New("unsupported schema construct")

	// ErrSchemaShape marks an operation applied to a node of the wrong shape,
	// such as a top-level schema that is not a record.
	ErrSchemaShape = errors.New("invalid schema shape")

	// ErrRegistryNotReset is returned by Generate when the previous run's types
	// are still registered.
	ErrRegistryNotReset = errors.New("registry was not reset after the previous run")
)

// SchemaError is a generation failure located at a schema path of the form
// namespace.Name.field.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func unsupported(path, format string, args ...any) error {
	return &SchemaError{Path: path, Err: fmt.Errorf("%w: "+format, append([]any{ErrUnsupportedConstruct}, args...)...)}
}

func invalidShape(path, format string, args ...any) error {
	return &SchemaError{Path: path, Err: fmt.Errorf("%w: "+format, append([]any{ErrSchemaShape}, args...)...)}
}
