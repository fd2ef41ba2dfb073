package generic

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is matched by every decode failure caused by a container
	// value of an unexpected Go type.
	ErrShapeMismatch = errors.New("unexpected value shape")

	// ErrSchemaMismatch is returned when an encoder receives a schema that does
	// not fit the value it is encoding.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// ShapeError describes a container value that a decoder does not recognise.
type ShapeError struct {
	Want string
	Got  any
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: want %s, got %T", ErrShapeMismatch, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

func shapeError(want string, got any) error {
	return &ShapeError{Want: want, Got: got}
}

// FieldError attaches the record and field to a conversion error so failures
// read as namespace.Name.field.
type FieldError struct {
	Record string
	Field  string
	Err    error
}

// NewFieldError wraps err for the given record full name and field.
func NewFieldError(record, field string, err error) error {
	return &FieldError{Record: record, Field: field, Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Record, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// SymbolError is returned by generated enum parsers for a name that is not a
// symbol of the enum.
type SymbolError struct {
	Enum   string
	Symbol string
}

// NewSymbolError reports symbol as unknown for the enum with the given full name.
func NewSymbolError(enum, symbol string) error {
	return &SymbolError{Enum: enum, Symbol: symbol}
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%s: %q is not a symbol of %s", ErrShapeMismatch, e.Symbol, e.Enum)
}

func (e *SymbolError) Unwrap() error {
	return ErrShapeMismatch
}
