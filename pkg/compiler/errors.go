package compiler

import (
	"errors"
	"fmt"
)

// Kind classifies compilation failures.
type Kind int

const (
	// KindRead covers documents that could not be read.
	KindRead Kind = iota + 1
	// KindMalformed covers unparsable documents and missing or unparsable
	// version tokens.
	KindMalformed
	// KindUnsupportedVersion is returned when a document needs a newer
	// compiler.
	KindUnsupportedVersion
	// KindSchemaViolation is returned when a document or node fails its
	// structural schema.
	KindSchemaViolation
	// KindRender covers template failures.
	KindRender
	// KindWrite covers failures writing the output file.
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindMalformed:
		return "malformed"
	case KindUnsupportedVersion:
		return "unsupported-version"
	case KindSchemaViolation:
		return "schema-violation"
	case KindRender:
		return "render"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Error is the user-facing compilation failure. File is the base name of the
// document being compiled.
type Error struct {
	Kind    Kind
	File    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Unable to compile '%s':\n\t%s", e.File, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries a compilation Error of kind k.
func IsKind(err error, k Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == k
}

func newError(kind Kind, file string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, File: file, Message: fmt.Sprintf(format, args...), Err: err}
}
