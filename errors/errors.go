// Package errors defines the closed set of failures reported by the TOON
// parser, serializer and format converter.
//
// Every failure wraps exactly one of the sentinel errors below, so callers
// can classify it with errors.Is or KindOf regardless of the context that was
// added on the way up.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind identifies the class of a TOON failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	// Parse-time kinds.
	KindMalformedHeader
	KindArrayCountMismatch
	KindFieldCountMismatch
	KindUnexpectedLine
	// Serialize-time kinds.
	KindNonUniformArray
	KindUnsupportedValueType
	KindInvalidKey
	// Orchestration kinds.
	KindFormatUndetected
	KindEmptyInput
)

var (
	ErrMalformedHeader      = errors.New("malformed array header")
	ErrArrayCountMismatch   = errors.New("array count mismatch")
	ErrFieldCountMismatch   = errors.New("field count mismatch")
	ErrUnexpectedLine       = errors.New("unexpected line")
	ErrNonUniformArray      = errors.New("non-uniform array")
	ErrUnsupportedValueType = errors.New("unsupported value type")
	ErrInvalidKey           = errors.New("invalid key")
	ErrFormatUndetected     = errors.New("format undetected")
	ErrEmptyInput           = errors.New("input is empty")
)

var sentinels = [...]struct {
	err  error
	kind Kind
	name string
}{
	{ErrMalformedHeader, KindMalformedHeader, "MalformedHeader"},
	{ErrArrayCountMismatch, KindArrayCountMismatch, "ArrayCountMismatch"},
	{ErrFieldCountMismatch, KindFieldCountMismatch, "FieldCountMismatch"},
	{ErrUnexpectedLine, KindUnexpectedLine, "UnexpectedLine"},
	{ErrNonUniformArray, KindNonUniformArray, "NonUniformArray"},
	{ErrUnsupportedValueType, KindUnsupportedValueType, "UnsupportedValueType"},
	{ErrInvalidKey, KindInvalidKey, "InvalidKey"},
	{ErrFormatUndetected, KindFormatUndetected, "FormatUndetected"},
	{ErrEmptyInput, KindEmptyInput, "EmptyInput"},
}

// String returns the name of the kind.
func (k Kind) String() string {
	for _, s := range sentinels {
		if s.kind == k {
			return s.name
		}
	}
	return "Unknown"
}

// KindOf returns the kind of err, or KindUnknown if err does not wrap any of
// the sentinel errors of this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	return KindUnknown
}

// Newf returns an error of the given kind with a formatted message naming
// the offending fragment.
func Newf(sentinel error, format string, args ...any) error {
	return errors.Wrapf(sentinel, format, args...)
}

// ParseError represents an error that occurred while parsing a document.
// It includes the line of the error.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toon: parsing error at line %d: %s", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
