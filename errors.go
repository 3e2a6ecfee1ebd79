package toon

import (
	"reflect"

	toonerrors "github.com/KimNorgaard/go-toon/errors"
)

// Sentinel errors, one per failure kind. Every error returned by this
// package wraps exactly one of them.
var (
	ErrMalformedHeader      = toonerrors.ErrMalformedHeader
	ErrArrayCountMismatch   = toonerrors.ErrArrayCountMismatch
	ErrFieldCountMismatch   = toonerrors.ErrFieldCountMismatch
	ErrUnexpectedLine       = toonerrors.ErrUnexpectedLine
	ErrNonUniformArray      = toonerrors.ErrNonUniformArray
	ErrUnsupportedValueType = toonerrors.ErrUnsupportedValueType
	ErrInvalidKey           = toonerrors.ErrInvalidKey
	ErrFormatUndetected     = toonerrors.ErrFormatUndetected
	ErrEmptyInput           = toonerrors.ErrEmptyInput
)

// ParseError is returned by Parse, Unmarshal and Decode for malformed input.
type ParseError = toonerrors.ParseError

// ErrorKind identifies the class of a failure.
type ErrorKind = toonerrors.Kind

// ErrorKindOf returns the kind of err.
func ErrorKindOf(err error) ErrorKind { return toonerrors.KindOf(err) }

// A MarshalerError represents an error from calling a MarshalTOON method.
type MarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *MarshalerError) Error() string {
	return "toon: error calling MarshalTOON for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *MarshalerError) Unwrap() error { return e.Err }

// An UnmarshalerError represents an error from calling an UnmarshalTOON or
// UnmarshalText method.
type UnmarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *UnmarshalerError) Error() string {
	return "toon: error calling unmarshaler for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *UnmarshalerError) Unwrap() error { return e.Err }
