package diag

import (
	"errors"
	"fmt"

	"ctfmeta/internal/source"
)

// Error is a semantic failure tied to a diagnostic code.
// Two *Error values match under errors.Is when their codes are equal, so the
// sentinels below can be used to test the kind of any wrapped failure.
type Error struct {
	Code Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Span.IsZero() {
		return fmt.Sprintf("%s: %s", e.Code.ID(), e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Span, e.Code.ID(), e.Msg)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Errorf builds an *Error for code at span.
func Errorf(code Code, span source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: span, Msg: fmt.Sprintf(format, args...)}
}

// AsError unwraps err down to the first *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code carried by err, or UnknownCode.
func CodeOf(err error) Code {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return UnknownCode
}

// Sentinels for errors.Is.
var (
	ErrDuplicateName        = &Error{Code: SemaDuplicateName, Msg: "duplicate name"}
	ErrUnknownType          = &Error{Code: SemaUnknownType, Msg: "unknown type"}
	ErrUnknownStream        = &Error{Code: SemaUnknownStream, Msg: "unknown stream"}
	ErrNotFound             = &Error{Code: SemaNotFound, Msg: "not found"}
	ErrMissingRequiredField = &Error{Code: SemaMissingRequiredField, Msg: "missing required field"}
	ErrTypeMismatch         = &Error{Code: SemaTypeMismatch, Msg: "type mismatch"}
	ErrInvalidTag           = &Error{Code: SemaInvalidTag, Msg: "invalid variant tag"}
	ErrMalformedExpression  = &Error{Code: SemaMalformedExpression, Msg: "malformed expression"}
	ErrUnsupportedNode      = &Error{Code: SemaUnsupportedNode, Msg: "unsupported node"}
	ErrUnknownAttribute     = &Error{Code: SemaUnknownAttribute, Msg: "unknown attribute"}
	ErrCanceled             = &Error{Code: SemaCanceled, Msg: "canceled"}

	ErrLoadFailed    = &Error{Code: IOLoadFailed, Msg: "load failed"}
	ErrDecodeFailed  = &Error{Code: IODecodeFailed, Msg: "decode failed"}
	ErrEncodeFailed  = &Error{Code: IOEncodeFailed, Msg: "encode failed"}
	ErrConfigInvalid = &Error{Code: PrjConfigInvalid, Msg: "invalid configuration"}
)

// At returns a copy of e positioned at span, unless e already has a position.
func (e *Error) At(span source.Span) *Error {
	if e == nil || !e.Span.IsZero() {
		return e
	}
	cp := *e
	cp.Span = span
	return &cp
}

// Locate positions err at span when it is an unpositioned *Error. Other
// errors are returned unchanged.
func Locate(err error, span source.Span) error {
	if e, ok := err.(*Error); ok {
		return e.At(span)
	}
	return err
}
