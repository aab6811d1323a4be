// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"

	"chartfold.dev/chartfold/pkg/filepos"
)

// ErrorKind classifies every way a render can fail. Callers that want to
// react programmatically (e.g. a CLI deciding on an exit code, a service
// picking an HTTP status) switch on the kind instead of matching message
// text.
type ErrorKind string

const (
	ParseError            ErrorKind = "ParseError"
	RequiredValueError    ErrorKind = "RequiredValueError"
	ArityError            ErrorKind = "ArityError"
	InvalidArgumentError  ErrorKind = "InvalidArgument"
	DecodeError           ErrorKind = "DecodeError"
	VersionParseError     ErrorKind = "VersionParseError"
	RegexCompileError     ErrorKind = "RegexCompileError"
	RecursionLimitError   ErrorKind = "RecursionLimitError"
	TemplateNotFoundError ErrorKind = "TemplateNotFoundError"
	LookupError           ErrorKind = "LookupError"
)

// Error is the single error shape surfaced by parsing and rendering.
// Msg carries exactly the human-readable cause; for RequiredValueError it
// is the message given to the required function, verbatim.
type Error struct {
	Kind     ErrorKind
	Msg      string
	Position *filepos.Position
}

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func NewErrorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WithPosition attaches pos unless a position was already recorded closer
// to the failure.
func (e *Error) WithPosition(pos *filepos.Position) *Error {
	if !e.Position.IsKnown() {
		e.Position = pos
	}
	return e
}

func (e *Error) Error() string {
	if e.Position.IsKnown() {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Position.AsCompactString())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// AsEngineErr returns err as *Error, wrapping unclassified errors under
// the given kind. Rendering never lets a bare error escape.
func AsEngineErr(err error, kind ErrorKind) *Error {
	if typedErr, ok := err.(*Error); ok {
		return typedErr
	}
	return NewError(kind, err.Error())
}
