// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrKind classifies fatal compiler errors.
type ErrKind string

const (
	ErrIO           ErrKind = "IO"
	ErrLex          ErrKind = "LexError"
	ErrParse        ErrKind = "ParseError"
	ErrName         ErrKind = "NameError"
	ErrType         ErrKind = "TypeError"
	ErrScope        ErrKind = "ScopeError"
	ErrAssign       ErrKind = "AssignError"
	ErrUnresolvable ErrKind = "Unresolvable"
	ErrUnsupported  ErrKind = "Unsupported"
	ErrInternal     ErrKind = "Internal"
)

// CompileError is the single error type raised by every compiler pass.
//
// Origin names the compiler source location that raised the error. The
// messages are meant for compiler developers as much as for users, so a
// failing invariant can be traced back without a debugger.
type CompileError struct {
	Kind    ErrKind
	Message string
	// File is the Fe source file the error refers to, if any.
	File string
	// Span is the source region the error refers to, if any.
	Span *Span
	// Origin is the "file.go:123" location inside the compiler.
	Origin string

	cause error
}

// NewError creates a CompileError, capturing the caller as Origin.
func NewError(kind ErrKind, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Origin:  origin(2),
	}
}

// NewErrorAt is NewError with a source file and span attached.
func NewErrorAt(kind ErrKind, file string, span Span, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		File:    file,
		Span:    &span,
		Origin:  origin(2),
	}
}

// WrapIO wraps an I/O failure from a collaborator.
func WrapIO(err error, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:    ErrIO,
		Message: fmt.Sprintf(format, args...),
		Origin:  origin(2),
		cause:   err,
	}
}

func origin(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}

	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// CallerOrigin formats the caller's "file.go:line" for error helpers
// that build CompileErrors by hand. skip counts as in runtime.Caller.
func CallerOrigin(skip int) string {
	return origin(skip + 1)
}

func (e *CompileError) Error() string {
	sb := &strings.Builder{}

	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)

	if e.File != "" {
		sb.WriteString(" (")
		sb.WriteString(e.File)

		if e.Span != nil {
			sb.WriteString(":")
			sb.WriteString(e.Span.Start.String())
		}

		sb.WriteString(")")
	} else if e.Span != nil {
		sb.WriteString(" (")
		sb.WriteString(e.Span.Start.String())
		sb.WriteString(")")
	}

	sb.WriteString(" [")
	sb.WriteString(e.Origin)
	sb.WriteString("]")

	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}

	return sb.String()
}

func (e *CompileError) Unwrap() error {
	return e.cause
}

// SetCause attaches an underlying error and returns e for chaining.
func (e *CompileError) SetCause(err error) *CompileError {
	e.cause = err
	return e
}

// IsKind reports whether err is a CompileError of the given kind.
func IsKind(err error, kind ErrKind) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}

	return false
}
