// Package errors carries the publisher's error taxonomy. Errors are built with
// a kind and message and chained to their cause with Base.
package errors

import (
	"fmt"
	"strings"
)

// Kind classifies an error by how far it propagates.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindBindFailure       // listener could not be acquired; fatal
	KindSourceUnavailable // source file could not be read
	KindConnectionFault   // write to the peer failed; connection-local
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindBindFailure:
		return "bind"
	case KindSourceUnavailable:
		return "source"
	case KindConnectionFault:
		return "connection"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrConfig            = &Error{kind: KindConfig}
	ErrBindFailure       = &Error{kind: KindBindFailure}
	ErrSourceUnavailable = &Error{kind: KindSourceUnavailable}
	ErrConnectionFault   = &Error{kind: KindConnectionFault}
)

// Error is an error object with a kind and an underlying error.
type Error struct {
	kind    Kind
	message []interface{}
	inner   error
}

// Error implements error.Error().
func (err *Error) Error() string {
	builder := strings.Builder{}
	builder.WriteByte('[')
	builder.WriteString(err.kind.String())
	builder.WriteString("] ")
	builder.WriteString(strings.TrimSuffix(fmt.Sprintln(err.message...), "\n"))

	if err.inner != nil {
		builder.WriteString(" > ")
		builder.WriteString(err.inner.Error())
	}

	return builder.String()
}

// Base sets the underlying cause.
func (err *Error) Base(e error) *Error {
	err.inner = e
	return err
}

func (err *Error) Unwrap() error {
	return err.inner
}

// Is matches sentinels by kind.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == err.kind
}

func (err *Error) Kind() Kind {
	return err.kind
}

// NewError returns a new error object with message formed from given arguments.
func NewError(kind Kind, msg ...interface{}) *Error {
	return &Error{
		kind:    kind,
		message: msg,
	}
}

// KindOf walks the chain and returns the first kind found.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}
