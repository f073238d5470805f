package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := NewError(KindSourceUnavailable, "failed to read", "data.txt").Base(io.ErrUnexpectedEOF)
	assert.Equal(t, "[source] failed to read data.txt > unexpected EOF", err.Error())
}

func TestError_IsByKind(t *testing.T) {
	err := NewError(KindConnectionFault, "write failed").Base(io.ErrClosedPipe)

	assert.True(t, stderrors.Is(err, ErrConnectionFault))
	assert.False(t, stderrors.Is(err, ErrSourceUnavailable))
	assert.True(t, stderrors.Is(err, io.ErrClosedPipe))
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := NewError(KindBindFailure, "listen")
	wrapped := fmt.Errorf("serve: %w", inner)

	assert.Equal(t, KindBindFailure, KindOf(wrapped))
	assert.True(t, stderrors.Is(wrapped, ErrBindFailure))
	assert.Equal(t, KindUnknown, KindOf(io.EOF))
	assert.Equal(t, KindUnknown, KindOf(nil))
}
