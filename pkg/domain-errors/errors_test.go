package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidInput, "bad amount")
	assert.Equal(t, "bad amount", err.Error())
	assert.Equal(t, CodeInvalidInput, err.Code())
	assert.True(t, HasCode(err, CodeInvalidInput))
	assert.False(t, HasCode(err, CodeUnauthorized))
}

func TestWrap(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("preserves cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "store write failed")
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "store write failed")
		assert.Contains(t, err.Error(), "connection reset")
		assert.True(t, HasCode(err, CodeInternal))
	})

	t.Run("code survives further fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", New(CodeNotFound, "no record"))
		assert.True(t, HasCode(err, CodeNotFound))
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeOf(New(CodeConflict, "pending")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
