package perrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	t.Run("matches the carried code", func(t *testing.T) {
		err := NewErrNotFound("missing", nil)

		assert.True(t, Is(err, ErrCodeNotFound))
		assert.False(t, Is(err, ErrCodeConflict))
	})

	t.Run("unwraps wrapped errors", func(t *testing.T) {
		err := fmt.Errorf("loading directory: %w", NewErrConflict("taken", nil))

		assert.True(t, Is(err, ErrCodeConflict))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, Is(errors.New("boom"), ErrCodeNotFound))
	})
}

func TestNew(t *testing.T) {
	t.Run("prefers the wrapped error's text", func(t *testing.T) {
		err := NewErrPersistenceFailure("failed to fetch", errors.New("connection refused"))

		assert.Equal(t, "connection refused", err.Error())
	})

	t.Run("falls back to the message", func(t *testing.T) {
		err := NewErrNotConfigured("no remote store configured")

		assert.Equal(t, "no remote store configured", err.Error())
	})
}
