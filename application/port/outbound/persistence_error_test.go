package outbound

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPersistence(t *testing.T) {
	assert.Nil(t, WrapPersistence("op", nil))

	for _, sentinel := range []error{ErrAuditorNotFound, ErrNoActiveKey, ErrKeyVersionConflict} {
		wrapped := fmt.Errorf("lookup: %w", sentinel)
		got := WrapPersistence("op", wrapped)
		assert.Same(t, wrapped, got)
		assert.False(t, IsPersistence(got))
	}

	cause := errors.New("connection refused")
	got := WrapPersistence("append audit record", cause)
	assert.True(t, IsPersistence(got))
	assert.ErrorIs(t, got, cause)
	assert.Contains(t, got.Error(), "append audit record")

	assert.Same(t, got, WrapPersistence("again", got))
}
