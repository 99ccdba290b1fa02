package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_WrappedError(t *testing.T) {
	base := errors.New("disk full")
	err := fmt.Errorf("submit: %w", New(PersistenceExhausted, "capture.saveError", base))

	assert.Equal(t, PersistenceExhausted, KindOf(err))
	assert.Equal(t, "capture.saveError", KeyOf(err))
	assert.ErrorIs(t, err, base)
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Unknown, KindOf(errors.New("boom")))
	assert.Empty(t, KeyOf(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", Validation.String())
	assert.Equal(t, "player_init_timeout", PlayerInitTimeout.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
