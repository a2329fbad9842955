package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestLocalStorage_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage()

	require.NoError(t, s.Set(ctx, "user", `{"uid":"u1"}`))
	val, err := s.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `{"uid":"u1"}`, val)

	require.NoError(t, s.Remove(ctx, "user"))
	_, err = s.Get(ctx, "user")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestLocalStorage_RemoveMissingKey(t *testing.T) {
	s := NewLocalStorage()

	assert.NoError(t, s.Remove(context.Background(), "missing"))
}

func TestLocalStorage_FailWith(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage()
	boom := errors.New("disk full")

	s.FailWith(boom)
	assert.ErrorIs(t, s.Set(ctx, "k", "v"), boom)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)

	s.FailWith(nil)
	assert.NoError(t, s.Set(ctx, "k", "v"))
}
