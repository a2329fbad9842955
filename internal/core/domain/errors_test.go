package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type detailed struct{ detail string }

func (d *detailed) Error() string        { return "status 400" }
func (d *detailed) ServerDetail() string { return d.detail }

func TestNewFetchError_PrefersServerDetail(t *testing.T) {
	cause := fmt.Errorf("list: %w", &detailed{detail: "  Quota exceeded "})

	err := NewFetchError("Failed to fetch documents", cause)

	assert.Equal(t, KindFetch, err.Kind)
	assert.Equal(t, "Quota exceeded", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestNewMutationError_FallsBackWithoutDetail(t *testing.T) {
	tests := []struct {
		name  string
		cause error
	}{
		{"plain error", errors.New("connection reset")},
		{"blank detail", &detailed{detail: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMutationError("Failed to delete document", tt.cause)

			assert.Equal(t, KindMutation, err.Kind)
			assert.Equal(t, "Failed to delete document", err.Error())
		})
	}
}

func TestNewAuthError(t *testing.T) {
	err := NewAuthError(ErrNoToken)

	assert.Equal(t, "Authentication error: No token available", err.Error())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.True(t, IsKind(err, KindAuthentication))
}

func TestNewValidationError_FieldNamesSorted(t *testing.T) {
	err := NewValidationError("bad form", map[string]string{"title": "required", "file": "required"})

	assert.Equal(t, []string{"file", "title"}, err.FieldNames())
	assert.Nil(t, err.Unwrap())
}

func TestError_MessageFallbacks(t *testing.T) {
	assert.Equal(t, "boom", (&Error{Kind: KindFetch, Err: errors.New("boom")}).Error())
	assert.Equal(t, "fetch error", (&Error{Kind: KindFetch}).Error())
}

func TestIsKind_WalksChain(t *testing.T) {
	inner := NewAuthError(ErrAuthExpired)
	outer := NewFetchError("Failed to fetch chat history", inner)

	assert.True(t, IsKind(outer, KindFetch))
	assert.True(t, IsKind(outer, KindAuthentication))
	assert.False(t, IsKind(outer, KindStale))
	assert.False(t, IsKind(errors.New("plain"), KindFetch))
	assert.False(t, IsKind(nil, KindFetch))
}

func TestIsStale(t *testing.T) {
	assert.True(t, IsStale(ErrStaleResponse))
	assert.True(t, IsStale(fmt.Errorf("refresh: %w", ErrStaleResponse)))
	assert.False(t, IsStale(NewFetchError("x", errors.New("y"))))
}

func TestServerDetail(t *testing.T) {
	assert.Equal(t, "", ServerDetail(errors.New("plain")))
	assert.Equal(t, "", ServerDetail(nil))

	var target *detailed
	err := fmt.Errorf("wrapped: %w", &detailed{detail: "Document not found"})
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "Document not found", ServerDetail(err))
}
