package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_Complete(t *testing.T) {
	var missing *Identity
	assert.False(t, missing.Complete())
	assert.False(t, (&Identity{ID: "u1"}).Complete())
	assert.False(t, (&Identity{Token: "tok"}).Complete())
	assert.True(t, (&Identity{ID: "u1", Token: "tok"}).Complete())
}

func TestIdentity_Same(t *testing.T) {
	var none *Identity
	a := &Identity{ID: "u1", Token: "tok", Email: "a@example.com"}

	assert.True(t, none.Same(nil))
	assert.False(t, none.Same(a))
	assert.False(t, a.Same(nil))
	assert.True(t, a.Same(&Identity{ID: "u1", Token: "tok"}))
	assert.False(t, a.Same(&Identity{ID: "u1", Token: "refreshed"}))
}

func TestIdentity_PersistedRoundTrip(t *testing.T) {
	identity := &Identity{ID: "u1", Email: "a@example.com", Token: "tok", DisplayName: "Ada"}

	p := identity.Persisted()

	assert.Equal(t, PersistedIdentity{UID: "u1", Email: "a@example.com", Token: "tok"}, p)
	restored := p.Identity()
	assert.True(t, restored.Same(identity))
	assert.Empty(t, restored.DisplayName)
}
