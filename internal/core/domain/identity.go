package domain

import "time"

// PersistedIdentityKey is the local storage key holding the persisted identity.
const PersistedIdentityKey = "user"

// Identity is the authenticated user as reported by the identity provider.
// An Identity is all-or-nothing: it always carries both an ID and a Token.
type Identity struct {
	// ID is the provider's user id.
	ID string

	// Email is the user's email address.
	Email string

	// DisplayName is the provider display name, if any.
	DisplayName string

	// PhotoURL is the provider avatar URL, if any.
	PhotoURL string

	// Token is the opaque bearer token for the backend.
	Token string

	// CreatedAt is when this identity was established on the client.
	CreatedAt time.Time

	// ExpiresAt is when Token stops being accepted. Zero if unknown.
	ExpiresAt time.Time
}

// Complete reports whether the identity carries a user id and a token.
func (i *Identity) Complete() bool {
	return i != nil && i.ID != "" && i.Token != ""
}

// Persisted returns the minimal projection written to local storage.
func (i *Identity) Persisted() PersistedIdentity {
	return PersistedIdentity{UID: i.ID, Email: i.Email, Token: i.Token}
}

// Same reports whether two identities refer to the same user and token.
func (i *Identity) Same(other *Identity) bool {
	if i == nil || other == nil {
		return i == nil && other == nil
	}
	return i.ID == other.ID && i.Token == other.Token
}

// PersistedIdentity is the {uid, email, token} projection that survives
// process restarts. Every authenticated backend call reads its token.
type PersistedIdentity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Identity expands the projection back into an Identity.
func (p PersistedIdentity) Identity() *Identity {
	return &Identity{ID: p.UID, Email: p.Email, Token: p.Token}
}
