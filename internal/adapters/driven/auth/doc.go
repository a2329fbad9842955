// Package auth provides token providers for authenticated backend calls.
//
// PersistedTokenProvider reads the bearer token from the persisted identity
// on every call, so a sign out or token refresh in another process is seen
// by the next request without coordination.
package auth
