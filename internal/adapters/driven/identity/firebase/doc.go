// Package firebase implements driven.IdentityProvider with Firebase
// Authentication.
//
// Email and Google sign in go through the Identity Toolkit v3 REST API
// using a web API key. ID tokens are refreshed through the Secure Token
// endpoint with golang.org/x/oauth2. The provider session (refresh token
// included) is kept in local storage under its own key so a later process
// can restore it.
//
// Listeners registered with Subscribe are notified after every sign in,
// sign out, token refresh and restore, the way the web SDK's auth state
// observer is.
package firebase
