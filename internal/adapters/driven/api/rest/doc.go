// Package rest implements driven.BackendAPI over the document chat HTTP API.
//
// Every call reads the bearer token through a driven.TokenProvider before
// any network I/O, so a missing or expired identity fails fast with an
// authentication error. Non-2xx responses become *APIError, which carries
// the server's "detail" message for the services to surface verbatim.
//
// Requests are throttled client-side with a token bucket and tagged with
// an X-Request-ID header. There are no automatic retries.
package rest
