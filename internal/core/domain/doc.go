// Package domain defines the core entities of the docchat client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Identity: The signed-in user and the bearer token for the backend
//   - Document: A document owned by the identity, as listed by the backend
//   - ChatEntry: One user/bot exchange in a document's transcript
//   - Error: The tagged error variant shared by every service
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
