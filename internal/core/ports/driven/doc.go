// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentAPI, ChatAPI, UserAPI: The document-chat backend over HTTP
//   - TokenProvider: Bearer token for each backend call
//   - IdentityProvider: Sign in, sign up and identity notifications
//   - LocalStorage: Durable key/value storage for the persisted identity
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
