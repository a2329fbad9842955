// Package services implements the driving port interfaces.
// Services contain the client-side session model and orchestrate
// calls to driven ports (adapters).
//
// Every service is a constructor-injected state container guarded by a
// mutex. Locks are never held across a driven port call; results that
// come back after the state moved on are dropped by generation checks.
package services
