// Package session provides session management for Battleships.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Concurrent access control
//   - Session cleanup and expiration
//
// Sessions live only in memory; a game is gone once its session is deleted
// or expires.
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Session represents an individual game session with its own engine instance
// and metadata like creation time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. The manager
// retries generation until the ID is unused, using cryptographic randomness.
// Lookups are case-insensitive.
//
// Concurrency:
//
// The session table is a swiss map guarded by a read/write mutex. Game state
// inside a session is guarded by the session's own lock, never by the
// manager's.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session
//	sess, err := manager.Create("", config, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List all active sessions
//	sessions := manager.List()
//
// Cleanup:
//
// Sessions can be explicitly deleted or may expire based on inactivity.
// The manager provides cleanup methods for removing stale sessions and
// freeing resources.
package session
