// Package contextkeys provides centralized context key definitions.
//
// All context keys used across the application are defined here so key
// usage stays discoverable and collisions are impossible.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// RequestIDKey contains the request ID string (UUID).
	// Set by: httputil.RequestIDMiddleware
	// Used by: logging, audit trail
	RequestIDKey Key = "request_id"

	// UserIDKey contains the authenticated user's id (int64).
	// Set by: middleware.Authenticator after token resolution
	// Used by: handlers, audit trail
	UserIDKey Key = "user_id"

	// RoleKey contains the authenticated user's role (auth.Role).
	// Set by: middleware.Authenticator on role-gated routes
	RoleKey Key = "role"
)

// RequestID returns the request ID from ctx, or "" when unset.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// UserID returns the authenticated user id from ctx. ok is false on
// unauthenticated requests.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}
