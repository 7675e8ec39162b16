// Package domain provides the core marketplace types and context helpers.
//
// Context helpers centralize request-scoped data access. The Require*
// variants panic when the value is missing: invoking a store operation
// outside its provisioning scope is a programming error and fails loudly
// instead of degrading.
package domain

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// sessionContextKey stores the shopper session token in context.
	sessionContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// --- Session Context Helpers ---

// NewContextWithSession returns a new context with the session token attached.
func NewContextWithSession(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionContextKey, token)
}

// SessionFromContext retrieves the session token from context.
// Returns empty string if no session is present.
func SessionFromContext(ctx context.Context) string {
	token, _ := ctx.Value(sessionContextKey).(string)
	return token
}

// RequireSession retrieves the session token from context, panicking if not
// present. Use this in service layers where a session is required.
// The panic will be caught by the recovery middleware in HTTP handlers.
func RequireSession(ctx context.Context) string {
	token := SessionFromContext(ctx)
	if token == "" {
		panic("session required in context but not found")
	}
	return token
}

// HasSession returns true if there is a session token in context.
func HasSession(ctx context.Context) bool {
	return SessionFromContext(ctx) != ""
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
