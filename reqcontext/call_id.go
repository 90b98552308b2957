// Package reqcontext carries per-invocation identifiers through contexts.
package reqcontext

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a private type so keys cannot collide with other packages.
type contextKey int

const (
	callIDKey contextKey = iota
	sessionIDKey
)

// NewCallID generates a fresh tool-call identifier.
func NewCallID() string {
	return uuid.New().String()
}

// WithCallID attaches a tool-call ID to the context.
func WithCallID(parent context.Context, callID string) context.Context {
	return context.WithValue(parent, callIDKey, callID)
}

// CallIDFromContext extracts the tool-call ID, or "" when absent.
func CallIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if callID, ok := ctx.Value(callIDKey).(string); ok {
		return callID
	}
	return ""
}

// WithSessionID attaches a conversation/session ID to the context.
func WithSessionID(parent context.Context, sessionID string) context.Context {
	return context.WithValue(parent, sessionIDKey, sessionID)
}

// SessionIDFromContext extracts the session ID, or "" when absent.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}
