// Package contextutils carries request-scoped values shared between
// the middleware chain and the response layer.
package contextutils

import (
	"context"
	"net/http"
)

// ErrorResponder writes an enveloped error response for a request.
// Satisfied by response.Builder; declared here so middleware below the
// response package can reach the request's builder without importing it.
type ErrorResponder interface {
	WriteError(w http.ResponseWriter, r *http.Request, err error)
}

type contextKey string

const (
	requestIDKey      contextKey = "request_id"
	userIDKey         contextKey = "user_id"
	errorResponderKey contextKey = "error_responder"
)

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds the request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetUserID retrieves the user ID from the context
func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}

// WithUserID adds the user ID to the context
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetErrorResponder retrieves the request's error responder, nil when
// the response middleware is not installed.
func GetErrorResponder(ctx context.Context) ErrorResponder {
	if responder, ok := ctx.Value(errorResponderKey).(ErrorResponder); ok {
		return responder
	}
	return nil
}

// WithErrorResponder adds the error responder to the context
func WithErrorResponder(ctx context.Context, responder ErrorResponder) context.Context {
	return context.WithValue(ctx, errorResponderKey, responder)
}
