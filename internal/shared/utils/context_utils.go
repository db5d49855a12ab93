package utils

import (
	"context"
	"errors"

	"analytics-platform/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrProjectNotFound    = errors.New("project not found in context")
	ErrProjectNotString   = errors.New("project in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
)

// GetProjectFromContext retrieves the analytics project identifier from the context.
// It returns the project and an error if the project is not found or is not a string.
func GetProjectFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.ProjectKey)
	if val == nil {
		return "", ErrProjectNotFound
	}
	project, ok := val.(string)
	if !ok {
		return "", ErrProjectNotString
	}
	return project, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// WithProject returns a new context carrying the project identifier.
func WithProject(ctx context.Context, project string) context.Context {
	return context.WithValue(ctx, contextkeys.ProjectKey, project)
}

// WithRequestID returns a new context carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}
