package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "analytics-platform context key " + string(c)
}

// ProjectKey is the key for the analytics project identifier in context.Context.
const ProjectKey = contextKey("project")

// RequestIDKey is the key for the per-call request identifier in context.Context.
const RequestIDKey = contextKey("requestID")
