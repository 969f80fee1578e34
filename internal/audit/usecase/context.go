package usecase

import (
	"context"

	"github.com/google/uuid"
)

// requestIDKey is a context key type for the per-request identifier.
type requestIDKey struct{}

// WithRequestID stores the request identifier in the context so audit
// entries can be correlated with access logs.
func WithRequestID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext retrieves the request identifier, or uuid.Nil when
// the operation did not originate from an HTTP request.
func RequestIDFromContext(ctx context.Context) uuid.UUID {
	id, ok := ctx.Value(requestIDKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
