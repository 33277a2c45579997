package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type contextKey string

const ownerIDKey contextKey = "owner_id"

// ErrOwnerNotFound is returned when the request context carries no owner.
// Handlers answer 401.
var ErrOwnerNotFound = errors.New("owner not found in context")

// OwnerIDFromCtx returns the authenticated user that owns every board row the
// request may touch.
func OwnerIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	ownerID, ok := ctx.Value(ownerIDKey).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		return uuid.Nil, ErrOwnerNotFound
	}
	return ownerID, nil
}

// WithOwnerID attaches ownerID to ctx.
func WithOwnerID(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}
