package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByUser finds a user's cart with its items, shared.ErrNotFound when absent
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save creates or updates a cart and its items
	Save(ctx context.Context, cart *Cart) error

	// DeleteByUser removes a user's cart and all its items
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
