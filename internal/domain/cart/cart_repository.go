package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository is the persistence port for carts. Lookups load the
// cart's items and their products, and return shared.ErrNotFound when
// no row matches.
type CartRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	DeleteAllItems(ctx context.Context, cartID uuid.UUID) error
}
