package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/piora/backend/internal/domain/shared"
)

// ProductRepository is the persistence port for products. Lookups
// return shared.ErrNotFound when no row matches.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Product, error)
	FindByStatus(ctx context.Context, status ProductStatus, filter shared.Filter) ([]Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// ReassignCategory moves every product in fromCategoryID to
	// toCategoryID in one statement.
	ReassignCategory(ctx context.Context, fromCategoryID, toCategoryID uuid.UUID) error
}
