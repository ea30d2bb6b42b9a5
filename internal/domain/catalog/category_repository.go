package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/piora/backend/internal/domain/shared"
)

// CategoryRepository is the persistence port for categories. Lookups
// return shared.ErrNotFound when no row matches.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName reports whether a category with the name exists,
	// without the not-found error of FindByName.
	ExistsByName(ctx context.Context, name string) (bool, error)
}
