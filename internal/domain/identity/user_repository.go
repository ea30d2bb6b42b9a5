package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/piora/backend/internal/domain/shared"
)

// UserRepository is the persistence port for users. Lookups return
// shared.ErrNotFound when no row matches; Save returns
// shared.ErrAlreadyExists on a duplicate email.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
