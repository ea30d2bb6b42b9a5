package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/piora/backend/internal/domain/cart"
)

var _ cart.CartRepository = (*GormCartRepository)(nil)

// GormCartRepository is the postgres-backed cart.CartRepository.
// Lookups always preload items and their products so totals can be
// computed without further queries.
type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *GormCartRepository) first(ctx context.Context, cond string, arg any) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items.Product").
		First(&c, cond, arg).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Save persists a cart together with its items. The cart row is
// written before its lines, and product rows are never touched: the
// Product association on each line is a read-side preload only. The
// unique index on user_id turns a concurrent first-save into
// shared.ErrAlreadyExists.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(c).Error; err != nil {
		return saveErr(err)
	}
	for i := range c.Items {
		if err := db.Omit("Product").Save(&c.Items[i]).Error; err != nil {
			return saveErr(err)
		}
	}
	return nil
}

// DeleteItem removes a single line from a cart.
func (r *GormCartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).
		Delete(&cart.CartItem{}, "id = ? AND cart_id = ?", itemID, cartID))
}

// DeleteAllItems removes every line from a cart.
func (r *GormCartRepository) DeleteAllItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&cart.CartItem{}, "cart_id = ?", cartID).Error
}
