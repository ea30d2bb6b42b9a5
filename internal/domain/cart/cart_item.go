package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/piora/backend/internal/domain/catalog"
	"github.com/piora/backend/internal/domain/shared"
	"github.com/piora/backend/internal/domain/shared/valueobject"
)

// CartItem is a line within a cart. A cart holds at most one line
// per product, enforced both here and by a database unique index.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	Quantity  int       `gorm:"not null"`

	// Product is loaded for read paths so subtotals reflect current prices
	Product *catalog.Product `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

func newCartItem(cartID, productID uuid.UUID, quantity int) *CartItem {
	return &CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     cartID,
		ProductID:  productID,
		Quantity:   quantity,
	}
}

func (i *CartItem) setQuantity(quantity int) {
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
}

// Subtotal returns unit price times quantity for this line.
// Returns zero when the product association is not loaded.
func (i *CartItem) Subtotal() valueobject.Money {
	if i.Product == nil {
		return valueobject.ZeroUSD()
	}
	return i.Product.UnitPrice().MultiplyByInt(int64(i.Quantity))
}
