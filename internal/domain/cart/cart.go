package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/piora/backend/internal/domain/shared"
	"github.com/piora/backend/internal/domain/shared/valueobject"
)

// Cart is the aggregate root for a user's shopping cart.
// Each user owns exactly one cart; the owner is fixed at creation.
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an empty cart for the given user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Cart owner is required")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
	}, nil
}

// FindItem returns the line for the given product, or nil if absent
func (c *Cart) FindItem(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindItemByID returns the line with the given item ID, or nil if absent
func (c *Cart) FindItemByID(itemID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem adds quantity units of a product to the cart.
// If the product already has a line, its quantity is incremented;
// otherwise a new line is appended. available is the product's current
// stock and bounds the resulting line quantity.
func (c *Cart) AddItem(productID uuid.UUID, quantity, available int) (*CartItem, error) {
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	if existing := c.FindItem(productID); existing != nil {
		newQuantity := existing.Quantity + quantity
		if newQuantity > available {
			return nil, shared.ErrInsufficientStock
		}
		existing.setQuantity(newQuantity)
		c.touch()
		return existing, nil
	}

	if quantity > available {
		return nil, shared.ErrInsufficientStock
	}

	item := newCartItem(c.ID, productID, quantity)
	c.Items = append(c.Items, *item)
	c.touch()
	return &c.Items[len(c.Items)-1], nil
}

// UpdateItemQuantity replaces the quantity of an existing line.
// The new quantity is absolute, not a delta.
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity, available int) (*CartItem, error) {
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	item := c.FindItemByID(itemID)
	if item == nil {
		return nil, shared.ErrNotFound
	}

	if quantity > available {
		return nil, shared.ErrInsufficientStock
	}

	item.setQuantity(quantity)
	c.touch()
	return item, nil
}

// RemoveItem removes a line from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear removes every line from the cart
func (c *Cart) Clear() {
	if len(c.Items) == 0 {
		return
	}
	c.Items = c.Items[:0]
	c.touch()
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems returns the sum of quantities across all lines
func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// TotalPrice returns the sum of line subtotals.
// Lines whose product association is not loaded contribute nothing.
func (c *Cart) TotalPrice() valueobject.Money {
	total := valueobject.ZeroUSD()
	for i := range c.Items {
		total = total.MustAdd(c.Items[i].Subtotal())
	}
	return total
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
