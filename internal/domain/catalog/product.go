package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/piora/backend/internal/domain/shared"
	"github.com/piora/backend/internal/domain/shared/valueobject"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product is a sellable item listed by a seller. Price is stored as a
// two-decimal amount in the system currency; Quantity is the units
// currently in stock.
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	ImageKey    string          `gorm:"type:varchar(500)"` // object storage key for the product image
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Quantity    int             `gorm:"not null;default:0"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active product after validating name, price,
// stock and seller.
func NewProduct(sellerID uuid.UUID, name, description string, price valueobject.Money, quantity int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller is required")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		SellerID:          sellerID,
		Price:             price.Amount().Round(2),
		Quantity:          quantity,
		Status:            ProductStatusActive,
	}, nil
}

// touch records a mutation for optimistic locking.
func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Update replaces the product's name and description.
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.touch()
	return nil
}

// SetCategory moves the product to another category. A nil category
// leaves the product uncategorized.
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.touch()
}

// SetImageKey sets the object storage key of the product image.
func (p *Product) SetImageKey(key string) {
	p.ImageKey = key
	p.touch()
}

// SetPrice sets the selling price, rounded to cents.
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price.Amount().Round(2)
	p.touch()
	return nil
}

// SetStock sets the absolute stock quantity. Zero is allowed and means
// sold out.
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	p.Quantity = quantity
	p.touch()
	return nil
}

// HasStock reports whether at least the requested quantity is in stock.
func (p *Product) HasStock(requested int) bool {
	return requested <= p.Quantity
}

// UnitPrice returns the selling price as Money in the system currency.
func (p *Product) UnitPrice() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// Activate puts an inactive product back on sale. Discontinued
// products stay retired.
func (p *Product) Activate() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Discontinued products cannot be reactivated")
	}
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.touch()
	return nil
}

func (p *Product) Deactivate() error {
	if p.Status != ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active products can be deactivated")
	}

	p.Status = ProductStatusInactive
	p.touch()
	return nil
}

// Discontinue permanently retires the product from the catalog.
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Product is already discontinued")
	}

	p.Status = ProductStatusDiscontinued
	p.touch()
	return nil
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
