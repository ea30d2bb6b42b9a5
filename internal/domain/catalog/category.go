package catalog

import (
	"time"

	"github.com/piora/backend/internal/domain/shared"
)

// DefaultCategoryName is the fallback category that absorbs products
// when their category is deleted.
const DefaultCategoryName = "Others"

type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

// Category is a flat grouping of products. Names are unique across the
// whole catalog.
type Category struct {
	shared.BaseAggregateRoot
	Name        string         `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string         `gorm:"type:text"`
	IconKey     string         `gorm:"type:varchar(500)"` // object storage key for the category icon
	SortOrder   int            `gorm:"not null;default:0"`
	Status      CategoryStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

func (Category) TableName() string {
	return "categories"
}

// NewCategory creates an active category with a validated name.
func NewCategory(name, description string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Status:            CategoryStatusActive,
	}, nil
}

// touch records a mutation for optimistic locking.
func (c *Category) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Update replaces the category's name and description.
func (c *Category) Update(name, description string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = name
	c.Description = description
	c.touch()
	return nil
}

// SetIconKey sets the object storage key of the category icon.
func (c *Category) SetIconKey(key string) {
	c.IconKey = key
	c.touch()
}

// SetSortOrder sets the display order of the category.
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.touch()
}

func (c *Category) Activate() error {
	if c.Status == CategoryStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Category is already active")
	}
	c.Status = CategoryStatusActive
	c.touch()
	return nil
}

func (c *Category) Deactivate() error {
	if c.Status == CategoryStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Category is already inactive")
	}
	c.Status = CategoryStatusInactive
	c.touch()
	return nil
}

func (c *Category) IsActive() bool {
	return c.Status == CategoryStatusActive
}

// IsDefault reports whether this is the fallback category, which can
// never be deleted.
func (c *Category) IsDefault() bool {
	return c.Name == DefaultCategoryName
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
