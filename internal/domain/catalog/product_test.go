package catalog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piora/backend/internal/domain/shared/valueobject"
)

func TestNewProduct(t *testing.T) {
	sellerID := uuid.New()
	price := valueobject.NewMoneyUSD(decimal.NewFromFloat(19.99))

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(sellerID, "Fresh Eggs", "A dozen free-range eggs", price, 50)
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, sellerID, product.SellerID)
		assert.Equal(t, "Fresh Eggs", product.Name)
		assert.Equal(t, "A dozen free-range eggs", product.Description)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(19.99)))
		assert.Equal(t, 50, product.Quantity)
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.Nil(t, product.CategoryID)
		assert.Empty(t, product.ImageKey)
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("rounds price to two decimal places", func(t *testing.T) {
		exact, _ := valueobject.NewMoneyUSDFromString("10.005")
		product, err := NewProduct(sellerID, "Honey", "", exact, 5)
		require.NoError(t, err)
		assert.Equal(t, "10.01", product.Price.StringFixed(2))
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(sellerID, "", "desc", price, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewProduct(sellerID, strings.Repeat("x", 201), "desc", price, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 200 characters")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		negative := valueobject.NewMoneyUSD(decimal.NewFromInt(-1))
		_, err := NewProduct(sellerID, "Milk", "", negative, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Price cannot be negative")
	})

	t.Run("fails with negative stock", func(t *testing.T) {
		_, err := NewProduct(sellerID, "Milk", "", price, -1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Stock quantity cannot be negative")
	})

	t.Run("fails without seller", func(t *testing.T) {
		_, err := NewProduct(uuid.Nil, "Milk", "", price, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Seller is required")
	})
}

func TestProductUpdate(t *testing.T) {
	product := mustProduct(t, 10)

	t.Run("updates name and description", func(t *testing.T) {
		err := product.Update("Organic Eggs", "Pasture raised")
		require.NoError(t, err)
		assert.Equal(t, "Organic Eggs", product.Name)
		assert.Equal(t, "Pasture raised", product.Description)
		assert.Equal(t, 2, product.GetVersion())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		err := product.Update("", "desc")
		require.Error(t, err)
	})
}

func TestProductSetPrice(t *testing.T) {
	product := mustProduct(t, 10)

	err := product.SetPrice(valueobject.NewMoneyUSD(decimal.NewFromFloat(25.50)))
	require.NoError(t, err)
	assert.True(t, product.Price.Equal(decimal.NewFromFloat(25.50)))

	err = product.SetPrice(valueobject.NewMoneyUSD(decimal.NewFromInt(-5)))
	require.Error(t, err)
}

func TestProductSetStock(t *testing.T) {
	product := mustProduct(t, 10)

	require.NoError(t, product.SetStock(0))
	assert.Equal(t, 0, product.Quantity)

	require.Error(t, product.SetStock(-1))
}

func TestProductHasStock(t *testing.T) {
	product := mustProduct(t, 10)

	assert.True(t, product.HasStock(10))
	assert.True(t, product.HasStock(1))
	assert.False(t, product.HasStock(11))
}

func TestProductSetCategory(t *testing.T) {
	product := mustProduct(t, 10)
	categoryID := uuid.New()

	product.SetCategory(&categoryID)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, categoryID, *product.CategoryID)

	product.SetCategory(nil)
	assert.Nil(t, product.CategoryID)
}

func TestProductStatusTransitions(t *testing.T) {
	t.Run("deactivate then activate", func(t *testing.T) {
		product := mustProduct(t, 10)
		require.NoError(t, product.Deactivate())
		assert.Equal(t, ProductStatusInactive, product.Status)
		require.NoError(t, product.Activate())
		assert.True(t, product.IsActive())
	})

	t.Run("discontinued product cannot be reactivated", func(t *testing.T) {
		product := mustProduct(t, 10)
		require.NoError(t, product.Discontinue())
		assert.Equal(t, ProductStatusDiscontinued, product.Status)
		require.Error(t, product.Activate())
	})

	t.Run("cannot deactivate twice", func(t *testing.T) {
		product := mustProduct(t, 10)
		require.NoError(t, product.Deactivate())
		require.Error(t, product.Deactivate())
	})
}

func TestProductUnitPrice(t *testing.T) {
	product := mustProduct(t, 10)
	unit := product.UnitPrice()
	assert.Equal(t, valueobject.USD, unit.Currency())
	assert.True(t, unit.Amount().Equal(product.Price))
}

func mustProduct(t *testing.T, stock int) *Product {
	t.Helper()
	price := valueobject.NewMoneyUSD(decimal.NewFromFloat(19.99))
	product, err := NewProduct(uuid.New(), "Fresh Eggs", "A dozen free-range eggs", price, stock)
	require.NoError(t, err)
	return product
}
