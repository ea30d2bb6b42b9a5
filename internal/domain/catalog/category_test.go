package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates category with valid inputs", func(t *testing.T) {
		category, err := NewCategory("Dairy", "Milk, cheese and yogurt")
		require.NoError(t, err)
		require.NotNil(t, category)

		assert.Equal(t, "Dairy", category.Name)
		assert.Equal(t, "Milk, cheese and yogurt", category.Description)
		assert.Equal(t, CategoryStatusActive, category.Status)
		assert.Empty(t, category.IconKey)
		assert.NotEmpty(t, category.ID)
		assert.Equal(t, 1, category.GetVersion())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("", "desc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewCategory(strings.Repeat("x", 101), "desc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100 characters")
	})
}

func TestCategoryUpdate(t *testing.T) {
	category, err := NewCategory("Dairy", "old")
	require.NoError(t, err)

	require.NoError(t, category.Update("Dairy & Eggs", "new"))
	assert.Equal(t, "Dairy & Eggs", category.Name)
	assert.Equal(t, "new", category.Description)
	assert.Equal(t, 2, category.GetVersion())

	require.Error(t, category.Update("", "new"))
}

func TestCategorySetIconKey(t *testing.T) {
	category, err := NewCategory("Dairy", "")
	require.NoError(t, err)

	category.SetIconKey("categories/dairy.png")
	assert.Equal(t, "categories/dairy.png", category.IconKey)
	assert.Equal(t, 2, category.GetVersion())
}

func TestCategoryStatusTransitions(t *testing.T) {
	category, err := NewCategory("Dairy", "")
	require.NoError(t, err)

	require.Error(t, category.Activate())

	require.NoError(t, category.Deactivate())
	assert.False(t, category.IsActive())
	require.Error(t, category.Deactivate())

	require.NoError(t, category.Activate())
	assert.True(t, category.IsActive())
}

func TestCategoryIsDefault(t *testing.T) {
	others, err := NewCategory(DefaultCategoryName, "")
	require.NoError(t, err)
	assert.True(t, others.IsDefault())

	dairy, err := NewCategory("Dairy", "")
	require.NoError(t, err)
	assert.False(t, dairy.IsDefault())
}
