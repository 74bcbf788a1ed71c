package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

func createTestProduct(t *testing.T, stock int) *Product {
	product, err := NewProduct("Brake Pad", "Front brake pad", "Brakes", decimal.NewFromInt(100), decimal.NewFromInt(60), stock)
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid fields", func(t *testing.T) {
		product, err := NewProduct("Mirror", "Side mirror", "Mirrors", decimal.NewFromInt(250), decimal.NewFromInt(150), 10)
		require.NoError(t, err)

		assert.Equal(t, "Mirror", product.Name)
		assert.Equal(t, "Mirrors", product.Category)
		assert.Equal(t, 10, product.Stock)
		assert.True(t, product.Price.Equal(decimal.NewFromInt(250)))
		assert.True(t, product.SellingPrice.Equal(decimal.NewFromInt(250)))
		assert.Len(t, product.GetDomainEvents(), 1)
	})

	t.Run("defaults category when empty", func(t *testing.T) {
		product, err := NewProduct("Mirror", "", "", decimal.NewFromInt(1), decimal.Zero, 0)
		require.NoError(t, err)
		assert.Equal(t, "Accessories", product.Category)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("", "", "Brakes", decimal.NewFromInt(1), decimal.Zero, 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("Mirror", "", "", decimal.NewFromInt(-1), decimal.Zero, 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewProduct("Mirror", "", "", decimal.NewFromInt(1), decimal.Zero, -1)
		assert.Error(t, err)
	})
}

func TestProduct_EffectiveSellingPrice(t *testing.T) {
	t.Run("selling price wins when set", func(t *testing.T) {
		product := createTestProduct(t, 5)
		product.Price = decimal.NewFromInt(80)
		product.SellingPrice = decimal.NewFromInt(100)

		assert.True(t, product.EffectiveSellingPrice().Equal(decimal.NewFromInt(100)))
	})

	t.Run("falls back to legacy price when selling price unset", func(t *testing.T) {
		product := createTestProduct(t, 5)
		product.Price = decimal.NewFromInt(80)
		product.SellingPrice = decimal.Zero

		assert.True(t, product.EffectiveSellingPrice().Equal(decimal.NewFromInt(80)))
	})
}

func TestProduct_DeductStock(t *testing.T) {
	t.Run("deducts available stock", func(t *testing.T) {
		product := createTestProduct(t, 5)

		err := product.DeductStock(2)
		require.NoError(t, err)

		assert.Equal(t, 3, product.Stock)
		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		stockEvent, ok := events[0].(*StockChangedEvent)
		require.True(t, ok)
		assert.Equal(t, 3, stockEvent.Stock)
	})

	t.Run("fails without side effect when stock is insufficient", func(t *testing.T) {
		product := createTestProduct(t, 3)

		err := product.DeductStock(10)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, 3, domainErr.Details["available"])
		assert.Equal(t, 10, domainErr.Details["requested"])
		assert.Equal(t, 3, product.Stock)
		assert.Empty(t, product.GetDomainEvents())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		product := createTestProduct(t, 3)
		assert.Error(t, product.DeductStock(0))
		assert.Error(t, product.DeductStock(-1))
		assert.Equal(t, 3, product.Stock)
	})
}

func TestProduct_AddStock(t *testing.T) {
	product := createTestProduct(t, 3)

	require.NoError(t, product.AddStock(7))
	assert.Equal(t, 10, product.Stock)

	assert.Error(t, product.AddStock(0))
}

func TestProduct_SetSellingPrice(t *testing.T) {
	product := createTestProduct(t, 3)
	product.Price = decimal.NewFromInt(50)

	require.NoError(t, product.SetSellingPrice(decimal.NewFromInt(120)))

	// legacy price stays in sync with the explicit selling price
	assert.True(t, product.Price.Equal(decimal.NewFromInt(120)))
	assert.True(t, product.SellingPrice.Equal(decimal.NewFromInt(120)))

	assert.Error(t, product.SetSellingPrice(decimal.NewFromInt(-1)))
}

func TestProduct_Snapshot(t *testing.T) {
	product := createTestProduct(t, 5)
	product.SellingPrice = decimal.NewFromInt(100)
	product.CostPrice = decimal.NewFromInt(60)

	snap := product.Snapshot()

	assert.Equal(t, product.ID, snap.ProductID)
	assert.Equal(t, "Brake Pad", snap.ProductName)
	assert.True(t, snap.SellPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, snap.CostPrice.Equal(decimal.NewFromInt(60)))

	// later product mutations never leak into the snapshot
	product.Name = "Renamed"
	product.SellingPrice = decimal.NewFromInt(999)
	assert.Equal(t, "Brake Pad", snap.ProductName)
	assert.True(t, snap.SellPrice.Equal(decimal.NewFromInt(100)))
}
