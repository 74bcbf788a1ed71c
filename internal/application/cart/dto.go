package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/cart"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
)

// AddItemRequest adds a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// UpdateItemRequest overwrites a line's quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// CartItemResponse is a cart line enriched with current product data.
// Prices here are live catalog prices, not frozen snapshots.
type CartItemResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Stock       int       `json:"stock"`
	Quantity    int       `json:"quantity"`
	LineTotal   float64   `json:"line_total"`
}

// CartResponse is the full cart in API responses
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     float64            `json:"total"`
}

// EmptyCartResponse is returned when the user has no cart yet
func EmptyCartResponse() CartResponse {
	return CartResponse{Items: make([]CartItemResponse, 0)}
}

// ToCartResponse joins cart lines with their products. Lines whose product
// has been removed from the catalog are skipped rather than failing the view.
func ToCartResponse(c *cart.Cart, products map[uuid.UUID]*catalog.Product) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	total := decimal.Zero

	for i := range c.Items {
		line := &c.Items[i]
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		price := product.EffectiveSellingPrice()
		lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, CartItemResponse{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       price.InexactFloat64(),
			ImageURL:    product.ImageURL,
			Stock:       product.Stock,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal.InexactFloat64(),
		})
	}

	return CartResponse{
		Items:     items,
		ItemCount: len(items),
		Total:     total.InexactFloat64(),
	}
}
