package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
)

// CreateProductRequest creates a catalog product
type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required,max=200"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	SellingPrice float64 `json:"selling_price" binding:"required,gt=0"`
	CostPrice    float64 `json:"cost_price" binding:"gte=0"`
	Stock        int     `json:"stock" binding:"gte=0"`
	ImageURL     string  `json:"image_url"`
	Images       string  `json:"images"`
}

// UpdateProductRequest updates a catalog product. Zero-valued price and
// stock fields are left unchanged.
type UpdateProductRequest struct {
	Name         string   `json:"name" binding:"required,max=200"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	SellingPrice *float64 `json:"selling_price" binding:"omitempty,gt=0"`
	CostPrice    *float64 `json:"cost_price" binding:"omitempty,gte=0"`
	Stock        *int     `json:"stock" binding:"omitempty,gte=0"`
	ImageURL     *string  `json:"image_url"`
	Images       *string  `json:"images"`
}

// RestockRequest adds units to a product's stock
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// ProductResponse is a product in API responses
type ProductResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	SellingPrice float64   `json:"selling_price"`
	CostPrice    float64   `json:"cost_price"`
	Stock        int       `json:"stock"`
	ImageURL     string    `json:"image_url"`
	Images       string    `json:"images"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductListResponse is a paginated product listing
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.EffectiveSellingPrice().InexactFloat64(),
		SellingPrice: p.SellingPrice.InexactFloat64(),
		CostPrice:    p.CostPrice.InexactFloat64(),
		Stock:        p.Stock,
		ImageURL:     p.ImageURL,
		Images:       p.Images,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}
