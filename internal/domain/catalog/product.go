package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

// Product represents a product in the storefront catalog.
// It is the aggregate root for catalog operations and owns the stock count.
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Category    string          `gorm:"type:varchar(100);not null;default:'Accessories';index"`
	// Price is the legacy selling price kept for backward compatibility.
	// SellingPrice wins whenever it is set.
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock        int             `gorm:"not null;default:0"`
	ImageURL     string          `gorm:"type:text"`
	Images       string          `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new catalog product
func NewProduct(name, description, category string, sellingPrice, costPrice decimal.Decimal, stock int) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if sellingPrice.IsNegative() || costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if category == "" {
		category = "Accessories"
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Category:          category,
		Price:             sellingPrice,
		SellingPrice:      sellingPrice,
		CostPrice:         costPrice,
		Stock:             stock,
		Images:            "[]",
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, category string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}

	p.Name = name
	p.Description = description
	if category != "" {
		p.Category = category
	}
	p.Touch()

	return nil
}

// SetSellingPrice updates the selling price and keeps the legacy price in sync
func (p *Product) SetSellingPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	p.SellingPrice = price
	p.Price = price
	p.Touch()

	return nil
}

// SetCostPrice updates the cost price
func (p *Product) SetCostPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}

	p.CostPrice = price
	p.Touch()

	return nil
}

// EffectiveSellingPrice returns the price a customer pays right now.
// SellingPrice overrides the legacy Price field when set.
func (p *Product) EffectiveSellingPrice() decimal.Decimal {
	if p.SellingPrice.IsPositive() {
		return p.SellingPrice
	}
	return p.Price
}

// HasStock reports whether the requested quantity is currently available
func (p *Product) HasStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// DeductStock removes quantity units from stock.
// Stock never goes negative; an over-request fails without side effect.
func (p *Product) DeductStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < quantity {
		return shared.ErrInsufficientStock.WithDetails(map[string]any{
			"product":   p.Name,
			"available": p.Stock,
			"requested": quantity,
		})
	}

	p.Stock -= quantity
	p.Touch()
	p.AddDomainEvent(NewStockChangedEvent(p))

	return nil
}

// AddStock adds quantity units to stock (restock)
func (p *Product) AddStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	p.Stock += quantity
	p.Touch()
	p.AddDomainEvent(NewStockChangedEvent(p))

	return nil
}

// SetStock overwrites the stock count (admin correction)
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	if stock != p.Stock {
		p.Stock = stock
		p.AddDomainEvent(NewStockChangedEvent(p))
	}
	p.Touch()

	return nil
}

// SetImages sets the primary image URL and the serialized image list
func (p *Product) SetImages(imageURL, images string) {
	p.ImageURL = imageURL
	if images != "" {
		p.Images = images
	}
	p.Touch()
}

// PriceSnapshot is an immutable capture of a product's pricing and name
// at a point in time. Order line items store this frozen copy so that later
// catalog changes never alter historical records.
type PriceSnapshot struct {
	ProductID   uuid.UUID
	ProductName string
	SellPrice   decimal.Decimal
	CostPrice   decimal.Decimal
}

// Snapshot captures the product's current effective selling price, cost price
// and name. Pure function of product state; the caller is responsible for
// reading the product inside the same transaction that reserves its stock.
func (p *Product) Snapshot() PriceSnapshot {
	return PriceSnapshot{
		ProductID:   p.ID,
		ProductName: p.Name,
		SellPrice:   p.EffectiveSellingPrice(),
		CostPrice:   p.CostPrice,
	}
}
