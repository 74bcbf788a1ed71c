package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesTotals aggregates revenue, cost and profit across completed orders.
// Figures come from frozen order line snapshots, so later catalog price
// edits never rewrite history.
type SalesTotals struct {
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

// TopSeller ranks a product by units sold in completed orders
type TopSeller struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// CategorySales aggregates completed-order sales for one product category
type CategorySales struct {
	Category      string          `json:"category"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// MonthlyRevenue is one month of completed-order revenue
type MonthlyRevenue struct {
	Month      time.Time       `json:"month"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// StatsRepository serves aggregate read models for the admin dashboard.
// Only completed orders count toward revenue, cost and profit.
type StatsRepository interface {
	// SalesTotals sums revenue, cost and profit over completed order lines
	SalesTotals(ctx context.Context) (*SalesTotals, error)

	// TopSellers ranks products by quantity sold in completed orders
	TopSellers(ctx context.Context, limit int) ([]TopSeller, error)

	// SalesByCategory groups completed-order sales by product category,
	// highest grossing categories first
	SalesByCategory(ctx context.Context) ([]CategorySales, error)

	// MonthlyRevenue groups completed-order revenue by calendar month,
	// most recent months first
	MonthlyRevenue(ctx context.Context, months int) ([]MonthlyRevenue, error)
}
