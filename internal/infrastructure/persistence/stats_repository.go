package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/order"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/report"
)

// GormStatsRepository implements report.StatsRepository with aggregate
// queries over order line snapshots. All figures count completed orders only.
type GormStatsRepository struct {
	db *gorm.DB
}

// NewGormStatsRepository creates a new GormStatsRepository
func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// SalesTotals sums revenue, cost and profit over completed order lines
func (r *GormStatsRepository) SalesTotals(ctx context.Context) (*report.SalesTotals, error) {
	type totalsResult struct {
		Revenue decimal.Decimal
		Cost    decimal.Decimal
	}

	var result totalsResult
	if err := r.db.WithContext(ctx).
		Table("order_items oi").
		Select(`
			COALESCE(SUM(oi.price * oi.quantity), 0) as revenue,
			COALESCE(SUM(oi.cost_price * oi.quantity), 0) as cost
		`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status = ?", order.StatusCompleted).
		Scan(&result).Error; err != nil {
		return nil, err
	}

	return &report.SalesTotals{
		Revenue: result.Revenue,
		Cost:    result.Cost,
		Profit:  result.Revenue.Sub(result.Cost),
	}, nil
}

// TopSellers ranks products by quantity sold in completed orders
func (r *GormStatsRepository) TopSellers(ctx context.Context, limit int) ([]report.TopSeller, error) {
	var results []report.TopSeller
	if err := r.db.WithContext(ctx).
		Table("order_items oi").
		Select(`
			oi.product_id as product_id,
			MAX(oi.product_name) as product_name,
			SUM(oi.quantity) as total_quantity,
			COALESCE(SUM(oi.price * oi.quantity), 0) as total_amount
		`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status = ?", order.StatusCompleted).
		Group("oi.product_id").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// SalesByCategory groups completed-order sales by product category. Lines
// whose product has since been deleted fall out of the join and are not
// counted.
func (r *GormStatsRepository) SalesByCategory(ctx context.Context) ([]report.CategorySales, error) {
	var results []report.CategorySales
	if err := r.db.WithContext(ctx).
		Table("order_items oi").
		Select(`
			p.category as category,
			SUM(oi.quantity) as total_quantity,
			COALESCE(SUM(oi.price * oi.quantity), 0) as total_amount
		`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("o.status = ?", order.StatusCompleted).
		Group("p.category").
		Order("total_amount DESC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MonthlyRevenue groups completed-order revenue by calendar month
func (r *GormStatsRepository) MonthlyRevenue(ctx context.Context, months int) ([]report.MonthlyRevenue, error) {
	since := time.Now().AddDate(0, -months, 0)

	var results []report.MonthlyRevenue
	if err := r.db.WithContext(ctx).
		Table("orders o").
		Select(`
			DATE_TRUNC('month', o.created_at) as month,
			COUNT(o.id) as order_count,
			COALESCE(SUM(o.total), 0) as revenue
		`).
		Where("o.status = ?", order.StatusCompleted).
		Where("o.created_at >= ?", since).
		Group("DATE_TRUNC('month', o.created_at)").
		Order("month DESC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

var _ report.StatsRepository = (*GormStatsRepository)(nil)
