package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/identity"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/order"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/report"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

// Dashboard defaults. Thresholds match what the storefront admin UI expects.
const (
	lowStockThreshold  = 10
	lowStockLimit      = 20
	topSellerLimit     = 5
	revenueTrendMonths = 6
)

// DashboardResponse is the admin dashboard payload
type DashboardResponse struct {
	TotalUsers      int64                    `json:"total_users"`
	TotalProducts   int64                    `json:"total_products"`
	TotalOrders     int64                    `json:"total_orders"`
	PendingOrders   int64                    `json:"pending_orders"`
	CompletedOrders int64                    `json:"completed_orders"`
	CancelledOrders int64                    `json:"cancelled_orders"`
	Revenue         float64                  `json:"revenue"`
	Cost            float64                  `json:"cost"`
	Profit          float64                  `json:"profit"`
	LowStock        []LowStockResponse       `json:"low_stock"`
	TopSellers      []TopSellerResponse      `json:"top_sellers"`
	SalesByCategory []CategorySalesResponse  `json:"sales_by_category"`
	MonthlyRevenue  []MonthlyRevenueResponse `json:"monthly_revenue"`
}

// LowStockResponse is a product running low on stock
type LowStockResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
}

// TopSellerResponse is a best selling product
type TopSellerResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	TotalQuantity int64     `json:"total_quantity"`
	TotalAmount   float64   `json:"total_amount"`
}

// CategorySalesResponse is one product category's completed-order sales
type CategorySalesResponse struct {
	Category      string  `json:"category"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalAmount   float64 `json:"total_amount"`
}

// MonthlyRevenueResponse is one month of revenue
type MonthlyRevenueResponse struct {
	Month      time.Time `json:"month"`
	OrderCount int64     `json:"order_count"`
	Revenue    float64   `json:"revenue"`
}

// StatsService assembles the admin dashboard from aggregate read models.
type StatsService struct {
	users    identity.UserRepository
	products catalog.ProductRepository
	orders   order.OrderRepository
	stats    report.StatsRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(
	users identity.UserRepository,
	products catalog.ProductRepository,
	orders order.OrderRepository,
	stats report.StatsRepository,
) *StatsService {
	return &StatsService{
		users:    users,
		products: products,
		orders:   orders,
		stats:    stats,
	}
}

// Dashboard builds the full admin dashboard. Revenue, cost and profit count
// completed orders only, summed from frozen line item snapshots.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.products.Count(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orders.Count(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	pending, err := s.orders.CountByStatus(ctx, order.StatusPending)
	if err != nil {
		return nil, err
	}
	completed, err := s.orders.CountByStatus(ctx, order.StatusCompleted)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.orders.CountByStatus(ctx, order.StatusCancelled)
	if err != nil {
		return nil, err
	}

	totals, err := s.stats.SalesTotals(ctx)
	if err != nil {
		return nil, err
	}
	topSellers, err := s.stats.TopSellers(ctx, topSellerLimit)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.stats.SalesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	monthly, err := s.stats.MonthlyRevenue(ctx, revenueTrendMonths)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.FindLowStock(ctx, lowStockThreshold, lowStockLimit)
	if err != nil {
		return nil, err
	}

	response := &DashboardResponse{
		TotalUsers:      totalUsers,
		TotalProducts:   totalProducts,
		TotalOrders:     totalOrders,
		PendingOrders:   pending,
		CompletedOrders: completed,
		CancelledOrders: cancelled,
		Revenue:         totals.Revenue.InexactFloat64(),
		Cost:            totals.Cost.InexactFloat64(),
		Profit:          totals.Profit.InexactFloat64(),
		LowStock:        make([]LowStockResponse, 0, len(lowStock)),
		TopSellers:      make([]TopSellerResponse, 0, len(topSellers)),
		SalesByCategory: make([]CategorySalesResponse, 0, len(byCategory)),
		MonthlyRevenue:  make([]MonthlyRevenueResponse, 0, len(monthly)),
	}

	for i := range lowStock {
		response.LowStock = append(response.LowStock, LowStockResponse{
			ProductID: lowStock[i].ID,
			Name:      lowStock[i].Name,
			Stock:     lowStock[i].Stock,
		})
	}
	for _, seller := range topSellers {
		response.TopSellers = append(response.TopSellers, TopSellerResponse{
			ProductID:     seller.ProductID,
			ProductName:   seller.ProductName,
			TotalQuantity: seller.TotalQuantity,
			TotalAmount:   seller.TotalAmount.InexactFloat64(),
		})
	}
	for _, sales := range byCategory {
		response.SalesByCategory = append(response.SalesByCategory, CategorySalesResponse{
			Category:      sales.Category,
			TotalQuantity: sales.TotalQuantity,
			TotalAmount:   sales.TotalAmount.InexactFloat64(),
		})
	}
	for _, month := range monthly {
		response.MonthlyRevenue = append(response.MonthlyRevenue, MonthlyRevenueResponse{
			Month:      month.Month,
			OrderCount: month.OrderCount,
			Revenue:    month.Revenue.InexactFloat64(),
		})
	}

	return response, nil
}
