package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderLineSummary is the per-line payload carried by order events
type OrderLineSummary struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderPlacedEvent is published once per successfully committed order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID          `json:"order_id"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   string             `json:"customer_phone"`
	Total           decimal.Decimal    `json:"total"`
	ItemCount       int                `json:"item_count"`
	TotalQuantity   int                `json:"total_quantity"`
	Items           []OrderLineSummary `json:"items"`
	ShippingAddress string             `json:"shipping_address"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent from a committed order
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	items := make([]OrderLineSummary, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, OrderLineSummary{
			ProductName: o.Items[i].ProductName,
			Quantity:    o.Items[i].Quantity,
			Price:       o.Items[i].Price,
		})
	}

	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		CustomerName:    o.Shipping.Name,
		CustomerEmail:   o.Shipping.Email,
		CustomerPhone:   o.Shipping.Phone,
		Total:           o.Total,
		ItemCount:       len(o.Items),
		TotalQuantity:   o.TotalQuantity(),
		Items:           items,
		ShippingAddress: FormatShippingAddress(o.Shipping),
	}
}

// OrderStatusChangedEvent is published when an order's status is overwritten
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Status  Status    `json:"status"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Status:          o.Status,
	}
}

// FormatShippingAddress renders a shipping snapshot as a single display line
func FormatShippingAddress(s ShippingInfo) string {
	if s.Address == "" {
		return "N/A"
	}
	addr := s.Address
	if s.City != "" {
		addr += ", " + s.City
	}
	if s.Pincode != "" {
		addr += ", " + s.Pincode
	}
	return addr
}
