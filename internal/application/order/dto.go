package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/order"
)

// ShippingInfoRequest is the shipping contact supplied at checkout
type ShippingInfoRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`
}

// toShipping copies the request into a domain shipping snapshot
func (r ShippingInfoRequest) toShipping() order.ShippingInfo {
	return order.ShippingInfo{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		City:    r.City,
		Pincode: r.Pincode,
	}
}

// UpdateStatusRequest carries the target status for an order
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderItemResponse is a line item in API responses
type OrderItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	CostPrice   float64   `json:"cost_price"`
	LineTotal   float64   `json:"line_total"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	Status          string              `json:"status"`
	Total           float64             `json:"total"`
	ShippingName    string              `json:"shipping_name"`
	ShippingEmail   string              `json:"shipping_email"`
	ShippingPhone   string              `json:"shipping_phone"`
	ShippingAddress string              `json:"shipping_address"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.InexactFloat64(),
			CostPrice:   item.CostPrice.InexactFloat64(),
			LineTotal:   item.LineTotal().InexactFloat64(),
		})
	}

	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status.String(),
		Total:           o.Total.InexactFloat64(),
		ShippingName:    o.Shipping.Name,
		ShippingEmail:   o.Shipping.Email,
		ShippingPhone:   o.Shipping.Phone,
		ShippingAddress: order.FormatShippingAddress(o.Shipping),
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses
}
