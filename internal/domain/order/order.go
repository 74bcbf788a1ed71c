package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

// Status represents the status of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is an allowed order status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// ShippingInfo is the contact and address snapshot copied onto an order at
// creation time. It is never re-read from the user profile afterwards.
type ShippingInfo struct {
	Name    string `gorm:"column:shipping_name;type:varchar(100)" json:"name"`
	Email   string `gorm:"column:shipping_email;type:varchar(200)" json:"email"`
	Phone   string `gorm:"column:shipping_phone;type:varchar(30)" json:"phone"`
	Address string `gorm:"column:shipping_address;type:text" json:"address"`
	City    string `gorm:"column:shipping_city;type:varchar(100)" json:"city"`
	Pincode string `gorm:"column:shipping_pincode;type:varchar(20)" json:"pincode"`
}

// OrderItem is a line item belonging to exactly one order. All pricing fields
// are frozen copies captured at order creation; the product reference is for
// display only and historical records survive product deletion.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns price x quantity for this line
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root for a placed order. It exclusively owns its
// line items and is immutable after creation except for Status.
type Order struct {
	shared.BaseAggregateRoot
	UserID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status   Status          `gorm:"type:varchar(20);not null;default:'pending'"`
	Total    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Shipping ShippingInfo    `gorm:"embedded"`
	Items    []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order for a user with a shipping snapshot
func NewOrder(userID uuid.UUID, shipping ShippingInfo) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            StatusPending,
		Total:             decimal.Zero,
		Shipping:          shipping,
		Items:             make([]OrderItem, 0),
	}, nil
}

// AddLine appends a line item from a price snapshot and accumulates the total
func (o *Order) AddLine(snap catalog.PriceSnapshot, quantity int) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	item := OrderItem{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   snap.ProductID,
		ProductName: snap.ProductName,
		Quantity:    quantity,
		Price:       snap.SellPrice,
		CostPrice:   snap.CostPrice,
		CreatedAt:   time.Now(),
	}

	o.Items = append(o.Items, item)
	o.Total = o.Total.Add(item.LineTotal())

	return &o.Items[len(o.Items)-1], nil
}

// SetStatus overwrites the order status. Cancelling an order does not return
// stock to inventory.
func (o *Order) SetStatus(status Status) error {
	if !status.IsValid() {
		return shared.ErrInvalidStatus.WithDetails(map[string]any{
			"status":  string(status),
			"allowed": []string{string(StatusPending), string(StatusCompleted), string(StatusCancelled)},
		})
	}

	o.Status = status
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o))

	return nil
}

// IsOwnedBy reports whether the order belongs to the given user
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// TotalQuantity returns the sum of line quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for i := range o.Items {
		total += o.Items[i].Quantity
	}
	return total
}
