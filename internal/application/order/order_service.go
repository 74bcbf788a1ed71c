package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/order"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

// OrderService covers order reads and status administration. Placement has
// its own service because it needs transactional repository access.
type OrderService struct {
	orders    order.OrderRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders order.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders: orders,
		logger: logger,
	}
}

// SetEventPublisher sets the publisher for status change broadcasts
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// GetByID returns a single order visible to the actor. Customers can only
// see their own orders.
func (s *OrderService) GetByID(ctx context.Context, orderID, actorID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	found, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !found.IsOwnedBy(actorID) {
		return nil, shared.ErrForbidden
	}
	response := ToOrderResponse(found)
	return &response, nil
}

// ListForUser returns the actor's own orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	found, err := s.orders.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(found), nil
}

// ListAll returns every order, newest first. Admin only; the guard sits in
// the HTTP layer.
func (s *OrderService) ListAll(ctx context.Context, filter shared.Filter) ([]OrderResponse, error) {
	found, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(found), nil
}

// UpdateStatus moves an order to the requested status. The owner and any
// admin may update; anyone else gets FORBIDDEN. Any valid status value is
// accepted regardless of the current one.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, actorID uuid.UUID, isAdmin bool, status string) (*OrderResponse, error) {
	found, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound.WithDetails(map[string]any{
				"order_id": orderID.String(),
			})
		}
		return nil, err
	}

	if !isAdmin && !found.IsOwnedBy(actorID) {
		return nil, shared.ErrForbidden
	}

	if err := found.SetStatus(order.Status(status)); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, found); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		events := found.GetDomainEvents()
		found.ClearDomainEvents()
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("status broadcast failed",
				zap.String("order_id", orderID.String()),
				zap.Error(err),
			)
		}
	}

	response := ToOrderResponse(found)
	return &response, nil
}
