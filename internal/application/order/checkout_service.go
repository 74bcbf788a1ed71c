package order

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/order"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

// OrderNotifier sends outbound order notifications through an external
// messaging channel. Implementations must be safe for concurrent use.
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, event *order.OrderPlacedEvent) error
}

// CheckoutService converts a cart into an order as one atomic unit:
// validate, reserve stock, snapshot prices, persist order and line items,
// clear the cart. Notification fan-out happens only after commit and never
// affects the caller's result.
type CheckoutService struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	notifier  OrderNotifier
	logger    *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(scope TransactionScope, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		scope:  scope,
		logger: logger,
	}
}

// SetEventPublisher sets the publisher for post-commit live broadcasts
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetNotifier sets the outbound messaging notifier
func (s *CheckoutService) SetNotifier(notifier OrderNotifier) {
	s.notifier = notifier
}

// PlaceOrder places an order from the user's cart.
//
// All steps run inside one transaction: a failure at any point leaves stock,
// cart and order state exactly as before the call. Validation errors
// (EMPTY_CART, INVALID_PRODUCT, INSUFFICIENT_STOCK) are returned as-is;
// unexpected storage errors surface as a generic STORAGE_FAILURE.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req ShippingInfoRequest) (*OrderResponse, error) {
	var placed *order.Order
	var stockEvents []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		userCart, err := repos.Carts().FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrEmptyCart
			}
			return err
		}
		if userCart.IsEmpty() {
			return shared.ErrEmptyCart
		}

		// Lock products in a stable order so concurrent checkouts touching
		// the same products cannot deadlock.
		lines := make([]cartLine, 0, len(userCart.Items))
		for i := range userCart.Items {
			lines = append(lines, cartLine{
				productID: userCart.Items[i].ProductID,
				quantity:  userCart.Items[i].Quantity,
			})
		}
		sort.Slice(lines, func(i, j int) bool {
			return lines[i].productID.String() < lines[j].productID.String()
		})

		// Validate every line before any mutation. The locked reads hold
		// until commit, so stock seen here cannot change under us.
		products := make([]*catalog.Product, 0, len(lines))
		for _, line := range lines {
			product, err := repos.Products().FindByIDForUpdate(ctx, line.productID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.ErrInvalidProduct.WithDetails(map[string]any{
						"product_id": line.productID.String(),
					})
				}
				return err
			}
			if !product.HasStock(line.quantity) {
				return shared.ErrInsufficientStock.WithDetails(map[string]any{
					"product":   product.Name,
					"available": product.Stock,
					"requested": line.quantity,
				})
			}
			products = append(products, product)
		}

		newOrder, err := order.NewOrder(userID, req.toShipping())
		if err != nil {
			return err
		}

		// Reserve stock and freeze pricing. The snapshot is taken from the
		// same transactional read that the reservation mutates.
		for i, line := range lines {
			product := products[i]
			snap := product.Snapshot()
			if err := product.DeductStock(line.quantity); err != nil {
				return err
			}
			if err := repos.Products().Save(ctx, product); err != nil {
				return err
			}
			if _, err := newOrder.AddLine(snap, line.quantity); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, newOrder); err != nil {
			return err
		}
		if err := repos.Carts().DeleteByUser(ctx, userID); err != nil {
			return err
		}

		placed = newOrder
		for _, product := range products {
			stockEvents = append(stockEvents, product.GetDomainEvents()...)
			product.ClearDomainEvents()
		}
		return nil
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		s.logger.Error("order transaction failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, shared.ErrStorageFailure
	}

	s.fanOut(ctx, placed, stockEvents)

	response := ToOrderResponse(placed)
	return &response, nil
}

type cartLine struct {
	productID uuid.UUID
	quantity  int
}

// fanOut publishes the live broadcast and dispatches the outbound message.
// Both are best-effort: failures are logged and never surfaced to the caller.
func (s *CheckoutService) fanOut(ctx context.Context, placed *order.Order, stockEvents []shared.DomainEvent) {
	placedEvent := order.NewOrderPlacedEvent(placed)

	if s.publisher != nil {
		events := append([]shared.DomainEvent{placedEvent}, stockEvents...)
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("order broadcast failed",
				zap.String("order_id", placed.ID.String()),
				zap.Error(err),
			)
		}
	}

	if s.notifier != nil {
		// Detached from the request lifecycle; the HTTP response never
		// waits for the messaging gateway.
		notifyCtx := context.WithoutCancel(ctx)
		go func() {
			if err := s.notifier.NotifyOrderPlaced(notifyCtx, placedEvent); err != nil {
				s.logger.Warn("order notification failed",
					zap.String("order_id", placed.ID.String()),
					zap.Error(err),
				)
			}
		}()
	}
}
