package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/cart"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

// CartService manages per-user shopping carts. Stock checks here are
// advisory only; the binding check happens at checkout under row locks.
type CartService struct {
	carts    cart.CartRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(carts cart.CartRepository, products catalog.ProductRepository, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// Get returns the user's cart joined with current product data. A user who
// never added anything gets an empty cart, not an error.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	userCart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			response := EmptyCartResponse()
			return &response, nil
		}
		return nil, err
	}

	response, err := s.withProducts(ctx, userCart)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// AddItem adds quantity of a product to the cart, creating the cart on first
// use. The merged line quantity may not exceed current stock.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidProduct.WithDetails(map[string]any{
				"product_id": req.ProductID.String(),
			})
		}
		return nil, err
	}

	userCart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		userCart, err = cart.NewCart(userID)
		if err != nil {
			return nil, err
		}
	}

	wanted := userCart.Quantity(req.ProductID) + req.Quantity
	if !product.HasStock(wanted) {
		return nil, shared.ErrInsufficientStock.WithDetails(map[string]any{
			"product":   product.Name,
			"available": product.Stock,
			"requested": wanted,
		})
	}

	if err := userCart.AddItem(req.ProductID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, userCart); err != nil {
		return nil, err
	}

	return s.withProducts(ctx, userCart)
}

// UpdateItem overwrites a line's quantity, bounded by current stock.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	userCart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidProduct.WithDetails(map[string]any{
				"product_id": productID.String(),
			})
		}
		return nil, err
	}

	if !product.HasStock(req.Quantity) {
		return nil, shared.ErrInsufficientStock.WithDetails(map[string]any{
			"product":   product.Name,
			"available": product.Stock,
			"requested": req.Quantity,
		})
	}

	if err := userCart.UpdateItem(productID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, userCart); err != nil {
		return nil, err
	}

	return s.withProducts(ctx, userCart)
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	userCart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := userCart.RemoveItem(productID); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, userCart); err != nil {
		return nil, err
	}

	return s.withProducts(ctx, userCart)
}

// Clear drops the user's cart entirely. Clearing a cart that does not exist
// is a no-op.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.carts.DeleteByUser(ctx, userID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return nil
}

// withProducts looks up every product referenced by the cart and builds the
// enriched response. Vanished products are logged and skipped.
func (s *CartService) withProducts(ctx context.Context, userCart *cart.Cart) (*CartResponse, error) {
	products := make(map[uuid.UUID]*catalog.Product, len(userCart.Items))
	for i := range userCart.Items {
		productID := userCart.Items[i].ProductID
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("cart references missing product",
					zap.String("cart_id", userCart.ID.String()),
					zap.String("product_id", productID.String()),
				)
				continue
			}
			return nil, err
		}
		products[productID] = product
	}

	response := ToCartResponse(userCart, products)
	return &response, nil
}
