package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

// ProductService handles catalog reads and admin catalog management.
type ProductService struct {
	products  catalog.ProductRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products: products,
		logger:   logger,
	}
}

// SetEventPublisher sets the publisher for stock change broadcasts
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// List returns a page of products with the total count.
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*ProductListResponse, error) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ProductListResponse{
		Products: ToProductResponses(products),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Get returns a single product by ID.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(
		req.Name,
		req.Description,
		req.Category,
		decimal.NewFromFloat(req.SellingPrice),
		decimal.NewFromFloat(req.CostPrice),
		req.Stock,
	)
	if err != nil {
		return nil, err
	}
	if req.ImageURL != "" || req.Images != "" {
		product.SetImages(req.ImageURL, req.Images)
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// Update modifies a product. Omitted optional fields keep their values.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.Category); err != nil {
		return nil, err
	}
	if req.SellingPrice != nil {
		if err := product.SetSellingPrice(decimal.NewFromFloat(*req.SellingPrice)); err != nil {
			return nil, err
		}
	}
	if req.CostPrice != nil {
		if err := product.SetCostPrice(decimal.NewFromFloat(*req.CostPrice)); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil || req.Images != nil {
		imageURL := product.ImageURL
		images := ""
		if req.ImageURL != nil {
			imageURL = *req.ImageURL
		}
		if req.Images != nil {
			images = *req.Images
		}
		product.SetImages(imageURL, images)
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Restock adds units to a product's stock and broadcasts the new level.
func (s *ProductService) Restock(ctx context.Context, id uuid.UUID, req RestockRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.AddStock(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	s.logger.Info("product restocked",
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", req.Quantity),
		zap.Int("stock", product.Stock),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog. Existing order line items keep
// their frozen snapshots; cart lines referencing it are skipped at render.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound.WithDetails(map[string]any{
				"product_id": id.String(),
			})
		}
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	if s.publisher != nil {
		event := catalog.NewProductDeletedEvent(product)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("product delete broadcast failed",
				zap.String("product_id", id.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	if s.publisher == nil {
		product.ClearDomainEvents()
		return
	}
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("catalog broadcast failed",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}
