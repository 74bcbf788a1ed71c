package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/cart"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

// GormCartRepository implements cart.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser finds a user's cart with its items
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var userCart cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&userCart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &userCart, nil
}

// Save creates or updates a cart and its items. Removed lines are deleted
// so the stored item set always mirrors the aggregate.
func (r *GormCartRepository) Save(ctx context.Context, userCart *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(userCart).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(userCart.Items))
		for i := range userCart.Items {
			userCart.Items[i].CartID = userCart.ID
			keep = append(keep, userCart.Items[i].ID)
		}

		query := tx.Where("cart_id = ?", userCart.ID)
		if len(keep) > 0 {
			query = query.Where("id NOT IN ?", keep)
		}
		if err := query.Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}

		if len(userCart.Items) > 0 {
			if err := tx.Save(&userCart.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteByUser removes a user's cart and all its items
func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userCart cart.Cart
		if err := tx.First(&userCart, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Where("cart_id = ?", userCart.ID).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&userCart).Error
	})
}

var _ cart.CartRepository = (*GormCartRepository)(nil)
