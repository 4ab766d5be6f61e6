package repository

import (
	"context"
	"errors"
	"time"

	"storefront-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrItemNotInCart = errors.New("item not found in cart")

type CartRepository interface {
	Increment(ctx context.Context, tx *gorm.DB, userID, productID, size string) error
	Decrement(ctx context.Context, tx *gorm.DB, userID, productID, size string) error
	FindByUser(ctx context.Context, userID string) ([]*model.CartItem, error)
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

// Increment adds one unit of (productID, size) in a single upsert.
func (r *cartRepoImpl) Increment(ctx context.Context, tx *gorm.DB, userID, productID, size string) error {
	item := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Size:      size,
		Quantity:  1,
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "size"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", 1),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
}

// Decrement removes one unit of (productID, size) and drops the line once it
// reaches zero. Returns ErrItemNotInCart when there is nothing to remove.
func (r *cartRepoImpl) Decrement(ctx context.Context, tx *gorm.DB, userID, productID, size string) error {
	return tx.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.CartItem{}).
			Where("user_id = ? AND product_id = ? AND size = ? AND quantity > 0", userID, productID, size).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity - ?", 1),
				"updated_at": time.Now(),
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrItemNotInCart
		}

		return tx.
			Where("user_id = ? AND product_id = ? AND size = ? AND quantity <= 0", userID, productID, size).
			Delete(&model.CartItem{}).Error
	})
}

func (r *cartRepoImpl) FindByUser(ctx context.Context, userID string) ([]*model.CartItem, error) {
	var items []*model.CartItem

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quantity > 0", userID).
		Order("product_id, size").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	return tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
