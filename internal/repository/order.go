package repository

import (
	"context"
	"time"

	"storefront-api/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	SetGatewayOrderID(ctx context.Context, tx *gorm.DB, orderID, gatewayOrderID string) error
	MarkPaid(ctx context.Context, tx *gorm.DB, userID, gatewayOrderID, gatewayPaymentID string) (*model.Order, bool, error)
	FindVisible(ctx context.Context) ([]*model.Order, error)
	FindVisibleByUser(ctx context.Context, userID string) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status model.OrderStatus) (*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

// visible keeps cash orders and gateway orders whose payment was confirmed.
func visible(db *gorm.DB) *gorm.DB {
	return db.Where("(payment_method = ? OR (payment_method = ? AND paid = ?))",
		model.PaymentCOD, model.PaymentGateway, true)
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit("Items", "User").Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Scopes(withItems).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) SetGatewayOrderID(ctx context.Context, tx *gorm.DB, orderID, gatewayOrderID string) error {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"gateway_order_id": gatewayOrderID,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkPaid flips the paid flag of the caller's gateway order. The second
// return value reports whether the order had already been paid, in which
// case nothing is written.
func (r *orderRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, userID, gatewayOrderID, gatewayPaymentID string) (*model.Order, bool, error) {
	var order model.Order
	alreadyPaid := false

	err := tx.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("gateway_order_id = ? AND user_id = ? AND payment_method = ?",
				gatewayOrderID, userID, model.PaymentGateway).
			First(&order).Error
		if err != nil {
			return err
		}
		if order.Paid {
			alreadyPaid = true
			return nil
		}

		result := tx.Model(&model.Order{}).
			Where("id = ? AND paid = ?", order.ID, false).
			Updates(map[string]interface{}{
				"paid":               true,
				"gateway_payment_id": gatewayPaymentID,
				"updated_at":         time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// paid concurrently by another request
			alreadyPaid = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	paid, err := r.FindByID(ctx, order.ID)
	if err != nil {
		return nil, false, err
	}
	return paid, alreadyPaid, nil
}

func (r *orderRepoImpl) FindVisible(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Scopes(visible, withItems).
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) FindVisibleByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Scopes(visible, withItems).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status model.OrderStatus) (*model.Order, error) {
	var order model.Order
	err := tx.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", orderID).First(&order).Error; err != nil {
			return err
		}

		return tx.Model(&model.Order{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, orderID)
}
