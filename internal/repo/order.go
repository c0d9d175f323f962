package repo

import (
	"context"
	"time"

	"github.com/minhtri-dev/coffeeshop/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Toppings").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Toppings").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// CommitOrder writes the order snapshot, reserves the voucher and clears the
// cart in one transaction. Either everything lands or nothing does: a voucher
// can never be consumed without a matching order.
func (r *GormRepo) CommitOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.VoucherID != nil {
			if err := reserveVoucherTx(tx, *order.VoucherID, order.UserID); err != nil {
				return err
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if order.VoucherID != nil {
			redemption := models.VoucherRedemption{
				VoucherID:      *order.VoucherID,
				UserID:         order.UserID,
				OrderID:        order.ID,
				DiscountAmount: order.DiscountAmount,
			}
			if err := tx.Create(&redemption).Error; err != nil {
				return err
			}
		}

		return clearCartTx(tx, order.UserID)
	})
}

// UpdateOrderStatus moves an order between statuses with an optimistic
// from-state check. Zero rows affected means somebody else moved the order
// first; the caller decides whether to retry.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uint, from, to string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// CompleteOrder stamps completed_at and credits loyalty points in the same
// transaction as the final status transition. The optimistic from-state check
// makes a double completion impossible, so points are granted exactly once.
func (r *GormRepo) CompleteOrder(ctx context.Context, order *models.Order, from string, points int64, description string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Updates(map[string]interface{}{
				"status":       models.OrderStatusCompleted,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		if points > 0 {
			return earnPointsTx(tx, order.UserID, points, order.ID, description)
		}
		return nil
	})
}

// CancelOrder stamps cancellation and releases the voucher reservation. No
// loyalty rollback is needed: points are only granted at completion.
func (r *GormRepo) CancelOrder(ctx context.Context, order *models.Order, from, reason string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Updates(map[string]interface{}{
				"status":              models.OrderStatusCancelled,
				"cancelled_at":        now,
				"cancellation_reason": reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		if order.VoucherID != nil {
			return releaseVoucherTx(tx, *order.VoucherID, order.ID)
		}
		return nil
	})
}

func (r *GormRepo) UpdatePaymentStatus(ctx context.Context, orderID uint, status string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("payment_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
