package repo

import (
	"context"

	"github.com/minhtri-dev/coffeeshop/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) GetVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.DB.WithContext(ctx).
		Preload("Scopes").
		Where("code = ?", code).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// CountUserRedemptions counts committed, non-voided redemptions of one
// voucher by one user.
func (r *GormRepo) CountUserRedemptions(ctx context.Context, voucherID, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.VoucherRedemption{}).
		Where("voucher_id = ? AND user_id = ? AND voided = ?", voucherID, userID, false).
		Count(&count).Error
	return count, err
}

// reserveVoucherTx performs the authoritative check-then-increment with the
// voucher row locked. Called only from the checkout transaction; the earlier
// service-level validation is advisory and racy by design.
func reserveVoucherTx(tx *gorm.DB, voucherID, userID uint) error {
	var voucher models.Voucher
	if err := forUpdate(tx).First(&voucher, voucherID).Error; err != nil {
		return err
	}
	if voucher.UsageLimit != nil && voucher.CurrentUsage >= *voucher.UsageLimit {
		return ErrVoucherLimit
	}

	var used int64
	err := tx.Model(&models.VoucherRedemption{}).
		Where("voucher_id = ? AND user_id = ? AND voided = ?", voucherID, userID, false).
		Count(&used).Error
	if err != nil {
		return err
	}
	if used >= int64(voucher.UsagePerUser) {
		return ErrVoucherUserLimit
	}

	return tx.Model(&models.Voucher{}).
		Where("id = ?", voucherID).
		Update("current_usage", gorm.Expr("current_usage + 1")).Error
}

// releaseVoucherTx undoes a reservation on cancellation: the counter goes
// back down, the audit rows stay but are marked void.
func releaseVoucherTx(tx *gorm.DB, voucherID, orderID uint) error {
	err := tx.Model(&models.Voucher{}).
		Where("id = ? AND current_usage > 0", voucherID).
		Update("current_usage", gorm.Expr("current_usage - 1")).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.VoucherRedemption{}).
		Where("voucher_id = ? AND order_id = ?", voucherID, orderID).
		Update("voided", true).Error
}
