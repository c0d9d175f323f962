package service

import (
	"context"
	"testing"
	"time"

	"github.com/minhtri-dev/coffeeshop/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateVoucher_RejectionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	products := []models.Product{{ID: 1, CategoryID: 1}}

	now := time.Now().UTC()

	env.seedVoucher(&models.Voucher{
		Code: "FUTURE", DiscountType: models.DiscountTypeFixed, DiscountValue: 5000,
		StartDate: timePtr(now.Add(24 * time.Hour)),
	})
	env.seedVoucher(&models.Voucher{
		Code: "EXPIRED", DiscountType: models.DiscountTypeFixed, DiscountValue: 5000,
		EndDate: timePtr(now.Add(-24 * time.Hour)),
	})
	env.seedVoucher(&models.Voucher{
		Code: "BIGSPEND", DiscountType: models.DiscountTypeFixed, DiscountValue: 5000,
		MinOrderAmount: 100000,
	})
	env.seedVoucher(&models.Voucher{
		Code: "MAXEDOUT", DiscountType: models.DiscountTypeFixed, DiscountValue: 5000,
		UsageLimit: intPtr(10), CurrentUsage: 10,
	})
	inactive := env.seedVoucher(&models.Voucher{
		Code: "RETIRED", DiscountType: models.DiscountTypeFixed, DiscountValue: 5000,
	})
	require.NoError(t, env.DB.Model(inactive).Update("is_active", false).Error)

	tests := []struct {
		name string
		code string
		want error
	}{
		{"unknown code", "NOPE", ErrVoucherNotFound},
		{"inactive reads as not found", "RETIRED", ErrVoucherNotFound},
		{"not yet active", "FUTURE", ErrVoucherNotYetActive},
		{"expired", "EXPIRED", ErrVoucherExpired},
		{"minimum not met", "BIGSPEND", ErrMinimumNotMet},
		{"global limit", "MAXEDOUT", ErrUsageLimitReached},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.Vouchers.Validate(ctx, tt.code, 1, 50000, products)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateVoucher_CaseInsensitiveCode(t *testing.T) {
	env := newTestEnv(t)
	env.seedVoucher(&models.Voucher{Code: "SUMMER25", DiscountType: models.DiscountTypeFixed, DiscountValue: 5000})

	voucher, discount, err := env.Vouchers.Validate(context.Background(), "  summer25 ", 1, 50000, nil)
	require.NoError(t, err)
	assert.Equal(t, "SUMMER25", voucher.Code)
	assert.Equal(t, int64(5000), discount)
}

func TestValidateVoucher_PercentageCap(t *testing.T) {
	env := newTestEnv(t)
	env.seedVoucher(&models.Voucher{
		Code: "TENOFF", DiscountType: models.DiscountTypePercentage, DiscountValue: 10,
		MaxDiscountAmount: int64Ptr(10000),
	})

	_, discount, err := env.Vouchers.Validate(context.Background(), "TENOFF", 1, 200000, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), discount, "10%% of 200000 capped at 10000")
}

func TestValidateVoucher_ScopeRestriction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	voucher := env.seedVoucher(&models.Voucher{
		Code: "COFFEEONLY", DiscountType: models.DiscountTypeFixed, DiscountValue: 5000,
		ApplicableTo: "category",
	})
	coffeeCategory := uint(3)
	require.NoError(t, env.DB.Create(&models.VoucherScope{VoucherID: voucher.ID, CategoryID: &coffeeCategory}).Error)

	teaCart := []models.Product{{ID: 9, CategoryID: 7}}
	_, _, err := env.Vouchers.Validate(ctx, "COFFEEONLY", 1, 50000, teaCart)
	assert.ErrorIs(t, err, ErrNotApplicable)

	mixedCart := []models.Product{{ID: 9, CategoryID: 7}, {ID: 4, CategoryID: 3}}
	_, discount, err := env.Vouchers.Validate(ctx, "COFFEEONLY", 1, 50000, mixedCart)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), discount)
}

func TestValidateVoucher_PerUserLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	voucher := env.seedVoucher(&models.Voucher{
		Code: "ONEEACH", DiscountType: models.DiscountTypeFixed, DiscountValue: 5000,
		UsagePerUser: 1,
	})
	require.NoError(t, env.DB.Create(&models.VoucherRedemption{
		VoucherID: voucher.ID, UserID: 1, OrderID: 100, DiscountAmount: 5000,
	}).Error)

	_, _, err := env.Vouchers.Validate(ctx, "ONEEACH", 1, 50000, nil)
	assert.ErrorIs(t, err, ErrPerUserLimitReached)

	// a different user is unaffected
	_, _, err = env.Vouchers.Validate(ctx, "ONEEACH", 2, 50000, nil)
	assert.NoError(t, err)
}

func TestValidateVoucher_VoidedRedemptionsDoNotCount(t *testing.T) {
	env := newTestEnv(t)

	voucher := env.seedVoucher(&models.Voucher{
		Code: "ONEEACH", DiscountType: models.DiscountTypeFixed, DiscountValue: 5000,
		UsagePerUser: 1,
	})
	require.NoError(t, env.DB.Create(&models.VoucherRedemption{
		VoucherID: voucher.ID, UserID: 1, OrderID: 100, DiscountAmount: 5000, Voided: true,
	}).Error)

	_, _, err := env.Vouchers.Validate(context.Background(), "ONEEACH", 1, 50000, nil)
	assert.NoError(t, err, "cancelled order frees the slot")
}
