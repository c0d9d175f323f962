package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minhtri-dev/coffeeshop/internal/models"
	"github.com/minhtri-dev/coffeeshop/internal/pricing"
	"github.com/minhtri-dev/coffeeshop/internal/repo"
	"gorm.io/gorm"
)

type VoucherService struct {
	Repo *repo.GormRepo
}

// Validate runs the applicability checks in a fixed order and returns the
// voucher with its computed discount. The first failing check wins.
//
// Counter checks here read without locks: they give the user an early answer
// but the binding check-then-increment happens inside the checkout
// transaction with the voucher row locked.
func (s *VoucherService) Validate(ctx context.Context, code string, userID uint, subtotal int64, products []models.Product) (*models.Voucher, int64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, 0, fmt.Errorf("%w: voucher code required", ErrValidation)
	}

	voucher, err := s.Repo.GetVoucherByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, fmt.Errorf("%w: %s", ErrVoucherNotFound, code)
	}
	if err != nil {
		return nil, 0, err
	}
	if !voucher.IsActive {
		return nil, 0, fmt.Errorf("%w: %s", ErrVoucherNotFound, code)
	}

	now := time.Now().UTC()
	if voucher.StartDate != nil && now.Before(*voucher.StartDate) {
		return nil, 0, fmt.Errorf("%w: %s starts %s", ErrVoucherNotYetActive, code, voucher.StartDate.Format(time.RFC3339))
	}
	if voucher.EndDate != nil && now.After(*voucher.EndDate) {
		return nil, 0, fmt.Errorf("%w: %s ended %s", ErrVoucherExpired, code, voucher.EndDate.Format(time.RFC3339))
	}

	if subtotal < voucher.MinOrderAmount {
		return nil, 0, fmt.Errorf("%w: %s requires at least %d", ErrMinimumNotMet, code, voucher.MinOrderAmount)
	}

	if !scopeMatches(voucher, products) {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotApplicable, code)
	}

	if voucher.UsageLimit != nil && voucher.CurrentUsage >= *voucher.UsageLimit {
		return nil, 0, fmt.Errorf("%w: %s", ErrUsageLimitReached, code)
	}

	used, err := s.Repo.CountUserRedemptions(ctx, voucher.ID, userID)
	if err != nil {
		return nil, 0, err
	}
	if used >= int64(voucher.UsagePerUser) {
		return nil, 0, fmt.Errorf("%w: %s", ErrPerUserLimitReached, code)
	}

	discount := pricing.Discount(subtotal, voucher.DiscountType, voucher.DiscountValue, voucher.MaxDiscountAmount)
	return voucher, discount, nil
}

// scopeMatches checks the applicable_to restriction: an "all" voucher always
// matches, a restricted one needs at least one cart product in scope.
func scopeMatches(voucher *models.Voucher, products []models.Product) bool {
	if voucher.ApplicableTo == "" || voucher.ApplicableTo == "all" || len(voucher.Scopes) == 0 {
		return true
	}
	for _, scope := range voucher.Scopes {
		for _, p := range products {
			if scope.ProductID != nil && *scope.ProductID == p.ID {
				return true
			}
			if scope.CategoryID != nil && *scope.CategoryID == p.CategoryID {
				return true
			}
		}
	}
	return false
}
