package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/minhtri-dev/coffeeshop/internal/models"
	"github.com/minhtri-dev/coffeeshop/internal/pricing"
	"github.com/minhtri-dev/coffeeshop/internal/repo"
	"github.com/minhtri-dev/coffeeshop/internal/transport"
)

type LoyaltyService struct {
	Repo *repo.GormRepo
}

func (s *LoyaltyService) Summary(ctx context.Context, userID uint) (*transport.LoyaltySummary, error) {
	account, err := s.Repo.GetLoyaltyAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &transport.LoyaltySummary{
		Balance:          account.Balance,
		LifetimeEarned:   account.LifetimeEarned,
		Tier:             account.Tier,
		PointsToNextTier: pricing.PointsToNextTier(account.LifetimeEarned),
	}, nil
}

func (s *LoyaltyService) Balance(ctx context.Context, userID uint) (int64, error) {
	account, err := s.Repo.GetLoyaltyAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (s *LoyaltyService) History(ctx context.Context, userID uint, limit int) ([]models.LoyaltyTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListLoyaltyTransactions(ctx, userID, limit)
}

// Redeem debits points atomically; there is no partial redemption.
func (s *LoyaltyService) Redeem(ctx context.Context, userID uint, points int64, description string) error {
	if points <= 0 {
		return fmt.Errorf("%w: points must be positive", ErrValidation)
	}
	err := s.Repo.RedeemPoints(ctx, userID, points, description)
	if errors.Is(err, repo.ErrInsufficientPts) {
		return fmt.Errorf("%w: requested %d", ErrInsufficientPoints, points)
	}
	return err
}
