package repo

import (
	"context"

	"github.com/minhtri-dev/coffeeshop/internal/models"
	"github.com/minhtri-dev/coffeeshop/internal/pricing"
	"gorm.io/gorm"
)

func (r *GormRepo) GetLoyaltyAccount(ctx context.Context, userID uint) (*models.LoyaltyAccount, error) {
	account := models.LoyaltyAccount{UserID: userID, Tier: pricing.TierBronze}
	err := r.DB.WithContext(ctx).
		Where(models.LoyaltyAccount{UserID: userID}).
		FirstOrCreate(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *GormRepo) ListLoyaltyTransactions(ctx context.Context, userID uint, limit int) ([]models.LoyaltyTransaction, error) {
	var txns []models.LoyaltyTransaction
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// RedeemPoints debits the account and appends the ledger row in one
// transaction. Fails whole with ErrInsufficientPts; no partial redemption.
func (r *GormRepo) RedeemPoints(ctx context.Context, userID uint, points int64, description string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account := models.LoyaltyAccount{UserID: userID, Tier: pricing.TierBronze}
		err := forUpdate(tx).
			Where(models.LoyaltyAccount{UserID: userID}).
			FirstOrCreate(&account).Error
		if err != nil {
			return err
		}
		if account.Balance < points {
			return ErrInsufficientPts
		}

		err = tx.Model(&models.LoyaltyAccount{}).
			Where("user_id = ?", userID).
			Update("balance", gorm.Expr("balance - ?", points)).Error
		if err != nil {
			return err
		}

		txn := models.LoyaltyTransaction{
			UserID:      userID,
			Points:      -points,
			Kind:        models.LoyaltyKindRedeem,
			Description: description,
		}
		return tx.Create(&txn).Error
	})
}

// earnPointsTx credits the account, recomputes the tier from lifetime earned
// and appends the ledger row. Runs inside the caller's transaction so the
// credit commits together with the order state change that caused it.
func earnPointsTx(tx *gorm.DB, userID uint, points int64, orderID uint, description string) error {
	account := models.LoyaltyAccount{UserID: userID, Tier: pricing.TierBronze}
	err := forUpdate(tx).
		Where(models.LoyaltyAccount{UserID: userID}).
		FirstOrCreate(&account).Error
	if err != nil {
		return err
	}

	lifetime := account.LifetimeEarned + points
	err = tx.Model(&models.LoyaltyAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":         gorm.Expr("balance + ?", points),
			"lifetime_earned": lifetime,
			"tier":            pricing.TierFor(lifetime),
		}).Error
	if err != nil {
		return err
	}

	txn := models.LoyaltyTransaction{
		UserID:      userID,
		Points:      points,
		Kind:        models.LoyaltyKindEarn,
		Description: description,
		OrderID:     &orderID,
	}
	return tx.Create(&txn).Error
}
