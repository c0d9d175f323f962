package repo

import (
	"context"

	"github.com/minhtri-dev/coffeeshop/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).
		Preload("Toppings").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, id, userID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).
		Preload("Toppings").
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddItem merges into an existing line when the whole customization tuple
// (product, size, sugar, ice, temperature, topping set) matches, otherwise
// inserts a new line with its topping rows.
func (r *GormRepo) AddItem(ctx context.Context, item *models.CartItem, toppingIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []models.CartItem
		err := forUpdate(tx).
			Preload("Toppings").
			Where("user_id = ? AND product_id = ? AND size = ? AND sugar_level = ? AND ice_level = ? AND temperature = ?",
				item.UserID, item.ProductID, item.Size, item.SugarLevel, item.IceLevel, item.Temperature).
			Find(&candidates).Error
		if err != nil {
			return err
		}

		for i := range candidates {
			if !sameToppingSet(candidates[i].Toppings, toppingIDs) {
				continue
			}
			err := tx.Model(&models.CartItem{}).
				Where("id = ?", candidates[i].ID).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
			return tx.Preload("Toppings").First(item, candidates[i].ID).Error
		}

		if err := tx.Create(item).Error; err != nil {
			return err
		}
		for _, tid := range toppingIDs {
			row := models.CartItemTopping{CartItemID: item.ID, ToppingID: tid}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Toppings").First(item, item.ID).Error
	})
}

// UpdateItem is last-writer-wins for one line. toppingIDs == nil leaves the
// topping set alone; an empty slice clears it.
func (r *GormRepo) UpdateItem(ctx context.Context, item *models.CartItem, toppingIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"size":        item.Size,
			"quantity":    item.Quantity,
			"sugar_level": item.SugarLevel,
			"ice_level":   item.IceLevel,
			"temperature": item.Temperature,
		}
		res := tx.Model(&models.CartItem{}).
			Where("id = ? AND user_id = ?", item.ID, item.UserID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if toppingIDs != nil {
			if err := tx.Where("cart_item_id = ?", item.ID).Delete(&models.CartItemTopping{}).Error; err != nil {
				return err
			}
			for _, tid := range toppingIDs {
				row := models.CartItemTopping{CartItemID: item.ID, ToppingID: tid}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return tx.Preload("Toppings").First(item, item.ID).Error
	})
}

func (r *GormRepo) RemoveItem(ctx context.Context, id, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("cart_item_id = ?", id).Delete(&models.CartItemTopping{}).Error
	})
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return clearCartTx(tx, userID)
	})
}

// clearCartTx is shared with the checkout transaction.
func clearCartTx(tx *gorm.DB, userID uint) error {
	err := tx.Where("cart_item_id IN (?)",
		tx.Model(&models.CartItem{}).Select("id").Where("user_id = ?", userID),
	).Delete(&models.CartItemTopping{}).Error
	if err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", userID).Delete(&models.CartVoucher{}).Error
}

func (r *GormRepo) SetCartVoucher(ctx context.Context, userID uint, code string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartVoucher{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.CartVoucher{UserID: userID, Code: code}).Error
	})
}

func (r *GormRepo) GetCartVoucher(ctx context.Context, userID uint) (*models.CartVoucher, error) {
	var cv models.CartVoucher
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cv).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *GormRepo) ClearCartVoucher(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartVoucher{}).Error
}

func sameToppingSet(rows []models.CartItemTopping, ids []uint) bool {
	if len(rows) != len(ids) {
		return false
	}
	have := make(map[uint]bool, len(rows))
	for _, row := range rows {
		have[row.ToppingID] = true
	}
	for _, id := range ids {
		if !have[id] {
			return false
		}
	}
	return true
}
