package repo

import (
	"context"

	"github.com/minhtri-dev/coffeeshop/internal/models"
)

// Catalog reads. The menu itself is maintained elsewhere; we only need
// current prices and availability.

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Sizes").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.DB.WithContext(ctx).Preload("Sizes").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) GetToppings(ctx context.Context, ids []uint) ([]models.Topping, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var toppings []models.Topping
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&toppings).Error; err != nil {
		return nil, err
	}
	return toppings, nil
}

func (r *GormRepo) GetStore(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := r.DB.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}
