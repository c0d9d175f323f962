package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/minhtri-dev/coffeeshop/internal/config"
	"github.com/minhtri-dev/coffeeshop/internal/models"
	"github.com/minhtri-dev/coffeeshop/internal/repo"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	T        *testing.T
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Cart     *CartService
	Vouchers *VoucherService
	Loyalty  *LoyaltyService
	Orders   *OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	// One connection so every session sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	gormRepo := &repo.GormRepo{DB: db}
	vouchers := &VoucherService{Repo: gormRepo}
	cart := &CartService{Repo: gormRepo, Vouchers: vouchers}

	env := &testEnv{
		T:        t,
		DB:       db,
		Repo:     gormRepo,
		Cart:     cart,
		Vouchers: vouchers,
		Loyalty:  &LoyaltyService{Repo: gormRepo},
		Orders:   &OrderService{Repo: gormRepo, Vouchers: vouchers, Cart: cart},
	}

	t.Cleanup(func() { sqlDB.Close() })
	return env
}

func (env *testEnv) seedProduct(name string, basePrice int64, available bool) *models.Product {
	env.T.Helper()
	product := &models.Product{
		CategoryID:  1,
		Name:        name,
		BasePrice:   basePrice,
		IsAvailable: available,
	}
	require.NoError(env.T, env.DB.Create(product).Error)
	for size, adj := range map[string]int64{"S": -5000, "M": 0, "L": 10000} {
		require.NoError(env.T, env.DB.Create(&models.ProductSize{
			ProductID: product.ID, Size: size, PriceAdjustment: adj,
		}).Error)
	}
	return product
}

func (env *testEnv) seedTopping(name string, price int64, available bool) *models.Topping {
	env.T.Helper()
	topping := &models.Topping{Name: name, Price: price, IsAvailable: available}
	require.NoError(env.T, env.DB.Create(topping).Error)
	return topping
}

func (env *testEnv) seedStore(name string, active bool) *models.Store {
	env.T.Helper()
	store := &models.Store{Name: name, Address: "12 Nguyen Hue", IsActive: active}
	require.NoError(env.T, env.DB.Create(store).Error)
	return store
}

func (env *testEnv) seedVoucher(v *models.Voucher) *models.Voucher {
	env.T.Helper()
	if v.DiscountType == "" {
		v.DiscountType = models.DiscountTypeFixed
	}
	if v.UsagePerUser == 0 {
		v.UsagePerUser = 1
	}
	v.IsActive = true
	require.NoError(env.T, env.DB.Create(v).Error)
	return v
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func timePtr(v time.Time) *time.Time { return &v }
