package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/minhtri-dev/coffeeshop/internal/config"
	"github.com/minhtri-dev/coffeeshop/internal/models"
	"github.com/minhtri-dev/coffeeshop/internal/repo"
	"github.com/minhtri-dev/coffeeshop/internal/service"
	"github.com/minhtri-dev/coffeeshop/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type handlerEnv struct {
	DB      *gorm.DB
	Cart    *CartHTTP
	Order   *OrderHTTP
	Loyalty *LoyaltyHTTP
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() { sqlDB.Close() })

	gormRepo := &repo.GormRepo{DB: db}
	vouchers := &service.VoucherService{Repo: gormRepo}
	cart := &service.CartService{Repo: gormRepo, Vouchers: vouchers}
	orders := &service.OrderService{Repo: gormRepo, Vouchers: vouchers, Cart: cart}
	loyalty := &service.LoyaltyService{Repo: gormRepo}

	return &handlerEnv{
		DB:      db,
		Cart:    &CartHTTP{Svc: cart},
		Order:   &OrderHTTP{Svc: orders},
		Loyalty: &LoyaltyHTTP{Svc: loyalty},
	}
}

// doRequest builds an echo context the way the jwt middleware would leave it:
// user_id set as the string subject claim.
func doRequest(t *testing.T, method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c, rec
}

func (env *handlerEnv) seedCatalog(t *testing.T) (*models.Product, *models.Store) {
	t.Helper()
	product := &models.Product{CategoryID: 1, Name: "Latte", BasePrice: 45000, IsAvailable: true}
	require.NoError(t, env.DB.Create(product).Error)
	store := &models.Store{Name: "District 1", Address: "12 Nguyen Hue", IsActive: true}
	require.NoError(t, env.DB.Create(store).Error)
	return product, store
}

func TestCartHandlers_AddAndGet(t *testing.T) {
	env := newHandlerEnv(t)
	product, _ := env.seedCatalog(t)

	c, rec := doRequest(t, http.MethodPost, "/cart",
		`{"product_id": 1, "size": "M", "quantity": 2}`, "7")
	require.NoError(t, env.Cart.AddItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 50, item.SugarLevel, "defaulted")
	assert.Equal(t, "cold", item.Temperature, "defaulted")

	c, rec = doRequest(t, http.MethodGet, "/cart", "", "7")
	require.NoError(t, env.Cart.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view transport.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(90000), view.Subtotal)
}

func TestCartHandlers_Unauthorized(t *testing.T) {
	env := newHandlerEnv(t)

	c, rec := doRequest(t, http.MethodGet, "/cart", "", "")
	require.NoError(t, env.Cart.GetCart(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartHandlers_DomainErrorMapping(t *testing.T) {
	env := newHandlerEnv(t)
	env.seedCatalog(t)

	// unknown product -> 404
	c, rec := doRequest(t, http.MethodPost, "/cart",
		`{"product_id": 999, "size": "M", "quantity": 1}`, "7")
	require.NoError(t, env.Cart.AddItem(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// zero quantity -> 400
	c, rec = doRequest(t, http.MethodPost, "/cart",
		`{"product_id": 1, "size": "M", "quantity": 0}`, "7")
	require.NoError(t, env.Cart.AddItem(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown voucher -> 404 with the code in the message
	c, rec = doRequest(t, http.MethodPost, "/cart/voucher", `{"code": "NOPE"}`, "7")
	require.NoError(t, env.Cart.ApplyVoucher(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOPE")
}

func TestOrderHandlers_CheckoutAndAdvance(t *testing.T) {
	env := newHandlerEnv(t)
	env.seedCatalog(t)

	c, rec := doRequest(t, http.MethodPost, "/cart",
		`{"product_id": 1, "size": "M", "quantity": 1}`, "7")
	require.NoError(t, env.Cart.AddItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = doRequest(t, http.MethodPost, "/orders",
		`{"order_type": "pickup", "payment_method": "cash", "store_id": 1}`, "7")
	require.NoError(t, env.Order.Checkout(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(45000), order.Total)

	c, rec = doRequest(t, http.MethodPatch, "/orders/1/status", `{"status": "confirmed"}`, "7")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Order.AdvanceStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// skipping straight to completed is a conflict
	c, rec = doRequest(t, http.MethodPatch, "/orders/1/status", `{"status": "completed"}`, "7")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Order.AdvanceStatus(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoyaltyHandlers_RedeemInsufficient(t *testing.T) {
	env := newHandlerEnv(t)

	c, rec := doRequest(t, http.MethodPost, "/loyalty/redeem", `{"points": 500}`, "7")
	require.NoError(t, env.Loyalty.Redeem(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
