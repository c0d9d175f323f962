package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/minhtri-dev/coffeeshop/internal/logging"
	"github.com/minhtri-dev/coffeeshop/internal/mykafka"
	"github.com/minhtri-dev/coffeeshop/internal/service"
	"github.com/minhtri-dev/coffeeshop/internal/transport"
)

const cartEventsTopic = "cart_events"

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return writeDomainError(c, "cart.get", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_add_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	in := service.AddItemInput{
		ProductID:   req.ProductID,
		Size:        req.Size,
		Quantity:    req.Quantity,
		SugarLevel:  50,
		IceLevel:    50,
		Temperature: req.Temperature,
		ToppingIDs:  req.ToppingIDs,
	}
	if req.SugarLevel != nil {
		in.SugarLevel = *req.SugarLevel
	}
	if req.IceLevel != nil {
		in.IceLevel = *req.IceLevel
	}
	if in.Temperature == "" {
		in.Temperature = "cold"
	}

	item, err := h.Svc.AddItem(ctx, userID, in)
	if err != nil {
		return writeDomainError(c, "cart.add", err)
	}

	publish(ctx, h.Producer, cartEventsTopic, strconv.FormatUint(uint64(userID), 10), map[string]interface{}{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
	l.Info("cart_item_added", "product_id", item.ProductID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateItem(ctx, userID, itemID, req)
	if err != nil {
		return writeDomainError(c, "cart.update", err)
	}
	if item == nil {
		// Quantity dropped to zero, line removed.
		return c.JSON(http.StatusOK, map[string]interface{}{"deleted_item": itemID})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.RemoveItem(ctx, userID, itemID); err != nil {
		return writeDomainError(c, "cart.remove", err)
	}

	publish(ctx, h.Producer, cartEventsTopic, strconv.FormatUint(uint64(userID), 10), map[string]interface{}{
		"type":    "cart_item_removed",
		"user_id": userID,
		"item_id": itemID,
	})
	return c.JSON(http.StatusOK, map[string]interface{}{"deleted_item": itemID})
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		return writeDomainError(c, "cart.clear", err)
	}

	l.Info("cart_cleared")
	return c.JSON(http.StatusOK, "cart successfully cleared")
}

func (h *CartHTTP) ApplyVoucher(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.ApplyVoucherRequest
	if err := c.Bind(&req); err != nil || req.Code == "" {
		return c.JSON(http.StatusBadRequest, "voucher code required")
	}

	view, err := h.Svc.ApplyVoucher(ctx, userID, req.Code)
	if err != nil {
		return writeDomainError(c, "cart.apply_voucher", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) RemoveVoucher(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.RemoveVoucher(ctx, userID); err != nil {
		return writeDomainError(c, "cart.remove_voucher", err)
	}
	return c.JSON(http.StatusOK, "voucher removed")
}
