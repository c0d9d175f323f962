package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/minhtri-dev/coffeeshop/internal/logging"
	"github.com/minhtri-dev/coffeeshop/internal/mykafka"
	"github.com/minhtri-dev/coffeeshop/internal/service"
	"github.com/minhtri-dev/coffeeshop/internal/transport"
	"github.com/minhtri-dev/coffeeshop/internal/util"
)

const orderEventsTopic = "order_events"

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Checkout(ctx, userID, req)
	if err != nil {
		return writeDomainError(c, "order.checkout", err)
	}

	publish(ctx, h.Producer, orderEventsTopic, order.OrderNumber, map[string]interface{}{
		"type":         "order_created",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total":        order.Total,
	})
	l.Info("order_created", "order_number", order.OrderNumber, "total", order.Total)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	order, err := h.Svc.GetOrder(ctx, orderID, userID)
	if err != nil {
		return writeDomainError(c, "order.get", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.ListOrders(ctx, userID, limit, offset)
	if err != nil {
		return writeDomainError(c, "order.list", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	var req transport.CancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Cancel(ctx, orderID, userID, req.Reason)
	if err != nil {
		return writeDomainError(c, "order.cancel", err)
	}

	publish(ctx, h.Producer, orderEventsTopic, order.OrderNumber, map[string]interface{}{
		"type":         "order_cancelled",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"reason":       req.Reason,
	})
	l.Info("order_cancelled", "order_number", order.OrderNumber)
	return c.JSON(http.StatusOK, order)
}

// AdvanceStatus is the staff/admin path that drives the lifecycle forward.
func (h *OrderHTTP) AdvanceStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.advance_status")

	orderID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	var req transport.AdvanceStatusRequest
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, "status required")
	}

	order, err := h.Svc.Advance(ctx, orderID, req.Status)
	if err != nil {
		return writeDomainError(c, "order.advance_status", err)
	}

	publish(ctx, h.Producer, orderEventsTopic, order.OrderNumber, map[string]interface{}{
		"type":         "order_status_changed",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})
	l.Info("order_status_changed", "order_number", order.OrderNumber, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdatePaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	var req transport.UpdatePaymentStatusRequest
	if err := c.Bind(&req); err != nil || req.PaymentStatus == "" {
		return c.JSON(http.StatusBadRequest, "payment_status required")
	}

	if err := h.Svc.UpdatePaymentStatus(ctx, orderID, req.PaymentStatus); err != nil {
		return writeDomainError(c, "order.update_payment", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"payment_status": req.PaymentStatus})
}

func (h *OrderHTTP) Reorder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	resp, err := h.Svc.Reorder(ctx, orderID, userID)
	if err != nil {
		return writeDomainError(c, "order.reorder", err)
	}
	return c.JSON(http.StatusOK, resp)
}
