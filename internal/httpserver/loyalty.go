package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/minhtri-dev/coffeeshop/internal/service"
	"github.com/minhtri-dev/coffeeshop/internal/transport"
)

type LoyaltyHTTP struct {
	Svc *service.LoyaltyService
}

func (h *LoyaltyHTTP) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	summary, err := h.Svc.Summary(ctx, userID)
	if err != nil {
		return writeDomainError(c, "loyalty.summary", err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *LoyaltyHTTP) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	txns, err := h.Svc.History(ctx, userID, limit)
	if err != nil {
		return writeDomainError(c, "loyalty.history", err)
	}
	return c.JSON(http.StatusOK, txns)
}

func (h *LoyaltyHTTP) Redeem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.RedeemPointsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Redeem(ctx, userID, req.Points, req.Description); err != nil {
		return writeDomainError(c, "loyalty.redeem", err)
	}

	summary, err := h.Svc.Summary(ctx, userID)
	if err != nil {
		return writeDomainError(c, "loyalty.redeem", err)
	}
	return c.JSON(http.StatusOK, summary)
}
