package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/minhtri-dev/coffeeshop/internal/logging"
	"github.com/minhtri-dev/coffeeshop/internal/mykafka"
	"github.com/minhtri-dev/coffeeshop/internal/service"
)

// getUserID pulls the authenticated user id set by the jwt middleware.
func getUserID(c echo.Context) (uint, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return 0, errors.New("unauthorized")
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.New("unauthorized")
	}
	return uint(id), nil
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// writeDomainError maps service sentinels onto HTTP codes. The error message
// carries enough context (line index, voucher code, target status) for the
// client to explain the failure.
func writeDomainError(c echo.Context, op string, err error) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", op)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrVoucherNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrVoucherExpired),
		errors.Is(err, service.ErrVoucherNotYetActive),
		errors.Is(err, service.ErrMinimumNotMet),
		errors.Is(err, service.ErrNotApplicable):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrUsageLimitReached),
		errors.Is(err, service.ErrPerUserLimitReached),
		errors.Is(err, service.ErrInsufficientPoints),
		errors.Is(err, service.ErrInvalidStateTransition),
		errors.Is(err, service.ErrConcurrentModification):
		status = http.StatusConflict
	}

	if status >= 500 {
		l.Error(op+"_error", "status", status, "error", err)
		return c.JSON(status, map[string]string{"error": "internal error"})
	}
	l.Warn(op+"_error", "status", status, "error", err)
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// publish is fire and forget; a broker outage never fails a request.
func publish(ctx context.Context, producer *mykafka.Producer, topic, key string, event interface{}) {
	if producer == nil {
		return
	}
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "error", err)
	}
}
