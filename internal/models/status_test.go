package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		orderType string
		from, to  string
		want      bool
	}{
		{OrderTypePickup, OrderStatusPending, OrderStatusConfirmed, true},
		{OrderTypePickup, OrderStatusPending, OrderStatusCancelled, true},
		{OrderTypePickup, OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderTypePickup, OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderTypePickup, OrderStatusPreparing, OrderStatusReady, true},
		{OrderTypePickup, OrderStatusReady, OrderStatusCompleted, true},
		{OrderTypeDelivery, OrderStatusReady, OrderStatusDelivering, true},
		{OrderTypeDelivery, OrderStatusDelivering, OrderStatusCompleted, true},

		// delivery must pass through delivering, others must not
		{OrderTypeDelivery, OrderStatusReady, OrderStatusCompleted, false},
		{OrderTypePickup, OrderStatusReady, OrderStatusDelivering, false},
		{OrderTypeDineIn, OrderStatusReady, OrderStatusDelivering, false},

		// cancellation window closes after confirmed
		{OrderTypePickup, OrderStatusPreparing, OrderStatusCancelled, false},
		{OrderTypePickup, OrderStatusReady, OrderStatusCancelled, false},

		// terminal states
		{OrderTypePickup, OrderStatusCompleted, OrderStatusPending, false},
		{OrderTypePickup, OrderStatusCompleted, OrderStatusCompleted, false},
		{OrderTypePickup, OrderStatusCancelled, OrderStatusPending, false},

		// no skipping
		{OrderTypePickup, OrderStatusPending, OrderStatusReady, false},
		{OrderTypePickup, OrderStatusConfirmed, OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		got := CanTransition(tt.orderType, tt.from, tt.to)
		assert.Equal(t, tt.want, got, "%s: %s -> %s", tt.orderType, tt.from, tt.to)
	}
}

func TestIsTerminalStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTerminalStatus(OrderStatusCompleted))
	assert.True(t, IsTerminalStatus(OrderStatusCancelled))
	assert.False(t, IsTerminalStatus(OrderStatusPending))
	assert.False(t, IsTerminalStatus(OrderStatusDelivering))
}
