package models

// Order status lifecycle:
//
//	pending -> confirmed -> preparing -> ready -> (delivering ->) completed
//
// cancelled is reachable from pending and confirmed only.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusPreparing  = "preparing"
	OrderStatusReady      = "ready"
	OrderStatusDelivering = "delivering"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	OrderTypePickup   = "pickup"
	OrderTypeDelivery = "delivery"
	OrderTypeDineIn   = "dine_in"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

const (
	LoyaltyKindEarn   = "earn"
	LoyaltyKindRedeem = "redeem"
	LoyaltyKindExpire = "expire"
	LoyaltyKindAdjust = "adjust"
)

var statusTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:  {OrderStatusReady},
	OrderStatusReady:      {OrderStatusDelivering, OrderStatusCompleted},
	OrderStatusDelivering: {OrderStatusCompleted},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// CanTransition reports whether an order of the given type may move from one
// status to another. ready -> delivering is delivery-only; ready -> completed
// is everything else.
func CanTransition(orderType, from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next != to {
			continue
		}
		if from == OrderStatusReady {
			if to == OrderStatusDelivering && orderType != OrderTypeDelivery {
				return false
			}
			if to == OrderStatusCompleted && orderType == OrderTypeDelivery {
				return false
			}
		}
		return true
	}
	return false
}

// IsTerminalStatus reports whether no further transition is possible.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

func IsValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}
