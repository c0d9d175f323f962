// Package pricing holds the pure money math: line totals, discounts,
// delivery fees, loyalty points and membership tiers. Nothing here touches
// the database; callers pass in the current catalog prices.
package pricing

import (
	"errors"
	"time"
)

var ErrInvalidQuantity = errors.New("invalid quantity")

const (
	// 1 loyalty point per 100 VND of order total.
	pointsPerVND = 100

	SilverThreshold = 1000
	GoldThreshold   = 5000

	TierBronze = "Bronze"
	TierSilver = "Silver"
	TierGold   = "Gold"

	freeShippingThreshold = 200000
	baseDeliveryFee       = 20000

	// Distance the checkout path assumes until real geocoding lands.
	DefaultDeliveryDistanceKM = 5
)

// UnitPrice is the per-cup price: base price adjusted for size plus the
// selected toppings at their current prices.
func UnitPrice(basePrice, sizeAdjustment int64, toppingPrices []int64) int64 {
	price := basePrice + sizeAdjustment
	for _, p := range toppingPrices {
		price += p
	}
	return price
}

// LineSubtotal multiplies the unit price by quantity. Quantity must be a
// positive integer.
func LineSubtotal(unitPrice int64, quantity int) (int64, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	return unitPrice * int64(quantity), nil
}

// Discount computes the voucher discount for a subtotal. Percentage discounts
// are capped at maxDiscount when set; the result never exceeds the subtotal
// and is never negative.
func Discount(subtotal int64, discountType string, value int64, maxDiscount *int64) int64 {
	var discount int64
	switch discountType {
	case "percentage":
		discount = subtotal * value / 100
		if maxDiscount != nil && discount > *maxDiscount {
			discount = *maxDiscount
		}
	default: // fixed
		discount = value
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// DeliveryFee is free above the threshold, otherwise a base fee plus a
// distance surcharge.
func DeliveryFee(distanceKM float64, subtotal int64) int64 {
	if subtotal >= freeShippingThreshold {
		return 0
	}
	switch {
	case distanceKM <= 3:
		return baseDeliveryFee
	case distanceKM <= 5:
		return baseDeliveryFee + 10000
	case distanceKM <= 10:
		return baseDeliveryFee + 20000
	default:
		return baseDeliveryFee + 30000
	}
}

// PointsEarned converts an order total into loyalty points, rounding down.
func PointsEarned(total int64) int64 {
	if total < 0 {
		return 0
	}
	return total / pointsPerVND
}

// TierFor derives the membership tier from cumulative lifetime points.
func TierFor(lifetimePoints int64) string {
	switch {
	case lifetimePoints >= GoldThreshold:
		return TierGold
	case lifetimePoints >= SilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// PointsToNextTier returns how many lifetime points are missing until the
// next tier, 0 at Gold.
func PointsToNextTier(lifetimePoints int64) int64 {
	switch {
	case lifetimePoints >= GoldThreshold:
		return 0
	case lifetimePoints >= SilverThreshold:
		return GoldThreshold - lifetimePoints
	default:
		return SilverThreshold - lifetimePoints
	}
}

// EstimateReadyTime projects when the order will be ready: a base prep time
// plus a per-item surcharge, adjusted for the fulfillment type.
func EstimateReadyTime(now time.Time, orderType string, itemCount int) time.Time {
	minutes := 15 + itemCount*3
	switch orderType {
	case "delivery":
		minutes += 30
	case "pickup":
		minutes += 5
	}
	return now.Add(time.Duration(minutes) * time.Minute)
}
