package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minhtri-dev/coffeeshop/internal/models"
	"github.com/minhtri-dev/coffeeshop/internal/pricing"
	"github.com/minhtri-dev/coffeeshop/internal/repo"
	"github.com/minhtri-dev/coffeeshop/internal/transport"
	"gorm.io/gorm"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Vouchers *VoucherService
	Cart     *CartService
}

// Checkout turns the user's cart into an immutable priced order. Every line
// is re-priced against the current catalog; the voucher reservation commits
// in the same transaction as the order. A storage conflict is retried once
// before surfacing as ErrConcurrentModification.
func (s *OrderService) Checkout(ctx context.Context, userID uint, req transport.CheckoutRequest) (*models.Order, error) {
	if err := s.validateFulfillment(ctx, req); err != nil {
		return nil, err
	}

	order, err := s.tryCheckout(ctx, userID, req)
	if errors.Is(err, ErrConcurrentModification) {
		order, err = s.tryCheckout(ctx, userID, req)
	}
	return order, err
}

func (s *OrderService) tryCheckout(ctx context.Context, userID uint, req transport.CheckoutRequest) (*models.Order, error) {
	cartItems, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	var (
		subtotal   int64
		orderItems []models.OrderItem
		products   []models.Product
	)
	for i, item := range cartItems {
		orderItem, product, err := s.snapshotLine(ctx, i, &item)
		if err != nil {
			return nil, err
		}
		subtotal += orderItem.Subtotal
		orderItems = append(orderItems, *orderItem)
		products = append(products, *product)
	}

	voucherCode := strings.TrimSpace(req.VoucherCode)
	if voucherCode == "" {
		if cv, err := s.Repo.GetCartVoucher(ctx, userID); err == nil {
			voucherCode = cv.Code
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var (
		voucherID *uint
		discount  int64
	)
	if voucherCode != "" {
		voucher, d, err := s.Vouchers.Validate(ctx, voucherCode, userID, subtotal, products)
		if err != nil {
			return nil, err
		}
		voucherID = &voucher.ID
		discount = d
	}

	var deliveryFee int64
	if req.OrderType == models.OrderTypeDelivery {
		deliveryFee = pricing.DeliveryFee(pricing.DefaultDeliveryDistanceKM, subtotal)
	}

	now := time.Now().UTC()
	readyAt := pricing.EstimateReadyTime(now, req.OrderType, itemCount(cartItems))
	order := &models.Order{
		OrderNumber:      newOrderNumber(now),
		UserID:           userID,
		StoreID:          req.StoreID,
		OrderType:        req.OrderType,
		Status:           models.OrderStatusPending,
		Subtotal:         subtotal,
		DiscountAmount:   discount,
		DeliveryFee:      deliveryFee,
		Total:            subtotal - discount + deliveryFee,
		VoucherID:        voucherID,
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    models.PaymentStatusPending,
		DeliveryAddress:  req.DeliveryAddress,
		TableNumber:      req.TableNumber,
		Notes:            req.Notes,
		EstimatedReadyAt: &readyAt,
		Items:            orderItems,
	}

	if err := s.Repo.CommitOrder(ctx, order); err != nil {
		switch {
		case errors.Is(err, repo.ErrVoucherLimit):
			return nil, fmt.Errorf("%w: %s", ErrUsageLimitReached, voucherCode)
		case errors.Is(err, repo.ErrVoucherUserLimit):
			return nil, fmt.Errorf("%w: %s", ErrPerUserLimitReached, voucherCode)
		default:
			return nil, err
		}
	}
	return order, nil
}

// snapshotLine freezes one cart line at current catalog prices. Failures name
// the line so the UI can point at it.
func (s *OrderService) snapshotLine(ctx context.Context, index int, item *models.CartItem) (*models.OrderItem, *models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, item.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: line %d, product %d no longer exists", ErrProductUnavailable, index+1, item.ProductID)
	}
	if err != nil {
		return nil, nil, err
	}
	if !product.IsAvailable {
		return nil, nil, fmt.Errorf("%w: line %d, %s", ErrProductUnavailable, index+1, product.Name)
	}

	toppingIDs := make([]uint, 0, len(item.Toppings))
	for _, t := range item.Toppings {
		toppingIDs = append(toppingIDs, t.ToppingID)
	}
	toppings, err := s.Repo.GetToppings(ctx, toppingIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(toppings) != len(toppingIDs) {
		return nil, nil, fmt.Errorf("%w: line %d, topping no longer exists", ErrProductUnavailable, index+1)
	}

	var (
		toppingCost   int64
		toppingPrices []int64
		toppingRows   []models.OrderItemTopping
	)
	for _, t := range toppings {
		if !t.IsAvailable {
			return nil, nil, fmt.Errorf("%w: line %d, topping %s", ErrProductUnavailable, index+1, t.Name)
		}
		toppingCost += t.Price
		toppingPrices = append(toppingPrices, t.Price)
		toppingRows = append(toppingRows, models.OrderItemTopping{
			ToppingID: t.ID,
			Name:      t.Name,
			UnitPrice: t.Price,
		})
	}

	adjustment, err := sizeAdjustmentFor(product, item.Size)
	if err != nil {
		return nil, nil, err
	}
	unitPrice := pricing.UnitPrice(product.BasePrice, adjustment, toppingPrices)
	lineSubtotal, err := pricing.LineSubtotal(unitPrice, item.Quantity)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: line %d", err, index+1)
	}

	return &models.OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Size:        item.Size,
		Quantity:    item.Quantity,
		UnitPrice:   unitPrice,
		SugarLevel:  item.SugarLevel,
		IceLevel:    item.IceLevel,
		Temperature: item.Temperature,
		ToppingCost: toppingCost,
		Subtotal:    lineSubtotal,
		Toppings:    toppingRows,
	}, product, nil
}

func (s *OrderService) validateFulfillment(ctx context.Context, req transport.CheckoutRequest) error {
	switch req.OrderType {
	case models.OrderTypePickup, models.OrderTypeDineIn:
		if req.StoreID == nil {
			return fmt.Errorf("%w: store_id required for %s", ErrValidation, req.OrderType)
		}
		store, err := s.Repo.GetStore(ctx, *req.StoreID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: store %d", ErrNotFound, *req.StoreID)
		}
		if err != nil {
			return err
		}
		if !store.IsActive {
			return fmt.Errorf("%w: store %s is closed", ErrValidation, store.Name)
		}
		if req.OrderType == models.OrderTypeDineIn && (req.TableNumber == nil || *req.TableNumber == "") {
			return fmt.Errorf("%w: table_number required for dine_in", ErrValidation)
		}
	case models.OrderTypeDelivery:
		if req.DeliveryAddress == nil || *req.DeliveryAddress == "" {
			return fmt.Errorf("%w: delivery_address required for delivery", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown order type %q", ErrValidation, req.OrderType)
	}
	if req.PaymentMethod == "" {
		return fmt.Errorf("%w: payment_method required", ErrValidation)
	}
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, limit, offset)
}

// Advance moves an order along the lifecycle. Loyalty points are credited in
// the same transaction that lands the completed status, so completing twice
// cannot double-credit: the second attempt is an illegal transition.
func (s *OrderService) Advance(ctx context.Context, orderID uint, to string) (*models.Order, error) {
	if !models.IsValidStatus(to) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	err := s.tryAdvance(ctx, orderID, to)
	if errors.Is(err, repo.ErrStaleStatus) {
		// Somebody raced us; re-read and try once more.
		err = s.tryAdvance(ctx, orderID, to)
		if errors.Is(err, repo.ErrStaleStatus) {
			err = fmt.Errorf("%w: order %d moving to %s", ErrConcurrentModification, orderID, to)
		}
	}
	if err != nil {
		return nil, err
	}
	return s.Repo.GetOrder(ctx, orderID)
}

func (s *OrderService) tryAdvance(ctx context.Context, orderID uint, to string) error {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return err
	}
	if !models.CanTransition(order.OrderType, order.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, order.Status, to)
	}

	switch to {
	case models.OrderStatusCompleted:
		points := pricing.PointsEarned(order.Total)
		description := fmt.Sprintf("Order %s", order.OrderNumber)
		return s.Repo.CompleteOrder(ctx, order, order.Status, points, description)
	case models.OrderStatusCancelled:
		return s.Repo.CancelOrder(ctx, order, order.Status, "")
	default:
		return s.Repo.UpdateOrderStatus(ctx, orderID, order.Status, to)
	}
}

// Cancel is the customer-facing cancellation: pending/confirmed only,
// releases the voucher reservation, grants no points (none existed yet).
func (s *OrderService) Cancel(ctx context.Context, orderID, userID uint, reason string) (*models.Order, error) {
	err := s.tryCancel(ctx, orderID, userID, reason)
	if errors.Is(err, repo.ErrStaleStatus) {
		err = s.tryCancel(ctx, orderID, userID, reason)
		if errors.Is(err, repo.ErrStaleStatus) {
			err = fmt.Errorf("%w: order %d cancel", ErrConcurrentModification, orderID)
		}
	}
	if err != nil {
		return nil, err
	}
	return s.Repo.GetOrder(ctx, orderID)
}

func (s *OrderService) tryCancel(ctx context.Context, orderID, userID uint, reason string) error {
	order, err := s.GetOrder(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		return fmt.Errorf("%w: %s -> cancelled", ErrInvalidStateTransition, order.Status)
	}
	return s.Repo.CancelOrder(ctx, order, order.Status, reason)
}

// Reorder refills the cart from an old order at current catalog prices. The
// archived snapshot is never copied; products or toppings that have since
// gone are skipped and reported back by name.
func (s *OrderService) Reorder(ctx context.Context, orderID, userID uint) (*transport.ReorderResponse, error) {
	order, err := s.GetOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	var skipped []string
	for _, item := range order.Items {
		toppingIDs := make([]uint, 0, len(item.Toppings))
		for _, t := range item.Toppings {
			toppingIDs = append(toppingIDs, t.ToppingID)
		}
		_, err := s.Cart.AddItem(ctx, userID, AddItemInput{
			ProductID:   item.ProductID,
			Size:        item.Size,
			Quantity:    item.Quantity,
			SugarLevel:  item.SugarLevel,
			IceLevel:    item.IceLevel,
			Temperature: item.Temperature,
			ToppingIDs:  toppingIDs,
		})
		switch {
		case errors.Is(err, ErrProductUnavailable), errors.Is(err, ErrNotFound):
			skipped = append(skipped, item.ProductName)
		case err != nil:
			return nil, err
		}
	}

	view, err := s.Cart.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &transport.ReorderResponse{SkippedProducts: skipped, Cart: *view}, nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uint, status string) error {
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed, models.PaymentStatusRefunded:
	default:
		return fmt.Errorf("%w: unknown payment status %q", ErrValidation, status)
	}
	err := s.Repo.UpdatePaymentStatus(ctx, orderID, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	return err
}

func itemCount(items []models.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// newOrderNumber builds ORD-YYYYMMDD-XXXXXX with a random suffix.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
