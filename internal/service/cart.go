package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/minhtri-dev/coffeeshop/internal/models"
	"github.com/minhtri-dev/coffeeshop/internal/pricing"
	"github.com/minhtri-dev/coffeeshop/internal/repo"
	"github.com/minhtri-dev/coffeeshop/internal/transport"
	"gorm.io/gorm"
)

// Default size offsets for products without explicit size rows.
var defaultSizeAdjustments = map[string]int64{
	"S": -5000,
	"M": 0,
	"L": 10000,
}

type CartService struct {
	Repo     *repo.GormRepo
	Vouchers *VoucherService
}

type AddItemInput struct {
	ProductID   uint
	Size        string
	Quantity    int
	SugarLevel  int
	IceLevel    int
	Temperature string
	ToppingIDs  []uint
}

func (s *CartService) AddItem(ctx context.Context, userID uint, in AddItemInput) (*models.CartItem, error) {
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity %d", ErrInvalidQuantity, in.Quantity)
	}
	if err := validateCustomization(in.Size, in.SugarLevel, in.IceLevel, in.Temperature); err != nil {
		return nil, err
	}

	product, err := s.Repo.GetProduct(ctx, in.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, in.ProductID)
	}
	if err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
	}
	if _, err := sizeAdjustmentFor(product, in.Size); err != nil {
		return nil, err
	}

	toppingIDs := normalizeToppingIDs(in.ToppingIDs)
	if err := s.checkToppings(ctx, toppingIDs); err != nil {
		return nil, err
	}

	item := &models.CartItem{
		UserID:      userID,
		ProductID:   in.ProductID,
		Size:        in.Size,
		Quantity:    in.Quantity,
		SugarLevel:  in.SugarLevel,
		IceLevel:    in.IceLevel,
		Temperature: in.Temperature,
	}
	if err := s.Repo.AddItem(ctx, item, toppingIDs); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies a partial update to one line, last writer wins.
// Quantity zero or below removes the line, matching the desktop client.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, req transport.UpdateCartItemRequest) (*models.CartItem, error) {
	item, err := s.Repo.GetCartItem(ctx, itemID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil && *req.Quantity <= 0 {
		if err := s.Repo.RemoveItem(ctx, itemID, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if req.Size != nil {
		item.Size = *req.Size
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.SugarLevel != nil {
		item.SugarLevel = *req.SugarLevel
	}
	if req.IceLevel != nil {
		item.IceLevel = *req.IceLevel
	}
	if req.Temperature != nil {
		item.Temperature = *req.Temperature
	}
	if err := validateCustomization(item.Size, item.SugarLevel, item.IceLevel, item.Temperature); err != nil {
		return nil, err
	}

	var toppingIDs []uint
	if req.ToppingIDs != nil {
		toppingIDs = normalizeToppingIDs(*req.ToppingIDs)
		if err := s.checkToppings(ctx, toppingIDs); err != nil {
			return nil, err
		}
	}
	if err := s.Repo.UpdateItem(ctx, item, toppingIDs); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	err := s.Repo.RemoveItem(ctx, itemID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
	}
	return err
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.Repo.ClearCart(ctx, userID)
}

// GetCart returns the priced view of the cart at current catalog prices.
// Lines whose product or toppings went unavailable are flagged instead of
// dropped and do not count toward the subtotal.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*transport.CartView, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &transport.CartView{Items: make([]transport.CartLineView, 0, len(items))}
	var products []models.Product

	for _, item := range items {
		line, product, err := s.priceLine(ctx, &item)
		if err != nil {
			return nil, err
		}
		if !line.NeedsAttention {
			view.Subtotal += line.Subtotal
			view.ItemCount += line.Quantity
			if product != nil {
				products = append(products, *product)
			}
		}
		view.Items = append(view.Items, *line)
	}

	if cv, err := s.Repo.GetCartVoucher(ctx, userID); err == nil {
		view.VoucherCode = cv.Code
		// A stale voucher stays visible with zero discount; checkout reports
		// the concrete rejection.
		if _, discount, err := s.Vouchers.Validate(ctx, cv.Code, userID, view.Subtotal, products); err == nil {
			view.Discount = discount
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return view, nil
}

// ApplyVoucher validates the code against the current cart and remembers it
// for checkout. Usage counters move only when an order commits.
func (s *CartService) ApplyVoucher(ctx context.Context, userID uint, code string) (*transport.CartView, error) {
	view, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	products, err := s.cartProducts(ctx, userID)
	if err != nil {
		return nil, err
	}
	voucher, discount, err := s.Vouchers.Validate(ctx, code, userID, view.Subtotal, products)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetCartVoucher(ctx, userID, voucher.Code); err != nil {
		return nil, err
	}

	view.VoucherCode = voucher.Code
	view.Discount = discount
	return view, nil
}

func (s *CartService) RemoveVoucher(ctx context.Context, userID uint) error {
	return s.Repo.ClearCartVoucher(ctx, userID)
}

func (s *CartService) cartProducts(ctx context.Context, userID uint) ([]models.Product, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return s.Repo.GetProducts(ctx, ids)
}

func (s *CartService) priceLine(ctx context.Context, item *models.CartItem) (*transport.CartLineView, *models.Product, error) {
	line := &transport.CartLineView{
		ID:          item.ID,
		ProductID:   item.ProductID,
		Size:        item.Size,
		Quantity:    item.Quantity,
		SugarLevel:  item.SugarLevel,
		IceLevel:    item.IceLevel,
		Temperature: item.Temperature,
		Toppings:    []transport.ToppingView{},
	}

	product, err := s.Repo.GetProduct(ctx, item.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		line.NeedsAttention = true
		return line, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	line.ProductName = product.Name

	toppingIDs := make([]uint, 0, len(item.Toppings))
	for _, t := range item.Toppings {
		toppingIDs = append(toppingIDs, t.ToppingID)
	}
	toppings, err := s.Repo.GetToppings(ctx, toppingIDs)
	if err != nil {
		return nil, nil, err
	}

	var toppingPrices []int64
	for _, t := range toppings {
		line.Toppings = append(line.Toppings, transport.ToppingView{
			ID: t.ID, Name: t.Name, Price: t.Price, IsAvailable: t.IsAvailable,
		})
		toppingPrices = append(toppingPrices, t.Price)
		line.ToppingCost += t.Price
		if !t.IsAvailable {
			line.NeedsAttention = true
		}
	}
	if len(toppings) != len(toppingIDs) || !product.IsAvailable {
		line.NeedsAttention = true
	}

	adjustment, err := sizeAdjustmentFor(product, item.Size)
	if err != nil {
		line.NeedsAttention = true
		return line, product, nil
	}
	line.UnitPrice = pricing.UnitPrice(product.BasePrice, adjustment, toppingPrices)
	subtotal, err := pricing.LineSubtotal(line.UnitPrice, item.Quantity)
	if err != nil {
		return nil, nil, err
	}
	line.Subtotal = subtotal
	return line, product, nil
}

func (s *CartService) checkToppings(ctx context.Context, ids []uint) error {
	toppings, err := s.Repo.GetToppings(ctx, ids)
	if err != nil {
		return err
	}
	if len(toppings) != len(ids) {
		return fmt.Errorf("%w: unknown topping", ErrNotFound)
	}
	for _, t := range toppings {
		if !t.IsAvailable {
			return fmt.Errorf("%w: topping %s", ErrProductUnavailable, t.Name)
		}
	}
	return nil
}

func validateCustomization(size string, sugar, ice int, temperature string) error {
	if size != "S" && size != "M" && size != "L" {
		return fmt.Errorf("%w: size must be S, M or L", ErrValidation)
	}
	if sugar < 0 || sugar > 100 {
		return fmt.Errorf("%w: sugar level must be 0-100", ErrValidation)
	}
	if ice < 0 || ice > 100 {
		return fmt.Errorf("%w: ice level must be 0-100", ErrValidation)
	}
	if temperature != "hot" && temperature != "cold" {
		return fmt.Errorf("%w: temperature must be hot or cold", ErrValidation)
	}
	return nil
}

func sizeAdjustmentFor(product *models.Product, size string) (int64, error) {
	if len(product.Sizes) == 0 {
		adj, ok := defaultSizeAdjustments[size]
		if !ok {
			return 0, fmt.Errorf("%w: size %s", ErrValidation, size)
		}
		return adj, nil
	}
	for _, s := range product.Sizes {
		if s.Size == size {
			return s.PriceAdjustment, nil
		}
	}
	return 0, fmt.Errorf("%w: size %s not offered for %s", ErrValidation, size, product.Name)
}

func normalizeToppingIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
