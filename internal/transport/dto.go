package transport

type AddCartItemRequest struct {
	ProductID   uint   `json:"product_id"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	SugarLevel  *int   `json:"sugar_level"`
	IceLevel    *int   `json:"ice_level"`
	Temperature string `json:"temperature"`
	ToppingIDs  []uint `json:"topping_ids"`
}

type UpdateCartItemRequest struct {
	Size        *string `json:"size"`
	Quantity    *int    `json:"quantity"`
	SugarLevel  *int    `json:"sugar_level"`
	IceLevel    *int    `json:"ice_level"`
	Temperature *string `json:"temperature"`
	ToppingIDs  *[]uint `json:"topping_ids"`
}

type ApplyVoucherRequest struct {
	Code string `json:"code"`
}

type CheckoutRequest struct {
	OrderType       string  `json:"order_type"` // pickup | delivery | dine_in
	PaymentMethod   string  `json:"payment_method"`
	StoreID         *uint   `json:"store_id"`
	DeliveryAddress *string `json:"delivery_address"`
	TableNumber     *string `json:"table_number"`
	Notes           string  `json:"notes"`
	// Optional override; defaults to the voucher applied on the cart.
	VoucherCode string `json:"voucher_code"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

type RedeemPointsRequest struct {
	Points      int64  `json:"points"`
	Description string `json:"description"`
}

// CartLineView is one priced cart line. Prices are current catalog prices,
// recomputed on every read; the cart never stores money.
type CartLineView struct {
	ID             uint          `json:"id"`
	ProductID      uint          `json:"product_id"`
	ProductName    string        `json:"product_name"`
	Size           string        `json:"size"`
	Quantity       int           `json:"quantity"`
	SugarLevel     int           `json:"sugar_level"`
	IceLevel       int           `json:"ice_level"`
	Temperature    string        `json:"temperature"`
	UnitPrice      int64         `json:"unit_price"`
	ToppingCost    int64         `json:"topping_cost"`
	Subtotal       int64         `json:"subtotal"`
	Toppings       []ToppingView `json:"toppings"`
	NeedsAttention bool          `json:"needs_attention"` // product or topping no longer available
}

type ToppingView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	IsAvailable bool   `json:"is_available"`
}

type CartView struct {
	Items       []CartLineView `json:"items"`
	ItemCount   int            `json:"item_count"`
	Subtotal    int64          `json:"subtotal"`
	VoucherCode string         `json:"voucher_code,omitempty"`
	Discount    int64          `json:"discount"`
}

type ReorderResponse struct {
	SkippedProducts []string `json:"skipped_products,omitempty"`
	Cart            CartView `json:"cart"`
}

type LoyaltySummary struct {
	Balance          int64  `json:"balance"`
	LifetimeEarned   int64  `json:"lifetime_earned"`
	Tier             string `json:"tier"`
	PointsToNextTier int64  `json:"points_to_next_tier"`
}
