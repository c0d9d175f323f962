package models

import (
	"time"
)

// Catalog tables are read-only to this service: products, sizes, toppings and
// stores are maintained by the admin backoffice, we only price against them.

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"    json:"id"`
	CategoryID  uint   `gorm:"index;not null"              json:"category_id"`
	Name        string `gorm:"not null"                    json:"name"`
	Description string `json:"description"`
	BasePrice   int64  `gorm:"not null"                    json:"base_price"`
	IsAvailable bool   `gorm:"default:true"                json:"is_available"`
	IsFeatured  bool   `gorm:"default:false"               json:"is_featured"`

	Sizes []ProductSize `gorm:"foreignKey:ProductID"       json:"sizes,omitempty"`
}

// ProductSize holds the signed price offset for S/M/L. M is typically 0,
// S may be negative.
type ProductSize struct {
	ID              uint   `gorm:"primaryKey"                              json:"id"`
	ProductID       uint   `gorm:"uniqueIndex:idx_product_size;not null"   json:"product_id"`
	Size            string `gorm:"uniqueIndex:idx_product_size;not null"   json:"size"`
	PriceAdjustment int64  `gorm:"not null"                                json:"price_adjustment"`
}

type Topping struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null"                 json:"name"`
	Price       int64  `gorm:"not null"                 json:"price"`
	IsAvailable bool   `gorm:"default:true"             json:"is_available"`
}

type Store struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	Address  string `json:"address"`
	IsActive bool   `gorm:"default:true"             json:"is_active"`
}

type CartItem struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	UserID      uint      `gorm:"index;not null"             json:"user_id"`
	ProductID   uint      `gorm:"not null"                   json:"product_id"`
	Size        string    `gorm:"not null"                   json:"size"`
	Quantity    int       `gorm:"not null;check:quantity>0"  json:"quantity"`
	SugarLevel  int       `gorm:"default:50"                 json:"sugar_level"`
	IceLevel    int       `gorm:"default:50"                 json:"ice_level"`
	Temperature string    `gorm:"default:cold"               json:"temperature"`
	CreatedAt   time.Time `json:"created_at"`

	Toppings []CartItemTopping `gorm:"foreignKey:CartItemID;constraint:OnDelete:CASCADE" json:"toppings"`
}

func (CartItem) TableName() string { return "cart_items" }

// CartItemTopping keeps the selected topping ids as rows rather than a JSON
// blob; topping prices are looked up at display and checkout time.
type CartItemTopping struct {
	ID         uint `gorm:"primaryKey;autoIncrement"              json:"id"`
	CartItemID uint `gorm:"uniqueIndex:idx_cart_topping;not null" json:"cart_item_id"`
	ToppingID  uint `gorm:"uniqueIndex:idx_cart_topping;not null" json:"topping_id"`
}

func (CartItemTopping) TableName() string { return "cart_item_toppings" }

// CartVoucher remembers the voucher code a user applied before checkout.
// One per user; re-validated at checkout.
type CartVoucher struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	Code      string    `gorm:"not null"   json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

func (CartVoucher) TableName() string { return "cart_vouchers" }

type Voucher struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Code              string     `gorm:"unique;not null"          json:"code"`
	Description       string     `json:"description"`
	DiscountType      string     `gorm:"not null"                 json:"discount_type"` // percentage | fixed
	DiscountValue     int64      `gorm:"not null"                 json:"discount_value"`
	MinOrderAmount    int64      `gorm:"default:0"                json:"min_order_amount"`
	MaxDiscountAmount *int64     `json:"max_discount_amount"`
	UsageLimit        *int       `json:"usage_limit"` // nil = unlimited
	UsagePerUser      int        `gorm:"default:1"                json:"usage_per_user"`
	CurrentUsage      int        `gorm:"default:0"                json:"current_usage"`
	ApplicableTo      string     `gorm:"default:all"              json:"applicable_to"` // all | product | category
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	IsActive          bool       `gorm:"default:true"             json:"is_active"`

	Scopes []VoucherScope `gorm:"foreignKey:VoucherID" json:"scopes,omitempty"`
}

// VoucherScope restricts a voucher to specific products or categories.
type VoucherScope struct {
	ID         uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	VoucherID  uint  `gorm:"index;not null"           json:"voucher_id"`
	ProductID  *uint `json:"product_id"`
	CategoryID *uint `json:"category_id"`
}

// VoucherRedemption is the append-only usage audit. Cancelled orders void the
// row instead of deleting it so counts stay explainable.
type VoucherRedemption struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	VoucherID      uint      `gorm:"index:idx_voucher_user;not null" json:"voucher_id"`
	UserID         uint      `gorm:"index:idx_voucher_user;not null" json:"user_id"`
	OrderID        uint      `gorm:"index;not null"                  json:"order_id"`
	DiscountAmount int64     `gorm:"not null"                        json:"discount_amount"`
	Voided         bool      `gorm:"default:false"                   json:"voided"`
	CreatedAt      time.Time `json:"created_at"`
}

type LoyaltyAccount struct {
	UserID         uint   `gorm:"primaryKey"     json:"user_id"`
	Balance        int64  `gorm:"default:0"      json:"balance"`
	LifetimeEarned int64  `gorm:"default:0"      json:"lifetime_earned"`
	Tier           string `gorm:"default:Bronze" json:"tier"`
}

type LoyaltyTransaction struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index;not null"           json:"user_id"`
	Points      int64     `gorm:"not null"                 json:"points"` // signed delta
	Kind        string    `gorm:"not null"                 json:"kind"`   // earn | redeem | expire | adjust
	Description string    `json:"description"`
	OrderID     *uint     `json:"order_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Order struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber        string     `gorm:"unique;not null"          json:"order_number"`
	UserID             uint       `gorm:"index;not null"           json:"user_id"`
	StoreID            *uint      `json:"store_id"`
	OrderType          string     `gorm:"not null"                 json:"order_type"` // pickup | delivery | dine_in
	Status             string     `gorm:"not null"                 json:"status"`
	Subtotal           int64      `gorm:"not null"                 json:"subtotal"`
	DiscountAmount     int64      `gorm:"default:0"                json:"discount_amount"`
	DeliveryFee        int64      `gorm:"default:0"                json:"delivery_fee"`
	Total              int64      `gorm:"not null"                 json:"total"`
	VoucherID          *uint      `json:"voucher_id"`
	PaymentMethod      string     `gorm:"not null"                 json:"payment_method"`
	PaymentStatus      string     `gorm:"default:pending"          json:"payment_status"` // pending | paid | failed | refunded
	DeliveryAddress    *string    `json:"delivery_address"`
	TableNumber        *string    `json:"table_number"`
	Notes              string     `json:"notes"`
	EstimatedReadyAt   *time.Time `json:"estimated_ready_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason *string    `json:"cancellation_reason"`
	CreatedAt          time.Time  `json:"created_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is the frozen price snapshot: later catalog changes never touch it.
type OrderItem struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint   `gorm:"index;not null"           json:"order_id"`
	ProductID   uint   `gorm:"not null"                 json:"product_id"`
	ProductName string `gorm:"not null"                 json:"product_name"`
	Size        string `gorm:"not null"                 json:"size"`
	Quantity    int    `gorm:"not null"                 json:"quantity"`
	UnitPrice   int64  `gorm:"not null"                 json:"unit_price"`
	SugarLevel  int    `json:"sugar_level"`
	IceLevel    int    `json:"ice_level"`
	Temperature string `json:"temperature"`
	ToppingCost int64  `gorm:"default:0"                json:"topping_cost"`
	Subtotal    int64  `gorm:"not null"                 json:"subtotal"`

	Toppings []OrderItemTopping `gorm:"foreignKey:OrderItemID" json:"toppings"`
}

type OrderItemTopping struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderItemID uint   `gorm:"index;not null"           json:"order_item_id"`
	ToppingID   uint   `gorm:"not null"                 json:"topping_id"`
	Name        string `gorm:"not null"                 json:"name"`
	UnitPrice   int64  `gorm:"not null"                 json:"unit_price"`
}
