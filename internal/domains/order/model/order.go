package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT STATUS CONSTANTS
// =====================================================
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// =====================================================
// ENTITY: Order
// =====================================================
// Order is the parent record a buyer placed. It owns its sub-orders by id;
// each sub-order groups the line items of a single vendor. Line item prices
// are snapshots taken at placement and are never retroactively changed by
// later promotion activity.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	UserID        uuid.UUID       `json:"user_id"`
	SubOrderIDs   []uuid.UUID     `json:"sub_order_ids"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	CouponCode    *string         `json:"coupon_code,omitempty"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	Total         decimal.Decimal `json:"total"`
	PaymentStatus string          `json:"payment_status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o *Order) IsPaymentCompleted() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// =====================================================
// ENTITY: SubOrder
// =====================================================
// SubOrder holds a weak back-reference to its parent. The parent owns the
// relationship; deleting a parent cascades, deleting a sub-order never
// touches the parent's record beyond the id list.
type SubOrder struct {
	ID            uuid.UUID   `json:"id"`
	ParentOrderID uuid.UUID   `json:"parent_order_id"`
	VendorID      uuid.UUID   `json:"vendor_id"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
}

// OrderItem is a priced line item. VendorID is denormalised from the
// product at placement time so settlement never has to re-resolve
// ownership; a Nil vendor id marks a data-integrity gap.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	VendorID  uuid.UUID       `json:"vendor_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
