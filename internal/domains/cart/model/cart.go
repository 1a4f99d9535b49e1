package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ENTITY: Cart
// =====================================================
// A cart snapshots the effective price of each product at the moment the
// item was added. A coupon lives on the cart as a removable annotation;
// applying or removing it never touches product records.
type Cart struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Items     []CartItem        `json:"items"`
	Coupon    *CouponAnnotation `json:"coupon,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type CartItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	VendorID  uuid.UUID       `json:"vendor_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// CouponAnnotation is the applied coupon plus its computed discount.
type CouponAnnotation struct {
	CouponID       uuid.UUID       `json:"coupon_id"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	AppliedAt      time.Time       `json:"applied_at"`
}

func (i *CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Subtotal is the pre-discount total of all line items.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].Subtotal())
	}
	return total
}

// Total is the payable amount after the coupon annotation, never negative.
func (c *Cart) Total() decimal.Decimal {
	total := c.Subtotal()
	if c.Coupon != nil {
		total = total.Sub(c.Coupon.DiscountAmount)
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
