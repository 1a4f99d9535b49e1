package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalog "marketplace-backend/internal/domains/catalog/model"
	promotion "marketplace-backend/internal/domains/promotion/model"
)

// =====================================================
// OWNER SCOPE CONSTANTS
// =====================================================
const (
	ScopePlatform = "platform"
	ScopeVendor   = "vendor"
)

// =====================================================
// ENTITY: Coupon
// =====================================================
// A coupon is a cart-time discount code. It is evaluated against whatever
// effective price each line item already carries and never touches product
// records. Platform-scoped coupons match line items through their target
// spec; vendor-scoped coupons match every line item owned by the vendor.
type Coupon struct {
	ID                uuid.UUID               `json:"id"`
	Code              string                  `json:"code"`
	OwnerScope        string                  `json:"owner_scope"`
	VendorID          *uuid.UUID              `json:"vendor_id,omitempty"`
	Target            *catalog.TargetSpec     `json:"target,omitempty"`
	DiscountType      promotion.DiscountType  `json:"discount_type"`
	DiscountValue     decimal.Decimal         `json:"discount_value"`
	MinPurchaseAmount decimal.Decimal         `json:"min_purchase_amount"`
	FirstPurchaseOnly bool                    `json:"first_purchase_only"`
	ValidFrom         time.Time               `json:"valid_from"`
	ValidTo           time.Time               `json:"valid_to"`
	UsageLimit        int                     `json:"usage_limit"`
	UsageCount        int                     `json:"usage_count"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// IsWithinWindow reports whether now falls inside [ValidFrom, ValidTo].
func (c *Coupon) IsWithinWindow(now time.Time) bool {
	return !now.Before(c.ValidFrom) && !now.After(c.ValidTo)
}

// IsExhausted reports whether the redemption budget is used up.
// A zero UsageLimit means unlimited.
func (c *Coupon) IsExhausted() bool {
	return c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit
}

func (c *Coupon) IsVendorScoped() bool {
	return c.OwnerScope == ScopeVendor
}
