package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalog "marketplace-backend/internal/domains/catalog/model"
	promotion "marketplace-backend/internal/domains/promotion/model"
)

// CreateCouponRequest is the admin payload for a new coupon.
type CreateCouponRequest struct {
	Code              string                         `json:"code"`
	OwnerScope        string                         `json:"owner_scope"`
	VendorID          *uuid.UUID                     `json:"vendor_id"`
	Target            *promotion.TargetSpecRequest   `json:"target"`
	DiscountType      string                         `json:"discount_type"`
	DiscountValue     float64                        `json:"discount_value"`
	MinPurchaseAmount float64                        `json:"min_purchase_amount"`
	FirstPurchaseOnly bool                           `json:"first_purchase_only"`
	ValidFrom         string                         `json:"valid_from"`
	ValidTo           string                         `json:"valid_to"`
	UsageLimit        int                            `json:"usage_limit"`
}

func (r CreateCouponRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(3, 32)),
		validation.Field(&r.OwnerScope, validation.Required, validation.In(ScopePlatform, ScopeVendor)),
		validation.Field(&r.DiscountType, validation.Required, validation.In(
			string(promotion.DiscountTypePercentage), string(promotion.DiscountTypeFixed))),
		validation.Field(&r.DiscountValue, validation.Required, validation.Min(0.01)),
		validation.Field(&r.MinPurchaseAmount, validation.Min(0.0)),
		validation.Field(&r.ValidFrom, validation.Required, validation.Date(time.RFC3339)),
		validation.Field(&r.ValidTo, validation.Required, validation.Date(time.RFC3339)),
		validation.Field(&r.UsageLimit, validation.Min(0)),
	); err != nil {
		return err
	}

	// Scope decides which of the two matching inputs is mandatory.
	switch r.OwnerScope {
	case ScopeVendor:
		if r.VendorID == nil || *r.VendorID == uuid.Nil {
			return ErrVendorRequired
		}
	case ScopePlatform:
		if r.Target == nil {
			return ErrTargetRequired
		}
		if err := r.Target.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToCoupon builds the entity. Window order and discount shape are checked
// again by the service before persistence.
func (r CreateCouponRequest) ToCoupon() (*Coupon, error) {
	validFrom, err := time.Parse(time.RFC3339, r.ValidFrom)
	if err != nil {
		return nil, err
	}
	validTo, err := time.Parse(time.RFC3339, r.ValidTo)
	if err != nil {
		return nil, err
	}

	var target *catalog.TargetSpec
	if r.Target != nil {
		spec, err := r.Target.ToSpec()
		if err != nil {
			return nil, err
		}
		target = &spec
	}

	return &Coupon{
		ID:                uuid.New(),
		Code:              r.Code,
		OwnerScope:        r.OwnerScope,
		VendorID:          r.VendorID,
		Target:            target,
		DiscountType:      promotion.DiscountType(r.DiscountType),
		DiscountValue:     decimal.NewFromFloat(r.DiscountValue),
		MinPurchaseAmount: decimal.NewFromFloat(r.MinPurchaseAmount),
		FirstPurchaseOnly: r.FirstPurchaseOnly,
		ValidFrom:         validFrom,
		ValidTo:           validTo,
		UsageLimit:        r.UsageLimit,
	}, nil
}

// ApplyCouponRequest attaches a coupon code to the caller's cart.
type ApplyCouponRequest struct {
	Code string `json:"code"`
}

func (r ApplyCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
	)
}

type CouponResponse struct {
	ID                uuid.UUID           `json:"id"`
	Code              string              `json:"code"`
	OwnerScope        string              `json:"owner_scope"`
	VendorID          *uuid.UUID          `json:"vendor_id,omitempty"`
	Target            *catalog.TargetSpec `json:"target,omitempty"`
	DiscountType      string              `json:"discount_type"`
	DiscountValue     decimal.Decimal     `json:"discount_value"`
	MinPurchaseAmount decimal.Decimal     `json:"min_purchase_amount"`
	FirstPurchaseOnly bool                `json:"first_purchase_only"`
	ValidFrom         time.Time           `json:"valid_from"`
	ValidTo           time.Time           `json:"valid_to"`
	UsageLimit        int                 `json:"usage_limit"`
	UsageCount        int                 `json:"usage_count"`
}

func (c *Coupon) ToResponse() *CouponResponse {
	return &CouponResponse{
		ID:                c.ID,
		Code:              c.Code,
		OwnerScope:        c.OwnerScope,
		VendorID:          c.VendorID,
		Target:            c.Target,
		DiscountType:      string(c.DiscountType),
		DiscountValue:     c.DiscountValue,
		MinPurchaseAmount: c.MinPurchaseAmount,
		FirstPurchaseOnly: c.FirstPurchaseOnly,
		ValidFrom:         c.ValidFrom,
		ValidTo:           c.ValidTo,
		UsageLimit:        c.UsageLimit,
		UsageCount:        c.UsageCount,
	}
}
