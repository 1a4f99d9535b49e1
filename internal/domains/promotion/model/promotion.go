package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalog "marketplace-backend/internal/domains/catalog/model"
)

// PromotionKind discriminates the two promotion variants. Deals and offers
// share one shape; their semantics differ in the conflict policy (see the
// price resolver) and in sweep cadence (deals daily, offers hourly).
type PromotionKind string

const (
	KindDeal  PromotionKind = "deal"
	KindOffer PromotionKind = "offer"
)

func (k PromotionKind) IsValid() bool {
	return k == KindDeal || k == KindOffer
}

// DiscountType represents valid discount types
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

func (dt DiscountType) IsValid() bool {
	switch dt {
	case DiscountTypePercentage, DiscountTypeFixed:
		return true
	}
	return false
}

// PromotionStatus lifecycle: active -> inactive (admin) or expired (sweep).
type PromotionStatus string

const (
	StatusActive   PromotionStatus = "active"
	StatusInactive PromotionStatus = "inactive"
	StatusExpired  PromotionStatus = "expired"
)

// Promotion is a time-windowed, targeted discount applied directly to
// product effective prices. Products reference it weakly by id only.
type Promotion struct {
	ID            uuid.UUID          `json:"id" db:"id"`
	Kind          PromotionKind      `json:"kind" db:"kind"`
	Name          string             `json:"name" db:"name"`
	DiscountType  DiscountType       `json:"discount_type" db:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value" db:"discount_value"`
	Target        catalog.TargetSpec `json:"target" db:"target"`

	ValidFrom time.Time       `json:"valid_from" db:"valid_from"`
	ValidTo   time.Time       `json:"valid_to" db:"valid_to"`
	Status    PromotionStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsWithinWindow reports whether now falls inside [ValidFrom, ValidTo].
func (p *Promotion) IsWithinWindow(now time.Time) bool {
	return !now.Before(p.ValidFrom) && !now.After(p.ValidTo)
}

// IsCurrentlyValid reports whether the promotion should be applied right
// now: active status and inside its window.
func (p *Promotion) IsCurrentlyValid(now time.Time) bool {
	return p.Status == StatusActive && p.IsWithinWindow(now)
}

// IsLapsed reports whether the sweep should revert this promotion:
// deactivated by an admin, or past its window.
func (p *Promotion) IsLapsed(now time.Time) bool {
	return p.Status != StatusActive || now.After(p.ValidTo)
}

// ValidateDiscount checks the discount shape: percentage values must lie in
// (0, 100], fixed amounts must be positive.
func (p *Promotion) ValidateDiscount() error {
	switch p.DiscountType {
	case DiscountTypePercentage:
		if p.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidDiscountValue
		}
		if p.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return ErrPercentageTooHigh
		}
	case DiscountTypeFixed:
		if p.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidDiscountValue
		}
	default:
		return ErrInvalidDiscountType
	}

	if !p.ValidTo.After(p.ValidFrom) {
		return ErrInvalidDateRange
	}

	return nil
}
