package service

import (
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/domains/promotion/model"
)

// DiscountCalculator computes effective prices. Pure, no state: discount
// shape validation happens at the store boundary, so Apply only clamps.
type DiscountCalculator struct{}

func NewDiscountCalculator() *DiscountCalculator {
	return &DiscountCalculator{}
}

// Apply returns the price after the discount, never below zero:
//
//	percentage: base - base * value / 100
//	fixed:      base - value
func (c *DiscountCalculator) Apply(basePrice decimal.Decimal, discountType model.DiscountType, value decimal.Decimal) decimal.Decimal {
	var discounted decimal.Decimal

	switch discountType {
	case model.DiscountTypePercentage:
		discount := basePrice.Mul(value).Div(decimal.NewFromInt(100))
		discounted = basePrice.Sub(discount)

	case model.DiscountTypeFixed:
		discounted = basePrice.Sub(value)

	default:
		return basePrice
	}

	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}

// DiscountAmount returns how much is taken off the base price, clamped so
// the discount never exceeds the base itself.
func (c *DiscountCalculator) DiscountAmount(basePrice decimal.Decimal, discountType model.DiscountType, value decimal.Decimal) decimal.Decimal {
	return basePrice.Sub(c.Apply(basePrice, discountType, value))
}
