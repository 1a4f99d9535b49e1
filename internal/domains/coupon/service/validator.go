package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cart "marketplace-backend/internal/domains/cart/model"
	catalogrepo "marketplace-backend/internal/domains/catalog/repository"
	catalogsvc "marketplace-backend/internal/domains/catalog/service"
	"marketplace-backend/internal/domains/coupon/model"
	orderrepo "marketplace-backend/internal/domains/order/repository"
	promosvc "marketplace-backend/internal/domains/promotion/service"
)

// Validator runs the cart-time coupon checks. It reads whatever effective
// price each line item already carries and never writes product state.
//
// Check order is fixed: validity window, usage budget, minimum purchase
// against the pre-discount subtotal, first-purchase restriction, then
// scope/target matching. Only items that match contribute to the discount,
// and the summed discount is clamped to the cart subtotal.
type Validator struct {
	catalog    catalogrepo.CatalogRepository
	orders     orderrepo.OrderRepository
	resolver   *catalogsvc.TargetResolver
	calculator *promosvc.DiscountCalculator
}

func NewValidator(
	catalog catalogrepo.CatalogRepository,
	orders orderrepo.OrderRepository,
	resolver *catalogsvc.TargetResolver,
	calculator *promosvc.DiscountCalculator,
) *Validator {
	return &Validator{
		catalog:    catalog,
		orders:     orders,
		resolver:   resolver,
		calculator: calculator,
	}
}

// Validate returns the computed discount for applying the coupon to the
// cart, or a typed rejection error.
func (v *Validator) Validate(ctx context.Context, coupon *model.Coupon, c *cart.Cart, userID uuid.UUID) (decimal.Decimal, error) {
	now := time.Now()

	// 1. Validity window
	if !coupon.IsWithinWindow(now) {
		return decimal.Zero, model.ErrCouponNotActive
	}

	// 2. Usage budget
	if coupon.IsExhausted() {
		return decimal.Zero, model.ErrCouponExhausted
	}

	// 3. Minimum purchase, checked before any discount
	subtotal := c.Subtotal()
	if subtotal.LessThan(coupon.MinPurchaseAmount) {
		return decimal.Zero, model.ErrMinPurchaseNotMet
	}

	// 4. First-purchase restriction
	if coupon.FirstPurchaseOnly {
		count, err := v.orders.CountByUser(ctx, userID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("count prior orders: %w", err)
		}
		if count > 0 {
			return decimal.Zero, model.ErrFirstPurchaseOnly
		}
	}

	// 5. Scope and target matching, per line item
	discount := decimal.Zero
	matched := false
	for i := range c.Items {
		item := &c.Items[i]

		ok, err := v.itemMatches(ctx, coupon, item)
		if err != nil {
			return decimal.Zero, err
		}
		if !ok {
			continue
		}

		matched = true
		perUnit := v.calculator.DiscountAmount(item.UnitPrice, coupon.DiscountType, coupon.DiscountValue)
		discount = discount.Add(perUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !matched {
		return decimal.Zero, model.ErrCouponNotApplicable
	}

	// The coupon can never push the cart total below zero.
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount, nil
}

// itemMatches applies the scope rule: vendor-scoped coupons cover every
// item the vendor owns, platform-scoped coupons cover the target spec.
func (v *Validator) itemMatches(ctx context.Context, coupon *model.Coupon, item *cart.CartItem) (bool, error) {
	if coupon.IsVendorScoped() {
		return coupon.VendorID != nil && item.VendorID == *coupon.VendorID, nil
	}

	if coupon.Target == nil {
		return false, model.ErrTargetRequired
	}

	product, err := v.catalog.GetProduct(ctx, item.ProductID)
	if err != nil {
		return false, fmt.Errorf("load product for coupon match: %w", err)
	}
	return v.resolver.Matches(ctx, *coupon.Target, product)
}
