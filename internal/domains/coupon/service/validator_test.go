package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartModel "marketplace-backend/internal/domains/cart/model"
	catalogModel "marketplace-backend/internal/domains/catalog/model"
	catalogRepo "marketplace-backend/internal/domains/catalog/repository"
	catalogService "marketplace-backend/internal/domains/catalog/service"
	"marketplace-backend/internal/domains/coupon/model"
	orderModel "marketplace-backend/internal/domains/order/model"
	orderRepo "marketplace-backend/internal/domains/order/repository"
	promotionModel "marketplace-backend/internal/domains/promotion/model"
	promotionService "marketplace-backend/internal/domains/promotion/service"
)

type validatorEnv struct {
	catalog   *catalogRepo.MemoryRepository
	orders    *orderRepo.MemoryRepository
	validator *Validator
}

func newValidatorEnv(t *testing.T) *validatorEnv {
	t.Helper()

	catalog := catalogRepo.NewMemoryRepository()
	orders := orderRepo.NewMemoryRepository()

	return &validatorEnv{
		catalog:   catalog,
		orders:    orders,
		validator: NewValidator(catalog, orders, catalogService.NewTargetResolver(catalog), promotionService.NewDiscountCalculator()),
	}
}

func (e *validatorEnv) seedProduct(t *testing.T, brand string, price int64) catalogModel.Product {
	t.Helper()

	p := catalogModel.Product{
		ID:             uuid.New(),
		VendorID:       uuid.New(),
		Name:           brand + " Item",
		CategoryID:     uuid.New(),
		Brand:          brand,
		Price:          decimal.NewFromInt(price),
		EffectivePrice: decimal.NewFromInt(price),
	}
	e.catalog.SeedProduct(p)
	return p
}

func cartWith(userID uuid.UUID, items ...cartModel.CartItem) *cartModel.Cart {
	return &cartModel.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items:  items,
	}
}

func lineItem(p catalogModel.Product, qty int) cartModel.CartItem {
	return cartModel.CartItem{
		ProductID: p.ID,
		VendorID:  p.VendorID,
		Name:      p.Name,
		UnitPrice: p.EffectivePrice,
		Quantity:  qty,
	}
}

func brandCoupon(brand string, pct int64) *model.Coupon {
	return &model.Coupon{
		ID:            uuid.New(),
		Code:          "SAVE" + brand,
		OwnerScope:    model.ScopePlatform,
		Target:        &catalogModel.TargetSpec{Kind: catalogModel.TargetBrand, Brand: brand},
		DiscountType:  promotionModel.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(pct),
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidTo:       time.Now().Add(24 * time.Hour),
	}
}

func TestValidateRejectsOutsideWindow(t *testing.T) {
	env := newValidatorEnv(t)
	product := env.seedProduct(t, "Acme", 100)

	coupon := brandCoupon("Acme", 10)
	coupon.ValidTo = time.Now().Add(-time.Minute)
	coupon.ValidFrom = time.Now().Add(-time.Hour)

	_, err := env.validator.Validate(context.Background(), coupon, cartWith(uuid.New(), lineItem(product, 1)), uuid.New())
	assert.ErrorIs(t, err, model.ErrCouponNotActive)
}

func TestValidateRejectsExhaustedCoupon(t *testing.T) {
	env := newValidatorEnv(t)
	product := env.seedProduct(t, "Acme", 100)

	coupon := brandCoupon("Acme", 10)
	coupon.UsageLimit = 5
	coupon.UsageCount = 5

	_, err := env.validator.Validate(context.Background(), coupon, cartWith(uuid.New(), lineItem(product, 1)), uuid.New())
	assert.ErrorIs(t, err, model.ErrCouponExhausted)
}

func TestValidateRejectsBelowMinPurchase(t *testing.T) {
	env := newValidatorEnv(t)
	product := env.seedProduct(t, "Acme", 100)

	coupon := brandCoupon("Acme", 10)
	coupon.MinPurchaseAmount = decimal.NewFromInt(500)

	_, err := env.validator.Validate(context.Background(), coupon, cartWith(uuid.New(), lineItem(product, 2)), uuid.New())
	assert.ErrorIs(t, err, model.ErrMinPurchaseNotMet)
}

func TestValidateMinPurchaseChecksPreDiscountSubtotal(t *testing.T) {
	env := newValidatorEnv(t)
	product := env.seedProduct(t, "Acme", 250)

	// Two units at 250 meet a 500 minimum even though the discount
	// would drop the total below it after application.
	coupon := brandCoupon("Acme", 50)
	coupon.MinPurchaseAmount = decimal.NewFromInt(500)

	discount, err := env.validator.Validate(context.Background(), coupon, cartWith(uuid.New(), lineItem(product, 2)), uuid.New())
	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(250)), "discount %s", discount)
}

func TestValidateFirstPurchaseOnly(t *testing.T) {
	env := newValidatorEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Acme", 100)
	userID := uuid.New()

	coupon := brandCoupon("Acme", 10)
	coupon.FirstPurchaseOnly = true

	// A fresh user passes.
	discount, err := env.validator.Validate(ctx, coupon, cartWith(userID, lineItem(product, 1)), userID)
	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(10)))

	// One prior order and the same coupon is off the table.
	require.NoError(t, env.orders.Create(ctx, &orderModel.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-0001",
		UserID:      userID,
		Subtotal:    decimal.NewFromInt(100),
		Total:       decimal.NewFromInt(100),
	}, nil))

	_, err = env.validator.Validate(ctx, coupon, cartWith(userID, lineItem(product, 1)), userID)
	assert.ErrorIs(t, err, model.ErrFirstPurchaseOnly)
}

func TestValidateBrandTargetSumsMatchingItemsOnly(t *testing.T) {
	env := newValidatorEnv(t)
	acme := env.seedProduct(t, "Acme", 200)
	bolt := env.seedProduct(t, "Bolt", 300)

	coupon := brandCoupon("Acme", 10)

	cart := cartWith(uuid.New(), lineItem(acme, 2), lineItem(bolt, 1))
	discount, err := env.validator.Validate(context.Background(), coupon, cart, uuid.New())
	require.NoError(t, err)

	// 10% of 200, twice. The Bolt line contributes nothing.
	assert.True(t, discount.Equal(decimal.NewFromInt(40)), "discount %s", discount)
}

func TestValidateNoMatchingItems(t *testing.T) {
	env := newValidatorEnv(t)
	bolt := env.seedProduct(t, "Bolt", 300)

	coupon := brandCoupon("Acme", 10)

	_, err := env.validator.Validate(context.Background(), coupon, cartWith(uuid.New(), lineItem(bolt, 1)), uuid.New())
	assert.ErrorIs(t, err, model.ErrCouponNotApplicable)
}

func TestValidateClampsDiscountToSubtotal(t *testing.T) {
	env := newValidatorEnv(t)
	product := env.seedProduct(t, "Acme", 30)

	coupon := brandCoupon("Acme", 0)
	coupon.DiscountType = promotionModel.DiscountTypeFixed
	coupon.DiscountValue = decimal.NewFromInt(100)

	discount, err := env.validator.Validate(context.Background(), coupon, cartWith(uuid.New(), lineItem(product, 1)), uuid.New())
	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(30)), "discount %s", discount)
}

func TestValidateVendorScopedCoupon(t *testing.T) {
	env := newValidatorEnv(t)
	mine := env.seedProduct(t, "Acme", 100)
	other := env.seedProduct(t, "Acme", 100)

	coupon := &model.Coupon{
		ID:            uuid.New(),
		Code:          "VENDOR10",
		OwnerScope:    model.ScopeVendor,
		VendorID:      &mine.VendorID,
		DiscountType:  promotionModel.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidTo:       time.Now().Add(24 * time.Hour),
	}

	cart := cartWith(uuid.New(), lineItem(mine, 1), lineItem(other, 3))
	discount, err := env.validator.Validate(context.Background(), coupon, cart, uuid.New())
	require.NoError(t, err)

	// Only the owning vendor's line counts, brand match is irrelevant.
	assert.True(t, discount.Equal(decimal.NewFromInt(10)), "discount %s", discount)
}

func TestValidateDiscountUsesCartLinePrice(t *testing.T) {
	env := newValidatorEnv(t)
	product := env.seedProduct(t, "Acme", 1000)

	coupon := brandCoupon("Acme", 10)

	// The line carries a promo-adjusted price; the coupon stacks on it.
	item := lineItem(product, 1)
	item.UnitPrice = decimal.NewFromInt(800)

	discount, err := env.validator.Validate(context.Background(), coupon, cartWith(uuid.New(), item), uuid.New())
	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(80)), "discount %s", discount)
}
