package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/domains/cart/model"
	cartRepo "marketplace-backend/internal/domains/cart/repository"
	catalogModel "marketplace-backend/internal/domains/catalog/model"
	catalogRepo "marketplace-backend/internal/domains/catalog/repository"
	catalogService "marketplace-backend/internal/domains/catalog/service"
	couponModel "marketplace-backend/internal/domains/coupon/model"
	couponRepo "marketplace-backend/internal/domains/coupon/repository"
	couponService "marketplace-backend/internal/domains/coupon/service"
	orderRepo "marketplace-backend/internal/domains/order/repository"
	promotionModel "marketplace-backend/internal/domains/promotion/model"
	promotionService "marketplace-backend/internal/domains/promotion/service"
)

type cartEnv struct {
	carts   *cartRepo.MemoryRepository
	coupons *couponRepo.MemoryRepository
	catalog *catalogRepo.MemoryRepository
	service ServiceInterface
}

func newCartEnv(t *testing.T) *cartEnv {
	t.Helper()

	carts := cartRepo.NewMemoryRepository()
	coupons := couponRepo.NewMemoryRepository()
	catalog := catalogRepo.NewMemoryRepository()
	orders := orderRepo.NewMemoryRepository()

	validator := couponService.NewValidator(
		catalog, orders,
		catalogService.NewTargetResolver(catalog),
		promotionService.NewDiscountCalculator(),
	)

	return &cartEnv{
		carts:   carts,
		coupons: coupons,
		catalog: catalog,
		service: NewCartService(carts, couponService.NewCouponService(coupons, validator)),
	}
}

func (e *cartEnv) seedCartWithProduct(t *testing.T, userID uuid.UUID, price int64) catalogModel.Product {
	t.Helper()

	product := catalogModel.Product{
		ID:             uuid.New(),
		VendorID:       uuid.New(),
		Name:           "Acme Item",
		CategoryID:     uuid.New(),
		Brand:          "Acme",
		Price:          decimal.NewFromInt(price),
		EffectivePrice: decimal.NewFromInt(price),
	}
	e.catalog.SeedProduct(product)

	require.NoError(t, e.carts.Save(context.Background(), &model.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items: []model.CartItem{{
			ProductID: product.ID,
			VendorID:  product.VendorID,
			Name:      product.Name,
			UnitPrice: product.EffectivePrice,
			Quantity:  1,
		}},
	}))
	return product
}

func (e *cartEnv) seedBrandCoupon(t *testing.T, code string, pct int64) *couponModel.Coupon {
	t.Helper()

	coupon := &couponModel.Coupon{
		ID:            uuid.New(),
		Code:          code,
		OwnerScope:    couponModel.ScopePlatform,
		Target:        &catalogModel.TargetSpec{Kind: catalogModel.TargetBrand, Brand: "Acme"},
		DiscountType:  promotionModel.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(pct),
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidTo:       time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, e.coupons.Create(context.Background(), coupon))
	return coupon
}

func TestApplyCouponAnnotatesCart(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	env.seedCartWithProduct(t, userID, 200)
	coupon := env.seedBrandCoupon(t, "ACME20", 20)

	cart, err := env.service.ApplyCoupon(ctx, userID, "ACME20")
	require.NoError(t, err)
	require.NotNil(t, cart.Coupon)
	assert.Equal(t, coupon.ID, cart.Coupon.CouponID)
	assert.True(t, cart.Coupon.DiscountAmount.Equal(decimal.NewFromInt(40)))
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(160)), "total %s", cart.Total())

	// The annotation survives a reload.
	reloaded, err := env.service.GetCart(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Coupon)
	assert.Equal(t, "ACME20", reloaded.Coupon.Code)
}

func TestApplyCouponReplacesExisting(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	env.seedCartWithProduct(t, userID, 200)
	env.seedBrandCoupon(t, "ACME10", 10)
	second := env.seedBrandCoupon(t, "ACME30", 30)

	_, err := env.service.ApplyCoupon(ctx, userID, "ACME10")
	require.NoError(t, err)

	cart, err := env.service.ApplyCoupon(ctx, userID, "ACME30")
	require.NoError(t, err)
	require.NotNil(t, cart.Coupon)
	assert.Equal(t, second.ID, cart.Coupon.CouponID)
	assert.True(t, cart.Coupon.DiscountAmount.Equal(decimal.NewFromInt(60)))
}

func TestApplyCouponRejectionLeavesCartUntouched(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	env.seedCartWithProduct(t, userID, 200)
	expired := &couponModel.Coupon{
		ID:            uuid.New(),
		Code:          "EXPIRED",
		OwnerScope:    couponModel.ScopePlatform,
		Target:        &catalogModel.TargetSpec{Kind: catalogModel.TargetBrand, Brand: "Acme"},
		DiscountType:  promotionModel.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		ValidFrom:     time.Now().Add(-2 * time.Hour),
		ValidTo:       time.Now().Add(-time.Minute),
	}
	require.NoError(t, env.coupons.Create(ctx, expired))

	_, err := env.service.ApplyCoupon(ctx, userID, "EXPIRED")
	assert.ErrorIs(t, err, couponModel.ErrCouponNotActive)

	cart, err := env.service.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, cart.Coupon)
}

func TestApplyCouponEmptyCart(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, env.carts.Save(ctx, &model.Cart{ID: uuid.New(), UserID: userID}))
	env.seedBrandCoupon(t, "ACME10", 10)

	_, err := env.service.ApplyCoupon(ctx, userID, "ACME10")
	assert.ErrorIs(t, err, model.ErrCartEmpty)
}

func TestRemoveCoupon(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	env.seedCartWithProduct(t, userID, 200)
	env.seedBrandCoupon(t, "ACME20", 20)

	_, err := env.service.ApplyCoupon(ctx, userID, "ACME20")
	require.NoError(t, err)

	cart, err := env.service.RemoveCoupon(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, cart.Coupon)
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(200)))

	// Nothing left to remove.
	_, err = env.service.RemoveCoupon(ctx, userID)
	assert.ErrorIs(t, err, model.ErrNoCouponOnCart)
}
