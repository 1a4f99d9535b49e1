package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogModel "marketplace-backend/internal/domains/catalog/model"
	catalogRepo "marketplace-backend/internal/domains/catalog/repository"
	catalogService "marketplace-backend/internal/domains/catalog/service"
	"marketplace-backend/internal/domains/promotion/model"
	"marketplace-backend/internal/domains/promotion/repository"
)

type promoEnv struct {
	catalog *catalogRepo.MemoryRepository
	promos  *repository.MemoryRepository
	service ServiceInterface
}

func newPromoEnv(t *testing.T) *promoEnv {
	t.Helper()

	catalog := catalogRepo.NewMemoryRepository()
	promos := repository.NewMemoryRepository()
	resolver := NewPriceResolver(catalog, promos, catalogService.NewTargetResolver(catalog))

	return &promoEnv{
		catalog: catalog,
		promos:  promos,
		service: NewPromotionService(promos, resolver),
	}
}

func (e *promoEnv) seedProduct(t *testing.T, price int64) catalogModel.Product {
	t.Helper()

	p := catalogModel.Product{
		ID:             uuid.New(),
		VendorID:       uuid.New(),
		Name:           "Test Product",
		CategoryID:     uuid.New(),
		Brand:          "Acme",
		Price:          decimal.NewFromInt(price),
		EffectivePrice: decimal.NewFromInt(price),
	}
	e.catalog.SeedProduct(p)
	return p
}

func openWindow() (string, string) {
	return time.Now().Add(-time.Hour).Format(time.RFC3339),
		time.Now().Add(24 * time.Hour).Format(time.RFC3339)
}

func productTarget(ids ...uuid.UUID) model.TargetSpecRequest {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	return model.TargetSpecRequest{Kind: string(catalogModel.TargetProduct), ProductIDs: raw}
}

func TestDealAppliesAndSweepReverts(t *testing.T) {
	env := newPromoEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, 1000)

	from, to := openWindow()
	promo, err := env.service.CreatePromotion(ctx, &model.CreatePromotionRequest{
		Kind:          string(model.KindDeal),
		Name:          "Spring Sale",
		DiscountType:  string(model.DiscountTypePercentage),
		DiscountValue: 20,
		Target:        productTarget(product.ID),
		ValidFrom:     from,
		ValidTo:       to,
	})
	require.NoError(t, err)

	got, err := env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.EffectivePrice.Equal(decimal.NewFromInt(800)), "effective price %s", got.EffectivePrice)
	require.NotNil(t, got.ActiveDealID)
	assert.Equal(t, promo.ID, *got.ActiveDealID)
	assert.Nil(t, got.ActiveOfferID)

	// Past the window, the sweep reverts the product and expires the deal.
	afterWindow := time.Now().Add(48 * time.Hour)
	expired, err := env.service.ReconcileExpired(ctx, model.KindDeal, afterWindow)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	got, err = env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.EffectivePrice.Equal(decimal.NewFromInt(1000)), "effective price %s", got.EffectivePrice)
	assert.Nil(t, got.ActiveDealID)

	stored, err := env.promos.FindByID(ctx, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, stored.Status)
}

func TestOfferOverridesDeal(t *testing.T) {
	env := newPromoEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, 1000)

	from, to := openWindow()
	_, err := env.service.CreatePromotion(ctx, &model.CreatePromotionRequest{
		Kind:          string(model.KindDeal),
		Name:          "Deal D1",
		DiscountType:  string(model.DiscountTypePercentage),
		DiscountValue: 20,
		Target:        productTarget(product.ID),
		ValidFrom:     from,
		ValidTo:       to,
	})
	require.NoError(t, err)

	offer, err := env.service.CreatePromotion(ctx, &model.CreatePromotionRequest{
		Kind:          string(model.KindOffer),
		Name:          "Offer O1",
		DiscountType:  string(model.DiscountTypePercentage),
		DiscountValue: 10,
		Target:        productTarget(product.ID),
		ValidFrom:     from,
		ValidTo:       to,
	})
	require.NoError(t, err)

	// The offer wins: deal reference cleared, price from the offer.
	got, err := env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.EffectivePrice.Equal(decimal.NewFromInt(900)), "effective price %s", got.EffectivePrice)
	require.NotNil(t, got.ActiveOfferID)
	assert.Equal(t, offer.ID, *got.ActiveOfferID)
	assert.Nil(t, got.ActiveDealID)
}

func TestConflictingDealRejected(t *testing.T) {
	env := newPromoEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, 1000)

	from, to := openWindow()
	_, err := env.service.CreatePromotion(ctx, &model.CreatePromotionRequest{
		Kind:          string(model.KindDeal),
		Name:          "Deal D1",
		DiscountType:  string(model.DiscountTypePercentage),
		DiscountValue: 20,
		Target:        productTarget(product.ID),
		ValidFrom:     from,
		ValidTo:       to,
	})
	require.NoError(t, err)

	_, err = env.service.CreatePromotion(ctx, &model.CreatePromotionRequest{
		Kind:          string(model.KindDeal),
		Name:          "Deal D2",
		DiscountType:  string(model.DiscountTypeFixed),
		DiscountValue: 50,
		Target:        productTarget(product.ID),
		ValidFrom:     from,
		ValidTo:       to,
	})
	require.Error(t, err)

	var appErr *model.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, model.ErrCodeConflictingDeal, appErr.Code)
	assert.Equal(t, 409, appErr.HTTPStatus)

	// The rejected deal left nothing behind.
	_, total, err := env.promos.List(ctx, &model.ListPromotionsFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	got, err := env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.EffectivePrice.Equal(decimal.NewFromInt(800)), "effective price %s", got.EffectivePrice)
}

func TestPercentageOverHundredRejected(t *testing.T) {
	env := newPromoEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, 1000)

	from, to := openWindow()
	_, err := env.service.CreatePromotion(ctx, &model.CreatePromotionRequest{
		Kind:          string(model.KindDeal),
		Name:          "Bad Deal",
		DiscountType:  string(model.DiscountTypePercentage),
		DiscountValue: 150,
		Target:        productTarget(product.ID),
		ValidFrom:     from,
		ValidTo:       to,
	})
	require.Error(t, err)

	var appErr *model.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, model.ErrCodeInvalidDiscount, appErr.Code)

	// Rejected before persistence and before touching the product.
	_, total, err := env.promos.List(ctx, &model.ListPromotionsFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	got, err := env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.EffectivePrice.Equal(decimal.NewFromInt(1000)))
}

func TestUnknownTargetRejected(t *testing.T) {
	env := newPromoEnv(t)
	ctx := context.Background()

	from, to := openWindow()
	_, err := env.service.CreatePromotion(ctx, &model.CreatePromotionRequest{
		Kind:          string(model.KindDeal),
		Name:          "Ghost Deal",
		DiscountType:  string(model.DiscountTypePercentage),
		DiscountValue: 10,
		Target:        productTarget(uuid.New()),
		ValidFrom:     from,
		ValidTo:       to,
	})
	require.Error(t, err)

	var appErr *model.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, model.ErrCodeInvalidTarget, appErr.Code)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestDeactivationRevertsImmediately(t *testing.T) {
	env := newPromoEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, 500)

	from, to := openWindow()
	promo, err := env.service.CreatePromotion(ctx, &model.CreatePromotionRequest{
		Kind:          string(model.KindOffer),
		Name:          "Flash Offer",
		DiscountType:  string(model.DiscountTypeFixed),
		DiscountValue: 100,
		Target:        productTarget(product.ID),
		ValidFrom:     from,
		ValidTo:       to,
	})
	require.NoError(t, err)

	require.NoError(t, env.service.UpdatePromotionStatus(ctx, promo.ID, model.StatusInactive))

	got, err := env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.EffectivePrice.Equal(decimal.NewFromInt(500)))
	assert.Nil(t, got.ActiveOfferID)
}

func TestStaleDealReferenceIsNotAConflict(t *testing.T) {
	env := newPromoEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, 1000)

	// Simulate an orphaned reference: the deal record no longer exists.
	orphan := uuid.New()
	product.ApplyDeal(orphan, decimal.NewFromInt(700))
	env.catalog.SeedProduct(product)

	from, to := openWindow()
	promo, err := env.service.CreatePromotion(ctx, &model.CreatePromotionRequest{
		Kind:          string(model.KindDeal),
		Name:          "Fresh Deal",
		DiscountType:  string(model.DiscountTypePercentage),
		DiscountValue: 10,
		Target:        productTarget(product.ID),
		ValidFrom:     from,
		ValidTo:       to,
	})
	require.NoError(t, err)

	got, err := env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ActiveDealID)
	assert.Equal(t, promo.ID, *got.ActiveDealID)
	assert.True(t, got.EffectivePrice.Equal(decimal.NewFromInt(900)))
}

func TestSweepSkipsActivePromotionsInsideWindow(t *testing.T) {
	env := newPromoEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, 1000)

	from, to := openWindow()
	_, err := env.service.CreatePromotion(ctx, &model.CreatePromotionRequest{
		Kind:          string(model.KindDeal),
		Name:          "Live Deal",
		DiscountType:  string(model.DiscountTypePercentage),
		DiscountValue: 20,
		Target:        productTarget(product.ID),
		ValidFrom:     from,
		ValidTo:       to,
	})
	require.NoError(t, err)

	expired, err := env.service.ReconcileExpired(ctx, model.KindDeal, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	got, err := env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.EffectivePrice.Equal(decimal.NewFromInt(800)))
}
