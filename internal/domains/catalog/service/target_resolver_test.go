package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/domains/catalog/model"
	"marketplace-backend/internal/domains/catalog/repository"
)

func seedCatalog(t *testing.T) (*repository.MemoryRepository, *TargetResolver, []model.Product) {
	t.Helper()

	repo := repository.NewMemoryRepository()

	electronics := model.Category{ID: uuid.New(), Name: "Electronics"}
	phones := model.Category{ID: uuid.New(), Name: "Phones", ParentID: &electronics.ID}
	repo.SeedCategory(electronics)
	repo.SeedCategory(phones)

	products := []model.Product{
		{
			ID:             uuid.New(),
			VendorID:       uuid.New(),
			Name:           "Phone A",
			CategoryID:     electronics.ID,
			SubCategoryID:  &phones.ID,
			Brand:          "Acme",
			Price:          decimal.NewFromInt(1000),
			EffectivePrice: decimal.NewFromInt(1000),
		},
		{
			ID:             uuid.New(),
			VendorID:       uuid.New(),
			Name:           "Speaker B",
			CategoryID:     electronics.ID,
			Brand:          "Bolt",
			Price:          decimal.NewFromInt(300),
			EffectivePrice: decimal.NewFromInt(300),
		},
	}
	for _, p := range products {
		repo.SeedProduct(p)
	}

	return repo, NewTargetResolver(repo), products
}

func TestResolveProductTarget(t *testing.T) {
	_, resolver, products := seedCatalog(t)
	ctx := context.Background()

	got, err := resolver.Resolve(ctx, model.TargetSpec{
		Kind:       model.TargetProduct,
		ProductIDs: []uuid.UUID{products[0].ID, products[1].ID},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestResolveProductTargetMissingID(t *testing.T) {
	_, resolver, products := seedCatalog(t)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, model.TargetSpec{
		Kind:       model.TargetProduct,
		ProductIDs: []uuid.UUID{products[0].ID, uuid.New()},
	})
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestResolveCategoryTarget(t *testing.T) {
	_, resolver, products := seedCatalog(t)
	ctx := context.Background()

	got, err := resolver.Resolve(ctx, model.TargetSpec{
		Kind:       model.TargetCategory,
		CategoryID: &products[0].CategoryID,
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestResolveCategoryTargetUnknown(t *testing.T) {
	_, resolver, _ := seedCatalog(t)
	ctx := context.Background()

	missing := uuid.New()
	_, err := resolver.Resolve(ctx, model.TargetSpec{
		Kind:       model.TargetCategory,
		CategoryID: &missing,
	})
	assert.ErrorIs(t, err, model.ErrCategoryNotFound)
}

func TestResolveSubCategoryTarget(t *testing.T) {
	_, resolver, products := seedCatalog(t)
	ctx := context.Background()

	got, err := resolver.Resolve(ctx, model.TargetSpec{
		Kind:       model.TargetSubCategory,
		CategoryID: products[0].SubCategoryID,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, products[0].ID, got[0].ID)
}

func TestResolveBrandTargetUnknownIsEmptyNotError(t *testing.T) {
	_, resolver, _ := seedCatalog(t)
	ctx := context.Background()

	got, err := resolver.Resolve(ctx, model.TargetSpec{
		Kind:  model.TargetBrand,
		Brand: "NoSuchBrand",
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolveInvalidShape(t *testing.T) {
	_, resolver, _ := seedCatalog(t)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, model.TargetSpec{Kind: model.TargetCategory})
	assert.ErrorIs(t, err, model.ErrTargetMissingValue)

	_, err = resolver.Resolve(ctx, model.TargetSpec{Kind: "warehouse"})
	assert.ErrorIs(t, err, model.ErrInvalidTargetKind)
}

func TestMatches(t *testing.T) {
	_, resolver, products := seedCatalog(t)
	ctx := context.Background()

	phone := &products[0]

	ok, err := resolver.Matches(ctx, model.TargetSpec{
		Kind:       model.TargetProduct,
		ProductIDs: []uuid.UUID{phone.ID},
	}, phone)
	require.NoError(t, err)
	assert.True(t, ok)

	// Brand matching is case-insensitive.
	ok, err = resolver.Matches(ctx, model.TargetSpec{
		Kind:  model.TargetBrand,
		Brand: "ACME",
	}, phone)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolver.Matches(ctx, model.TargetSpec{
		Kind:  model.TargetBrand,
		Brand: "Bolt",
	}, phone)
	require.NoError(t, err)
	assert.False(t, ok)
}
