package repository

import (
	"context"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/catalog/model"
)

// CatalogRepository is the catalog surface the promotion engine depends on.
// The catalog subsystem owns the records; this interface covers target
// matching reads and the pricing writes the price resolver performs.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProducts(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*model.Product, error)
	ListBySubCategory(ctx context.Context, subCategoryID uuid.UUID) ([]*model.Product, error)
	ListByBrand(ctx context.Context, brand string) ([]*model.Product, error)

	// ListByPromotionRef returns products whose active deal or offer
	// reference equals the given promotion id.
	ListByPromotionRef(ctx context.Context, promotionID uuid.UUID) ([]*model.Product, error)

	// UpdatePricing persists effective_price and the two reference fields.
	UpdatePricing(ctx context.Context, product *model.Product) error

	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	SubCategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}
