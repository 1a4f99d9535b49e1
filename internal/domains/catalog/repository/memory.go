package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/catalog/model"
)

// MemoryRepository is an in-memory CatalogRepository used by tests and
// local development without PostgreSQL.
type MemoryRepository struct {
	mu         sync.RWMutex
	products   map[uuid.UUID]model.Product
	categories map[uuid.UUID]model.Category
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products:   make(map[uuid.UUID]model.Product),
		categories: make(map[uuid.UUID]model.Category),
	}
}

// SeedProduct inserts or replaces a product.
func (r *MemoryRepository) SeedProduct(p model.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

// SeedCategory inserts or replaces a category.
func (r *MemoryRepository) SeedCategory(c model.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[c.ID] = c
}

func (r *MemoryRepository) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	copied := p
	return &copied, nil
}

func (r *MemoryRepository) GetProducts(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*model.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := r.products[id]
		if !ok {
			continue
		}
		copied := p
		products = append(products, &copied)
	}
	return products, nil
}

func (r *MemoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*model.Product, error) {
	return r.filter(func(p model.Product) bool {
		return p.CategoryID == categoryID
	}), nil
}

func (r *MemoryRepository) ListBySubCategory(ctx context.Context, subCategoryID uuid.UUID) ([]*model.Product, error) {
	return r.filter(func(p model.Product) bool {
		return p.SubCategoryID != nil && *p.SubCategoryID == subCategoryID
	}), nil
}

func (r *MemoryRepository) ListByBrand(ctx context.Context, brand string) ([]*model.Product, error) {
	return r.filter(func(p model.Product) bool {
		return strings.EqualFold(p.Brand, brand)
	}), nil
}

func (r *MemoryRepository) ListByPromotionRef(ctx context.Context, promotionID uuid.UUID) ([]*model.Product, error) {
	return r.filter(func(p model.Product) bool {
		return p.References(promotionID)
	}), nil
}

func (r *MemoryRepository) filter(match func(model.Product) bool) []*model.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []*model.Product
	for _, p := range r.products {
		if match(p) {
			copied := p
			products = append(products, &copied)
		}
	}
	return products
}

func (r *MemoryRepository) UpdatePricing(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return model.ErrProductNotFound
	}

	stored.EffectivePrice = product.EffectivePrice
	stored.ActiveDealID = product.ActiveDealID
	stored.ActiveOfferID = product.ActiveOfferID
	stored.UpdatedAt = time.Now()
	r.products[product.ID] = stored
	return nil
}

func (r *MemoryRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	return ok && c.ParentID == nil, nil
}

func (r *MemoryRepository) SubCategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	return ok && c.ParentID != nil, nil
}
