package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/catalog/model"
	"marketplace-backend/internal/domains/catalog/repository"
)

// TargetResolver expands a TargetSpec into the concrete products it covers.
//
// Category, sub-category and brand targets are expanded at evaluation time,
// never cached: product membership can change after a promotion is created,
// so every re-evaluation (creation, update, expiry sweep) runs this again.
type TargetResolver struct {
	repo repository.CatalogRepository
}

func NewTargetResolver(repo repository.CatalogRepository) *TargetResolver {
	return &TargetResolver{repo: repo}
}

// Resolve returns the affected products.
//
// Failure cases:
// - product target: every listed id must exist, otherwise ErrProductNotFound
// - category / sub-category target: the id must exist, otherwise
//   ErrCategoryNotFound / ErrSubCategoryNotFound
// - brand target: only structurally validated (non-empty); an unknown brand
//   resolves to an empty set, not an error
func (r *TargetResolver) Resolve(ctx context.Context, spec model.TargetSpec) ([]*model.Product, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	switch spec.Kind {
	case model.TargetProduct:
		products, err := r.repo.GetProducts(ctx, spec.ProductIDs)
		if err != nil {
			return nil, fmt.Errorf("resolve product target: %w", err)
		}
		if len(products) != len(dedupe(spec.ProductIDs)) {
			return nil, model.ErrProductNotFound
		}
		return products, nil

	case model.TargetCategory:
		exists, err := r.repo.CategoryExists(ctx, *spec.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("resolve category target: %w", err)
		}
		if !exists {
			return nil, model.ErrCategoryNotFound
		}
		return r.repo.ListByCategory(ctx, *spec.CategoryID)

	case model.TargetSubCategory:
		exists, err := r.repo.SubCategoryExists(ctx, *spec.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("resolve sub-category target: %w", err)
		}
		if !exists {
			return nil, model.ErrSubCategoryNotFound
		}
		return r.repo.ListBySubCategory(ctx, *spec.CategoryID)

	case model.TargetBrand:
		return r.repo.ListByBrand(ctx, spec.Brand)

	default:
		return nil, model.ErrInvalidTargetKind
	}
}

// Matches reports whether a single product falls inside the target.
// Used by the coupon validator to match cart line items without loading
// whole product lists.
func (r *TargetResolver) Matches(ctx context.Context, spec model.TargetSpec, product *model.Product) (bool, error) {
	if err := spec.Validate(); err != nil {
		return false, err
	}

	switch spec.Kind {
	case model.TargetProduct:
		for _, id := range spec.ProductIDs {
			if id == product.ID {
				return true, nil
			}
		}
		return false, nil
	case model.TargetCategory:
		return product.CategoryID == *spec.CategoryID, nil
	case model.TargetSubCategory:
		return product.SubCategoryID != nil && *product.SubCategoryID == *spec.CategoryID, nil
	case model.TargetBrand:
		return strings.EqualFold(product.Brand, spec.Brand), nil
	default:
		return false, model.ErrInvalidTargetKind
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
