package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	catalogModel "marketplace-backend/internal/domains/catalog/model"
	catalogRepo "marketplace-backend/internal/domains/catalog/repository"
	catalogService "marketplace-backend/internal/domains/catalog/service"
	"marketplace-backend/internal/domains/promotion/model"
	"marketplace-backend/internal/domains/promotion/repository"
	"marketplace-backend/pkg/logger"
)

// PriceResolver is the single mutation surface for product pricing. Every
// caller that touches effective prices (admin CRUD, status toggles, the
// expiry sweep) goes through here, so serialization can be added in one
// place.
//
// Precedence policy: offers override deals. A deal activation is rejected
// when a target product carries a different deal that is itself still
// valid; an offer activation never checks and always wins (last writer).
type PriceResolver struct {
	catalog    catalogRepo.CatalogRepository
	promotions repository.PromotionRepository
	resolver   *catalogService.TargetResolver
	calculator *DiscountCalculator
}

func NewPriceResolver(
	catalog catalogRepo.CatalogRepository,
	promotions repository.PromotionRepository,
	resolver *catalogService.TargetResolver,
) *PriceResolver {
	return &PriceResolver{
		catalog:    catalog,
		promotions: promotions,
		resolver:   resolver,
		calculator: NewDiscountCalculator(),
	}
}

// ResolveTargets exposes target expansion for validation without applying
// anything.
func (pr *PriceResolver) ResolveTargets(ctx context.Context, spec catalogModel.TargetSpec) ([]*catalogModel.Product, error) {
	return pr.resolver.Resolve(ctx, spec)
}

// Activate resolves the promotion's current targets and applies the
// discount to each. The loop writes absolute values (effective price plus
// reference), so a partially failed activation can be safely re-run: the
// surviving products converge to the same state.
func (pr *PriceResolver) Activate(ctx context.Context, promo *model.Promotion) error {
	products, err := pr.resolver.Resolve(ctx, promo.Target)
	if err != nil {
		return err
	}

	if promo.Kind == model.KindDeal {
		// Conflict policy applies to deals only. Check the whole batch
		// before mutating anything so a conflict rejects with no side
		// effects.
		for _, product := range products {
			conflicting, err := pr.hasConflictingActiveDeal(ctx, product, promo.ID)
			if err != nil {
				return err
			}
			if conflicting {
				return model.ErrConflictingActiveDeal
			}
		}
	}

	for _, product := range products {
		effective := pr.calculator.Apply(product.Price, promo.DiscountType, promo.DiscountValue)

		switch promo.Kind {
		case model.KindDeal:
			product.ApplyDeal(promo.ID, effective)
		case model.KindOffer:
			product.ApplyOffer(promo.ID, effective)
		}

		if err := pr.catalog.UpdatePricing(ctx, product); err != nil {
			return fmt.Errorf("apply promotion %s to product %s: %w", promo.ID, product.ID, err)
		}
	}

	logger.Info("promotion activated", map[string]interface{}{
		"promotion_id": promo.ID,
		"kind":         promo.Kind,
		"products":     len(products),
	})

	return nil
}

// Revert restores the base price on every product still referencing the
// promotion and clears the reference. Idempotent: once nothing references
// the promotion, re-running is a no-op.
func (pr *PriceResolver) Revert(ctx context.Context, promo *model.Promotion) error {
	products, err := pr.catalog.ListByPromotionRef(ctx, promo.ID)
	if err != nil {
		return fmt.Errorf("list products referencing %s: %w", promo.ID, err)
	}

	for _, product := range products {
		product.ResetPricing()
		if err := pr.catalog.UpdatePricing(ctx, product); err != nil {
			return fmt.Errorf("revert promotion %s on product %s: %w", promo.ID, product.ID, err)
		}
	}

	if len(products) > 0 {
		logger.Info("promotion reverted", map[string]interface{}{
			"promotion_id": promo.ID,
			"products":     len(products),
		})
	}

	return nil
}

// Reapply is used after an update: the target set may have changed, so the
// old application is reverted first, then the promotion is re-activated if
// it is still valid.
func (pr *PriceResolver) Reapply(ctx context.Context, promo *model.Promotion, now time.Time) error {
	if err := pr.Revert(ctx, promo); err != nil {
		return err
	}
	if promo.IsCurrentlyValid(now) {
		return pr.Activate(ctx, promo)
	}
	return nil
}

// hasConflictingActiveDeal checks whether the product carries a deal
// reference to a different deal that is still inside its own validity
// window. A stale reference (deal deleted or lapsed) is not a conflict;
// activation simply overwrites it.
func (pr *PriceResolver) hasConflictingActiveDeal(ctx context.Context, product *catalogModel.Product, dealID uuid.UUID) (bool, error) {
	if product.ActiveDealID == nil || *product.ActiveDealID == dealID {
		return false, nil
	}

	existing, err := pr.promotions.FindByID(ctx, *product.ActiveDealID)
	if err != nil {
		if err == model.ErrPromotionNotFound {
			return false, nil
		}
		return false, fmt.Errorf("load referenced deal %s: %w", *product.ActiveDealID, err)
	}

	return existing.IsCurrentlyValid(time.Now()), nil
}
