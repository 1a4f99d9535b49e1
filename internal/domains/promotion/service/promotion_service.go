package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogModel "marketplace-backend/internal/domains/catalog/model"
	"marketplace-backend/internal/domains/promotion/model"
	"marketplace-backend/internal/domains/promotion/repository"
	"marketplace-backend/pkg/logger"
)

// promotionService owns deal/offer records: discount-shape validation,
// target validation, the deal conflict policy, and delegation to the price
// resolver for every product mutation.
type promotionService struct {
	repo     repository.PromotionRepository
	resolver *PriceResolver
}

func NewPromotionService(repo repository.PromotionRepository, resolver *PriceResolver) ServiceInterface {
	return &promotionService{
		repo:     repo,
		resolver: resolver,
	}
}

// CreatePromotion validates, persists and, when the window is already
// open, immediately applies the promotion.
//
// Order matters: discount shape first, then target existence, then the
// conflict policy. All three reject before anything is persisted.
func (s *promotionService) CreatePromotion(ctx context.Context, req *model.CreatePromotionRequest) (*model.Promotion, error) {
	if err := req.Validate(); err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	}

	target, err := req.Target.ToSpec()
	if err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	}

	validFrom, _ := time.Parse(time.RFC3339, req.ValidFrom)
	validTo, _ := time.Parse(time.RFC3339, req.ValidTo)

	promo := &model.Promotion{
		ID:            uuid.New(),
		Kind:          model.PromotionKind(req.Kind),
		Name:          req.Name,
		DiscountType:  model.DiscountType(req.DiscountType),
		DiscountValue: decimal.NewFromFloat(req.DiscountValue),
		Target:        target,
		ValidFrom:     validFrom,
		ValidTo:       validTo,
		Status:        model.StatusActive,
	}

	if err := promo.ValidateDiscount(); err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeInvalidDiscount,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	}

	// Apply before persisting so target and conflict failures leave no
	// record behind. Activation is idempotent, so a crash between
	// activation and persistence is corrected by the next sweep.
	if promo.IsCurrentlyValid(time.Now()) {
		if err := s.resolver.Activate(ctx, promo); err != nil {
			return nil, mapResolverError(err)
		}
	} else {
		// Window not open yet: still reject unresolvable targets now.
		if _, err := s.resolver.ResolveTargets(ctx, promo.Target); err != nil {
			return nil, mapResolverError(err)
		}
	}

	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, err
	}

	return promo, nil
}

func (s *promotionService) GetPromotionByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *promotionService) ListPromotions(ctx context.Context, filter *model.ListPromotionsFilter) ([]*model.Promotion, int, error) {
	return s.repo.List(ctx, filter)
}

// UpdatePromotion applies the changed fields, re-validates and then
// re-resolves the target set: membership may have changed since creation,
// so products no longer targeted are reverted and current members are
// re-applied.
func (s *promotionService) UpdatePromotion(ctx context.Context, id uuid.UUID, req *model.UpdatePromotionRequest) (*model.Promotion, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing

	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.DiscountType != nil {
		updated.DiscountType = model.DiscountType(*req.DiscountType)
	}
	if req.DiscountValue != nil {
		updated.DiscountValue = decimal.NewFromFloat(*req.DiscountValue)
	}
	if req.Target != nil {
		target, err := req.Target.ToSpec()
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    err.Error(),
				HTTPStatus: 400,
			}
		}
		updated.Target = target
	}
	if req.ValidFrom != nil {
		validFrom, err := time.Parse(time.RFC3339, *req.ValidFrom)
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "invalid valid_from format",
				HTTPStatus: 400,
			}
		}
		updated.ValidFrom = validFrom
	}
	if req.ValidTo != nil {
		validTo, err := time.Parse(time.RFC3339, *req.ValidTo)
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "invalid valid_to format",
				HTTPStatus: 400,
			}
		}
		updated.ValidTo = validTo
	}

	if err := updated.ValidateDiscount(); err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeInvalidDiscount,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	}

	if err := s.resolver.Reapply(ctx, &updated, time.Now()); err != nil {
		return nil, mapResolverError(err)
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// UpdatePromotionStatus toggles active/inactive. Deactivation reverts
// immediately instead of waiting for the sweep; activation re-applies when
// the window is open.
func (s *promotionService) UpdatePromotionStatus(ctx context.Context, id uuid.UUID, status model.PromotionStatus) error {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	promo.Status = status

	switch status {
	case model.StatusActive:
		if promo.IsWithinWindow(time.Now()) {
			if err := s.resolver.Activate(ctx, promo); err != nil {
				return mapResolverError(err)
			}
		}
	case model.StatusInactive:
		if err := s.resolver.Revert(ctx, promo); err != nil {
			return err
		}
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

// DeletePromotion reverts affected products, then removes the record.
func (s *promotionService) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.resolver.Revert(ctx, promo); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// ReconcileExpired reverts and expires every lapsed promotion of the given
// kind. Per-promotion failures are logged and skipped: the sweep is
// re-runnable, so a product missed on this pass is corrected on the next.
func (s *promotionService) ReconcileExpired(ctx context.Context, kind model.PromotionKind, now time.Time) (int, error) {
	lapsed, err := s.repo.ListLapsed(ctx, kind, now)
	if err != nil {
		return 0, fmt.Errorf("list lapsed %s promotions: %w", kind, err)
	}

	expired := 0
	for _, promo := range lapsed {
		if err := s.resolver.Revert(ctx, promo); err != nil {
			logger.Error("revert lapsed promotion failed", err)
			continue
		}
		if err := s.repo.UpdateStatus(ctx, promo.ID, model.StatusExpired); err != nil {
			logger.Error("mark promotion expired failed", err)
			continue
		}
		expired++
	}

	return expired, nil
}

// mapResolverError translates target-resolution failures into the API
// error taxonomy.
func mapResolverError(err error) error {
	switch {
	case errors.Is(err, catalogModel.ErrProductNotFound),
		errors.Is(err, catalogModel.ErrCategoryNotFound),
		errors.Is(err, catalogModel.ErrSubCategoryNotFound):
		return model.ErrInvalidTarget
	case errors.Is(err, catalogModel.ErrInvalidTargetKind),
		errors.Is(err, catalogModel.ErrTargetMissingValue):
		return &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	default:
		return err
	}
}
