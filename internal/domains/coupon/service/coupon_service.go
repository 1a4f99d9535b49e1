package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cart "marketplace-backend/internal/domains/cart/model"
	"marketplace-backend/internal/domains/coupon/model"
	"marketplace-backend/internal/domains/coupon/repository"
	promotion "marketplace-backend/internal/domains/promotion/model"
	"marketplace-backend/pkg/logger"
)

type couponService struct {
	repo      repository.CouponRepository
	validator *Validator
}

func NewCouponService(repo repository.CouponRepository, validator *Validator) ServiceInterface {
	return &couponService{repo: repo, validator: validator}
}

// CreateCoupon validates the discount shape and window order, then
// persists. The shape rules match the promotion store: percentage in
// (0, 100], fixed amounts positive.
func (s *couponService) CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if err := req.Validate(); err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	}

	coupon, err := req.ToCoupon()
	if err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	}

	if err := validateDiscountShape(coupon); err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if errors.Is(err, model.ErrCouponCodeTaken) {
			return nil, &model.AppError{
				Code:       model.ErrCodeCouponCodeTaken,
				Message:    "Coupon code already in use",
				HTTPStatus: 409,
			}
		}
		logger.Error("failed to create coupon", err)
		return nil, err
	}

	logger.Info("coupon created", map[string]interface{}{
		"coupon_id": coupon.ID,
		"code":      coupon.Code,
		"scope":     coupon.OwnerScope,
	})
	return coupon, nil
}

func (s *couponService) GetCouponByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *couponService) ListCoupons(ctx context.Context, page, limit int) ([]*model.Coupon, int, error) {
	return s.repo.List(ctx, page, limit)
}

func (s *couponService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *couponService) ValidateForCart(ctx context.Context, code string, c *cart.Cart, userID uuid.UUID) (*model.Coupon, decimal.Decimal, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, decimal.Zero, err
	}

	discount, err := s.validator.Validate(ctx, coupon, c, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return coupon, discount, nil
}

func (s *couponService) RedeemCoupon(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementUsage(ctx, id)
}

func validateDiscountShape(c *model.Coupon) error {
	switch c.DiscountType {
	case promotion.DiscountTypePercentage:
		if c.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return promotion.ErrInvalidDiscountValue
		}
		if c.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return promotion.ErrPercentageTooHigh
		}
	case promotion.DiscountTypeFixed:
		if c.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return promotion.ErrInvalidDiscountValue
		}
	default:
		return promotion.ErrInvalidDiscountType
	}

	if !c.ValidTo.After(c.ValidFrom) {
		return promotion.ErrInvalidDateRange
	}
	return nil
}
