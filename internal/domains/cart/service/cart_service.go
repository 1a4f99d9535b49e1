package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/cart/model"
	"marketplace-backend/internal/domains/cart/repository"
	couponsvc "marketplace-backend/internal/domains/coupon/service"
	"marketplace-backend/pkg/logger"
)

type ServiceInterface interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// ApplyCoupon validates the code against the cart and attaches the
	// annotation. Re-applying replaces any existing annotation.
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.Cart, error)

	// RemoveCoupon deletes the annotation; the cart total falls back to
	// the plain item subtotal.
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
}

// Coupon application is an annotation on the cart only. Product effective
// prices come from the price resolver and are read as-is; neither applying
// nor removing a coupon writes any product state.
type cartService struct {
	repo    repository.CartRepository
	coupons couponsvc.ServiceInterface
}

func NewCartService(repo repository.CartRepository, coupons couponsvc.ServiceInterface) ServiceInterface {
	return &cartService{repo: repo, coupons: coupons}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	return s.repo.Get(ctx, userID)
}

func (s *cartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, model.ErrCartEmpty
	}

	coupon, discount, err := s.coupons.ValidateForCart(ctx, code, cart, userID)
	if err != nil {
		return nil, err
	}

	cart.Coupon = &model.CouponAnnotation{
		CouponID:       coupon.ID,
		Code:           coupon.Code,
		DiscountAmount: discount,
		AppliedAt:      time.Now(),
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}

	logger.Info("coupon applied to cart", map[string]interface{}{
		"user_id":  userID,
		"code":     coupon.Code,
		"discount": discount,
	})
	return cart, nil
}

func (s *cartService) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.Coupon == nil {
		return nil, model.ErrNoCouponOnCart
	}

	cart.Coupon = nil
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
