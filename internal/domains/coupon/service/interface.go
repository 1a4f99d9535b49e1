package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cart "marketplace-backend/internal/domains/cart/model"
	"marketplace-backend/internal/domains/coupon/model"
)

type ServiceInterface interface {
	CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	GetCouponByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	ListCoupons(ctx context.Context, page, limit int) ([]*model.Coupon, int, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error

	// ValidateForCart resolves the code and runs the full check chain.
	// Returns the coupon and the computed discount on success.
	ValidateForCart(ctx context.Context, code string, c *cart.Cart, userID uuid.UUID) (*model.Coupon, decimal.Decimal, error)

	// RedeemCoupon bumps the usage counter once an order carrying the
	// coupon completes.
	RedeemCoupon(ctx context.Context, id uuid.UUID) error
}
