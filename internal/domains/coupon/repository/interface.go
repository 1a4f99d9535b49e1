package repository

import (
	"context"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/coupon/model"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context, page, limit int) ([]*model.Coupon, int, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUsage bumps usage_count by one. Called when a coupon
	// annotation survives checkout, not on cart apply.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
