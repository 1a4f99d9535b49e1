package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/promotion/model"
)

type PromotionRepository interface {
	Create(ctx context.Context, promo *model.Promotion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error)
	Update(ctx context.Context, promo *model.Promotion) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PromotionStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.ListPromotionsFilter) ([]*model.Promotion, int, error)

	// ListLapsed returns promotions of the given kind that the sweep should
	// revert: not yet expired, and either deactivated or past their window.
	ListLapsed(ctx context.Context, kind model.PromotionKind, now time.Time) ([]*model.Promotion, error)
}
