package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/promotion/model"
)

type ServiceInterface interface {
	CreatePromotion(ctx context.Context, req *model.CreatePromotionRequest) (*model.Promotion, error)
	GetPromotionByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error)
	ListPromotions(ctx context.Context, filter *model.ListPromotionsFilter) ([]*model.Promotion, int, error)
	UpdatePromotion(ctx context.Context, id uuid.UUID, req *model.UpdatePromotionRequest) (*model.Promotion, error)
	UpdatePromotionStatus(ctx context.Context, id uuid.UUID, status model.PromotionStatus) error
	DeletePromotion(ctx context.Context, id uuid.UUID) error

	// ReconcileExpired is the sweep entry point: revert and expire every
	// lapsed promotion of the given kind. Returns how many were expired.
	ReconcileExpired(ctx context.Context, kind model.PromotionKind, now time.Time) (int, error)
}
