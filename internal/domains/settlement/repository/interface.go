package repository

import (
	"context"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/settlement/model"
)

type SettlementRepository interface {
	Create(ctx context.Context, batch *model.SettlementBatch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SettlementBatch, error)

	// ListByVendor returns the vendor's full batch history, newest first.
	// The aggregation run builds its skip set from this.
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*model.SettlementBatch, error)

	// FindLatestByVendor returns the most recent batch or ErrBatchNotFound.
	FindLatestByVendor(ctx context.Context, vendorID uuid.UUID) (*model.SettlementBatch, error)

	// Update persists grown totals/order ids or a status transition.
	Update(ctx context.Context, batch *model.SettlementBatch) error
}
