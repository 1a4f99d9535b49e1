package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/order/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order, subOrders []*model.SubOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// CountByUser returns how many orders the user has ever placed.
	// Backs the first-purchase-only coupon check.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// ListPaidInWindow returns orders whose payment completed inside
	// [from, to), with their sub-orders attached. Settlement input.
	ListPaidInWindow(ctx context.Context, from, to time.Time) ([]*model.Order, map[uuid.UUID][]*model.SubOrder, error)
}
