package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/order/model"
)

// MemoryRepository is an in-memory OrderRepository for tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]model.Order
	subs   map[uuid.UUID][]model.SubOrder
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders: make(map[uuid.UUID]model.Order),
		subs:   make(map[uuid.UUID][]model.SubOrder),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, order *model.Order, subOrders []*model.SubOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	var subs []model.SubOrder
	for _, sub := range subOrders {
		if sub.ID == uuid.Nil {
			sub.ID = uuid.New()
		}
		sub.ParentOrderID = order.ID
		sub.CreatedAt = now
		order.SubOrderIDs = append(order.SubOrderIDs, sub.ID)
		subs = append(subs, *sub)
	}

	r.orders[order.ID] = *order
	r.subs[order.ID] = subs
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	copied := o
	return &copied, nil
}

func (r *MemoryRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, o := range r.orders {
		if o.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) ListPaidInWindow(ctx context.Context, from, to time.Time) ([]*model.Order, map[uuid.UUID][]*model.SubOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*model.Order
	subsByOrder := make(map[uuid.UUID][]*model.SubOrder)
	for _, o := range r.orders {
		if o.PaymentStatus != model.PaymentStatusPaid || o.PaidAt == nil {
			continue
		}
		if o.PaidAt.Before(from) || !o.PaidAt.Before(to) {
			continue
		}
		copied := o
		orders = append(orders, &copied)

		for _, sub := range r.subs[o.ID] {
			copiedSub := sub
			subsByOrder[o.ID] = append(subsByOrder[o.ID], &copiedSub)
		}
	}
	return orders, subsByOrder, nil
}
