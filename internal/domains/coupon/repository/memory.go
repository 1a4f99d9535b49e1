package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/coupon/model"
)

// MemoryRepository is an in-memory CouponRepository for tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	coupons map[uuid.UUID]model.Coupon
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{coupons: make(map[uuid.UUID]model.Coupon)}
}

func (r *MemoryRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, coupon.Code) {
			return model.ErrCouponCodeTaken
		}
	}

	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	now := time.Now()
	coupon.CreatedAt = now
	coupon.UpdatedAt = now
	r.coupons[coupon.ID] = *coupon
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.coupons[id]
	if !ok {
		return nil, model.ErrCouponNotFound
	}
	copied := c
	return &copied, nil
}

func (r *MemoryRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, code) {
			copied := c
			return &copied, nil
		}
	}
	return nil, model.ErrCouponNotFound
}

func (r *MemoryRepository) List(ctx context.Context, page, limit int) ([]*model.Coupon, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*model.Coupon
	for _, c := range r.coupons {
		copied := c
		all = append(all, &copied)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coupons[id]; !ok {
		return model.ErrCouponNotFound
	}
	delete(r.coupons, id)
	return nil
}

func (r *MemoryRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coupons[id]
	if !ok {
		return model.ErrCouponNotFound
	}
	c.UsageCount++
	c.UpdatedAt = time.Now()
	r.coupons[id] = c
	return nil
}
