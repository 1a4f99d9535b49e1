package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/promotion/model"
)

// MemoryRepository is an in-memory PromotionRepository for tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	promos map[uuid.UUID]model.Promotion
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{promos: make(map[uuid.UUID]model.Promotion)}
}

func (r *MemoryRepository) Create(ctx context.Context, promo *model.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	now := time.Now()
	promo.CreatedAt = now
	promo.UpdatedAt = now
	r.promos[promo.ID] = *promo
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.promos[id]
	if !ok {
		return nil, model.ErrPromotionNotFound
	}
	copied := p
	return &copied, nil
}

func (r *MemoryRepository) Update(ctx context.Context, promo *model.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.promos[promo.ID]; !ok {
		return model.ErrPromotionNotFound
	}
	promo.UpdatedAt = time.Now()
	r.promos[promo.ID] = *promo
	return nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PromotionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.promos[id]
	if !ok {
		return model.ErrPromotionNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	r.promos[id] = p
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.promos[id]; !ok {
		return model.ErrPromotionNotFound
	}
	delete(r.promos, id)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, filter *model.ListPromotionsFilter) ([]*model.Promotion, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*model.Promotion
	for _, p := range r.promos {
		if filter.Kind != nil && p.Kind != *filter.Kind {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		copied := p
		all = append(all, &copied)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	page, limit := filter.Page, filter.Limit
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

func (r *MemoryRepository) ListLapsed(ctx context.Context, kind model.PromotionKind, now time.Time) ([]*model.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lapsed []*model.Promotion
	for _, p := range r.promos {
		if p.Kind != kind || p.Status == model.StatusExpired {
			continue
		}
		if p.IsLapsed(now) {
			copied := p
			lapsed = append(lapsed, &copied)
		}
	}
	return lapsed, nil
}
