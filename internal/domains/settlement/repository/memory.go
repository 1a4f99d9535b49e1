package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/settlement/model"
)

// MemoryRepository is an in-memory SettlementRepository for tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	batches map[uuid.UUID]model.SettlementBatch
	seq     int
	order   map[uuid.UUID]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		batches: make(map[uuid.UUID]model.SettlementBatch),
		order:   make(map[uuid.UUID]int),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, batch *model.SettlementBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	now := time.Now()
	batch.CreatedAt = now
	batch.UpdatedAt = now

	r.seq++
	r.order[batch.ID] = r.seq
	r.batches[batch.ID] = cloneBatch(batch)
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SettlementBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.batches[id]
	if !ok {
		return nil, model.ErrBatchNotFound
	}
	copied := cloneBatch(&b)
	return &copied, nil
}

func (r *MemoryRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*model.SettlementBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var batches []*model.SettlementBatch
	for _, b := range r.batches {
		if b.VendorID != vendorID {
			continue
		}
		copied := cloneBatch(&b)
		batches = append(batches, &copied)
	}

	// Creation order, newest first. Timestamps are too coarse in tests.
	sort.Slice(batches, func(i, j int) bool {
		return r.order[batches[i].ID] > r.order[batches[j].ID]
	})
	return batches, nil
}

func (r *MemoryRepository) FindLatestByVendor(ctx context.Context, vendorID uuid.UUID) (*model.SettlementBatch, error) {
	batches, err := r.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, model.ErrBatchNotFound
	}
	return batches[0], nil
}

func (r *MemoryRepository) Update(ctx context.Context, batch *model.SettlementBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[batch.ID]; !ok {
		return model.ErrBatchNotFound
	}
	batch.UpdatedAt = time.Now()
	r.batches[batch.ID] = cloneBatch(batch)
	return nil
}

func cloneBatch(b *model.SettlementBatch) model.SettlementBatch {
	copied := *b
	copied.OrderIDs = append([]uuid.UUID(nil), b.OrderIDs...)
	return copied
}
