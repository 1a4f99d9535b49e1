package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/cart/model"
)

// MemoryRepository is an in-memory CartRepository for tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]model.Cart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[uuid.UUID]model.Cart)}
}

func (r *MemoryRepository) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.carts[userID]
	if !ok {
		return nil, model.ErrCartNotFound
	}
	copied := c
	return &copied, nil
}

func (r *MemoryRepository) Save(ctx context.Context, cart *model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart.UpdatedAt = time.Now()
	r.carts[cart.UserID] = *cart
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}
