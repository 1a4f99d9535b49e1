package repository

import (
	"context"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/cart/model"
)

type CartRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
