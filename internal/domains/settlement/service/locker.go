package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/infrastructure/cache"
	"marketplace-backend/pkg/logger"
)

// LeaseLocker implements VendorLocker on the Redis lease.
type LeaseLocker struct {
	cache *cache.RedisClient
	ttl   time.Duration
}

func NewLeaseLocker(cache *cache.RedisClient, ttl time.Duration) *LeaseLocker {
	return &LeaseLocker{cache: cache, ttl: ttl}
}

func (l *LeaseLocker) TryLock(ctx context.Context, vendorID uuid.UUID) (func(), bool, error) {
	key := fmt.Sprintf("settlement:vendor:%s", vendorID)

	lease, ok, err := l.cache.AcquireLease(ctx, key, l.ttl)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Error("failed to release vendor lease", err)
		}
	}
	return release, true, nil
}

// NoopLocker is a VendorLocker for single-process setups and tests.
type NoopLocker struct{}

func (NoopLocker) TryLock(ctx context.Context, vendorID uuid.UUID) (func(), bool, error) {
	return func() {}, true, nil
}
