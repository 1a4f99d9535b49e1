package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/settlement/model"
)

type ServiceInterface interface {
	// Run aggregates paid orders in [from, to) into vendor batches.
	Run(ctx context.Context, from, to time.Time) (*model.RunSummary, error)

	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*model.SettlementBatch, error)

	// MarkAsPaid transitions a pending batch to paid and stamps the
	// payout date. Terminal: a paid batch never changes again.
	MarkAsPaid(ctx context.Context, batchID uuid.UUID) (*model.SettlementBatch, error)
}

// VendorLocker serializes settlement updates for one vendor across
// processes. The in-process keyed mutex handles goroutines; this handles
// a scheduled run overlapping an on-demand run in another instance.
type VendorLocker interface {
	// TryLock returns a release func, or ok=false when another holder
	// owns the vendor.
	TryLock(ctx context.Context, vendorID uuid.UUID) (release func(), ok bool, err error)
}
