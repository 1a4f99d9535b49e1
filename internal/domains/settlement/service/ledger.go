package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordermodel "marketplace-backend/internal/domains/order/model"
	orderrepo "marketplace-backend/internal/domains/order/repository"
	"marketplace-backend/internal/domains/settlement/model"
	"marketplace-backend/internal/domains/settlement/repository"
	"marketplace-backend/pkg/logger"
)

// Ledger aggregates vendors' earnings from paid orders into payable
// batches. Runs are idempotent: every pass rebuilds the skip set from the
// vendor's entire batch history, so re-scanning a window, overlapping
// windows, or a retried run never records an order id twice.
//
// Updates to one vendor's batches are serialized two ways: a keyed mutex
// covers goroutines inside this process, and the VendorLocker covers runs
// in other processes. A vendor whose lock is held is skipped; the holder
// is recording the same window.
type Ledger struct {
	repo   repository.SettlementRepository
	orders orderrepo.OrderRepository
	locker VendorLocker

	mu      sync.Mutex
	vendors map[uuid.UUID]*sync.Mutex
}

func NewLedger(repo repository.SettlementRepository, orders orderrepo.OrderRepository, locker VendorLocker) *Ledger {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &Ledger{
		repo:    repo,
		orders:  orders,
		locker:  locker,
		vendors: make(map[uuid.UUID]*sync.Mutex),
	}
}

// vendorIncrement is one vendor's share of the scanned window before the
// skip set is applied.
type vendorIncrement struct {
	byOrder map[uuid.UUID]decimal.Decimal
}

func (l *Ledger) Run(ctx context.Context, from, to time.Time) (*model.RunSummary, error) {
	orders, subsByOrder, err := l.orders.ListPaidInWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("scan paid orders: %w", err)
	}

	summary := &model.RunSummary{
		Window:        fmt.Sprintf("%s..%s", from.Format(time.RFC3339), to.Format(time.RFC3339)),
		SalesRecorded: decimal.Zero,
	}

	// Pass 1: bucket line items per owning vendor.
	increments := make(map[uuid.UUID]*vendorIncrement)
	for _, order := range orders {
		for _, sub := range subsByOrder[order.ID] {
			for i := range sub.Items {
				item := &sub.Items[i]

				vendorID := resolveOwner(sub, item)
				if vendorID == uuid.Nil {
					// Data-integrity gap: ownerless item. Skip it,
					// keep the run alive.
					logger.Warn("order item has no resolvable vendor", map[string]interface{}{
						"order_id":   order.ID,
						"product_id": item.ProductID,
					})
					summary.ItemsSkipped++
					continue
				}

				inc, ok := increments[vendorID]
				if !ok {
					inc = &vendorIncrement{byOrder: make(map[uuid.UUID]decimal.Decimal)}
					increments[vendorID] = inc
				}
				prev, ok := inc.byOrder[order.ID]
				if !ok {
					prev = decimal.Zero
				}
				inc.byOrder[order.ID] = prev.Add(item.Subtotal())
			}
		}
	}

	// Pass 2: fold each vendor's increment into its batch history, one
	// vendor at a time under both locks.
	for vendorID, inc := range increments {
		added, sales, err := l.settleVendor(ctx, vendorID, inc)
		if err != nil {
			return nil, fmt.Errorf("settle vendor %s: %w", vendorID, err)
		}
		summary.VendorsSeen++
		summary.OrdersAdded += added
		summary.SalesRecorded = summary.SalesRecorded.Add(sales)
	}

	logger.Info("settlement run finished", map[string]interface{}{
		"window":         summary.Window,
		"vendors_seen":   summary.VendorsSeen,
		"orders_added":   summary.OrdersAdded,
		"sales_recorded": summary.SalesRecorded,
		"items_skipped":  summary.ItemsSkipped,
	})
	return summary, nil
}

func (l *Ledger) settleVendor(ctx context.Context, vendorID uuid.UUID, inc *vendorIncrement) (int, decimal.Decimal, error) {
	mu := l.vendorMutex(vendorID)
	mu.Lock()
	defer mu.Unlock()

	release, ok, err := l.locker.TryLock(ctx, vendorID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	if !ok {
		logger.Warn("vendor settlement lease held elsewhere, skipping", map[string]interface{}{
			"vendor_id": vendorID,
		})
		return 0, decimal.Zero, nil
	}
	defer release()

	// Skip set: every order id the vendor has ever been credited for.
	history, err := l.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	recorded := make(map[uuid.UUID]struct{})
	for _, batch := range history {
		for _, id := range batch.OrderIDs {
			recorded[id] = struct{}{}
		}
	}

	increment := decimal.Zero
	var newOrderIDs []uuid.UUID
	for orderID, amount := range inc.byOrder {
		if _, seen := recorded[orderID]; seen {
			continue
		}
		increment = increment.Add(amount)
		newOrderIDs = append(newOrderIDs, orderID)
	}
	if len(newOrderIDs) == 0 {
		return 0, decimal.Zero, nil
	}
	// Map iteration order is random; keep batch contents reproducible.
	sort.Slice(newOrderIDs, func(i, j int) bool {
		return newOrderIDs[i].String() < newOrderIDs[j].String()
	})

	// history is newest first. A paid latest batch means the vendor has
	// been settled up; open a fresh pending batch for the increment.
	if len(history) == 0 || !history[0].IsPending() {
		batch := &model.SettlementBatch{
			ID:            uuid.New(),
			VendorID:      vendorID,
			TotalSales:    increment,
			OrderIDs:      newOrderIDs,
			PaymentStatus: model.BatchStatusPending,
		}
		if err := l.repo.Create(ctx, batch); err != nil {
			return 0, decimal.Zero, err
		}
		return len(newOrderIDs), increment, nil
	}

	open := history[0]
	open.AddOrders(increment, newOrderIDs)
	if err := l.repo.Update(ctx, open); err != nil {
		return 0, decimal.Zero, err
	}
	return len(newOrderIDs), increment, nil
}

func (l *Ledger) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*model.SettlementBatch, error) {
	return l.repo.ListByVendor(ctx, vendorID)
}

func (l *Ledger) MarkAsPaid(ctx context.Context, batchID uuid.UUID) (*model.SettlementBatch, error) {
	batch, err := l.repo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	mu := l.vendorMutex(batch.VendorID)
	mu.Lock()
	defer mu.Unlock()

	// Re-read under the lock; a concurrent run may have grown the batch.
	batch, err = l.repo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if !batch.IsPending() {
		return nil, model.ErrBatchAlreadyPaid
	}

	now := time.Now()
	batch.PaymentStatus = model.BatchStatusPaid
	batch.PayoutDate = &now
	if err := l.repo.Update(ctx, batch); err != nil {
		return nil, err
	}

	logger.Info("settlement batch paid", map[string]interface{}{
		"batch_id":    batch.ID,
		"vendor_id":   batch.VendorID,
		"total_sales": batch.TotalSales,
	})
	return batch, nil
}

func (l *Ledger) vendorMutex(vendorID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	mu, ok := l.vendors[vendorID]
	if !ok {
		mu = &sync.Mutex{}
		l.vendors[vendorID] = mu
	}
	return mu
}

// resolveOwner prefers the line item's denormalised vendor id and falls
// back to the sub-order's.
func resolveOwner(sub *ordermodel.SubOrder, item *ordermodel.OrderItem) uuid.UUID {
	if item.VendorID != uuid.Nil {
		return item.VendorID
	}
	return sub.VendorID
}

var _ ServiceInterface = (*Ledger)(nil)

// DayWindow returns the aggregation window for a reference time: the
// whole calendar day containing it, in UTC.
func DayWindow(at time.Time) (time.Time, time.Time) {
	day := at.UTC().Truncate(24 * time.Hour)
	return day, day.Add(24 * time.Hour)
}
