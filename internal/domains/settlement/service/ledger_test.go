package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordermodel "marketplace-backend/internal/domains/order/model"
	orderrepo "marketplace-backend/internal/domains/order/repository"
	"marketplace-backend/internal/domains/settlement/model"
	"marketplace-backend/internal/domains/settlement/repository"
)

type ledgerEnv struct {
	batches *repository.MemoryRepository
	orders  *orderrepo.MemoryRepository
	ledger  *Ledger
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()

	batches := repository.NewMemoryRepository()
	orders := orderrepo.NewMemoryRepository()
	return &ledgerEnv{
		batches: batches,
		orders:  orders,
		ledger:  NewLedger(batches, orders, NoopLocker{}),
	}
}

// seedPaidOrder creates a paid order with one line item per vendor amount.
func (e *ledgerEnv) seedPaidOrder(t *testing.T, paidAt time.Time, lines map[uuid.UUID]int64) uuid.UUID {
	t.Helper()

	var subs []*ordermodel.SubOrder
	total := decimal.Zero
	for vendorID, amount := range lines {
		subs = append(subs, &ordermodel.SubOrder{
			VendorID: vendorID,
			Items: []ordermodel.OrderItem{{
				ID:        uuid.New(),
				ProductID: uuid.New(),
				VendorID:  vendorID,
				Name:      "Line Item",
				Price:     decimal.NewFromInt(amount),
				Quantity:  1,
			}},
		})
		total = total.Add(decimal.NewFromInt(amount))
	}

	order := &ordermodel.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-" + uuid.New().String()[:8],
		UserID:        uuid.New(),
		Subtotal:      total,
		Total:         total,
		PaymentStatus: ordermodel.PaymentStatusPaid,
		PaidAt:        &paidAt,
	}
	require.NoError(t, e.orders.Create(context.Background(), order, subs))
	return order.ID
}

func TestRunAggregatesPerVendor(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	from, to := DayWindow(time.Now())
	paidAt := from.Add(time.Hour)

	vendorA := uuid.New()
	vendorB := uuid.New()
	env.seedPaidOrder(t, paidAt, map[uuid.UUID]int64{vendorA: 100, vendorB: 40})
	env.seedPaidOrder(t, paidAt, map[uuid.UUID]int64{vendorA: 60})

	summary, err := env.ledger.Run(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.VendorsSeen)
	assert.Equal(t, 3, summary.OrdersAdded)
	assert.True(t, summary.SalesRecorded.Equal(decimal.NewFromInt(200)))

	batchesA, err := env.ledger.ListByVendor(ctx, vendorA)
	require.NoError(t, err)
	require.Len(t, batchesA, 1)
	assert.True(t, batchesA[0].TotalSales.Equal(decimal.NewFromInt(160)), "total %s", batchesA[0].TotalSales)
	assert.Len(t, batchesA[0].OrderIDs, 2)
	assert.Equal(t, model.BatchStatusPending, batchesA[0].PaymentStatus)

	batchesB, err := env.ledger.ListByVendor(ctx, vendorB)
	require.NoError(t, err)
	require.Len(t, batchesB, 1)
	assert.True(t, batchesB[0].TotalSales.Equal(decimal.NewFromInt(40)))
}

func TestRunIsIdempotent(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	from, to := DayWindow(time.Now())

	vendor := uuid.New()
	env.seedPaidOrder(t, from.Add(time.Hour), map[uuid.UUID]int64{vendor: 250})

	_, err := env.ledger.Run(ctx, from, to)
	require.NoError(t, err)

	// Same window again: nothing new to record.
	summary, err := env.ledger.Run(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.OrdersAdded)
	assert.True(t, summary.SalesRecorded.IsZero())

	batches, err := env.ledger.ListByVendor(ctx, vendor)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].TotalSales.Equal(decimal.NewFromInt(250)))
	assert.Len(t, batches[0].OrderIDs, 1)
}

func TestRunGrowsOpenBatchAcrossWindows(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()

	vendor := uuid.New()
	day1From, day1To := DayWindow(time.Now().Add(-24 * time.Hour))
	day2From, day2To := DayWindow(time.Now())

	env.seedPaidOrder(t, day1From.Add(time.Hour), map[uuid.UUID]int64{vendor: 100})
	env.seedPaidOrder(t, day2From.Add(time.Hour), map[uuid.UUID]int64{vendor: 50})

	_, err := env.ledger.Run(ctx, day1From, day1To)
	require.NoError(t, err)
	_, err = env.ledger.Run(ctx, day2From, day2To)
	require.NoError(t, err)

	// Still unpaid, so day two folds into the same pending batch.
	batches, err := env.ledger.ListByVendor(ctx, vendor)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].TotalSales.Equal(decimal.NewFromInt(150)))
	assert.Len(t, batches[0].OrderIDs, 2)
}

func TestMarkAsPaidClosesBatchAndNewRunOpensFresh(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()

	vendor := uuid.New()
	day1From, day1To := DayWindow(time.Now().Add(-24 * time.Hour))
	day2From, day2To := DayWindow(time.Now())

	firstOrder := env.seedPaidOrder(t, day1From.Add(time.Hour), map[uuid.UUID]int64{vendor: 100})

	_, err := env.ledger.Run(ctx, day1From, day1To)
	require.NoError(t, err)

	batches, err := env.ledger.ListByVendor(ctx, vendor)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	paid, err := env.ledger.MarkAsPaid(ctx, batches[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.BatchStatusPaid, paid.PaymentStatus)
	require.NotNil(t, paid.PayoutDate)

	// New sale after the payout lands in a fresh pending batch.
	secondOrder := env.seedPaidOrder(t, day2From.Add(time.Hour), map[uuid.UUID]int64{vendor: 70})
	_, err = env.ledger.Run(ctx, day2From, day2To)
	require.NoError(t, err)

	batches, err = env.ledger.ListByVendor(ctx, vendor)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	// Newest first: the open batch, then the paid one, untouched.
	assert.Equal(t, model.BatchStatusPending, batches[0].PaymentStatus)
	assert.True(t, batches[0].TotalSales.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, []uuid.UUID{secondOrder}, batches[0].OrderIDs)

	assert.Equal(t, model.BatchStatusPaid, batches[1].PaymentStatus)
	assert.True(t, batches[1].TotalSales.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, []uuid.UUID{firstOrder}, batches[1].OrderIDs)

	// No order id appears in more than one batch.
	seen := make(map[uuid.UUID]int)
	for _, b := range batches {
		for _, id := range b.OrderIDs {
			seen[id]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "order %s recorded %d times", id, n)
	}
}

func TestMarkAsPaidTwiceRejected(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()

	vendor := uuid.New()
	from, to := DayWindow(time.Now())
	env.seedPaidOrder(t, from.Add(time.Hour), map[uuid.UUID]int64{vendor: 80})

	_, err := env.ledger.Run(ctx, from, to)
	require.NoError(t, err)

	batches, err := env.ledger.ListByVendor(ctx, vendor)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	_, err = env.ledger.MarkAsPaid(ctx, batches[0].ID)
	require.NoError(t, err)

	_, err = env.ledger.MarkAsPaid(ctx, batches[0].ID)
	assert.ErrorIs(t, err, model.ErrBatchAlreadyPaid)
}

func TestMarkAsPaidUnknownBatch(t *testing.T) {
	env := newLedgerEnv(t)

	_, err := env.ledger.MarkAsPaid(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrBatchNotFound)
}

func TestRunSkipsOwnerlessItems(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	from, to := DayWindow(time.Now())
	paidAt := from.Add(time.Hour)

	vendor := uuid.New()

	// One clean sub-order plus one with no resolvable owner at all.
	subs := []*ordermodel.SubOrder{
		{
			VendorID: vendor,
			Items: []ordermodel.OrderItem{{
				ID: uuid.New(), ProductID: uuid.New(), VendorID: vendor,
				Name: "Good Line", Price: decimal.NewFromInt(90), Quantity: 1,
			}},
		},
		{
			VendorID: uuid.Nil,
			Items: []ordermodel.OrderItem{{
				ID: uuid.New(), ProductID: uuid.New(), VendorID: uuid.Nil,
				Name: "Orphan Line", Price: decimal.NewFromInt(999), Quantity: 1,
			}},
		},
	}
	total := decimal.NewFromInt(1089)
	order := &ordermodel.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-orphan",
		UserID:        uuid.New(),
		Subtotal:      total,
		Total:         total,
		PaymentStatus: ordermodel.PaymentStatusPaid,
		PaidAt:        &paidAt,
	}
	require.NoError(t, env.orders.Create(ctx, order, subs))

	summary, err := env.ledger.Run(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemsSkipped)
	assert.True(t, summary.SalesRecorded.Equal(decimal.NewFromInt(90)))

	batches, err := env.ledger.ListByVendor(ctx, vendor)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].TotalSales.Equal(decimal.NewFromInt(90)))
}

func TestRunFallsBackToSubOrderVendor(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	from, to := DayWindow(time.Now())
	paidAt := from.Add(time.Hour)

	vendor := uuid.New()
	subs := []*ordermodel.SubOrder{{
		VendorID: vendor,
		Items: []ordermodel.OrderItem{{
			ID: uuid.New(), ProductID: uuid.New(), VendorID: uuid.Nil,
			Name: "Legacy Line", Price: decimal.NewFromInt(45), Quantity: 2,
		}},
	}}
	order := &ordermodel.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-legacy",
		UserID:        uuid.New(),
		Subtotal:      decimal.NewFromInt(90),
		Total:         decimal.NewFromInt(90),
		PaymentStatus: ordermodel.PaymentStatusPaid,
		PaidAt:        &paidAt,
	}
	require.NoError(t, env.orders.Create(ctx, order, subs))

	summary, err := env.ledger.Run(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.ItemsSkipped)

	batches, err := env.ledger.ListByVendor(ctx, vendor)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].TotalSales.Equal(decimal.NewFromInt(90)))
}

func TestConcurrentRunsNeverDoubleCount(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	from, to := DayWindow(time.Now())
	paidAt := from.Add(time.Hour)

	vendor := uuid.New()
	for i := 0; i < 5; i++ {
		env.seedPaidOrder(t, paidAt, map[uuid.UUID]int64{vendor: 20})
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ledger.Run(ctx, from, to)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	batches, err := env.ledger.ListByVendor(ctx, vendor)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].TotalSales.Equal(decimal.NewFromInt(100)), "total %s", batches[0].TotalSales)
	assert.Len(t, batches[0].OrderIDs, 5)
}
