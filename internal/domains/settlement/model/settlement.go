package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT STATUS CONSTANTS
// =====================================================
const (
	BatchStatusPending = "pending"
	BatchStatusPaid    = "paid"
)

// =====================================================
// ENTITY: SettlementBatch
// =====================================================
// A batch accumulates one vendor's earnings until it is paid out. While
// pending, TotalSales only grows and OrderIDs only gains members. Across
// all of a vendor's batches, pending and paid alike, no order id ever
// appears twice: the aggregation run seeds its skip set from the vendor's
// entire batch history. Marking a batch paid is terminal; the next run
// opens a fresh pending batch.
type SettlementBatch struct {
	ID            uuid.UUID       `json:"id"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	OrderIDs      []uuid.UUID     `json:"order_ids"`
	PaymentStatus string          `json:"payment_status"`
	PayoutDate    *time.Time      `json:"payout_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (b *SettlementBatch) IsPending() bool {
	return b.PaymentStatus == BatchStatusPending
}

// ContainsOrder reports whether the order is already recorded in this batch.
func (b *SettlementBatch) ContainsOrder(orderID uuid.UUID) bool {
	for _, id := range b.OrderIDs {
		if id == orderID {
			return true
		}
	}
	return false
}

// AddOrders grows the batch by the increment. Caller guarantees the order
// ids are not yet recorded anywhere in the vendor's history.
func (b *SettlementBatch) AddOrders(amount decimal.Decimal, orderIDs []uuid.UUID) {
	b.TotalSales = b.TotalSales.Add(amount)
	b.OrderIDs = append(b.OrderIDs, orderIDs...)
}
