package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunSettlementRequest optionally narrows the aggregation window. With no
// body the run covers the current day.
type RunSettlementRequest struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// MarkPaidRequest carries the target status for a batch. Pending -> paid
// is the only legal transition.
type MarkPaidRequest struct {
	Status string `json:"status"`
}

func (r MarkPaidRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(BatchStatusPaid)),
	)
}

type BatchResponse struct {
	ID            uuid.UUID       `json:"id"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	OrderCount    int             `json:"order_count"`
	OrderIDs      []uuid.UUID     `json:"order_ids"`
	PaymentStatus string          `json:"payment_status"`
	PayoutDate    *time.Time      `json:"payout_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (b *SettlementBatch) ToResponse() *BatchResponse {
	return &BatchResponse{
		ID:            b.ID,
		VendorID:      b.VendorID,
		TotalSales:    b.TotalSales,
		OrderCount:    len(b.OrderIDs),
		OrderIDs:      b.OrderIDs,
		PaymentStatus: b.PaymentStatus,
		PayoutDate:    b.PayoutDate,
		CreatedAt:     b.CreatedAt,
	}
}

// RunSummary reports what one aggregation pass did.
type RunSummary struct {
	Window        string          `json:"window"`
	VendorsSeen   int             `json:"vendors_seen"`
	OrdersAdded   int             `json:"orders_added"`
	SalesRecorded decimal.Decimal `json:"sales_recorded"`
	ItemsSkipped  int             `json:"items_skipped"`
}
