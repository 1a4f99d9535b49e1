package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"marketplace-backend/internal/domains/settlement/service"
	"marketplace-backend/pkg/logger"
)

// RunSettlementHandler triggers the daily aggregation pass. The run is
// idempotent against re-scans, so a retried or overlapping invocation can
// only skip work, never double-count.
type RunSettlementHandler struct {
	ledger service.ServiceInterface
}

func NewRunSettlementHandler(ledger service.ServiceInterface) *RunSettlementHandler {
	return &RunSettlementHandler{ledger: ledger}
}

// ProcessRunSettlement handles the scheduled daily settlement run.
func (h *RunSettlementHandler) ProcessRunSettlement(ctx context.Context, t *asynq.Task) error {
	start := time.Now()
	from, to := service.DayWindow(start)

	logger.Info("starting settlement run", map[string]interface{}{
		"from": from,
		"to":   to,
	})

	summary, err := h.ledger.Run(ctx, from, to)
	if err != nil {
		logger.Error("settlement run failed", err)
		return err
	}

	logger.Info("completed settlement run", map[string]interface{}{
		"vendors_seen":   summary.VendorsSeen,
		"orders_added":   summary.OrdersAdded,
		"sales_recorded": summary.SalesRecorded,
		"items_skipped":  summary.ItemsSkipped,
		"duration":       time.Since(start).String(),
	})
	return nil
}
