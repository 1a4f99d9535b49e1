package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"marketplace-backend/internal/domains/promotion/model"
	"marketplace-backend/internal/domains/promotion/service"
	"marketplace-backend/pkg/logger"
)

// ExpirePromotionsHandler runs the scheduled expiry sweeps. Deals get a
// daily pass; offers, whose windows are typically a single day, get an
// hourly one. Both go through the same reconcile path.
//
// Sweep failures are logged only: nothing waits synchronously on a sweep,
// and revert is idempotent, so a partial pass is corrected on the next run.
type ExpirePromotionsHandler struct {
	promotions service.ServiceInterface
}

func NewExpirePromotionsHandler(promotions service.ServiceInterface) *ExpirePromotionsHandler {
	return &ExpirePromotionsHandler{promotions: promotions}
}

// ProcessExpireDeals handles the daily deal sweep.
func (h *ExpirePromotionsHandler) ProcessExpireDeals(ctx context.Context, t *asynq.Task) error {
	return h.sweep(ctx, model.KindDeal)
}

// ProcessExpireFlashOffers handles the hourly offer sweep.
func (h *ExpirePromotionsHandler) ProcessExpireFlashOffers(ctx context.Context, t *asynq.Task) error {
	return h.sweep(ctx, model.KindOffer)
}

func (h *ExpirePromotionsHandler) sweep(ctx context.Context, kind model.PromotionKind) error {
	start := time.Now()

	logger.Info("starting promotion expiry sweep", map[string]interface{}{
		"kind":       kind,
		"started_at": start,
	})

	expired, err := h.promotions.ReconcileExpired(ctx, kind, start)
	if err != nil {
		// Logged, never surfaced: the scheduler retries on its own cadence.
		logger.Error("promotion expiry sweep failed", err)
		return nil
	}

	logger.Info("completed promotion expiry sweep", map[string]interface{}{
		"kind":     kind,
		"expired":  expired,
		"duration": time.Since(start).String(),
	})

	return nil
}
