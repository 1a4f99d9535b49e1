package main

import (
	"github.com/hibiken/asynq"

	promotionJob "marketplace-backend/internal/domains/promotion/job"
	settlementJob "marketplace-backend/internal/domains/settlement/job"
	"marketplace-backend/internal/shared"
	"marketplace-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	expirePromotions *promotionJob.ExpirePromotionsHandler
	runSettlement    *settlementJob.RunSettlementHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		expirePromotions: c.ExpirePromotionsJob,
		runSettlement:    c.RunSettlementJob,
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Promotion sweeps
	mux.HandleFunc(shared.TypeExpireDeals, h.expirePromotions.ProcessExpireDeals)
	mux.HandleFunc(shared.TypeExpireFlashOffers, h.expirePromotions.ProcessExpireFlashOffers)

	// Settlement
	mux.HandleFunc(shared.TypeRunSettlement, h.runSettlement.ProcessRunSettlement)
}
