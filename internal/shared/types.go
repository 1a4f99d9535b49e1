package shared

// Asynq task type names. Namespaced by domain so the worker mux can route
// them to the right handler.
const (
	TypeExpireDeals        = "promotion:expire_deals"
	TypeExpireFlashOffers  = "promotion:expire_flash_offers"
	TypeRunSettlement      = "settlement:aggregate_daily"
)

// Queue names, in priority order.
const (
	QueuePromotion  = "promotion"
	QueueSettlement = "settlement"
	QueueDefault    = "default"
)
