package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-backend/internal/domains/settlement/model"
	"marketplace-backend/internal/domains/settlement/service"
	"marketplace-backend/internal/shared/response"
)

// SettlementHandler exposes the ledger to the admin surface.
type SettlementHandler struct {
	service service.ServiceInterface
}

func NewSettlementHandler(service service.ServiceInterface) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// RunSettlement POST /admin/settlements/run
// Triggers an on-demand aggregation. An empty body runs the current day.
func (h *SettlementHandler) RunSettlement(c *gin.Context) {
	var req model.RunSettlementRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request body")
			return
		}
	}

	from, to := service.DayWindow(time.Now())
	if req.From != nil && req.To != nil {
		if !req.To.After(*req.From) {
			response.BadRequest(c, "to must be after from")
			return
		}
		from, to = *req.From, *req.To
	}

	summary, err := h.service.Run(c.Request.Context(), from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// ListVendorBatches GET /admin/settlements/vendor/:vendorId
func (h *SettlementHandler) ListVendorBatches(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("vendorId"))
	if err != nil {
		response.BadRequest(c, "invalid vendor id")
		return
	}

	batches, err := h.service.ListByVendor(c.Request.Context(), vendorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]*model.BatchResponse, len(batches))
	for i, b := range batches {
		items[i] = b.ToResponse()
	}

	response.Success(c, http.StatusOK, items)
}

// MarkBatchPaid PATCH /admin/settlements/:id/paid
func (h *SettlementHandler) MarkBatchPaid(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid batch id")
		return
	}

	var req model.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	batch, err := h.service.MarkAsPaid(c.Request.Context(), batchID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, batch.ToResponse())
}

func (h *SettlementHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrBatchNotFound):
		response.NotFound(c, "settlement batch does not exist")
	case errors.Is(err, model.ErrBatchAlreadyPaid):
		response.ErrorResponse(c, http.StatusConflict,
			string(model.ErrCodeBatchPaid), err.Error())
	default:
		response.InternalServerError(c, "internal server error")
	}
}
