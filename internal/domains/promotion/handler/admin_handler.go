package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-backend/internal/domains/promotion/model"
	"marketplace-backend/internal/domains/promotion/service"
	"marketplace-backend/internal/shared/response"
)

// AdminHandler exposes deal/offer management (admin and vendor surface).
type AdminHandler struct {
	service service.ServiceInterface
}

func NewAdminHandler(service service.ServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// CreatePromotion POST /admin/promotions
func (h *AdminHandler) CreatePromotion(c *gin.Context) {
	var req model.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	promo, err := h.service.CreatePromotion(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, promo.ToResponse())
}

// GetPromotion GET /admin/promotions/:id
func (h *AdminHandler) GetPromotion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	promo, err := h.service.GetPromotionByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, promo.ToResponse())
}

// ListPromotions GET /admin/promotions
func (h *AdminHandler) ListPromotions(c *gin.Context) {
	filter := &model.ListPromotionsFilter{Page: 1, Limit: 20}

	if kind := c.Query("kind"); kind != "" {
		k := model.PromotionKind(kind)
		if !k.IsValid() {
			response.BadRequest(c, "invalid kind filter")
			return
		}
		filter.Kind = &k
	}
	if status := c.Query("status"); status != "" {
		s := model.PromotionStatus(status)
		filter.Status = &s
	}

	promos, total, err := h.service.ListPromotions(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]*model.PromotionResponse, len(promos))
	for i, p := range promos {
		items[i] = p.ToResponse()
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// UpdatePromotion PUT /admin/promotions/:id
func (h *AdminHandler) UpdatePromotion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	var req model.UpdatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	promo, err := h.service.UpdatePromotion(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, promo.ToResponse())
}

// UpdateStatus PATCH /admin/promotions/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdatePromotionStatus(c.Request.Context(), id, model.PromotionStatus(req.Status)); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// DeletePromotion DELETE /admin/promotions/:id
func (h *AdminHandler) DeletePromotion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	if err := h.service.DeletePromotion(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// handleError maps service errors to the response envelope.
func (h *AdminHandler) handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	response.InternalServerError(c, "internal server error")
}
