package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-backend/internal/domains/coupon/model"
	"marketplace-backend/internal/domains/coupon/service"
	"marketplace-backend/internal/shared/response"
)

// CouponHandler exposes admin coupon management.
type CouponHandler struct {
	service service.ServiceInterface
}

func NewCouponHandler(service service.ServiceInterface) *CouponHandler {
	return &CouponHandler{service: service}
}

// CreateCoupon POST /admin/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req model.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	coupon, err := h.service.CreateCoupon(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, coupon.ToResponse())
}

// GetCoupon GET /admin/coupons/:id
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	coupon, err := h.service.GetCouponByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, coupon.ToResponse())
}

// ListCoupons GET /admin/coupons
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	coupons, total, err := h.service.ListCoupons(c.Request.Context(), page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]*model.CouponResponse, len(coupons))
	for i, coupon := range coupons {
		items[i] = coupon.ToResponse()
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// DeleteCoupon DELETE /admin/coupons/:id
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	if err := h.service.DeleteCoupon(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

func (h *CouponHandler) handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}
	if errors.Is(err, model.ErrCouponNotFound) {
		response.NotFound(c, "coupon does not exist")
		return
	}

	response.InternalServerError(c, "internal server error")
}
