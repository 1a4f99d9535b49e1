package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartmodel "marketplace-backend/internal/domains/cart/model"
	"marketplace-backend/internal/domains/cart/service"
	couponmodel "marketplace-backend/internal/domains/coupon/model"
	"marketplace-backend/internal/shared/response"
)

type CartHandler struct {
	service service.ServiceInterface
}

func NewCartHandler(service service.ServiceInterface) *CartHandler {
	return &CartHandler{service: service}
}

// GetCart GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cartView(cart))
}

// ApplyCoupon POST /cart/coupon
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req couponmodel.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cart, err := h.service.ApplyCoupon(c.Request.Context(), userID, req.Code)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cartView(cart))
}

// RemoveCoupon DELETE /cart/coupon
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.service.RemoveCoupon(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cartView(cart))
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "authentication required")
		return uuid.Nil, false
	}
	userID, ok := raw.(uuid.UUID)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func cartView(cart *cartmodel.Cart) gin.H {
	return gin.H{
		"cart":     cart,
		"subtotal": cart.Subtotal(),
		"total":    cart.Total(),
	}
}

// handleError distinguishes coupon rejections (reported with the reason)
// from genuine failures.
func (h *CartHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cartmodel.ErrCartNotFound):
		response.NotFound(c, "cart does not exist")
	case errors.Is(err, cartmodel.ErrCartEmpty),
		errors.Is(err, cartmodel.ErrNoCouponOnCart):
		response.BadRequest(c, err.Error())
	case errors.Is(err, couponmodel.ErrCouponNotFound):
		response.NotFound(c, "coupon does not exist")
	case errors.Is(err, couponmodel.ErrCouponNotActive),
		errors.Is(err, couponmodel.ErrCouponExhausted),
		errors.Is(err, couponmodel.ErrMinPurchaseNotMet),
		errors.Is(err, couponmodel.ErrFirstPurchaseOnly),
		errors.Is(err, couponmodel.ErrCouponNotApplicable):
		response.ErrorResponse(c, http.StatusUnprocessableEntity,
			string(couponmodel.ErrCodeCouponRejected), err.Error())
	default:
		response.InternalServerError(c, "internal server error")
	}
}
