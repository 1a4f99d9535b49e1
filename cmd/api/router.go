package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCartRoutes(v1, c)
		setupAdminPromotionRoutes(v1, c)
		setupAdminCouponRoutes(v1, c)
		setupAdminSettlementRoutes(v1, c)
	}

	return router
}

// ========================================
// CART ROUTES
// ========================================
func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container) {
	cart := v1.Group("/cart")
	cart.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		cart.GET("", c.CartHandler.GetCart)
		cart.POST("/coupon", c.CartHandler.ApplyCoupon)
		cart.DELETE("/coupon", c.CartHandler.RemoveCoupon)
	}
}

// ========================================
// ADMIN PROMOTION ROUTES
// ========================================
func setupAdminPromotionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	promotions := v1.Group("/admin/promotions")
	promotions.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		promotions.POST("", c.PromotionHandler.CreatePromotion)
		promotions.GET("", c.PromotionHandler.ListPromotions)
		promotions.GET("/:id", c.PromotionHandler.GetPromotion)
		promotions.PUT("/:id", c.PromotionHandler.UpdatePromotion)
		promotions.PATCH("/:id/status", c.PromotionHandler.UpdateStatus)
		promotions.DELETE("/:id", c.PromotionHandler.DeletePromotion)
	}
}

// ========================================
// ADMIN COUPON ROUTES
// ========================================
func setupAdminCouponRoutes(v1 *gin.RouterGroup, c *container.Container) {
	coupons := v1.Group("/admin/coupons")
	coupons.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		coupons.POST("", c.CouponHandler.CreateCoupon)
		coupons.GET("", c.CouponHandler.ListCoupons)
		coupons.GET("/:id", c.CouponHandler.GetCoupon)
		coupons.DELETE("/:id", c.CouponHandler.DeleteCoupon)
	}
}

// ========================================
// ADMIN SETTLEMENT ROUTES
// ========================================
func setupAdminSettlementRoutes(v1 *gin.RouterGroup, c *container.Container) {
	settlements := v1.Group("/admin/settlements")
	settlements.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		settlements.POST("/run", c.SettlementHandler.RunSettlement)
		settlements.GET("/vendor/:vendorId", c.SettlementHandler.ListVendorBatches)
		settlements.PATCH("/:id/paid", c.SettlementHandler.MarkBatchPaid)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok", "redis": "ok"}

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := c.Cache.HealthCheck(checkCtx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}
