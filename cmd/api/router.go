package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nutrition-backend/internal/shared/middleware"
	"nutrition-backend/internal/shared/response"
	"nutrition-backend/pkg/container"
)

// SetupRouter wires middleware and every route group onto a fresh
// gin engine.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")

	setupHealthRoutes(v1, c)
	setupAuthRoutes(v1, c)
	setupCategoryRoutes(v1, c)
	setupProductRoutes(v1, c)
	setupUserRoutes(v1, c)
	setupCartRoutes(v1, c)
	setupOrderRoutes(v1, c)

	return router
}

func setupHealthRoutes(rg *gin.RouterGroup, c *container.Container) {
	rg.GET("/health", func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		if err := c.HealthCheck(checkCtx); err != nil {
			response.ErrorResponse(ctx, http.StatusServiceUnavailable, "UNHEALTHY", err.Error())
			return
		}

		response.Success(ctx, http.StatusOK, gin.H{
			"status":  "ok",
			"name":    c.Config.App.Name,
			"version": c.Config.App.Version,
		})
	})
}

func setupAuthRoutes(rg *gin.RouterGroup, c *container.Container) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

func setupCategoryRoutes(rg *gin.RouterGroup, c *container.Container) {
	categories := rg.Group("/categories")
	{
		// Public tree reads
		categories.GET("", c.CategoryHandler.Index)
		categories.GET("/:id", c.CategoryHandler.Show)
	}

	admin := rg.Group("/admin/categories")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.POST("", c.CategoryHandler.Create)
		admin.PUT("/:id", c.CategoryHandler.Update)
		admin.DELETE("/:id", c.CategoryHandler.Destroy)
	}
}

func setupProductRoutes(rg *gin.RouterGroup, c *container.Container) {
	products := rg.Group("/products")
	{
		products.GET("", c.ProductHandler.List)
		products.GET("/:slug", c.ProductHandler.GetBySlug)
	}

	admin := rg.Group("/admin/products")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.POST("", c.ProductHandler.Create)
		admin.PUT("/:id", c.ProductHandler.Update)
		admin.DELETE("/:id", c.ProductHandler.Delete)
	}
}

func setupUserRoutes(rg *gin.RouterGroup, c *container.Container) {
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.Profile)
	}
}

func setupCartRoutes(rg *gin.RouterGroup, c *container.Container) {
	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		cart.GET("", c.CartHandler.GetCart)
		cart.POST("/items", c.CartHandler.AddItem)
		cart.PUT("/items/:id", c.CartHandler.UpdateItem)
		cart.DELETE("/items/:id", c.CartHandler.RemoveItem)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, c *container.Container) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		orders.POST("", c.OrderHandler.Checkout)
		orders.GET("", c.OrderHandler.List)
		orders.GET("/:id", c.OrderHandler.Get)
	}

	admin := rg.Group("/admin/orders")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.PUT("/:id/tracking", c.OrderHandler.UpdateTracking)
	}
}
