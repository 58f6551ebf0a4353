package di

import (
	"github.com/gin-gonic/gin"

	"github.com/ahmad-hanafi1/product-store-pern/internal/middleware"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/telemetry"
)

// Router wires middleware and routes onto a new gin engine
func (c *Container) Router() *gin.Engine {
	cfg := c.Config

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware())
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		cors.AllowOrigins = cfg.CORS.AllowOrigins
	}
	router.Use(middleware.CORS(cors))
	router.Use(middleware.Logger(c.Log.Named("http")))
	router.Use(c.Metrics.Middleware())

	// Health and metrics stay outside the rate limiter
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	api := router.Group("/api")
	if c.RateLimiter != nil {
		limiterCfg := middleware.DefaultRateLimitConfig()
		limiterCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limiterCfg.BurstSize = cfg.RateLimit.BurstSize
		api.Use(middleware.RateLimit(c.RateLimiter, limiterCfg, c.Log.Named("ratelimit")))
	}

	requireAuth := middleware.Auth(c.AuthService, c.Log.Named("auth"))

	auth := api.Group("/auth")
	{
		auth.POST("/register", c.AuthHandler.Register)
		auth.POST("/login", c.AuthHandler.Login)
		auth.GET("/me", requireAuth, c.AuthHandler.Me)
	}

	products := api.Group("/product")
	{
		products.GET("", c.ProductHandler.List)
		products.GET("/:id", c.ProductHandler.Get)
		products.POST("", c.ProductHandler.Create)
		products.PUT("/:id", c.ProductHandler.Update)
		products.DELETE("/:id", c.ProductHandler.Delete)
	}

	users := api.Group("/users", requireAuth)
	{
		users.GET("", c.UserHandler.List)
	}

	recipes := api.Group("/recipes", requireAuth)
	{
		recipes.POST("/generate", c.RecipeHandler.Generate)
		recipes.GET("", c.RecipeHandler.List)
		recipes.GET("/:recipeId", c.RecipeHandler.Get)
		recipes.DELETE("/:recipeId", c.RecipeHandler.Delete)
	}

	return router
}
