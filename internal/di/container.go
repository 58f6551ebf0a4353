package di

import (
	"github.com/ahmad-hanafi1/product-store-pern/internal/gateway"
	"github.com/ahmad-hanafi1/product-store-pern/internal/handler"
	"github.com/ahmad-hanafi1/product-store-pern/internal/middleware"
	"github.com/ahmad-hanafi1/product-store-pern/internal/repository"
	"github.com/ahmad-hanafi1/product-store-pern/internal/service"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/config"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/logger"
	pkgredis "github.com/ahmad-hanafi1/product-store-pern/pkg/redis"
)

const serviceName = "product-store"

// Container holds all dependencies for the API
type Container struct {
	Config *config.Config
	Log    *logger.Logger

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	RecipeRepo  repository.RecipeRepository

	// Services
	Hasher         service.PasswordHasher
	Tokens         service.TokenService
	AuthService    service.AuthService
	ProductService service.ProductService
	RecipeService  service.RecipeService

	// Handlers
	HealthHandler  *handler.HealthHandler
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	ProductHandler *handler.ProductHandler
	RecipeHandler  *handler.RecipeHandler

	// HTTP plumbing
	Metrics     *middleware.Metrics
	RateLimiter middleware.Limiter

	localLimiter *middleware.LocalRateLimiter
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config       *config.Config
	Log          *logger.Logger
	UserRepo     repository.UserRepository
	ProductRepo  repository.ProductRepository
	RecipeRepo   repository.RecipeRepository
	Generator    gateway.RecipeGenerator
	Redis        *pkgredis.Client // optional, backs the shared rate limiter
	HealthChecks map[string]handler.HealthChecker
	BcryptCost   int
	TokenOptions []service.TokenOption
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	generator := cfg.Generator
	if generator == nil {
		generator = gateway.NewMockGenerator()
	}
	bcryptCost := cfg.BcryptCost
	if bcryptCost == 0 {
		bcryptCost = service.DefaultBcryptCost
	}

	c := &Container{
		Config:      cfg.Config,
		Log:         log,
		UserRepo:    cfg.UserRepo,
		ProductRepo: cfg.ProductRepo,
		RecipeRepo:  cfg.RecipeRepo,
	}

	// Initialize services
	tokenOpts := append([]service.TokenOption{service.WithTTL(cfg.Config.JWT.TokenTTL)}, cfg.TokenOptions...)
	c.Hasher = service.NewBcryptHasher(bcryptCost)
	c.Tokens = service.NewJWTTokenService(cfg.Config.JWT.Secret, tokenOpts...)
	c.AuthService = service.NewAuthService(c.UserRepo, c.Hasher, c.Tokens, log.Named("auth"))
	c.ProductService = service.NewProductService(c.ProductRepo, log.Named("product"))
	c.RecipeService = service.NewRecipeService(c.RecipeRepo, generator, log.Named("recipe"))

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(serviceName, cfg.HealthChecks, log)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.UserHandler = handler.NewUserHandler(c.AuthService)
	c.ProductHandler = handler.NewProductHandler(c.ProductService)
	c.RecipeHandler = handler.NewRecipeHandler(c.RecipeService)

	c.Metrics = middleware.NewMetrics("product_store")

	rl := cfg.Config.RateLimit
	if rl.Enabled {
		limiterCfg := middleware.DefaultRateLimitConfig()
		limiterCfg.RequestsPerSecond = rl.RequestsPerSecond
		limiterCfg.BurstSize = rl.BurstSize

		if rl.UseRedis && cfg.Redis != nil {
			c.RateLimiter = middleware.NewRedisRateLimiter(cfg.Redis, limiterCfg)
		} else {
			c.localLimiter = middleware.NewLocalRateLimiter(limiterCfg)
			c.RateLimiter = c.localLimiter
		}
	}

	return c
}

// Close releases background resources owned by the container
func (c *Container) Close() {
	if c.localLimiter != nil {
		c.localLimiter.Stop()
	}
}
