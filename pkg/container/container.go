package container

import (
	"context"
	"fmt"
	"time"

	"nutrition-backend/internal/config"
	"nutrition-backend/internal/domains/cart"
	cartHandler "nutrition-backend/internal/domains/cart/handler"
	cartRepo "nutrition-backend/internal/domains/cart/repository"
	cartService "nutrition-backend/internal/domains/cart/service"
	"nutrition-backend/internal/domains/category"
	categoryHandler "nutrition-backend/internal/domains/category/handler"
	categoryRepo "nutrition-backend/internal/domains/category/repository"
	categoryService "nutrition-backend/internal/domains/category/service"
	"nutrition-backend/internal/domains/order"
	orderHandler "nutrition-backend/internal/domains/order/handler"
	orderRepo "nutrition-backend/internal/domains/order/repository"
	orderService "nutrition-backend/internal/domains/order/service"
	"nutrition-backend/internal/domains/product"
	productHandler "nutrition-backend/internal/domains/product/handler"
	productRepo "nutrition-backend/internal/domains/product/repository"
	productService "nutrition-backend/internal/domains/product/service"
	"nutrition-backend/internal/domains/user"
	userHandler "nutrition-backend/internal/domains/user/handler"
	userRepo "nutrition-backend/internal/domains/user/repository"
	userService "nutrition-backend/internal/domains/user/service"
	"nutrition-backend/internal/infrastructure/cache"
	"nutrition-backend/internal/infrastructure/database"
	"nutrition-backend/internal/infrastructure/queue"
	pkgcache "nutrition-backend/pkg/cache"
	"nutrition-backend/pkg/jwt"
	"nutrition-backend/pkg/logger"
)

// Container wires the whole dependency graph:
// config -> infrastructure -> repositories -> services -> handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB          *database.PostgresDB
	Redis       *cache.RedisClient
	Cache       pkgcache.Cache
	JWTManager  *jwt.Manager
	QueueClient *queue.Client

	// Repositories
	CategoryRepo category.CategoryRepository
	ProductRepo  product.ProductRepository
	UserRepo     user.UserRepository
	CartRepo     cart.CartRepository
	OrderRepo    order.OrderRepository

	// Services
	CategoryService category.CategoryService
	ProductService  product.ProductService
	UserService     user.UserService
	CartService     cart.CartService
	OrderService    order.OrderService

	// Handlers
	CategoryHandler *categoryHandler.CategoryHandler
	ProductHandler  *productHandler.ProductHandler
	UserHandler     *userHandler.UserHandler
	CartHandler     *cartHandler.CartHandler
	OrderHandler    *orderHandler.OrderHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	if err := c.initConfig(); err != nil {
		return nil, err
	}
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", map[string]interface{}{
		"environment": c.Config.App.Environment,
	})
	return c, nil
}

func (c *Container) initConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment)
	return nil
}

func (c *Container) initInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := database.NewPostgresDB(&database.DBConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		Username: c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.Database,
		SSLMode:  c.Config.Database.SSLMode,

		MaxConns:          int32(c.Config.Database.MaxConns),
		MinConns:          int32(c.Config.Database.MinConns),
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,

		MaxRetries:     5,
		RetryDelay:     2 * time.Second,
		ConnectTimeout: 10 * time.Second,
	})
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	c.DB = db

	redisClient := cache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := redisClient.Connect(ctx); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	c.Redis = redisClient
	c.Cache = cache.NewRedisCache(redisClient.Client)

	c.JWTManager = jwt.NewManager(
		c.Config.JWT.Secret,
		c.Config.JWT.AccessTokenExpiry,
		c.Config.JWT.RefreshTokenExpiry,
	)

	c.QueueClient = queue.NewClient(c.Config.Redis.Host)

	return nil
}

func (c *Container) initRepositories() {
	c.CategoryRepo = categoryRepo.NewPostgresRepository(c.DB.Pool)
	c.ProductRepo = productRepo.NewPostgresRepository(c.DB.Pool)
	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
	c.CartRepo = cartRepo.NewPostgresRepository(c.DB.Pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo, c.ProductRepo)
	c.ProductService = productService.NewProductService(c.ProductRepo)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Cache)
	c.CartService = cartService.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = orderService.NewOrderService(c.OrderRepo, c.CartRepo, c.UserRepo, c.QueueClient)
}

func (c *Container) initHandlers() {
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CartHandler = cartHandler.NewCartHandler(c.CartService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
}

// HealthCheck pings every stateful dependency.
func (c *Container) HealthCheck(ctx context.Context) error {
	if err := c.DB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Redis.HealthCheck(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Cleanup releases every held resource. Call on shutdown.
func (c *Container) Cleanup() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Error("failed to close queue client", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}

	logger.Info("container cleaned up", nil)
}
