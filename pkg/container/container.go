package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"tourbooking-backend/internal/config"
	infraCache "tourbooking-backend/internal/infrastructure/cache"
	"tourbooking-backend/internal/infrastructure/database"
	"tourbooking-backend/pkg/cache"
	"tourbooking-backend/pkg/jwt"
	"tourbooking-backend/pkg/logger"

	bookingHandler "tourbooking-backend/internal/domains/booking/handler"
	bookingRepo "tourbooking-backend/internal/domains/booking/repository"
	bookingService "tourbooking-backend/internal/domains/booking/service"
	"tourbooking-backend/internal/domains/payment/gateway/nestpay"
	paymentHandler "tourbooking-backend/internal/domains/payment/handler"
	paymentRepo "tourbooking-backend/internal/domains/payment/repository"
	paymentService "tourbooking-backend/internal/domains/payment/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in here is
// a singleton living for the process lifetime.
type Container struct {
	// Infrastructure - shared across all domains
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Repositories - data access
	BookingRepo bookingRepo.BookingRepository
	PaymentRepo paymentRepo.PaymentRepository
	WebhookRepo paymentRepo.WebhookLogRepository
	TxManager   paymentRepo.TransactionManager

	// Gateway client
	NestPay *nestpay.Client

	// Services - business logic
	BookingService bookingService.BookingService
	PaymentService paymentService.PaymentService

	// Handlers - thin HTTP layer
	BookingHandler *bookingHandler.BookingHandler
	PaymentHandler *paymentHandler.PaymentHandler
}

// NewContainer builds the whole dependency graph in order:
// config -> infrastructure -> repositories -> services -> handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	// Redis failure is non-critical: the advisory settlement lock
	// degrades to the conditional update alone.
	if err := redisCache.Connect(context.Background()); err != nil {
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 4: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")

	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 5: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")

	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 6: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")

	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookingRepo = bookingRepo.NewBookingRepository(pool)
	c.PaymentRepo = paymentRepo.NewPaymentRepository(pool)
	c.WebhookRepo = paymentRepo.NewWebhookLogRepository(pool)
	c.TxManager = paymentRepo.NewTransactionManager(pool)
}

func (c *Container) initServices() {
	c.NestPay = nestpay.NewClient(c.Config.NestPay)

	c.BookingService = bookingService.NewBookingService(c.BookingRepo)
	c.PaymentService = paymentService.NewPaymentService(
		c.BookingRepo,
		c.PaymentRepo,
		c.WebhookRepo,
		c.TxManager,
		c.Cache,
		c.NestPay,
		c.Config.Payment.TimeoutMinutes,
	)
}

func (c *Container) initHandlers() {
	c.BookingHandler = bookingHandler.NewBookingHandler(c.BookingService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService, c.Config.Payment)
}

// Cleanup releases infrastructure resources on shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("⚠️  Failed to close database: %v", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		}
	}

	log.Println("✅ Cleanup complete")
}
