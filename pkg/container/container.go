package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/infrastructure/cache"
	"marketplace-backend/internal/infrastructure/database"
	"marketplace-backend/pkg/jwt"

	cartHandler "marketplace-backend/internal/domains/cart/handler"
	cartRepo "marketplace-backend/internal/domains/cart/repository"
	cartService "marketplace-backend/internal/domains/cart/service"
	catalogRepo "marketplace-backend/internal/domains/catalog/repository"
	catalogService "marketplace-backend/internal/domains/catalog/service"
	couponHandler "marketplace-backend/internal/domains/coupon/handler"
	couponRepo "marketplace-backend/internal/domains/coupon/repository"
	couponService "marketplace-backend/internal/domains/coupon/service"
	orderRepo "marketplace-backend/internal/domains/order/repository"
	promotionHandler "marketplace-backend/internal/domains/promotion/handler"
	promotionJob "marketplace-backend/internal/domains/promotion/job"
	promotionRepo "marketplace-backend/internal/domains/promotion/repository"
	promotionService "marketplace-backend/internal/domains/promotion/service"
	settlementHandler "marketplace-backend/internal/domains/settlement/handler"
	settlementJob "marketplace-backend/internal/domains/settlement/job"
	settlementRepo "marketplace-backend/internal/domains/settlement/repository"
	settlementService "marketplace-backend/internal/domains/settlement/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the full dependency graph. Everything in here is a
// singleton wired once at startup; handlers and services are stateless.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      *cache.RedisClient
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	CatalogRepo    catalogRepo.CatalogRepository
	PromotionRepo  promotionRepo.PromotionRepository
	CouponRepo     couponRepo.CouponRepository
	CartRepo       cartRepo.CartRepository
	OrderRepo      orderRepo.OrderRepository
	SettlementRepo settlementRepo.SettlementRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	TargetResolver    *catalogService.TargetResolver
	PromotionService  promotionService.ServiceInterface
	CouponService     couponService.ServiceInterface
	CartService       cartService.ServiceInterface
	SettlementService settlementService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	PromotionHandler  *promotionHandler.AdminHandler
	CouponHandler     *couponHandler.CouponHandler
	CartHandler       *cartHandler.CartHandler
	SettlementHandler *settlementHandler.SettlementHandler

	// ========================================
	// JOB HANDLERS (worker process only)
	// ========================================
	ExpirePromotionsJob *promotionJob.ExpirePromotionsHandler
	RunSettlementJob    *settlementJob.RunSettlementHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer initializes the graph bottom-up: config, infrastructure,
// repositories, services, handlers. Order matters.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ----------------------------------------
	// STEP 1: CONFIGURATION
	// ----------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("[CONTAINER] Config loaded (environment: %s)", cfg.App.Environment)

	// ----------------------------------------
	// STEP 2: DATABASE
	// ----------------------------------------
	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// ----------------------------------------
	// STEP 3: REDIS
	// ----------------------------------------
	redisClient := cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(context.Background()); err != nil {
		// Carts and settlement leases degrade without Redis, but the
		// API can still serve promotion traffic.
		log.Printf("[CONTAINER] Redis connection failed (non-critical): %v", err)
	}
	c.Cache = redisClient

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ----------------------------------------
	// STEP 4: REPOSITORIES
	// ----------------------------------------
	c.initRepositories()

	// ----------------------------------------
	// STEP 5: SERVICES
	// ----------------------------------------
	c.initServices()

	// ----------------------------------------
	// STEP 6: HANDLERS
	// ----------------------------------------
	c.initHandlers()

	log.Println("[CONTAINER] Dependency graph initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CatalogRepo = catalogRepo.NewPostgresRepository(pool)
	c.PromotionRepo = promotionRepo.NewPostgresRepository(pool)
	c.CouponRepo = couponRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
	c.SettlementRepo = settlementRepo.NewPostgresRepository(pool)
	c.CartRepo = cartRepo.NewRedisRepository(c.Cache.Client)
}

func (c *Container) initServices() {
	calculator := promotionService.NewDiscountCalculator()
	c.TargetResolver = catalogService.NewTargetResolver(c.CatalogRepo)

	priceResolver := promotionService.NewPriceResolver(
		c.CatalogRepo,
		c.PromotionRepo,
		c.TargetResolver,
	)

	c.PromotionService = promotionService.NewPromotionService(
		c.PromotionRepo,
		priceResolver,
	)

	couponValidator := couponService.NewValidator(
		c.CatalogRepo,
		c.OrderRepo,
		c.TargetResolver,
		calculator,
	)
	c.CouponService = couponService.NewCouponService(c.CouponRepo, couponValidator)

	c.CartService = cartService.NewCartService(c.CartRepo, c.CouponService)

	locker := settlementService.NewLeaseLocker(
		c.Cache,
		time.Duration(c.Config.Jobs.SettlementLockTTL)*time.Second,
	)
	c.SettlementService = settlementService.NewLedger(
		c.SettlementRepo,
		c.OrderRepo,
		locker,
	)
}

func (c *Container) initHandlers() {
	c.PromotionHandler = promotionHandler.NewAdminHandler(c.PromotionService)
	c.CouponHandler = couponHandler.NewCouponHandler(c.CouponService)
	c.CartHandler = cartHandler.NewCartHandler(c.CartService)
	c.SettlementHandler = settlementHandler.NewSettlementHandler(c.SettlementService)

	c.ExpirePromotionsJob = promotionJob.NewExpirePromotionsHandler(c.PromotionService)
	c.RunSettlementJob = settlementJob.NewRunSettlementHandler(c.SettlementService)
}

// Close releases infrastructure connections on shutdown.
func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Printf("[CONTAINER] Redis close failed: %v", err)
		}
	}
}
