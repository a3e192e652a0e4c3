// Package main provides the main entry point for the LendWise loan origination platform
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lendwise/lendwise/app/handlers"
	"github.com/lendwise/lendwise/app/middleware"
	"github.com/lendwise/lendwise/app/router"
	"github.com/lendwise/lendwise/app/services"
	businessflow "github.com/lendwise/lendwise/business_flow"
	"github.com/lendwise/lendwise/config"
	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/repository"
	"github.com/lendwise/lendwise/utils"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting LendWise application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logCloser := utils.SetupLogger(utils.LoggerOptions{
		Output:     cfg.Logging.Output,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})
	defer logCloser.Close()

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Merchant{},
		&models.Application{},
		&models.Document{},
		&models.FinancialSummary{},
		&models.EligibilityScore{},
		&models.Lender{},
		&models.Decision{},
		&models.Offer{},
		&models.PasswordResetToken{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Seed the back-office account and the lender panel
	if err := ensureAdminAndLenders(db, cfg); err != nil {
		return nil, err
	}

	// Initialize repositories
	merchantRepo := repository.NewMerchantRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	summaryRepo := repository.NewFinancialSummaryRepository(db)
	scoreRepo := repository.NewEligibilityScoreRepository(db)
	lenderRepo := repository.NewCachedLenderRepository(repository.NewLenderRepository(db), rc)
	decisionRepo := repository.NewDecisionRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	resetTokenRepo := repository.NewPasswordResetTokenRepository(db)

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Reset mails go through the mock provider until an SMTP relay is wired in
	mailer := services.NewMailerService(services.NewMockEmailProvider(), cfg.Email.ResetBaseURL)

	ocrService := services.NewUnavailableOCRService()

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(
		merchantRepo,
		resetTokenRepo,
		tokenService,
		mailer,
		db,
	)

	merchantFlow := businessflow.NewMerchantFlow(merchantRepo, db)

	applicationFlow := businessflow.NewApplicationFlow(
		applicationRepo,
		merchantRepo,
		db,
	)

	documentFlow := businessflow.NewDocumentFlow(
		documentRepo,
		applicationRepo,
		cfg.Upload.StorageDir,
		db,
	)

	extractionFlow := businessflow.NewExtractionFlow(
		applicationRepo,
		summaryRepo,
		ocrService,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		db,
	)

	scoringFlow := businessflow.NewScoringFlow(
		applicationRepo,
		summaryRepo,
		scoreRepo,
		db,
	)

	lenderFlow := businessflow.NewLenderFlow(
		applicationRepo,
		summaryRepo,
		scoreRepo,
		lenderRepo,
		decisionRepo,
		offerRepo,
		db,
	)

	adminFlow := businessflow.NewAdminFlow(merchantRepo, applicationRepo)

	// Initialize handlers
	routerHandlers := router.Handlers{
		Auth:        handlers.NewAuthHandler(authFlow),
		Merchant:    handlers.NewMerchantHandler(merchantFlow),
		Application: handlers.NewApplicationHandler(applicationFlow),
		Document:    handlers.NewDocumentHandler(documentFlow),
		Pipeline:    handlers.NewPipelineHandler(extractionFlow, scoringFlow, lenderFlow),
		Admin:       handlers.NewAdminHandler(adminFlow),
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(routerHandlers, authMiddleware, cfg.Security.AllowedOrigins)

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// seedLenders is the reference lender panel created on first startup
var seedLenders = []models.Lender{
	{
		Name:                     "Credable",
		Slug:                     "credable",
		MinMonthlyRevenue:        50000,
		MinBusinessVintageMonths: 3,
		MinEligibilityScore:      50,
		LoanMinAmount:            100000,
		LoanMaxAmount:            10000000,
		InterestRateMin:          12,
		InterestRateMax:          20,
	},
	{
		Name:                     "QuickCapital",
		Slug:                     "quickcapital",
		MinMonthlyRevenue:        200000,
		MinBusinessVintageMonths: 12,
		MinEligibilityScore:      60,
		LoanMinAmount:            200000,
		LoanMaxAmount:            5000000,
		InterestRateMin:          14,
		InterestRateMax:          22,
	},
	{
		Name:                     "BizFund Pro",
		Slug:                     "bizfund-pro",
		MinMonthlyRevenue:        500000,
		MinBusinessVintageMonths: 24,
		MinEligibilityScore:      70,
		LoanMinAmount:            500000,
		LoanMaxAmount:            10000000,
		InterestRateMin:          12,
		InterestRateMax:          18,
		AllowedIndustries:        models.IndustryList{"Retail", "Manufacturing", "Services"},
	},
	{
		Name:                     "GrowthLend",
		Slug:                     "growthlend",
		MinMonthlyRevenue:        100000,
		MinBusinessVintageMonths: 6,
		MinEligibilityScore:      55,
		LoanMinAmount:            200000,
		LoanMaxAmount:            3000000,
		InterestRateMin:          16,
		InterestRateMax:          24,
	},
	{
		Name:                     "Enterprise Credit",
		Slug:                     "enterprise-credit",
		MinMonthlyRevenue:        1000000,
		MinBusinessVintageMonths: 36,
		MinEligibilityScore:      75,
		LoanMinAmount:            2000000,
		LoanMaxAmount:            50000000,
		InterestRateMin:          10,
		InterestRateMax:          15,
	},
}

// ensureAdminAndLenders seeds the back-office account and the lender panel.
// Both are idempotent so restarts leave existing rows untouched.
func ensureAdminAndLenders(db *gorm.DB, cfg *config.ProductionConfig) error {
	ctx := context.Background()
	merchantRepo := repository.NewMerchantRepository(db)
	lenderRepo := repository.NewLenderRepository(db)

	existing, err := merchantRepo.ByEmail(ctx, cfg.Admin.Email)
	if err != nil {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}
	if existing == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), cfg.Security.BcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := &models.Merchant{
			Email:        cfg.Admin.Email,
			PasswordHash: string(hash),
			Name:         "LendWise Admin",
			Role:         models.RoleAdmin,
			CreatedAt:    utils.UTCNow(),
			UpdatedAt:    utils.UTCNowPtr(),
		}
		if err := merchantRepo.Save(ctx, admin); err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}
		log.Printf("Seeded admin account %s", cfg.Admin.Email)
	}

	for i := range seedLenders {
		lender := seedLenders[i]
		found, err := lenderRepo.BySlug(ctx, lender.Slug)
		if err != nil {
			return fmt.Errorf("failed to look up lender %s: %w", lender.Slug, err)
		}
		if found != nil {
			continue
		}
		lender.IsActive = true
		lender.CreatedAt = utils.UTCNow()
		if err := lenderRepo.Save(ctx, &lender); err != nil {
			return fmt.Errorf("failed to seed lender %s: %w", lender.Slug, err)
		}
		log.Printf("Seeded lender %s", lender.Name)
	}

	return nil
}
