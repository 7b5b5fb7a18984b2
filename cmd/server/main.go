package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/application"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/cache"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/config"
	bookingDomain "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/reservation"
	guesthouseEvents "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/events"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/database"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/health"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/kafka"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/logger"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/middleware"
)

const serviceName = "service-guesthouse"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("store_driver", cfg.StoreDriver),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.Config{
		Driver:   cfg.DBConfig.Driver,
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	// Run database migrations
	if dbConfig.Driver == database.DriverMySQL {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize repositories
	pricingStrategy := bookingDomain.NewStandardPricingStrategy()
	guesthouseRepo := repository.NewGormGuesthouseRepository(db)
	customerRepo := repository.NewGormCustomerRepository(db)

	var bookingRepo bookingDomain.BookingRepository
	switch cfg.StoreDriver {
	case config.StoreCSV:
		csvStore, err := repository.NewCSVBookingStore(cfg.CSVDir, customerRepo, guesthouseRepo, pricingStrategy, log)
		if err != nil {
			log.Fatal("failed to open CSV booking store", zap.Error(err))
		}
		bookingRepo = csvStore
	default:
		bookingRepo = repository.NewGormBookingRepository(db)
	}

	if cfg.Seed {
		if err := repository.SeedDefaults(ctx, guesthouseRepo, customerRepo, log); err != nil {
			log.Fatal("failed to seed catalog", zap.Error(err))
		}
	}

	// Build the reservation engine from persisted state
	engine := reservation.NewEngine(
		reservation.WithPricing(pricingStrategy),
		reservation.WithRecommendationLimit(cfg.RecommendLimit),
	)
	stats, err := application.Hydrate(ctx, engine, guesthouseRepo, customerRepo, bookingRepo, log)
	if err != nil {
		log.Fatal("failed to load reservation state", zap.Error(err))
	}
	log.Info("reservation state loaded",
		zap.Int("guesthouses", stats.Guesthouses),
		zap.Int("customers", stats.Customers),
		zap.Int("bookings", stats.Bookings),
		zap.Int("skipped", stats.Skipped),
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	readiness := map[string]health.Pinger{"database": sqlDB}

	// Initialize recommendation cache
	var recommendCache application.RecommendationCache
	if cfg.RedisConfig.Addr != "" {
		redisClient := cache.NewClient(cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB)
		defer func() { _ = redisClient.Close() }()
		recommendCache = cache.NewRecommendationCache(redisClient, cfg.RecommendCacheTTL, log)
		readiness["redis"] = cache.Pinger{Client: redisClient}
		log.Info("recommendation cache enabled", zap.String("addr", cfg.RedisConfig.Addr))
	}

	// Initialize application services
	services := application.NewServices(application.Deps{
		Engine:      engine,
		Guesthouses: guesthouseRepo,
		Customers:   customerRepo,
		Bookings:    bookingRepo,
		Publisher:   kafkaProducer,
		Cache:       recommendCache,
		Logger:      log,
	})

	// Initialize and start account event consumer in a goroutine
	groupID := cfg.KafkaConfig.GroupPrefix + "guesthouse-service"
	accountConsumer := guesthouseEvents.NewAccountEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		services.Customers,
		log,
	)
	defer func() { _ = accountConsumer.Close() }()

	go func() {
		log.Info("starting account event consumer")
		if err := accountConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("account event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(services.Bookings)
	customerHandler := handler.NewCustomerHandler(services.Customers)
	guesthouseHandler := handler.NewGuesthouseHandler(services.Guesthouses)
	adminHandler := handler.NewAdminHandler(services.Bookings, services.Guesthouses)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware(rateLimiter, log))

	// Register health check routes
	healthHandler := health.NewHandler(serviceName, readiness)
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	customerHandler.RegisterRoutes(&router.RouterGroup)
	guesthouseHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
