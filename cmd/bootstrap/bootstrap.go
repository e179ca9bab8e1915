package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-booking/config"
	deliveryHttp "marketplace-booking/internal/delivery/http"
	"marketplace-booking/internal/delivery/http/handler"
	"marketplace-booking/internal/delivery/http/middleware"
	"marketplace-booking/internal/infrastructure/cache"
	"marketplace-booking/internal/infrastructure/database"
	"marketplace-booking/internal/infrastructure/messaging"
	"marketplace-booking/internal/repository"
	"marketplace-booking/internal/service"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/jwt"
	"marketplace-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   *messaging.Publisher
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if cfg.DB.Migrate {
		if err := database.RunMigrations(db, cfg.DB.Name); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize message broker
	if cfg.AMQP.URL != "" {
		publisher, err := messaging.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to message broker: %w", err)
		}
		app.Publisher = publisher
		logrus.Info("Message broker connected successfully")
	} else {
		logrus.Warn("AMQP_URL not set, notifications will only be logged")
	}

	// Initialize all layers
	app.Server = app.initializeServer(cfg)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config) *http.Server {
	db := app.DB
	log := logrus.StandardLogger()

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	bookingRepo := repository.NewBookingRepository()
	historyRepo := repository.NewBookingHistoryRepository()
	providerRepo := repository.NewProviderRepository()
	catalogRepo := repository.NewCatalogRepository()
	transactor := database.NewTransactor(db)

	// Initialize services
	var notifier service.Notifier
	if app.Publisher != nil {
		notifier = service.NewAMQPNotifier(app.Publisher, log)
	} else {
		notifier = service.NewLogNotifier(log)
	}
	historyService := service.NewBookingHistoryService(log, historyRepo)
	categoryCache := service.NewCategoryCache(db, app.RedisClient, log, catalogRepo, cfg.Redis.CategoryCacheTTL)
	ranker := service.NewProviderRanker()

	if err := categoryCache.SyncOnStartup(context.Background()); err != nil {
		log.Warnf("Failed to warm category cache: %+v", err)
	}

	// Initialize usecases
	bookingUsecase := usecase.NewBookingUsecase(db, log, transactor, bookingRepo, providerRepo, catalogRepo, historyService, categoryCache, time.Now)
	lifecycleUsecase := usecase.NewBookingLifecycleUsecase(db, log, transactor, bookingRepo, providerRepo, historyService, notifier, time.Now)
	openRequestUsecase := usecase.NewOpenRequestUsecase(db, log, transactor, bookingRepo, providerRepo, historyService, notifier, time.Now,
		usecase.OpenRequestOptions{ClaimTriggersConflictSweep: cfg.Booking.ClaimTriggersConflictSweep})
	searchUsecase := usecase.NewProviderSearchUsecase(db, log, providerRepo, ranker, categoryCache)

	// Initialize handlers
	bookingHandler := handler.NewBookingHandler(bookingUsecase, lifecycleUsecase, customValidator, log)
	openRequestHandler := handler.NewOpenRequestHandler(openRequestUsecase, customValidator, log)
	providerHandler := handler.NewProviderHandler(searchUsecase, customValidator, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware()

	router := deliveryHttp.NewRouter(bookingHandler, openRequestHandler, providerHandler, authMiddleware, corsMiddleware)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, broker)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			logrus.Warnf("Failed to close message broker: %+v", err)
		}
	}
}
