package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-teleconsult-booking/config"
	deliveryHttp "go-teleconsult-booking/internal/delivery/http"
	"go-teleconsult-booking/internal/delivery/http/handler"
	"go-teleconsult-booking/internal/delivery/http/middleware"
	"go-teleconsult-booking/internal/gateway"
	"go-teleconsult-booking/internal/infrastructure/cache"
	"go-teleconsult-booking/internal/infrastructure/database"
	"go-teleconsult-booking/internal/repository"
	"go-teleconsult-booking/internal/service"
	"go-teleconsult-booking/internal/usecase"
	"go-teleconsult-booking/pkg/jwt"
	"go-teleconsult-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Reconciler  *service.ReconcilerService
	Notifier    *service.NotifierService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	server, reconciler, notifier := initializeServer(cfg, db, redisClient)
	app.Server = server
	app.Reconciler = reconciler
	app.Notifier = notifier

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server plus the
// background reconciler.
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *service.ReconcilerService, *service.NotifierService) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository()
	templateRepo := repository.NewAvailabilityTemplateRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	paymentIntentRepo := repository.NewPaymentIntentRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize external collaborators
	notifier := service.NewNotifierService(gateway.NewRedisSink(redisClient, "appointment-events"), log)
	processor := gateway.NewRetryingProcessor(
		gateway.NewHTTPProcessor(cfg.Payment.GatewayURL, cfg.Payment.GatewayAPIKey),
		log,
		cfg.Payment.MaxConfirmAttempts,
		cfg.Payment.RetryBackoff,
	)
	sessionStore := service.NewVideoSessionStore(redisClient, cfg.Video.MaxDuration)

	// Initialize usecases
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, templateRepo, appointmentRepo, doctorProfileRepo, cfg.Booking)
	bookingUsecase := usecase.NewBookingUsecase(db, log, appointmentRepo, templateRepo, doctorProfileRepo, notifier, cfg.Booking)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, appointmentRepo, paymentIntentRepo, processor, notifier)
	videoUsecase := usecase.NewVideoUsecase(db, log, appointmentRepo, sessionStore, notifier, cfg.Video)

	// Initialize background reconciler
	reconciler := service.NewReconcilerService(db, log, appointmentRepo, notifier, cfg.Booking)

	// Initialize handlers
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase, customValidator)
	videoHandler := handler.NewVideoHandler(videoUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(availabilityHandler, appointmentHandler, paymentHandler, videoHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}

	return server, reconciler, notifier
}

// Run starts the HTTP server and the reconciler, then handles graceful shutdown
func (app *App) Run() {
	app.Reconciler.Run()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Stop the reconciler before the HTTP server so no sweep races shutdown
	app.Reconciler.Stop()

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Let in-flight notifications finish before closing the redis connection
	app.Notifier.Drain()

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
