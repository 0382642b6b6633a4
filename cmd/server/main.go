package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"promatch.backend/internal/config"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/domain/gateways"
	"promatch.backend/internal/infrastructure/chat"
	"promatch.backend/internal/infrastructure/datasources/postgres"
	"promatch.backend/internal/infrastructure/events"
	"promatch.backend/internal/infrastructure/jobs"
	"promatch.backend/internal/infrastructure/media"
	"promatch.backend/internal/infrastructure/payments"
	"promatch.backend/internal/infrastructure/repositories"
	"promatch.backend/internal/interfaces/http/handlers"
	"promatch.backend/internal/interfaces/http/middleware"
	"promatch.backend/internal/usecases"
	"promatch.backend/pkg/jwt"
	"promatch.backend/pkg/logger"
	"promatch.backend/pkg/redis"
)

// eventSink is an EventPublisher that owns a broker connection
type eventSink interface {
	gateways.EventPublisher
	Close()
}

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		sqlDB, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.OpenGorm(sqlDB)
	}
	newPublisher = func(url, exchange string) (eventSink, error) {
		return events.NewRabbitPublisher(url, exchange)
	}
	newUploader = func(cfg config.Config) (gateways.MediaUploader, error) {
		client, err := media.NewCloudinaryClient(cfg.Cloudinary)
		if err != nil {
			return nil, err
		}
		return media.NewCloudinaryUploader(client, cfg.Cloudinary.Folder, cfg.External.Timeout), nil
	}
	metricsRegistry = prometheus.NewRegistry
	runServer       = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownSignal  = func() <-chan os.Signal {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		return quit
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// idempotency and the unread cache degrade to pass-through without Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Warn(ctx, "Redis unavailable, caching disabled", zap.Error(err))
	} else {
		logger.Info(ctx, "Redis initialized")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(ctx, "Connected to PostgreSQL via GORM")

	publisher, err := newPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		logger.Warn(ctx, "RabbitMQ unavailable, domain events will be dropped", zap.Error(err))
		publisher = events.NopPublisher{}
	}
	defer publisher.Close()

	uploader, err := newUploader(*cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize media uploader: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refRepo := repositories.NewReferenceRepository(db)
	connectionRepo := repositories.NewConnectionRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	paymentAccountRepo := repositories.NewPaymentAccountRepository(db)
	classRepo := repositories.NewVirtualClassRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// External collaborators
	streamClient := chat.NewStreamClient(cfg.Stream, cfg.External.Timeout)
	mpClient := payments.NewMercadoPagoClient(cfg.MercadoPago, cfg.External.Timeout)

	// Usecases
	referenceUsecase := usecases.NewReferenceUsecase(refRepo)
	authUsecase := usecases.NewAuthUsecase(userRepo, refRepo, paymentAccountRepo, uow, streamClient, publisher, jwtService)
	userUsecase := usecases.NewUserUsecase(userRepo, connectionRepo, paymentRepo, paymentAccountRepo, classRepo, uow, publisher)
	connectionUsecase := usecases.NewConnectionUsecase(userRepo, connectionRepo, uow, publisher)
	searchUsecase := usecases.NewSearchUsecase(userRepo, userRepo, refRepo, connectionRepo)
	activityUsecase := usecases.NewActivityUsecase(userRepo, paymentRepo, classRepo, publisher)
	paymentUsecase := usecases.NewPaymentUsecase(userRepo, paymentRepo, paymentAccountRepo, mpClient, publisher, usecases.PaymentOptions{
		FrontendURL:     cfg.Server.FrontendURL,
		NotificationURL: cfg.MercadoPago.NotificationURL,
		Currency:        cfg.MercadoPago.Currency,
	})
	chatUsecase := usecases.NewChatUsecase(streamClient, cfg.Redis.UnreadCacheTTL)
	uploadUsecase := usecases.NewUploadUsecase(uploader)

	seedCtx, cancelSeed := context.WithTimeout(ctx, 30*time.Second)
	_, err = referenceUsecase.Seed(seedCtx, entities.DefaultReferenceCatalog())
	cancelSeed()
	if err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}

	refreshJob := jobs.NewPaymentAccountRefreshJob(paymentAccountRepo, mpClient, cfg.Jobs.TokenRefreshWindow)
	if err := refreshJob.Start(cfg.Jobs.TokenRefreshSchedule); err != nil {
		return fmt.Errorf("failed to schedule token refresh job: %w", err)
	}
	defer refreshJob.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase, handlers.CookieOptions{
		Secure:        cfg.Server.CookieSecure,
		AccessMaxAge:  cfg.JWT.AccessExpiry,
		RefreshMaxAge: cfg.JWT.RefreshExpiry,
	})

	reg := metricsRegistry()
	httpMetrics := middleware.NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(httpMetrics.Middleware())

	applyCORSMiddleware(r, cfg.Server.FrontendURL)
	registerOpsRoutes(r, reg, handlers.NewHealthHandler(map[string]handlers.Pinger{
		"database": sqlDB.PingContext,
		"redis":    pingRedis,
	}))
	registerAPIV1Routes(r, routeDeps{
		authHandler:       authHandler,
		userHandler:       handlers.NewUserHandler(userUsecase, authHandler),
		connectionHandler: handlers.NewConnectionHandler(connectionUsecase),
		searchHandler:     handlers.NewSearchHandler(searchUsecase),
		activityHandler:   handlers.NewActivityHandler(activityUsecase),
		paymentHandler:    handlers.NewPaymentHandler(paymentUsecase),
		chatHandler:       handlers.NewChatHandler(chatUsecase),
		uploadHandler:     handlers.NewUploadHandler(uploadUsecase),
		referenceHandler:  handlers.NewReferenceHandler(referenceUsecase),
		authMiddleware:    middleware.AuthMiddleware(jwtService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-shutdownSignal()
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "ProMatch backend starting", zap.String("port", cfg.Server.Port), zap.Int("routes", len(r.Routes())))
	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func pingRedis(ctx context.Context) error {
	if !redis.Available() {
		return errors.New("not configured")
	}
	return redis.GetClient().Ping(ctx).Err()
}
