package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/villarosal/service-payment/internal/adapter"
	"github.com/villarosal/service-payment/internal/application"
	"github.com/villarosal/service-payment/internal/config"
	"github.com/villarosal/service-payment/internal/database"
	"github.com/villarosal/service-payment/internal/events"
	"github.com/villarosal/service-payment/internal/handler"
	"github.com/villarosal/service-payment/internal/health"
	"github.com/villarosal/service-payment/internal/invoice"
	"github.com/villarosal/service-payment/internal/logger"
	"github.com/villarosal/service-payment/internal/mailer"
	"github.com/villarosal/service-payment/internal/middleware"
	"github.com/villarosal/service-payment/internal/repository"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, "service-payment")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-payment",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.BookingModel{}, &repository.RoomModel{}, &repository.PaymentModel{}); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	}

	// Resolve the invoice display timezone
	displayLoc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		zapLogger.Fatal("invalid display timezone", zap.String("tz", cfg.DisplayTimezone), zap.Error(err))
	}

	// Initialize event publisher
	var publisher events.Publisher = events.NoopPublisher{}
	var kafkaPublisher *events.KafkaPublisher
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaPublisher = events.NewKafkaPublisher(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic, zapLogger)
		publisher = kafkaPublisher
	} else {
		zapLogger.Warn("no Kafka brokers configured, payment events disabled")
	}

	// Initialize provider adapter
	xenditAdapter := adapter.NewHTTPXenditAdapter(cfg.XenditConfig, zapLogger)

	// Initialize invoice rendering and storage
	renderer, err := invoice.NewPDFRenderer(zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize invoice renderer", zap.Error(err))
	}
	docStore := invoice.NewFileStore(cfg.InvoiceDir)

	// Initialize mailer
	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTPConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize mailer", zap.Error(err))
	}

	// Initialize repositories
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	txManager := repository.NewTxManager(db)

	// Initialize application services
	receiptService := application.NewReceiptService(
		xenditAdapter,
		renderer,
		docStore,
		smtpMailer,
		cfg.BusinessConfig,
		cfg.XenditConfig.CheckoutURLFmt,
		displayLoc,
		zapLogger,
	)
	webhookService := application.NewWebhookService(
		bookingRepo,
		paymentRepo,
		roomRepo,
		txManager,
		receiptService,
		publisher,
		zapLogger,
	)

	// Initialize HTTP handler
	webhookHandler := handler.NewWebhookHandler(webhookService, zapLogger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(zapLogger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(zapLogger))

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-payment")
	healthHandler.RegisterRoutes(router)

	// Register webhook routes
	apiV1 := router.Group("/api/v1")
	webhookHandler.RegisterRoutes(apiV1, cfg.XenditConfig.CallbackToken)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down service-payment...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			zapLogger.Error("failed to close Kafka publisher", zap.Error(err))
		}
	}

	zapLogger.Info("service-payment stopped")
}
