package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibook/booking-api/internal/config"
	"github.com/medibook/booking-api/internal/handler"
	adminHandler "github.com/medibook/booking-api/internal/handler/admin"
	authHandler "github.com/medibook/booking-api/internal/handler/auth"
	doctorHandler "github.com/medibook/booking-api/internal/handler/doctor"
	userHandler "github.com/medibook/booking-api/internal/handler/user"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/repository/postgres"
	"github.com/medibook/booking-api/internal/router"
	adminService "github.com/medibook/booking-api/internal/service/admin"
	appointmentService "github.com/medibook/booking-api/internal/service/appointment"
	authService "github.com/medibook/booking-api/internal/service/auth"
	doctorService "github.com/medibook/booking-api/internal/service/doctor"
	ledgerService "github.com/medibook/booking-api/internal/service/ledger"
	paymentService "github.com/medibook/booking-api/internal/service/payment"
	userService "github.com/medibook/booking-api/internal/service/user"
	"github.com/medibook/booking-api/pkg/auth"
	"github.com/medibook/booking-api/pkg/logger"
	"github.com/medibook/booking-api/pkg/media"
	"github.com/medibook/booking-api/pkg/messaging"
	redisBroker "github.com/medibook/booking-api/pkg/messaging/redis"
	"github.com/medibook/booking-api/pkg/metrics"
	"github.com/medibook/booking-api/pkg/payment"
	"github.com/medibook/booking-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	slotRepo := postgres.NewSlotRepository(db)

	m := metrics.NewMetrics("booking_api")

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, appLogger.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	mediaStore, err := media.NewMinioStore(media.Config{
		Endpoint:  cfg.Media.Endpoint,
		AccessKey: cfg.Media.AccessKey,
		SecretKey: cfg.Media.SecretKey,
		Bucket:    cfg.Media.Bucket,
		UseSSL:    cfg.Media.UseSSL,
		PublicURL: cfg.Media.PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create media store")
	}

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	ledgerSvc := ledgerService.NewService(slotRepo, m)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorRepo, userRepo, ledgerSvc, broker, m, appLogger)
	authSvc := authService.NewService(userRepo, doctorRepo, hasher, jwtService, authService.AdminCredentials{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	userSvc := userService.NewService(userRepo, mediaStore)
	doctorSvc := doctorService.NewService(doctorRepo, appointmentRepo, ledgerSvc)
	adminSvc := adminService.NewService(doctorRepo, userRepo, appointmentRepo, hasher, mediaStore)

	registry := payment.NewRegistry(
		payment.NewRazorpayGateway(cfg.Payments.Razorpay.KeyID, cfg.Payments.Razorpay.KeySecret),
		payment.NewStripeGateway(cfg.Payments.Stripe.SecretKey),
	)
	paymentSvc := paymentService.NewService(appointmentSvc, registry, m, cfg.Payments.Currency, cfg.Payments.ReturnURL)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	authH := authHandler.NewHandler(authSvc)
	userH := userHandler.NewHandler(userSvc, appointmentSvc, paymentSvc)
	doctorH := doctorHandler.NewHandler(doctorSvc, appointmentSvc)
	adminH := adminHandler.NewHandler(adminSvc, doctorSvc, appointmentSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.NewRouter(
		authMiddleware,
		authH,
		userH,
		doctorH,
		adminH,
		healthH,
		router.RouterConfig{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "booking_api_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
