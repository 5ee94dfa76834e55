package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/clinicore/clinic-api/internal/config"
	"github.com/clinicore/clinic-api/internal/email"
	"github.com/clinicore/clinic-api/internal/handler"
	appointmentHandler "github.com/clinicore/clinic-api/internal/handler/appointment"
	authHandler "github.com/clinicore/clinic-api/internal/handler/auth"
	catalogHandler "github.com/clinicore/clinic-api/internal/handler/catalog"
	clinicHandler "github.com/clinicore/clinic-api/internal/handler/clinic"
	"github.com/clinicore/clinic-api/internal/handler/metrics"
	patientHandler "github.com/clinicore/clinic-api/internal/handler/patient"
	portalHandler "github.com/clinicore/clinic-api/internal/handler/portal"
	prescriptionHandler "github.com/clinicore/clinic-api/internal/handler/prescription"
	staffHandler "github.com/clinicore/clinic-api/internal/handler/staff"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/repository/postgres"
	"github.com/clinicore/clinic-api/internal/router"
	accessService "github.com/clinicore/clinic-api/internal/service/access"
	appointmentService "github.com/clinicore/clinic-api/internal/service/appointment"
	authService "github.com/clinicore/clinic-api/internal/service/auth"
	catalogService "github.com/clinicore/clinic-api/internal/service/catalog"
	clinicService "github.com/clinicore/clinic-api/internal/service/clinic"
	membershipService "github.com/clinicore/clinic-api/internal/service/membership"
	patientService "github.com/clinicore/clinic-api/internal/service/patient"
	portalService "github.com/clinicore/clinic-api/internal/service/portal"
	prescriptionService "github.com/clinicore/clinic-api/internal/service/prescription"
	"github.com/clinicore/clinic-api/pkg/auth"
	"github.com/clinicore/clinic-api/pkg/logger"
	"github.com/clinicore/clinic-api/pkg/pdf"
	"github.com/clinicore/clinic-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Repositories
	accountRepo := postgres.NewAccountRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)

	// Services
	refreshSecret := cfg.JWT.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.JWT.Secret
	}
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: refreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(0)
	revocations := authService.NewRedisRevocationStore(redisClient)
	authSvc := authService.NewService(accountRepo, hasher, jwtSvc, revocations,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	var mailer email.Sender
	if cfg.SMTP.Host != "" {
		mailer = email.NewService(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	membershipSvc := membershipService.NewService(membershipRepo, accountRepo, clinicRepo, mailer)
	accessSvc := accessService.NewService(authSvc, membershipSvc)
	clinicSvc := clinicService.NewService(clinicRepo, membershipRepo)
	patientSvc := patientService.NewService(patientRepo)
	catalogSvc := catalogService.NewService(serviceRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, serviceRepo)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, patientRepo, appointmentRepo, pdf.NewRenderer())
	portalSvc := portalService.NewService(clinicRepo, membershipRepo, serviceRepo, patientRepo,
		appointmentRepo, prescriptionRepo, accountRepo)

	// HTTP layer
	guard := middleware.NewGuard(authSvc, accessSvc)
	metricsHandler := metrics.New()

	handlers := router.Handlers{
		Health:       handler.NewHealthHandler(db),
		Metrics:      metricsHandler,
		Auth:         authHandler.NewHandler(authSvc, membershipSvc),
		Clinic:       clinicHandler.NewHandler(clinicSvc, guard),
		Staff:        staffHandler.NewHandler(membershipSvc, accessSvc, guard),
		Patient:      patientHandler.NewHandler(patientSvc, guard),
		Catalog:      catalogHandler.NewHandler(catalogSvc, guard),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc, guard, metricsHandler),
		Prescription: prescriptionHandler.NewHandler(prescriptionSvc, guard),
		Portal:       portalHandler.NewHandler(portalSvc),
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowOrigins
	}

	r := router.New(guard, handlers, router.Config{
		RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst: cfg.RateLimit.Burst,
		CORS:      corsCfg,
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
