package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/billshome/billshome-api/internal/config"
	"github.com/billshome/billshome-api/internal/domain/auth"
	"github.com/billshome/billshome-api/internal/domain/bank"
	"github.com/billshome/billshome-api/internal/domain/billpay"
	"github.com/billshome/billshome-api/internal/domain/profile"
	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/domain/wallet"
	"github.com/billshome/billshome-api/internal/middleware"
	"github.com/billshome/billshome-api/internal/pkg/database"
	"github.com/billshome/billshome-api/internal/pkg/flutterwave"
	"github.com/billshome/billshome-api/internal/pkg/jwt"
	"github.com/billshome/billshome-api/internal/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	gateway := flutterwave.NewClient(flutterwave.Config{
		SecretKey: cfg.FlutterwaveSecretKey,
		BaseURL:   cfg.FlutterwaveBaseURL,
	})

	userRepo := user.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	bankRepo := bank.NewRepository(db)

	pinLimiter := wallet.NewPinLimiter(redisClient, 0, 0)

	walletSvc := wallet.NewService(walletRepo, userRepo, gateway, pinLimiter, cfg.FrontendURL)
	bankSvc := bank.NewService(bankRepo, gateway, walletSvc, walletSvc)
	billpaySvc := billpay.NewService(walletSvc, gateway, bankSvc)
	authSvc := auth.NewService(userRepo, jwtService)

	authHandler := auth.NewHandler(authSvc)
	walletHandler := wallet.NewHandler(walletSvc, userRepo, cfg.FlutterwaveWebhookSecret)
	bankHandler := bank.NewHandler(bankSvc, userRepo)
	billpayHandler := billpay.NewHandler(billpaySvc, userRepo)
	profileHandler := profile.NewHandler(userRepo, walletSvc)

	requireAuth := middleware.Auth(jwtService)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		walletHandler.RegisterWebhookRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			walletHandler.RegisterRoutes(r)
			bankHandler.RegisterRoutes(r)
			billpayHandler.RegisterRoutes(r)
			profileHandler.RegisterRoutes(r)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting billshome api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
