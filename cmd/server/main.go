package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/vitaltrip-auth/config"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/email"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/health"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/vitaltrip-auth/internal/log"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/metrics"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/oauth"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/oauth/google"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/password"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/token"
	httptransport "github.com/ErlanBelekov/vitaltrip-auth/internal/transport/http"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/transport/http/handler"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handler.RegisterValidators(); err != nil {
		log.Fatalf("validators: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			stop()
			pool.Close()
			log.Fatalf("migrate: %v", err)
		}
	}

	codec, err := token.NewCodec(token.Config{
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("token codec: %v", err)
	}

	userRepo := postgres.NewUserRepository(pool)
	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	// Credentials
	authUsecase := usecase.NewAuthUsecase(userRepo, hasher, codec, emailSender, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Social login
	googleClient := google.New(google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	states := oauth.NewStateStore(oauth.DefaultStateTTL)
	socialUsecase := usecase.NewSocialUsecase(userRepo, codec, googleClient, states)
	profileUsecase := usecase.NewProfileUsecase(userRepo, codec)
	oauthHandler := handler.NewOAuthHandler(socialUsecase, profileUsecase, cfg.FrontendRedirectURL, logger)

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	router := httptransport.NewRouter(logger, httptransport.RouterConfig{
		Tokens:         codec,
		Users:          userRepo,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, authHandler, oauthHandler)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
