package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"scholarhub/internal/adapter/repo"
	"scholarhub/internal/domain"
	"scholarhub/internal/http/handlers"
	httpapi "scholarhub/internal/http/httpapi"
	"scholarhub/internal/infra"
	"scholarhub/internal/infra/geoip"
	"scholarhub/internal/middleware"
	"scholarhub/internal/payments"
	"scholarhub/internal/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	txRunner := infra.NewTxRunner(dbpool, logger)
	txRunner.OnRetry = workflow.TxRetries.Inc

	flow := workflow.NewCoordinator(txRunner, func(exec infra.SQLExecutor) domain.Store {
		return repo.NewStore(exec)
	}, logger)

	gateway, err := payments.NewClient(payments.Options{
		SecretKey:      cfg.PaymentSecretKey,
		BaseURL:        cfg.PaymentBaseURL,
		Logger:         &logger,
		RequestTimeout: 10 * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure payment gateway")
	}

	var country middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		country = resolver.CountryCode
	}

	app := &handlers.App{
		SQL:           runner,
		Flow:          flow,
		Gateway:       gateway,
		Logger:        logger,
		JWTSecret:     cfg.JWTSecret,
		WebhookSecret: cfg.WebhookSecret,
		MaxLogins:     cfg.MaxLoginAttempts,
		Lockout:       time.Duration(cfg.LockoutMinutes) * time.Minute,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Country:         country,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
