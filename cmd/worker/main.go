package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"scholarhub/internal/adapter/repo"
	"scholarhub/internal/infra"
	"scholarhub/internal/notify"
	"scholarhub/internal/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	txRunner := infra.NewTxRunner(dbpool, logger)
	txRunner.OnRetry = workflow.TxRetries.Inc

	var mailer notify.Mailer
	if cfg.AppEnv == "development" {
		mailer = notify.LogMailer{Logger: logger}
	} else {
		mailer = notify.NewSMTPMailer(cfg.SMTPAddr, cfg.EmailFrom, cfg.SMTPUser, cfg.SMTPPassword)
	}

	dispatcher := &notify.Dispatcher{
		Store:  repo.NewStore(runner),
		Mailer: mailer,
		Logger: logger,
		Batch:  20,
	}

	reconciler := workflow.NewReconciler(txRunner, logger)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.ReconcileSchedule, func() {
		if _, err := reconciler.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("reconciliation failed")
		}
	})
	if err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.ReconcileSchedule).Msg("invalid reconcile schedule")
	}
	scheduler.Start()

	go dispatcher.Run(ctx, cfg.OutboxPollInterval)
	logger.Info().
		Str("schedule", cfg.ReconcileSchedule).
		Dur("poll_interval", cfg.OutboxPollInterval).
		Msg("worker started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()
	<-scheduler.Stop().Done()
	logger.Info().Msg("worker stopped")
}
