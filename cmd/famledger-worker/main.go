// Command famledger-worker backs up the ledger on every change event and
// logs contribution reminders on the configured cadence.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"famledger/internal/amqp"
	"famledger/internal/cli"
	"famledger/internal/config"
	applog "famledger/internal/log"
	"famledger/internal/services"
	"famledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(os.Stdout, cfg.LogLevel)
	cfg = cli.LoadAndValidateConfig(logger)

	logger.Info("Starting famledger-worker",
		"backend", cfg.Backend,
		"backup_dir", cfg.BackupDir,
		"reminder_cadence", cfg.ReminderCadence)

	// The CLI writes to the same medium from another process, so every run
	// works on a freshly loaded ledger.
	openExporter := func(ctx context.Context) (worker.Exporter, error) {
		return cli.LoadLedger(ctx, cfg)
	}
	openReminders := func(ctx context.Context) (services.ReminderSource, error) {
		return cli.LoadLedger(ctx, cfg)
	}

	cadence, err := services.GetCadenceChecker(cfg.ReminderCadence)
	if err != nil {
		logger.Error("Invalid reminder cadence", applog.FieldError, err)
		os.Exit(1)
	}
	reminders := services.NewReminderProcessor(openReminders, services.ReminderProcessorConfig{
		Interval: cfg.ReminderInterval,
		Window:   cfg.ReminderWindow,
		Cadence:  cadence,
	}, logger)

	backups := worker.NewBackupWorker(openExporter, cfg.BackupDir, cfg.BackupKeep, logger)

	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided, backups only at startup")
	}

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", applog.FieldError, err)
			}
		}
	})
	ctx := applog.NewContext(shutdownCtx, logger)

	// Catch up on anything changed while the worker was down.
	if path, err := backups.Backup(ctx); err != nil {
		logger.Error("Startup backup failed", applog.FieldError, err)
	} else {
		logger.Info("Startup backup written", "path", path)
	}

	g, gctx := errgroup.WithContext(ctx)
	if amqpClient != nil {
		g.Go(func() error {
			err := amqpClient.ConsumeLedgerChanges(gctx, backups.HandleChangeMessage)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		return reminders.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped", applog.FieldError, err)
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
}
