// The reminder-worker rolls lapsed subscription payment dates forward and
// publishes due-soon reminders on the alert queue.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"paisa/internal/amqp"
	"paisa/internal/config"
	"paisa/internal/log"
	"paisa/internal/services"
	"paisa/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentReminder})
	log.SetDefault(logger)

	logger.Info("Starting reminder-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Without AMQP the worker still rolls lapsed payment dates forward;
	// it just cannot publish reminders.
	var publisher services.AlertPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPSyncQueue, cfg.AMQPAlertQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without reminders", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", "alert_queue", cfg.AMQPAlertQueue)
		}
	} else {
		logger.Info("AMQP disabled, reminders will not be published")
	}

	processor := services.NewReminderProcessor(repo, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		run := func(now time.Time) {
			count, err := processor.ProcessReminders(ctx, now)
			if err != nil {
				logger.Error("Reminder processing failed", "error", err)
				return
			}
			logger.Info("Reminder processing complete", "reminders_published", count)
		}

		run(time.Now())

		ticker := time.NewTicker(cfg.ReminderInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				run(now)
			case <-ctx.Done():
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Reminder-worker stopped gracefully")
}
