package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verifiedMarket/business/notification"
	mailjet "verifiedMarket/internal/repository/notification"
	psqlRepo "verifiedMarket/internal/repository/postgres"
	"verifiedMarket/pkg/config"
	"verifiedMarket/pkg/database"
	"verifiedMarket/pkg/logger"
)

// notifier e-mails sellers whose verification state changed since they were
// last told. It runs once by default, or on a fixed interval with -every.
func main() {
	every := flag.Duration("every", 0, "repeat dispatch on this interval; 0 runs once")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitWithLevel(cfg.App.Environment, cfg.App.LogLevel)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	// Init notification from mailjet
	mailjetEmail := mailjet.NewMailjetRepository(
		mailjet.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	dispatcher := notification.NewDispatcher(psqlRepo.NewSellerRepository(db), mailjetEmail, cfg.App.Name)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := func() {
		result, err := dispatcher.DispatchPending(ctx)
		if err != nil {
			logger.Error("Notification dispatch stopped", "error", err)
			return
		}
		logger.Info("notifications dispatched", "sent", result.Sent, "failed", result.Failed, "skipped", result.Skipped)
	}

	run()
	if *every <= 0 {
		if ctx.Err() != nil {
			os.Exit(1)
		}
		return
	}

	ticker := time.NewTicker(*every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notifier stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
