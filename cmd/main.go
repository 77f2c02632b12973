package main

import (
	"log"

	"github.com/staffeye/internal/api"
	"github.com/staffeye/internal/auth"
	"github.com/staffeye/internal/config"
	"github.com/staffeye/internal/database"
	"github.com/staffeye/internal/mail"
	"github.com/staffeye/internal/notify"
	"github.com/staffeye/internal/report"
	"github.com/staffeye/internal/scheduler"
	"github.com/staffeye/internal/store"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize database
	if err := database.Initialize(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	db := database.GetDB()
	auth.SetSecret(cfg.Auth.JWTSecret)

	taskStore := store.NewTaskStore(db)
	directory := store.NewDirectory(db)
	history := store.NewHistory(db)

	// Delivery strategies in priority order; the first to succeed wins.
	pipeline := mail.NewPipeline(
		mail.NewOAuthSender(
			cfg.Mail.OAuth.User,
			cfg.Mail.OAuth.ClientID,
			cfg.Mail.OAuth.ClientSecret,
			cfg.Mail.OAuth.RefreshToken,
		),
		mail.NewSandboxSender(
			cfg.Mail.Sandbox.Host,
			cfg.Mail.Sandbox.Port,
			cfg.Mail.Sandbox.Username,
			cfg.Mail.Sandbox.Password,
		),
		mail.NewResendSender(cfg.Mail.Resend.APIKey),
		mail.NewLegacySender(
			cfg.Mail.SMTP.Host,
			cfg.Mail.SMTP.Port,
			cfg.Mail.SMTP.Username,
			cfg.Mail.SMTP.Password,
		),
	)

	var notifier scheduler.Notifier
	if cfg.Slack.Token != "" {
		notifier = notify.NewSlackNotifier(cfg.Slack.Token, cfg.Slack.Channel)
	}

	aggregator := report.NewAggregator(directory, history)
	runner := scheduler.NewReportRunner(directory, aggregator, pipeline, notifier, cfg.Mail.From)

	// Arm all active tasks from the store
	registry := scheduler.NewRegistry(taskStore, runner)
	defer registry.Stop()
	if err := registry.ReloadAll(); err != nil {
		log.Printf("Warning: Failed to load scheduled tasks: %v", err)
	}

	// Initialize and start API server
	server := api.NewServer(registry, aggregator)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
