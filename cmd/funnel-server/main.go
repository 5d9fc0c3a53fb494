// cmd/funnel-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"creator-funnel/internal/automation"
	"creator-funnel/internal/common/aws"
	"creator-funnel/internal/common/config"
	"creator-funnel/internal/common/database"
	"creator-funnel/internal/common/logger"
	"creator-funnel/internal/integrations/discord"
	"creator-funnel/internal/integrations/kit"
	"creator-funnel/internal/integrations/sheets"
	"creator-funnel/internal/integrations/stripe"
	"creator-funnel/internal/integrations/whatsapp"
	"creator-funnel/internal/integrations/youtube"
	"creator-funnel/internal/notify"
	"creator-funnel/internal/server"
	"creator-funnel/internal/storage"
	"creator-funnel/internal/tracking"
	"creator-funnel/internal/verify"
	"creator-funnel/internal/webhooks"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("delay", delay))
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting funnel server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Submission store ---
	var store storage.Store
	if cfg.Storage.Backend == "postgres" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		store = storage.NewPostgresStore(pg)
		zapLog.Info("PostgreSQL connected successfully")
	} else {
		store = storage.NewFileStore(cfg.Storage.SubmissionsPath)
		zapLog.Info("Using file submission store", zap.String("path", cfg.Storage.SubmissionsPath))
	}

	// --- Idempotency ledger ---
	var ledger automation.Ledger
	if cfg.Storage.LedgerBackend == "redis" {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		ledger = automation.NewRedisLedger(redisClient)
		zapLog.Info("Redis connected successfully")
	} else {
		ledger = automation.NewFileLedger(cfg.Storage.LedgerPath)
		zapLog.Info("Using file ledger", zap.String("path", cfg.Storage.LedgerPath))
	}

	// --- Vendor clients ---
	kitClient := kit.NewClient(cfg.Integrations.Kit.APIKey, cfg.Integrations.Kit.BaseURL)
	stripeClient := stripe.NewClient(cfg.Integrations.Stripe.SecretKey, cfg.Integrations.Stripe.BaseURL)
	discordClient := discord.NewClient(cfg.Integrations.Discord.BotToken, cfg.Integrations.Discord.BaseURL)
	sheetsClient := sheets.NewClient(cfg.Integrations.Sheets.AccessToken, cfg.Integrations.Sheets.BaseURL)

	var whatsappClient *whatsapp.Client
	if cfg.Integrations.WhatsApp.GatewayURL != "" {
		whatsappClient = whatsapp.NewClient(cfg.Integrations.WhatsApp.GatewayURL, cfg.Integrations.WhatsApp.GatewayToken)
	}

	var channelAPI verify.ChannelAPI
	if cfg.Verification.APIKey != "" {
		channelAPI = youtube.NewClient(cfg.Verification.APIKey, cfg.Verification.BaseURL)
	}
	verifier := verify.NewVerifier(channelAPI, cfg.Verification, log)

	// --- Operator notification fan-out ---
	var notifiers []notify.Notifier
	if cfg.Integrations.Discord.DashboardWebhook != "" {
		notifiers = append(notifiers, notify.NewDiscordNotifier(discordClient, cfg.Integrations.Discord.DashboardWebhook))
	}
	if whatsappClient != nil && cfg.Automation.OperatorPhone != "" {
		notifiers = append(notifiers, notify.NewWhatsAppNotifier(whatsappClient, cfg.Automation.OperatorPhone))
	}
	if cfg.Integrations.Telegram.BotToken != "" {
		telegramNotifier, err := notify.NewTelegramNotifier(cfg.Integrations.Telegram.BotToken, cfg.Integrations.Telegram.ChatID)
		if err != nil {
			zapLog.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, telegramNotifier)
		}
	}
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Warn("SES notifier disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, notify.NewEmailNotifier(
				sesClient, cfg.Integrations.AWS.SES.FromEmail, cfg.Integrations.AWS.SES.ToEmail, "Funnel activity"))
		}
	}
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Warn("SNS notifier disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, notify.NewSMSNotifier(snsClient, cfg.Integrations.AWS.SNS.PhoneNumber))
		}
	}
	dispatcher := notify.NewDispatcher(log, notifiers...)
	zapLog.Info("Notification channels configured", zap.Int("count", len(notifiers)))

	// --- Domain components ---
	tracker := tracking.NewTracker(sheetsClient, cfg.Integrations.Sheets.SpreadsheetID, cfg.Integrations.Sheets.SheetName, log)

	stripeProcessor := webhooks.NewStripeProcessor(
		cfg.Integrations.Stripe.WebhookSecret, cfg.Integrations.Kit.TagMember, kitClient, dispatcher, log)
	calProcessor := webhooks.NewCalProcessor(
		cfg.Integrations.Kit.TagCallBooked, kitClient, tracker, dispatcher, log)
	kitProcessor := webhooks.NewKitMemberProcessor(
		discordClient, cfg.Integrations.Discord.WelcomeChannelID, dispatcher, log)

	var messenger automation.DirectMessenger
	if whatsappClient != nil {
		messenger = whatsappClient
	}
	sweeper := automation.NewSweeper(kitClient, ledger, messenger, discordClient, dispatcher, automation.SweepConfig{
		ApplicantTagID:   cfg.Integrations.Kit.TagApplicant,
		MemberTagID:      cfg.Integrations.Kit.TagMember,
		WelcomeChannelID: cfg.Integrations.Discord.WelcomeChannelID,
		BookingURL:       cfg.Server.CalBookingURL,
	}, log)

	srv := server.New(server.Dependencies{
		Config:        cfg,
		Logger:        log,
		Store:         store,
		CRM:           kitClient,
		Verifier:      verifier,
		Payments:      stripeClient,
		FormsRelay:    server.NewFormsRelay(cfg.Forms),
		StripeWebhook: stripeProcessor,
		CalWebhook:    calProcessor,
		KitWebhook:    kitProcessor,
		Sweeper:       sweeper,
		Inviter:       discordClient,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown did not complete cleanly", zap.Error(err))
	}

	zapLog.Info("Funnel server stopped gracefully")
}
