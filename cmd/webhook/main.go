package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/124-Aaron-Liu/telegram-stars/internal/app/storeapp"
	"github.com/124-Aaron-Liu/telegram-stars/internal/app/webapp"
	"github.com/124-Aaron-Liu/telegram-stars/internal/config"
	"github.com/124-Aaron-Liu/telegram-stars/internal/infra/logger"
)

// Webhook deployment: Telegram pushes updates to POST /api/webhook and
// invoices go out as shareable links with a pay button.
func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env, cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storeapp.New(cfg, log, storeapp.Options{UseInvoiceLink: true})
	if err != nil {
		log.Fatal("create store app", zap.Error(err))
	}

	web, err := webapp.New(cfg, log, webapp.Dependencies{
		Invoices: store.Payments(),
		Updates:  store,
	})
	if err != nil {
		log.Fatal("create web app", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- web.Run()
	}()

	registerWebhook(ctx, cfg, log, store)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := web.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown http server", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			log.Fatal("http server failed", zap.Error(err))
		}
	}
}

// registerWebhook points Telegram at the public URL. A failure is logged
// rather than fatal so the server can keep serving an already registered
// webhook.
func registerWebhook(ctx context.Context, cfg config.Config, log *zap.Logger, store *storeapp.App) {
	if cfg.Bot.WebhookURL == "" {
		log.Warn("webhook url is not configured, skipping registration (set WEBHOOK_URL)")
		return
	}

	if err := store.Bot().SetWebhook(ctx, cfg.Bot.WebhookURL); err != nil {
		log.Error("register webhook failed", zap.String("url", cfg.Bot.WebhookURL), zap.Error(err))
		return
	}

	info, err := store.Bot().WebhookInfo(ctx)
	if err != nil {
		log.Warn("query webhook info failed", zap.Error(err))
		return
	}
	log.Info("webhook registered",
		zap.String("url", info.URL),
		zap.Int("pending_updates", info.PendingCount),
		zap.String("last_error", info.LastError),
	)
}
