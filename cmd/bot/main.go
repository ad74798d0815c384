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

// Polling deployment: long-polls Telegram for updates and serves the Mini App
// API alongside. No webhook route is registered here.
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

	store, err := storeapp.New(cfg, log, storeapp.Options{UseInvoiceLink: false})
	if err != nil {
		log.Fatal("create store app", zap.Error(err))
	}

	web, err := webapp.New(cfg, log, webapp.Dependencies{
		Invoices: store.Payments(),
	})
	if err != nil {
		log.Fatal("create web app", zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- web.Run()
	}()
	go func() {
		errCh <- store.Run(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error("runtime failure", zap.Error(err))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := web.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown http server", zap.Error(err))
	}
}
