package storeapp

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/124-Aaron-Liu/telegram-stars/internal/config"
	"github.com/124-Aaron-Liu/telegram-stars/internal/domain/model"
	tginfra "github.com/124-Aaron-Liu/telegram-stars/internal/infra/telegram"
	catalogsvc "github.com/124-Aaron-Liu/telegram-stars/internal/services/catalog"
	paymentsvc "github.com/124-Aaron-Liu/telegram-stars/internal/services/payments"
)

const callbackBuyPrefix = "buy_"

// App wires the catalog, the payment service and the Telegram client, and
// owns the update handlers shared by the polling and webhook transports.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	bot      *tginfra.Bot
	catalog  *catalogsvc.Service
	payments *paymentsvc.Service
}

type Options struct {
	// UseInvoiceLink selects link-plus-pay-button delivery instead of a
	// native invoice message (the webhook / Mini App deployment).
	UseInvoiceLink bool
}

func New(cfg config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	bot, err := tginfra.NewBot(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	products := make([]model.Product, 0, len(cfg.Catalog))
	for _, p := range cfg.Catalog {
		products = append(products, model.Product{
			ID:            p.ID,
			Title:         p.Title,
			Description:   p.Description,
			PriceStars:    p.PriceStars,
			PhotoURL:      p.PhotoURL,
			SecretContent: p.SecretContent,
		})
	}
	catalog, err := catalogsvc.NewService(products)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	mode := paymentsvc.SelectMode(
		cfg.Payment.SimulationOnly,
		cfg.Payment.EnableRealPayments,
		cfg.Payment.ProviderSecretKey,
	)
	payments := paymentsvc.NewService(catalog, bot, paymentsvc.Config{
		Mode:            mode,
		BotToken:        cfg.Bot.Token,
		ProviderKey:     cfg.Payment.ProviderPublicKey,
		UseInvoiceLink:  opts.UseInvoiceLink,
		SimulationDelay: cfg.Payment.SimulationDelay,
	}, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		bot:      bot,
		catalog:  catalog,
		payments: payments,
	}, nil
}

func (a *App) Bot() *tginfra.Bot { return a.bot }
func (a *App) Catalog() *catalogsvc.Service { return a.catalog }
func (a *App) Payments() *paymentsvc.Service { return a.payments }

// Run long-polls Telegram until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("store bot started",
		zap.String("payment_mode", string(a.payments.Mode())),
	)
	return a.bot.Listen(ctx, a.handlers())
}

// HandleUpdate feeds one raw webhook body through the same handlers the
// polling listener uses.
func (a *App) HandleUpdate(ctx context.Context, body []byte) error {
	update, err := tginfra.ParseUpdate(body)
	if err != nil {
		return err
	}
	return tginfra.Dispatch(ctx, update, a.handlers())
}

// handlers log and swallow their own failures: a failed send must never take
// down the update stream.
func (a *App) handlers() tginfra.Handlers {
	return tginfra.Handlers{
		OnCommand:     a.handleCommand,
		OnCallback:    a.handleCallback,
		OnPreCheckout: a.handlePreCheckout,
		OnPayment:     a.handlePayment,
	}
}

func (a *App) handleCommand(ctx context.Context, update tginfra.CommandUpdate) error {
	switch strings.ToLower(strings.TrimSpace(update.Command)) {
	case "start":
		if err := a.sendWelcome(ctx, update.ChatID); err != nil {
			a.logger.Error("send welcome failed", zap.Int64("chat_id", update.ChatID), zap.Error(err))
		}
	case "testmode":
		if err := a.bot.SendText(ctx, update.ChatID, a.modeInfo()); err != nil {
			a.logger.Error("send mode info failed", zap.Int64("chat_id", update.ChatID), zap.Error(err))
		}
	}
	return nil
}

func (a *App) handleCallback(ctx context.Context, update tginfra.CallbackUpdate) error {
	if err := a.bot.AnswerCallback(ctx, update.CallbackID, ""); err != nil {
		a.logger.Warn("answer callback failed", zap.Error(err))
	}
	if update.ChatID == 0 {
		a.logger.Warn("callback without chat id", zap.String("data", update.Data))
		return nil
	}

	if strings.HasPrefix(update.Data, callbackBuyPrefix) {
		intent := model.PurchaseIntent{
			UserID:    update.UserID,
			ChatID:    update.ChatID,
			ProductID: strings.TrimPrefix(update.Data, callbackBuyPrefix),
		}
		if err := a.payments.HandleBuy(ctx, intent); err != nil {
			a.logger.Error("buy intent failed",
				zap.String("product_id", intent.ProductID), zap.Error(err))
		}
	}
	return nil
}

func (a *App) handlePreCheckout(ctx context.Context, update tginfra.PreCheckoutUpdate) error {
	err := a.payments.HandlePreCheckout(ctx, model.PreCheckoutQuery{
		ID:          update.QueryID,
		UserID:      update.UserID,
		Payload:     update.Payload,
		TotalAmount: update.TotalAmount,
		Currency:    update.Currency,
	})
	if err != nil {
		a.logger.Error("pre-checkout answer failed",
			zap.String("query_id", update.QueryID), zap.Error(err))
	}
	return nil
}

func (a *App) handlePayment(ctx context.Context, update tginfra.PaymentUpdate) error {
	err := a.payments.HandlePayment(ctx, model.PaymentEvent{
		ChatID:      update.ChatID,
		UserID:      update.UserID,
		Payload:     update.Payload,
		TotalAmount: update.TotalAmount,
		Currency:    update.Currency,
		ChargeID:    update.ChargeID,
	})
	if err != nil {
		a.logger.Error("payment confirmation failed",
			zap.String("charge_id", update.ChargeID), zap.Error(err))
	}
	return nil
}

func (a *App) sendWelcome(ctx context.Context, chatID int64) error {
	var banner string
	switch a.payments.Mode() {
	case paymentsvc.ModeSimulation:
		banner = "🧪 模擬模式 - 無真實扣款"
	case paymentsvc.ModeReal:
		banner = "💰 正式模式 - 真實支付"
	default:
		banner = "🧪 測試模式 - 無真實扣款"
	}

	text := fmt.Sprintf(
		"🚀 歡迎來到我們的 Telegram Stars 商店！\n\n%s\n\n您可以購買以下精選商品：",
		banner,
	)

	products := a.catalog.All()
	buttons := make([]tginfra.MenuButton, 0, len(products))
	for _, p := range products {
		buttons = append(buttons, tginfra.MenuButton{
			Label: "🛒 購買 " + p.Title,
			Data:  callbackBuyPrefix + p.ID,
		})
	}

	return a.bot.SendMenu(ctx, chatID, text, buttons)
}

func (a *App) modeInfo() string {
	lines := []string{
		"🧪 當前支付模式資訊",
		"",
		fmt.Sprintf("🎛️ 支付模式：%s", a.payments.Mode().Label()),
		fmt.Sprintf("💳 金鑰前綴：%s", maskKey(a.cfg.Payment.ProviderSecretKey)),
		"",
		"📋 模式說明",
		"• 純模擬：完全模擬支付流程，無任何真實扣款",
		"• 測試支付：使用測試金鑰，無真實費用",
		"• 真實支付：使用正式金鑰，會產生真實費用",
	}
	return strings.Join(lines, "\n")
}

func maskKey(key string) string {
	if key == "" {
		return "未設定"
	}
	if len(key) <= 7 {
		return key + "..."
	}
	return key[:7] + "..."
}
