package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/124-Aaron-Liu/telegram-stars/internal/domain/model"
	tginfra "github.com/124-Aaron-Liu/telegram-stars/internal/infra/telegram"
)

// CurrencyStars is Telegram's in-app currency code.
const CurrencyStars = "XTR"

var ErrProductNotFound = errors.New("product not found")

const (
	msgProductNotFound    = "❌ 抱歉，找不到您選擇的商品。"
	msgInvoiceFailed      = "❌ 發送發票時發生錯誤，請稍後再試。"
	msgPaymentUnavailable = "❌ 抱歉，支付系統暫時無法使用。請稍後再試。"
	msgOrderInvalid       = "❌ 您的訂單無效，商品資訊可能已更新或庫存不足。請重新嘗試。"
	msgUnknownPurchase    = "❌ 感謝您的購買！但我們無法識別您購買的商品。請聯繫客服。"
)

type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendInvoice(ctx context.Context, in tginfra.InvoiceParams) error
	SendPayButton(ctx context.Context, chatID int64, text, payURL string) error
	CreateInvoiceLink(ctx context.Context, in tginfra.InvoiceParams) (string, error)
	AnswerPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage string) error
}

type Catalog interface {
	Lookup(id string) (model.Product, bool)
}

type Config struct {
	Mode Mode
	// BotToken backs invoices in simulation and test mode; ProviderKey is
	// the publishable provider credential used only in real mode.
	BotToken    string
	ProviderKey string
	// UseInvoiceLink switches delivery from a native invoice message to an
	// invoice link with a pay button (the Mini App / webhook deployment).
	UseInvoiceLink  bool
	SimulationDelay time.Duration
}

type Service struct {
	catalog   Catalog
	messenger Messenger
	cfg       Config
	logger    *zap.Logger

	now         func() time.Time
	schedule    func(time.Duration, func())
	newChargeID func() string
}

func NewService(catalog Catalog, messenger Messenger, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SimulationDelay <= 0 {
		cfg.SimulationDelay = 2 * time.Second
	}

	return &Service{
		catalog:   catalog,
		messenger: messenger,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		newChargeID: func() string {
			return "SIM_" + uuid.New().String()
		},
	}
}

func (s *Service) Mode() Mode {
	return s.cfg.Mode
}

// HandleBuy routes a buy intent to exactly one invoice strategy. An unknown
// product id answers the user and takes no invoice action.
func (s *Service) HandleBuy(ctx context.Context, intent model.PurchaseIntent) error {
	product, ok := s.catalog.Lookup(intent.ProductID)
	if !ok {
		s.logger.Warn("buy intent for unknown product",
			zap.String("product_id", intent.ProductID),
			zap.Int64("user_id", intent.UserID),
		)
		return s.messenger.SendText(ctx, intent.ChatID, msgProductNotFound)
	}

	if s.cfg.Mode == ModeSimulation {
		return s.simulate(ctx, intent.ChatID, intent.UserID, product)
	}
	return s.issueInvoice(ctx, intent.ChatID, product)
}

func (s *Service) issueInvoice(ctx context.Context, chatID int64, product model.Product) error {
	params := s.invoiceParams(chatID, product)

	if s.cfg.UseInvoiceLink {
		link, err := s.messenger.CreateInvoiceLink(ctx, params)
		if err != nil {
			s.logger.Error("create invoice link failed",
				zap.String("product_id", product.ID), zap.Error(err))
			return s.messenger.SendText(ctx, chatID, msgPaymentUnavailable)
		}
		text := fmt.Sprintf("您選擇購買：%s\n價格：%d Stars", product.Title, product.PriceStars)
		return s.messenger.SendPayButton(ctx, chatID, text, link)
	}

	if err := s.messenger.SendInvoice(ctx, params); err != nil {
		s.logger.Error("send invoice failed",
			zap.String("product_id", product.ID), zap.Error(err))
		return s.messenger.SendText(ctx, chatID, msgInvoiceFailed)
	}

	s.logger.Info("invoice sent",
		zap.String("product_id", product.ID),
		zap.Int64("chat_id", chatID),
		zap.String("mode", string(s.cfg.Mode)),
	)
	return nil
}

// IssueInvoiceLink builds a shareable invoice link for the HTTP API.
func (s *Service) IssueInvoiceLink(ctx context.Context, productID string) (string, error) {
	product, ok := s.catalog.Lookup(productID)
	if !ok {
		return "", ErrProductNotFound
	}

	link, err := s.messenger.CreateInvoiceLink(ctx, s.invoiceParams(0, product))
	if err != nil {
		return "", fmt.Errorf("create invoice link for %s: %w", productID, err)
	}
	return link, nil
}

func (s *Service) invoiceParams(chatID int64, product model.Product) tginfra.InvoiceParams {
	return tginfra.InvoiceParams{
		ChatID:        chatID,
		Title:         product.Title,
		Description:   product.Description,
		Payload:       product.ID,
		ProviderToken: s.providerToken(),
		Currency:      CurrencyStars,
		Amount:        product.PriceStars,
		PhotoURL:      product.PhotoURL,
	}
}

func (s *Service) providerToken() string {
	if s.cfg.Mode == ModeReal {
		return s.cfg.ProviderKey
	}
	return s.cfg.BotToken
}

// simulate skips the platform entirely: a processing notice now, a synthetic
// payment event after the configured delay. The delay is scheduled so the
// update loop keeps draining while the "payment" is in flight.
func (s *Service) simulate(ctx context.Context, chatID, userID int64, product model.Product) error {
	notice := fmt.Sprintf(
		"🧪 模擬購買處理中...\n\n商品：%s\n價格：%d Stars\n\n⏳ 正在模擬支付流程...",
		product.Title, product.PriceStars,
	)
	if err := s.messenger.SendText(ctx, chatID, notice); err != nil {
		return err
	}

	s.schedule(s.cfg.SimulationDelay, func() {
		event := model.PaymentEvent{
			ChatID:      chatID,
			UserID:      userID,
			Payload:     product.ID,
			TotalAmount: product.PriceStars,
			Currency:    CurrencyStars,
			ChargeID:    s.newChargeID(),
			Simulated:   true,
		}
		if err := s.HandlePayment(context.Background(), event); err != nil {
			s.logger.Error("simulated payment delivery failed",
				zap.String("product_id", product.ID), zap.Error(err))
		}
	})

	return nil
}

// HandlePreCheckout re-validates the order against the catalog and answers
// within the platform's response window. All three checks must hold.
func (s *Service) HandlePreCheckout(ctx context.Context, q model.PreCheckoutQuery) error {
	product, ok := s.catalog.Lookup(q.Payload)
	valid := ok && q.TotalAmount == product.PriceStars && q.Currency == CurrencyStars

	if valid {
		s.logger.Info("pre-checkout approved",
			zap.String("query_id", q.ID),
			zap.String("payload", q.Payload),
		)
		return s.messenger.AnswerPreCheckout(ctx, q.ID, true, "")
	}

	s.logger.Warn("pre-checkout rejected",
		zap.String("query_id", q.ID),
		zap.String("payload", q.Payload),
		zap.Int("total_amount", q.TotalAmount),
		zap.String("currency", q.Currency),
	)
	return s.messenger.AnswerPreCheckout(ctx, q.ID, false, msgOrderInvalid)
}

// HandlePayment delivers the purchased content. An unrecognized payload is a
// user-visible anomaly that needs manual reconciliation, never a silent drop.
func (s *Service) HandlePayment(ctx context.Context, event model.PaymentEvent) error {
	product, ok := s.catalog.Lookup(event.Payload)
	if !ok {
		s.logger.Error("paid product not recognized",
			zap.String("payload", event.Payload),
			zap.String("charge_id", event.ChargeID),
			zap.Int64("user_id", event.UserID),
		)
		return s.messenger.SendText(ctx, event.ChatID, msgUnknownPurchase)
	}

	if err := s.messenger.SendText(ctx, event.ChatID, s.confirmationText(product, event)); err != nil {
		return err
	}

	s.logger.Info("purchase delivered",
		zap.String("product_id", product.ID),
		zap.String("charge_id", event.ChargeID),
		zap.Int("total_amount", event.TotalAmount),
		zap.Bool("simulated", event.Simulated),
	)
	return nil
}

func (s *Service) confirmationText(product model.Product, event model.PaymentEvent) string {
	switch {
	case event.Simulated:
		return fmt.Sprintf(
			"🎉 模擬支付成功！\n\n您已成功購買：%s\n\n%s\n\n🧪 模擬模式資訊\n💰 模擬金額：%d Stars\n📋 模擬交易 ID：%s\n⏰ 模擬時間：%s\n\n⚠️ 這是模擬模式，沒有真實扣款",
			product.Title, product.SecretContent,
			event.TotalAmount, event.ChargeID,
			s.now().Format("2006/01/02 15:04:05"),
		)
	case s.cfg.Mode == ModeTest:
		return fmt.Sprintf(
			"🎉 測試支付成功！\n\n您已成功購買：%s\n\n%s\n\n🧪 測試環境資訊\n💰 支付金額：%d %s\n📋 Telegram Charge ID：%s\n\n⚠️ 這是測試環境，無真實扣款",
			product.Title, product.SecretContent,
			event.TotalAmount, event.Currency, event.ChargeID,
		)
	default:
		return fmt.Sprintf(
			"🎉 支付成功！\n\n您已成功購買：%s\n\n%s\n\n💰 支付金額：%d %s\n📋 交易 ID：%s",
			product.Title, product.SecretContent,
			event.TotalAmount, event.Currency, event.ChargeID,
		)
	}
}
