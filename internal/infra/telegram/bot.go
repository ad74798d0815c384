package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api *tgbotapi.BotAPI
}

type CommandUpdate struct {
	ChatID   int64
	UserID   int64
	Username string
	Command  string
	Args     string
}

type CallbackUpdate struct {
	CallbackID string
	ChatID     int64
	UserID     int64
	Data       string
}

type PreCheckoutUpdate struct {
	QueryID     string
	UserID      int64
	Payload     string
	TotalAmount int
	Currency    string
}

type PaymentUpdate struct {
	ChatID      int64
	UserID      int64
	Payload     string
	TotalAmount int
	Currency    string
	ChargeID    string
}

type Handlers struct {
	OnCommand     func(context.Context, CommandUpdate) error
	OnCallback    func(context.Context, CallbackUpdate) error
	OnPreCheckout func(context.Context, PreCheckoutUpdate) error
	OnPayment     func(context.Context, PaymentUpdate) error
}

// InvoiceParams describes a single-item Stars invoice. Amount is charged in
// XTR; Title doubles as the price label.
type InvoiceParams struct {
	ChatID        int64
	Title         string
	Description   string
	Payload       string
	ProviderToken string
	Currency      string
	Amount        int
	PhotoURL      string
}

type MenuButton struct {
	Label string
	Data  string
}

type WebhookStatus struct {
	URL           string
	LastError     string
	PendingCount  int
	HasCustomCert bool
}

func NewBot(token string) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}

	api, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}

	return &Bot{api: api}, nil
}

// Listen long-polls for updates and routes them through Dispatch until the
// context is cancelled. Handler errors abort the loop, so handlers that must
// keep the stream alive recover internally.
func (b *Bot) Listen(ctx context.Context, handlers Handlers) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := b.api.GetUpdatesChan(updateCfg)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			if err := Dispatch(ctx, update, handlers); err != nil {
				return err
			}
		}
	}
}

// ParseUpdate decodes a raw update body as delivered to a webhook endpoint.
func ParseUpdate(data []byte) (tgbotapi.Update, error) {
	var update tgbotapi.Update
	if err := json.Unmarshal(data, &update); err != nil {
		return tgbotapi.Update{}, fmt.Errorf("unmarshal telegram update: %w", err)
	}
	return update, nil
}

// Dispatch translates one update into the typed handler calls. Both the
// polling listener and the webhook endpoint go through here, so the two
// ingress paths cannot drift apart.
func Dispatch(ctx context.Context, update tgbotapi.Update, handlers Handlers) error {
	if update.PreCheckoutQuery != nil && handlers.OnPreCheckout != nil {
		q := update.PreCheckoutQuery
		userID := int64(0)
		if q.From != nil {
			userID = q.From.ID
		}
		return handlers.OnPreCheckout(ctx, PreCheckoutUpdate{
			QueryID:     q.ID,
			UserID:      userID,
			Payload:     q.InvoicePayload,
			TotalAmount: q.TotalAmount,
			Currency:    q.Currency,
		})
	}

	if update.Message != nil {
		msg := update.Message
		if msg.SuccessfulPayment != nil && handlers.OnPayment != nil {
			userID := int64(0)
			if msg.From != nil {
				userID = msg.From.ID
			}
			p := msg.SuccessfulPayment
			return handlers.OnPayment(ctx, PaymentUpdate{
				ChatID:      msg.Chat.ID,
				UserID:      userID,
				Payload:     p.InvoicePayload,
				TotalAmount: p.TotalAmount,
				Currency:    p.Currency,
				ChargeID:    p.TelegramPaymentChargeID,
			})
		}

		if msg.IsCommand() && msg.From != nil && handlers.OnCommand != nil {
			return handlers.OnCommand(ctx, CommandUpdate{
				ChatID:   msg.Chat.ID,
				UserID:   msg.From.ID,
				Username: msg.From.UserName,
				Command:  msg.Command(),
				Args:     msg.CommandArguments(),
			})
		}
	}

	if update.CallbackQuery != nil && update.CallbackQuery.From != nil && handlers.OnCallback != nil {
		chatID := int64(0)
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
		return handlers.OnCallback(ctx, CallbackUpdate{
			CallbackID: update.CallbackQuery.ID,
			ChatID:     chatID,
			UserID:     update.CallbackQuery.From.ID,
			Data:       update.CallbackQuery.Data,
		})
	}

	return nil
}

func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if chatID == 0 {
		return fmt.Errorf("chat id is required")
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	_ = ctx
	return nil
}

// SendMenu sends text with a one-button-per-row inline keyboard.
func (b *Bot) SendMenu(ctx context.Context, chatID int64, text string, buttons []MenuButton) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, btn := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data),
		))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram menu: %w", err)
	}

	_ = ctx
	return nil
}

// SendPayButton sends text with an inline pay-link button and a cancel button.
func (b *Bot) SendPayButton(ctx context.Context, chatID int64, text, payURL string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("⭐ 支付", payURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ 取消", "cancel"),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send pay button message: %w", err)
	}

	_ = ctx
	return nil
}

func (b *Bot) SendInvoice(ctx context.Context, in InvoiceParams) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if in.ChatID == 0 {
		return fmt.Errorf("chat id is required")
	}

	invoice := tgbotapi.InvoiceConfig{
		BaseChat:      tgbotapi.BaseChat{ChatID: in.ChatID},
		Title:         in.Title,
		Description:   in.Description,
		Payload:       in.Payload,
		ProviderToken: in.ProviderToken,
		Currency:      in.Currency,
		Prices:        []tgbotapi.LabeledPrice{{Label: in.Title, Amount: in.Amount}},
		PhotoURL:      in.PhotoURL,
	}

	if _, err := b.api.Send(invoice); err != nil {
		return fmt.Errorf("send telegram invoice: %w", err)
	}

	_ = ctx
	return nil
}

// CreateInvoiceLink builds a shareable payment link. The typed API of the
// client predates createInvoiceLink, so the call goes through MakeRequest.
func (b *Bot) CreateInvoiceLink(ctx context.Context, in InvoiceParams) (string, error) {
	if b == nil || b.api == nil {
		return "", fmt.Errorf("telegram bot is not initialized")
	}

	params := make(tgbotapi.Params)
	params["title"] = in.Title
	params["description"] = in.Description
	params["payload"] = in.Payload
	params["currency"] = in.Currency
	params.AddNonEmpty("provider_token", in.ProviderToken)
	params.AddNonEmpty("photo_url", in.PhotoURL)
	if err := params.AddInterface("prices", []tgbotapi.LabeledPrice{{Label: in.Title, Amount: in.Amount}}); err != nil {
		return "", fmt.Errorf("encode invoice prices: %w", err)
	}

	resp, err := b.api.MakeRequest("createInvoiceLink", params)
	if err != nil {
		return "", fmt.Errorf("create invoice link: %w", err)
	}

	var link string
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", fmt.Errorf("decode invoice link: %w", err)
	}

	_ = ctx
	return link, nil
}

func (b *Bot) AnswerPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if strings.TrimSpace(queryID) == "" {
		return fmt.Errorf("pre-checkout query id is required")
	}

	answer := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: queryID,
		OK:                 ok,
	}
	if !ok {
		answer.ErrorMessage = errorMessage
	}
	if _, err := b.api.Request(answer); err != nil {
		return fmt.Errorf("answer pre-checkout query: %w", err)
	}

	_ = ctx
	return nil
}

func (b *Bot) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if strings.TrimSpace(callbackID) == "" {
		return nil
	}

	cfg := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(cfg); err != nil {
		return fmt.Errorf("answer callback query: %w", err)
	}

	_ = ctx
	return nil
}

// SetWebhook replaces any registered webhook with the given public URL.
func (b *Bot) SetWebhook(ctx context.Context, publicURL string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if strings.TrimSpace(publicURL) == "" {
		return fmt.Errorf("webhook url is required")
	}

	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete existing webhook: %w", err)
	}

	wh, err := tgbotapi.NewWebhook(publicURL)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	_ = ctx
	return nil
}

func (b *Bot) WebhookInfo(ctx context.Context) (WebhookStatus, error) {
	if b == nil || b.api == nil {
		return WebhookStatus{}, fmt.Errorf("telegram bot is not initialized")
	}

	info, err := b.api.GetWebhookInfo()
	if err != nil {
		return WebhookStatus{}, fmt.Errorf("get webhook info: %w", err)
	}

	_ = ctx
	return WebhookStatus{
		URL:           info.URL,
		LastError:     info.LastErrorMessage,
		PendingCount:  info.PendingUpdateCount,
		HasCustomCert: info.HasCustomCertificate,
	}, nil
}
