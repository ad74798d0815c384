package handlers

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"
)

type UpdateSink interface {
	HandleUpdate(ctx context.Context, body []byte) error
}

// WebhookHandler accepts raw update bodies pushed by Telegram. Anything the
// sink cannot process answers 500 so the platform retries; everything else,
// including updates with no payment events, answers 200.
type WebhookHandler struct {
	sink   UpdateSink
	logger *zap.Logger
}

func NewWebhookHandler(sink UpdateSink, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{sink: sink, logger: logger}
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h.sink == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("read webhook body failed", zap.Error(err))
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := h.sink.HandleUpdate(r.Context(), body); err != nil {
		if h.logger != nil {
			h.logger.Error("webhook update failed", zap.Error(err))
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
