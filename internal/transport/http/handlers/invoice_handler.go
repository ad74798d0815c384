package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	paymentsvc "github.com/124-Aaron-Liu/telegram-stars/internal/services/payments"
	"github.com/124-Aaron-Liu/telegram-stars/internal/transport/http/dto"
	httperrors "github.com/124-Aaron-Liu/telegram-stars/internal/transport/http/errors"
)

type InvoiceLinkIssuer interface {
	IssueInvoiceLink(ctx context.Context, productID string) (string, error)
}

// InvoiceHandler lets the Mini App request an invoice link out-of-band.
type InvoiceHandler struct {
	payments InvoiceLinkIssuer
	logger   *zap.Logger
}

func NewInvoiceHandler(payments InvoiceLinkIssuer, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{payments: payments, logger: logger}
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeInternal(w, "建立 Invoice Link 失敗", "payment service is unavailable")
		return
	}

	var req dto.CreateInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "無效的請求內容")
		return
	}

	link, err := h.payments.IssueInvoiceLink(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, paymentsvc.ErrProductNotFound) {
			httperrors.Write(w, http.StatusNotFound, httperrors.APIError{
				Error: "商品不存在",
			})
			return
		}
		if h.logger != nil {
			h.logger.Error("create invoice link failed",
				zap.String("product_id", req.ProductID), zap.Error(err))
		}
		writeInternal(w, "建立 Invoice Link 失敗", err.Error())
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CreateInvoiceResponse{
		Success:    true,
		InvoiceURL: link,
		Message:    "Invoice 已產生",
		Debug: dto.InvoiceDebug{
			ProductID: req.ProductID,
			UserID:    req.UserID,
		},
	})
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Error: msg})
}

func writeInternal(w http.ResponseWriter, errMsg, detail string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
		Error:   errMsg,
		Message: detail,
	})
}
