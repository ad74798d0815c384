package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	paymentsvc "github.com/124-Aaron-Liu/telegram-stars/internal/services/payments"
)

type issuerStub struct {
	link string
	err  error

	gotProductID string
}

func (s *issuerStub) IssueInvoiceLink(_ context.Context, productID string) (string, error) {
	s.gotProductID = productID
	if s.err != nil {
		return "", s.err
	}
	return s.link, nil
}

func postInvoice(t *testing.T, handler *InvoiceHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/create-invoice", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	return rec
}

func TestCreateInvoiceSuccess(t *testing.T) {
	issuer := &issuerStub{link: "https://t.me/$abc"}
	handler := NewInvoiceHandler(issuer, nil)

	rec := postInvoice(t, handler, `{"productId": "gold_100", "userId": 7}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if issuer.gotProductID != "gold_100" {
		t.Fatalf("unexpected product id: %q", issuer.gotProductID)
	}

	var payload struct {
		Success    bool   `json:"success"`
		InvoiceURL string `json:"invoiceUrl"`
		Debug      struct {
			ProductID string `json:"productId"`
			UserID    int64  `json:"userId"`
		} `json:"debug"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.InvoiceURL != "https://t.me/$abc" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Debug.ProductID != "gold_100" || payload.Debug.UserID != 7 {
		t.Fatalf("unexpected debug echo: %+v", payload.Debug)
	}
}

func TestCreateInvoiceUnknownProduct(t *testing.T) {
	issuer := &issuerStub{err: paymentsvc.ErrProductNotFound}
	handler := NewInvoiceHandler(issuer, nil)

	rec := postInvoice(t, handler, `{"productId": "diamond_999"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Success || payload.Error != "商品不存在" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestCreateInvoiceUpstreamFailure(t *testing.T) {
	issuer := &issuerStub{err: errors.New("telegram down")}
	handler := NewInvoiceHandler(issuer, nil)

	rec := postInvoice(t, handler, `{"productId": "gold_100"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestCreateInvoiceRejectsMalformedBody(t *testing.T) {
	issuer := &issuerStub{link: "https://t.me/$abc"}
	handler := NewInvoiceHandler(issuer, nil)

	rec := postInvoice(t, handler, `{"productId": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status for malformed json: %d", rec.Code)
	}

	rec = postInvoice(t, handler, `{"productId": "gold_100", "extra": true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status for unknown field: %d", rec.Code)
	}
}
