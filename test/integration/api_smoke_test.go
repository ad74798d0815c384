package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/124-Aaron-Liu/telegram-stars/internal/app/webapp"
	"github.com/124-Aaron-Liu/telegram-stars/internal/config"
)

type linkIssuerStub struct{}

func (linkIssuerStub) IssueInvoiceLink(_ context.Context, productID string) (string, error) {
	return "https://t.me/$" + productID, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.HTTP.Addr = ":0"

	app, err := webapp.New(cfg, zap.NewNop(), webapp.Dependencies{
		Invoices: linkIssuerStub{},
	})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	ts := httptest.NewServer(app.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}

	var payload struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.Status != "success" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestCreateInvoice(t *testing.T) {
	ts := newTestServer(t)

	body := bytes.NewBufferString(`{"productId": "gold_100", "userId": 7}`)
	resp, err := http.Post(ts.URL+"/api/create-invoice", "application/json", body)
	if err != nil {
		t.Fatalf("post create-invoice: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}

	var payload struct {
		Success    bool   `json:"success"`
		InvoiceURL string `json:"invoiceUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.InvoiceURL != "https://t.me/$gold_100" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
