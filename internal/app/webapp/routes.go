package webapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/124-Aaron-Liu/telegram-stars/internal/config"
	"github.com/124-Aaron-Liu/telegram-stars/internal/transport/http/handlers"
)

type Dependencies struct {
	// Invoices issues shareable invoice links for the Mini App.
	Invoices handlers.InvoiceLinkIssuer
	// Updates receives raw webhook bodies; nil disables the webhook route
	// (the polling deployment).
	Updates handlers.UpdateSink
	Logger  *zap.Logger
	Config  config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	invoiceHandler := handlers.NewInvoiceHandler(deps.Invoices, deps.Logger)
	spaHandler := handlers.NewSPAHandler(deps.Config.Web.StaticDir)

	r.Route("/api", func(r chi.Router) {
		if deps.Updates != nil {
			webhookHandler := handlers.NewWebhookHandler(deps.Updates, deps.Logger)
			r.Post("/webhook", webhookHandler.Receive)
		}
		r.Get("/health", healthHandler.Get)
		r.Post("/create-invoice", invoiceHandler.Create)
	})

	r.NotFound(spaHandler.Serve)
}
