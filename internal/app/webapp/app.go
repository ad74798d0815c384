package webapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/124-Aaron-Liu/telegram-stars/internal/config"
)

// App is the HTTP shell: webhook ingress, the Mini App API and the SPA
// fallback, on one chi router.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	server *http.Server
	router http.Handler
}

func New(cfg config.Config, log *zap.Logger, deps Dependencies) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	deps.Logger = log
	deps.Config = cfg

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)
	RegisterRoutes(r, deps)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:    cfg,
		logger: log,
		server: server,
		router: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

func (a *App) Handler() http.Handler {
	return a.router
}
