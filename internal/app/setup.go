// Package app contains the application setup for the inventory.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"

	"github.com/abgdnv/inventory/internal/command"
	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/service"
	"github.com/abgdnv/inventory/internal/store"
	"github.com/abgdnv/inventory/internal/transport/rest"
	"github.com/abgdnv/inventory/pkg/messaging"
	natsclient "github.com/abgdnv/inventory/pkg/nats"
	"github.com/abgdnv/inventory/pkg/server"

	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	InventoryService service.InventoryService
	Logger           *slog.Logger
}

func SetupDependencies(publisher messaging.Publisher, logger *slog.Logger, cfg *config.Config) *Dependencies {
	iService := service.NewService(store.NewInMemoryStore(), publisher, logger, cfg.Inventory.Currency)

	return &Dependencies{
		InventoryService: iService,
		Logger:           logger,
	}
}

// SetupExecutor builds the command executor used by the interactive menu.
func SetupExecutor(deps *Dependencies) *command.Executor {
	return command.NewExecutor(deps.InventoryService, deps.Logger)
}

// SetupHttpHandler initializes the routes for the REST API.
// Used by tests to set up the HTTP handler with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return server.Instrument(mux, "inventory.http")
}

// wireRoutes sets up the HTTP routes for the inventory.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.InventoryService, deps.Logger)
	handler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the REST API.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupPprofServer exposes the runtime profiles on cfg.PProf.Addr.
func SetupPprofServer(cfg *config.Config) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return &http.Server{
		Addr:    cfg.PProf.Addr,
		Handler: mux,
	}
}

// NewPublisher connects to NATS and makes sure the inventory stream exists.
// When NATS is disabled it returns a publisher that discards events.
// The returned close function drains the connection.
func NewPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		logger.Info("NATS disabled, inventory events will not be published")
		return messaging.NopPublisher{}, func() {}, nil
	}

	nc, err := natsclient.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}

	streamCtx, cancel := context.WithTimeout(ctx, cfg.Nats.Timeout)
	defer cancel()
	if _, err := natsclient.EnsureStream(streamCtx, js, cfg.Nats.Stream, messaging.InventorySubjects); err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to set up inventory stream: %w", err)
	}
	logger.Info("Connected to NATS", slog.String("url", nc.ConnectedUrlRedacted()), slog.String("stream", cfg.Nats.Stream))

	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", slog.String("error", err.Error()))
			return
		}
		logger.Info("NATS connection drained")
	}
	return natsclient.NewNatsPublisher(js, cfg.Resilience, logger), closeFn, nil
}
