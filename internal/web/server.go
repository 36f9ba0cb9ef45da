// Package web serves the chart visualization API. It is a thin read layer:
// every data response comes straight from the durable store, and the only
// write path is the explicit sync trigger.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"pnl-research/internal/infra/storage"
	"pnl-research/internal/service"
)

// Server hosts the HTTP API and the websocket hub.
type Server struct {
	svc      *service.SyncService
	registry *storage.Storage
	hub      *Hub
	logger   *slog.Logger

	appName    string
	appVersion string
	httpServer *http.Server
}

// NewServer creates the API server.
func NewServer(addr string, svc *service.SyncService, registry *storage.Storage, hub *Hub, appName, appVersion string) *Server {
	s := &Server{
		svc:        svc,
		registry:   registry,
		hub:        hub,
		logger:     slog.Default().With("module", "web"),
		appName:    appName,
		appVersion: appVersion,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/kline/{token}", s.handleKline)
	mux.HandleFunc("GET /api/trades/{wallet}", s.handleTrades)
	mux.HandleFunc("POST /api/sync", s.handleSync)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("GET /api/tokens", s.handleTokens)
	mux.HandleFunc("GET /ws", s.hub.ServeWS)
	return mux
}

// Start runs the listener until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("web server listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// Shutdown stops the listener and disconnects chart clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
