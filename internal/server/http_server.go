package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpserver "github.com/preston-bernstein/football-sync-service/internal/http"
	"github.com/preston-bernstein/football-sync-service/internal/http/handlers"
	"github.com/preston-bernstein/football-sync-service/internal/http/middleware"
	"github.com/preston-bernstein/football-sync-service/internal/logging"
	"github.com/preston-bernstein/football-sync-service/internal/poller"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second

// httpServer abstracts the HTTP server implementation for easier testing.
type httpServer interface {
	ListenAndServe() error
	Shutdown(context.Context) error
	Addr() string
	Handler() http.Handler
}

type netHTTPServer struct {
	srv *http.Server
}

func (s netHTTPServer) ListenAndServe() error              { return s.srv.ListenAndServe() }
func (s netHTTPServer) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
func (s netHTTPServer) Addr() string                       { return s.srv.Addr }
func (s netHTTPServer) Handler() http.Handler              { return s.srv.Handler }

func buildHTTPServer(port, adminToken string, reader handlers.Reader, targets []handlers.Target, pollers []Poller, logger *slog.Logger, recorder middleware.HTTPRecorder) httpServer {
	handler := handlers.NewHandler(reader, targets, logger, readiness(pollers))
	var admin *handlers.AdminHandler
	if adminToken != "" {
		admin = handlers.NewAdminHandler(targets, adminToken, logger)
	}
	router := httpserver.NewRouter(handler, admin)
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	return netHTTPServer{srv: &http.Server{
		Addr:         ":" + port,
		Handler:      middleware.LoggingMiddleware(logger, recorder, router),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}}
}

func readiness(pollers []Poller) handlers.StatusFunc {
	if len(pollers) == 0 {
		return nil
	}
	return func() map[string]poller.Status {
		out := make(map[string]poller.Status, len(pollers))
		for _, p := range pollers {
			out[p.Name()] = p.Status()
		}
		return out
	}
}
