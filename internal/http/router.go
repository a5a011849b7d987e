package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/football-sync-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. The admin route is mounted
// only when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/targets", handler.Targets)
	mux.HandleFunc("/snapshots/", handler.Snapshot)
	mux.HandleFunc("/changes", handler.Changes)
	if admin != nil {
		mux.HandleFunc("/admin/cycles/run", admin.RunCycle)
	}
	return mux
}
