package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/football-sync-service/internal/docpath"
	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
	"github.com/preston-bernstein/football-sync-service/internal/logging"
	"github.com/preston-bernstein/football-sync-service/internal/poller"
	"github.com/preston-bernstein/football-sync-service/internal/timeutil"
)

// Reader reads documents from the store.
type Reader interface {
	Read(ctx context.Context, path string) (any, error)
}

// StatusFunc reports poller health keyed by target name.
type StatusFunc func() map[string]poller.Status

// Handler serves health, readiness and the stored documents.
type Handler struct {
	store    Reader
	targets  targetIndex
	logger   *slog.Logger
	statusFn StatusFunc
}

// NewHandler constructs a Handler with defaults.
func NewHandler(store Reader, targets []Target, logger *slog.Logger, statusFn StatusFunc) *Handler {
	return &Handler{
		store:    store,
		targets:  newTargetIndex(targets),
		logger:   logger,
		statusFn: statusFn,
	}
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch {
	case r.URL.Path == "/health":
		h.Health(w, r)
	case r.URL.Path == "/ready":
		h.Ready(w, r)
	case r.URL.Path == "/targets":
		h.Targets(w, r)
	case r.URL.Path == "/changes":
		h.Changes(w, r)
	case strings.HasPrefix(r.URL.Path, "/snapshots/"):
		h.Snapshot(w, r)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

type readinessView struct {
	Ready               bool   `json:"ready"`
	ConsecutiveFailures int    `json:"consecutiveFailures"`
	LastError           string `json:"lastError,omitempty"`
	LastSuccess         string `json:"lastSuccess,omitempty"`
	LastOutcome         string `json:"lastOutcome,omitempty"`
}

// Ready reports readiness for traffic: every target has synced recently and
// is not failing repeatedly.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}

	var failing []string
	views := make(map[string]readinessView)
	for name, st := range h.statusFn() {
		v := readinessView{
			Ready:               st.IsReady(),
			ConsecutiveFailures: st.ConsecutiveFailures,
			LastError:           st.LastError,
			LastOutcome:         string(st.LastOutcome),
		}
		if !st.LastSuccess.IsZero() {
			v.LastSuccess = timeutil.FormatTimestamp(st.LastSuccess)
		}
		if !v.Ready {
			failing = append(failing, name)
		}
		views[name] = v
	}

	if len(failing) == 0 {
		writeJSON(w, nethttp.StatusOK, map[string]any{"status": "ready", "targets": views}, h.logger)
		return
	}
	sort.Strings(failing)
	msg := views[failing[0]].LastError
	if msg == "" {
		msg = "not ready"
	}
	writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{"error": msg, "targets": views}, h.logger)
}

// Targets lists the configured sync targets with their current cycle state.
func (h *Handler) Targets(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	out := make([]targetView, 0, len(h.targets.names))
	for _, name := range h.targets.names {
		t, _ := h.targets.lookup(name)
		out = append(out, newTargetView(t))
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"targets": out}, h.logger)
}

// Snapshot returns the stored document for a target, or one of its sections
// when ?section= is given.
func (h *Handler) Snapshot(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)

	name, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/snapshots/"))
	if err != nil || name == "" || strings.ContainsAny(name, " \t/") {
		writeError(w, r, nethttp.StatusBadRequest, "invalid target", logger)
		return
	}
	t, ok := h.targets.lookup(name)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "unknown target", logger)
		return
	}
	if h.store == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "store not configured", logger)
		return
	}

	target := t.Target()
	path := target.Path
	if section := strings.TrimSpace(r.URL.Query().Get("section")); section != "" {
		schema, err := snapshot.SchemaFor(target.Kind)
		if err != nil || (!schema.HasSection(section) && section != snapshot.UpdatedAtField) {
			writeError(w, r, nethttp.StatusBadRequest, "unknown section", logger)
			return
		}
		path = docpath.Join(path, section)
	}

	start := time.Now()
	doc, err := h.store.Read(r.Context(), path)
	if err != nil {
		logging.Warn(logger, "snapshot read failed",
			logging.FieldTarget, target.Name,
			logging.FieldStorePath, path,
			logging.FieldError, err,
		)
		writeError(w, r, nethttp.StatusServiceUnavailable, "store unavailable", logger)
		return
	}
	if doc == nil {
		writeError(w, r, nethttp.StatusNotFound, "snapshot not found", logger)
		return
	}
	logging.Info(logger, "served snapshot",
		logging.FieldTarget, target.Name,
		logging.FieldStorePath, path,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	writeJSON(w, nethttp.StatusOK, doc, logger)
}
