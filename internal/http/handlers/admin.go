package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/football-sync-service/internal/cycle"
	"github.com/preston-bernstein/football-sync-service/internal/http/requestutil"
	"github.com/preston-bernstein/football-sync-service/internal/logging"
	"github.com/preston-bernstein/football-sync-service/internal/normalize"
	"github.com/preston-bernstein/football-sync-service/internal/providers"
	"github.com/preston-bernstein/football-sync-service/internal/store"
)

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	targets targetIndex
	token   string
	logger  *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(targets []Target, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		targets: newTargetIndex(targets),
		token:   token,
		logger:  logger,
	}
}

// RunCycle triggers one cycle for ?target= outside the poller cadence.
// Guarded by ADMIN_TOKEN; a cycle already in flight yields 409.
func (h *AdminHandler) RunCycle(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !requestutil.HasBearerToken(r, h.token) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	name := strings.TrimSpace(r.URL.Query().Get("target"))
	if name == "" && len(h.targets.names) == 1 {
		name = h.targets.names[0]
	}
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "missing target", logger)
		return
	}
	t, ok := h.targets.lookup(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown target", logger)
		return
	}

	res, err := t.RunCycle(r.Context())
	if err != nil {
		status := cycleErrorStatus(err)
		logging.Warn(logger, "admin cycle failed",
			logging.FieldTarget, name,
			logging.FieldOutcome, string(res.Outcome),
			slog.Int(logging.FieldStatusCode, status),
			logging.FieldError, err,
		)
		writeJSON(w, status, newCycleView(res), logger)
		return
	}

	logging.Info(logger, "admin cycle complete",
		logging.FieldTarget, name,
		logging.FieldOutcome, string(res.Outcome),
		logging.FieldPatchEntries, len(res.Paths),
	)
	writeJSON(w, http.StatusOK, newCycleView(res), logger)
}

func cycleErrorStatus(err error) int {
	if errors.Is(err, cycle.ErrCycleInProgress) {
		return http.StatusConflict
	}
	if _, ok := providers.AsFetchError(err); ok {
		return http.StatusBadGateway
	}
	if _, ok := normalize.AsMalformedInputError(err); ok {
		return http.StatusBadGateway
	}
	if _, ok := store.AsStoreReadError(err); ok {
		return http.StatusServiceUnavailable
	}
	if _, ok := store.AsStoreWriteError(err); ok {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
