package handlers

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/preston-bernstein/football-sync-service/internal/logging"
	"github.com/preston-bernstein/football-sync-service/internal/store"
	"github.com/preston-bernstein/football-sync-service/internal/timeutil"
)

const (
	defaultChangesLimit = 50
	maxChangesLimit     = 500
)

// ChangeLister is implemented by stores that journal every committed batch.
type ChangeLister interface {
	Changes(ctx context.Context, limit int) ([]store.Change, error)
}

type changeView struct {
	ID         int64  `json:"id"`
	Key        string `json:"key"`
	MergePatch any    `json:"mergePatch"`
	CreatedAt  string `json:"createdAt"`
}

// Changes lists the most recent journal entries, newest first.
func (h *Handler) Changes(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)

	lister, ok := h.store.(ChangeLister)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "change journal not available", logger)
		return
	}

	limit := defaultChangesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, nethttp.StatusBadRequest, "invalid limit", logger)
			return
		}
		limit = min(n, maxChangesLimit)
	}

	changes, err := lister.Changes(r.Context(), limit)
	if err != nil {
		logging.Warn(logger, "change journal read failed", logging.FieldError, err)
		writeError(w, r, nethttp.StatusServiceUnavailable, "store unavailable", logger)
		return
	}

	out := make([]changeView, 0, len(changes))
	for _, c := range changes {
		out = append(out, changeView{
			ID:         c.ID,
			Key:        c.Key,
			MergePatch: c.MergePatch,
			CreatedAt:  timeutil.FormatTimestamp(c.CreatedAt),
		})
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"changes": out}, logger)
}
