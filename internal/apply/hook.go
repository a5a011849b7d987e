package apply

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/preston-bernstein/football-sync-service/internal/timeutil"
)

// Hook runs after a batch has been committed. Failures are logged and never
// fail the write.
type Hook interface {
	Name() string
	AfterCommit(ctx context.Context, commit Commit) error
}

const defaultPurgeTimeout = 5 * time.Second

// PurgeConfig configures the cache purge hook.
type PurgeConfig struct {
	URL        string
	Method     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// PurgeHook asks a CDN or cache in front of the store to drop the written path.
type PurgeHook struct {
	url    string
	method string
	client *resty.Client
}

type purgeRequest struct {
	Path      string   `json:"path"`
	Paths     []string `json:"paths"`
	UpdatedAt string   `json:"updatedAt"`
}

// NewPurgeHook returns a hook calling cfg.URL after each commit.
func NewPurgeHook(cfg PurgeConfig) *PurgeHook {
	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		client = resty.New()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPurgeTimeout
	}
	client.SetTimeout(timeout)

	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	if method == "" {
		method = http.MethodPost
	}
	return &PurgeHook{url: cfg.URL, method: method, client: client}
}

func (h *PurgeHook) Name() string {
	return "purge"
}

func (h *PurgeHook) AfterCommit(ctx context.Context, commit Commit) error {
	res, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(purgeRequest{
			Path:      commit.BasePath,
			Paths:     commit.Paths,
			UpdatedAt: timeutil.FormatTimestamp(commit.UpdatedAt),
		}).
		Execute(h.method, h.url)
	if err != nil {
		return fmt.Errorf("purge %s: %w", commit.BasePath, err)
	}
	if res.IsError() {
		return fmt.Errorf("purge %s: unexpected status %d", commit.BasePath, res.StatusCode())
	}
	return nil
}
