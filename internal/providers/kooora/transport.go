package kooora

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

func newRestyClient(cfg Config) *resty.Client {
	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		client = resty.New()
	}
	client.SetHeader("User-Agent", resolveUserAgent(cfg.UserAgent))
	client.SetHeader("Accept", "text/html,application/xhtml+xml")
	client.SetTimeout(resolveTimeout(cfg.Timeout))
	return client
}

func resolveUserAgent(raw string) string {
	if ua := strings.TrimSpace(raw); ua != "" {
		return ua
	}
	return defaultUserAgent
}

func resolveTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultHTTPTimeout
	}
	return d
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
