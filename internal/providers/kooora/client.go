// Package kooora scrapes match pages from kooora.com into raw records.
package kooora

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
	"github.com/preston-bernstein/football-sync-service/internal/providers"
)

// Config controls how the client reaches the site.
type Config struct {
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches kooora pages and extracts them with CSS selectors.
type Client struct {
	http *resty.Client
}

// NewClient constructs a kooora client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{http: newRestyClient(cfg)}
}

// FetchSnapshot downloads req.URL and extracts the record layout for req.Kind.
func (c *Client) FetchSnapshot(ctx context.Context, req providers.Request) (any, error) {
	if req.URL == "" {
		return nil, &providers.FetchError{Provider: providerName, Err: fmt.Errorf("no url configured for %s", req.Kind)}
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(req.URL)
	if err != nil {
		return nil, providers.WrapFetchError(providerName, req.URL, err)
	}
	if !isSuccess(res.StatusCode()) {
		return nil, &providers.FetchError{
			Provider:   providerName,
			URL:        req.URL,
			StatusCode: res.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", res.Status()),
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, &providers.FetchError{Provider: providerName, URL: req.URL, Err: fmt.Errorf("parse html: %w", err)}
	}

	switch req.Kind {
	case snapshot.KindMatchDetail:
		return extractMatchDetail(doc, req.URL), nil
	case snapshot.KindMatchList:
		return extractMatchList(doc, req.URL), nil
	default:
		return nil, &providers.FetchError{Provider: providerName, URL: req.URL, Err: fmt.Errorf("unsupported kind %q", req.Kind)}
	}
}
