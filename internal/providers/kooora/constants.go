package kooora

import "time"

const (
	providerName       = "kooora"
	defaultUserAgent   = "Mozilla/5.0"
	defaultHTTPTimeout = 15 * time.Second
)
