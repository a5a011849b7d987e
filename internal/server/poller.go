package server

import (
	"context"

	"github.com/preston-bernstein/football-sync-service/internal/poller"
)

// Poller defines the minimal poller behavior needed by the server.
type Poller interface {
	Name() string
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}
