package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/fleetclient/pkg/log"
)

// Server is anything that runs until its context is cancelled.
type Server interface {
	Start(ctx context.Context) error
}

// Func adapts a function to Server.
type Func func(ctx context.Context) error

func (f Func) Start(ctx context.Context) error { return f(ctx) }

// Manager runs a set of servers and stops all of them when one fails.
type Manager struct {
	servers []Server
	logger  log.Logger
}

// NewManager creates a manager for servers.
func NewManager(logger log.Logger, servers ...Server) *Manager {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Manager{servers: servers, logger: logger}
}

// Start launches all servers in parallel and waits for termination.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range m.servers {
		g.Go(func() error {
			return s.Start(ctx)
		})
	}

	m.logger.Info("All servers starting", "count", len(m.servers))
	return g.Wait()
}
