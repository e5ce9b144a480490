package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/alarmbridge/pkg/log"
)

// Server defines the common interface for every long-running component
// (stream supervisor, dispatch pool, notifiers, http and grpc servers).
type Server interface {
	Start(ctx context.Context) error
}

// Manager manages the lifecycle of all servers.
type Manager struct {
	servers []Server
}

// NewManager creates a manager for the given servers. Nil entries are skipped.
func NewManager(servers ...Server) *Manager {
	m := &Manager{}
	m.Add(servers...)
	return m
}

// Add registers more servers. It must be called before Start.
func (m *Manager) Add(servers ...Server) {
	for _, s := range servers {
		if s != nil {
			m.servers = append(m.servers, s)
		}
	}
}

// Len returns the number of managed servers.
func (m *Manager) Len() int {
	return len(m.servers)
}

// Start launches all servers in parallel and waits for termination. The first
// server to fail cancels the others.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, srv := range m.servers {
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("All servers starting...", "count", len(m.servers))
	return g.Wait()
}
