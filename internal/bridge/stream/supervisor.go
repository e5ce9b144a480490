package stream

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/alarmbridge/pkg/log"
)

// Supervisor owns the listeners of every discovered endpoint and returns only
// after all of them have stopped.
type Supervisor struct {
	mu        sync.RWMutex
	listeners []*Listener
}

func NewSupervisor(listeners ...*Listener) *Supervisor {
	return &Supervisor{listeners: listeners}
}

// Add registers more listeners. It must be called before Start.
func (s *Supervisor) Add(listeners ...*Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listeners...)
}

// Start runs every listener until ctx is cancelled.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.RLock()
	listeners := append([]*Listener(nil), s.listeners...)
	s.mu.RUnlock()

	if len(listeners) == 0 {
		log.Warn("No stream endpoints to listen on")
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, l := range listeners {
		g.Go(func() error {
			return l.Run(ctx)
		})
	}

	log.Info("Stream listeners started", "count", len(listeners))
	return g.Wait()
}

// Len returns the number of listeners.
func (s *Supervisor) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

// Active returns the number of listeners currently streaming.
func (s *Supervisor) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, l := range s.listeners {
		if l.State() == StateStreaming {
			n++
		}
	}
	return n
}
