package server

import (
	"context"
	"errors"
	"testing"
	"time"
)

type funcServer func(ctx context.Context) error

func (f funcServer) Start(ctx context.Context) error { return f(ctx) }

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func TestManagerStopsOnCancel(t *testing.T) {
	m := NewManager(funcServer(blockUntilDone), nil, funcServer(blockUntilDone))
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (nil skipped)", m.Len())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestManagerFailureCancelsOthers(t *testing.T) {
	boom := errors.New("listen failed")
	m := NewManager(funcServer(blockUntilDone), funcServer(func(context.Context) error { return boom }))

	done := make(chan error, 1)
	go func() { done <- m.Start(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("Start() error = %v, want %v", err, boom)
		}
	case <-time.After(time.Second):
		t.Fatal("failure did not stop the manager")
	}
}
