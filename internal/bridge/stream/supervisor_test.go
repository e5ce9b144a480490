package stream

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestSupervisorRunsAllListeners(t *testing.T) {
	hold := make(chan struct{})
	script := func(int, *websocket.Conn) { <-hold }

	srvA := httptest.NewServer(&streamServer{t: t, logins: make(chan string, 1), script: script})
	defer srvA.Close()
	srvB := httptest.NewServer(&streamServer{t: t, logins: make(chan string, 1), script: script})
	defer srvB.Close()
	defer close(hold)

	newL := func(srv *httptest.Server) *Listener {
		l, _ := newTestListener(t, srv)
		return l
	}

	sup := NewSupervisor(newL(srvA))
	sup.Add(newL(srvB))
	if sup.Len() != 2 {
		t.Fatalf("Len() = %d", sup.Len())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sup.Start(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for sup.Active() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("Active() = %d, want 2", sup.Active())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not return after cancellation")
	}
	if sup.Active() != 0 {
		t.Errorf("Active() = %d after shutdown", sup.Active())
	}
}

func TestSupervisorWithoutListeners(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewSupervisor().Start(ctx); err != nil {
		t.Fatalf("Start() = %v", err)
	}
}
