package platform

import (
	"context"
	"testing"
	"time"
)

func TestNewRenewerDisabled(t *testing.T) {
	if r := NewRenewer(&Session{}, ""); r != nil {
		t.Fatalf("NewRenewer with empty schedule = %v, want nil", r)
	}
}

func TestRenewerSignsInAgain(t *testing.T) {
	s, _ := newTestSession(t, map[string]string{"User/SignIn": signInOK})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewRenewer(s, "@every 1s").Start(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for !s.SignedIn() {
		if time.Now().After(deadline) {
			t.Fatal("renewer never signed in")
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("renewer did not stop")
	}
}
