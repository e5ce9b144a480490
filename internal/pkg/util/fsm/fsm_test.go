package fsm

import (
	"context"
	"errors"
	"testing"

	"github.com/looplab/fsm"
)

func TestWrapEventPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	f := fsm.NewFSM("idle",
		fsm.Events{{Name: "go", Src: []string{"idle"}, Dst: "busy"}},
		fsm.Callbacks{
			"before_go": WrapEvent(func(ctx context.Context, e *fsm.Event) error { return boom }),
		},
	)

	err := f.Event(context.Background(), "go")
	if !errors.Is(err, boom) {
		t.Fatalf("Event() = %v, want %v", err, boom)
	}
	if !IsRealError(err) {
		t.Error("callback failure should be a real error")
	}
}

func TestIsRealError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no transition", fsm.NoTransitionError{}, false},
		{"canceled", fsm.CanceledError{}, false},
		{"invalid event", fsm.InvalidEventError{Event: "x", State: "y"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRealError(tt.err); got != tt.want {
				t.Errorf("IsRealError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
