package stream

import (
	"context"

	"github.com/looplab/fsm"

	"github.com/autopeer-io/alarmbridge/internal/pkg/metrics"
	fsmutil "github.com/autopeer-io/alarmbridge/internal/pkg/util/fsm"
	"github.com/autopeer-io/alarmbridge/pkg/log"
)

// Listener states. There is no terminal state: a listener cycles until its
// context is cancelled.
const (
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateStreaming    = "streaming"
)

const (
	// EventDial starts a connection attempt.
	EventDial = "dial"
	// EventEstablished marks a completed handshake.
	EventEstablished = "established"
	// EventDrop ends a connection or a failed attempt.
	EventDrop = "drop"
)

var states = []string{StateDisconnected, StateConnecting, StateStreaming}

// StateMachine tracks the connection state of one listener.
type StateMachine struct {
	*fsm.FSM
	endpoint string
	log      log.Logger
}

func NewStateMachine(endpoint string, logger log.Logger) *StateMachine {
	m := &StateMachine{endpoint: endpoint, log: logger}

	events := fsm.Events{
		{Name: EventDial, Src: []string{StateDisconnected}, Dst: StateConnecting},
		{Name: EventEstablished, Src: []string{StateConnecting}, Dst: StateStreaming},
		{Name: EventDrop, Src: []string{StateConnecting, StateStreaming}, Dst: StateDisconnected},
	}

	callbacks := fsm.Callbacks{
		"enter_state": fsmutil.WrapEvent(m.ActionEnterState),
	}

	m.FSM = fsm.NewFSM(StateDisconnected, events, callbacks)
	m.export(StateDisconnected)
	return m
}

// Fire triggers event, logging anything other than a no-op transition.
// Transitions complete even when ctx is already cancelled.
func (m *StateMachine) Fire(ctx context.Context, event string) {
	if err := m.Event(context.WithoutCancel(ctx), event); fsmutil.IsRealError(err) {
		m.log.Error(err, "Invalid listener transition", "event", event, "state", m.Current())
	}
}

// ActionEnterState publishes the new state.
func (m *StateMachine) ActionEnterState(_ context.Context, e *fsm.Event) error {
	m.log.Debug("Listener state changed", "from", e.Src, "to", e.Dst, "event", e.Event)
	m.export(e.Dst)
	return nil
}

func (m *StateMachine) export(current string) {
	for _, s := range states {
		v := 0.0
		if s == current {
			v = 1
		}
		metrics.ListenerState.WithLabelValues(m.endpoint, s).Set(v)
	}
}
