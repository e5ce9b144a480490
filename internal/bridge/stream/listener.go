package stream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/internal/pkg/metrics"
	"github.com/autopeer-io/alarmbridge/pkg/log"
)

// Handler processes one allowed alarm event. It runs on the listener's
// goroutine, so events of one endpoint are handled in arrival order.
type Handler func(ctx context.Context, ev *model.AlarmEvent)

// CredentialFunc returns the identity used to log in on a new connection.
type CredentialFunc func() (model.Identity, error)

// ListenerConfig holds everything a Listener needs.
type ListenerConfig struct {
	Endpoint    model.Endpoint
	Credentials CredentialFunc
	AllowList   *AllowList
	Handler     Handler

	HeartbeatInterval time.Duration
	ReconnectDelay    time.Duration
	HandshakeTimeout  time.Duration
	VerifyTLS         bool
}

// Listener keeps one streaming connection alive, reconnecting after a fixed
// delay whenever it drops.
type Listener struct {
	url       string
	creds     CredentialFunc
	allow     *AllowList
	handle    Handler
	heartbeat time.Duration
	delay     time.Duration
	dialer    *websocket.Dialer
	fsm       *StateMachine
	log       log.Logger
}

// NewListener creates a listener for cfg.Endpoint.
func NewListener(cfg ListenerConfig) *Listener {
	url := cfg.Endpoint.URL()
	logger := log.WithName("listener").WithValues("url", url)

	return &Listener{
		url:       url,
		creds:     cfg.Credentials,
		allow:     cfg.AllowList,
		handle:    cfg.Handler,
		heartbeat: cfg.HeartbeatInterval,
		delay:     cfg.ReconnectDelay,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: cfg.HandshakeTimeout,
			TLSClientConfig:  &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS},
		},
		fsm: NewStateMachine(url, logger),
		log: logger,
	}
}

// URL returns the endpoint address.
func (l *Listener) URL() string {
	return l.url
}

// State returns the current connection state.
func (l *Listener) State() string {
	return l.fsm.Current()
}

// Run connects, streams and reconnects until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	l.log.Info("Listener starting")
	wait.JitterUntilWithContext(ctx, l.connectOnce, l.delay, 0, true)
	l.log.Info("Listener stopped")
	return nil
}

// connectOnce runs one connection from dial to drop.
func (l *Listener) connectOnce(ctx context.Context) {
	err := l.stream(ctx)

	l.fsm.Fire(ctx, EventDrop)
	if ctx.Err() != nil {
		return
	}

	metrics.ListenerReconnects.WithLabelValues(l.url).Inc()
	l.log.Error(err, "Stream connection lost, reconnecting", "delay", l.delay)
}

func (l *Listener) stream(ctx context.Context) error {
	l.fsm.Fire(ctx, EventDial)

	id, err := l.creds()
	if err != nil {
		return err
	}
	login, err := credentialFrame(id)
	if err != nil {
		return err
	}

	conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return core.TransportError("dial", err)
	}
	defer conn.Close()

	// Closing the connection is what unblocks ReadMessage on shutdown.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := conn.WriteMessage(websocket.TextMessage, login); err != nil {
		return core.TransportError("login", err)
	}

	l.fsm.Fire(ctx, EventEstablished)
	l.log.Info("Stream connected")

	hbCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.keepalive(hbCtx, conn)
	}()

	err = l.receive(ctx, conn)

	cancel()
	wg.Wait()
	return err
}

// frameWriter is the write side of a stream connection.
type frameWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// keepalive sends the heartbeat frame until ctx ends or a write fails.
// It is the only writer once the login frame is sent. A failed write closes
// the connection so the blocked read returns and the listener reconnects.
func (l *Listener) keepalive(ctx context.Context, conn frameWriter) {
	ticker := time.NewTicker(l.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(l.heartbeat))
			if err := conn.WriteMessage(websocket.TextMessage, heartbeatFrame); err != nil {
				if ctx.Err() != nil {
					return
				}
				l.log.Warn("Heartbeat failed, dropping connection", "error", err)
				_ = conn.Close()
				return
			}
		}
	}
}

// receive reads until the connection fails. The framer lives exactly as long
// as this call, so a partial message never survives a reconnect.
func (l *Listener) receive(ctx context.Context, conn *websocket.Conn) error {
	var framer Framer

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if pending := framer.Pending(); pending > 0 {
				l.log.Debug("Discarding partial message", "bytes", pending)
			}
			return core.TransportError("read", err)
		}

		for _, seg := range framer.Push(data) {
			l.process(ctx, seg)
		}
	}
}

func (l *Listener) process(ctx context.Context, seg []byte) {
	var ev model.AlarmEvent
	if err := json.Unmarshal(seg, &ev); err != nil {
		metrics.FramesTotal.WithLabelValues("parse_error").Inc()
		l.log.Error(core.ParseError("decode", err), "Dropping undecodable segment", "segment", clip(seg, 200))
		return
	}
	metrics.FramesTotal.WithLabelValues("decoded").Inc()

	if !l.allow.Allowed(ev.AlarmTypeID()) {
		metrics.AlarmsFiltered.Inc()
		return
	}

	l.log.Info("Alarm received", "systemNo", ev.SystemNo.Trimmed(), "alarmType", ev.AlarmTypeID(), "payload", clip(seg, 500))
	l.handle(ctx, &ev)
}

func clip(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
