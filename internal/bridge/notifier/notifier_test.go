package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/pkg/mqtt/topic"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

type published struct {
	topic   string
	qos     int
	retain  bool
	payload []byte
}

type fakeClient struct {
	mu           sync.Mutex
	connected    bool
	started      bool
	disconnected bool
	messages     []published
}

func (c *fakeClient) Start(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started, c.connected = true, true
	return nil
}

func (c *fakeClient) Disconnect(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected, c.connected = true, false
}

func (c *fakeClient) Publish(_ context.Context, t string, qos int, retain bool, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, published{topic: t, qos: qos, retain: retain, payload: payload})
	return nil
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func TestMQTTNotifierSend(t *testing.T) {
	client := &fakeClient{connected: true}
	n := NewMQTTNotifier(client, topic.NewTopicBuilder("alarmbridge/v1"))

	rec := &model.Record{SystemNo: "8800123", AlarmTypeID: "17", AlarmName: "Deviation Alarm"}
	if err := n.Send(context.Background(), rec); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(client.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(client.messages))
	}
	msg := client.messages[0]
	if msg.topic != "alarmbridge/v1/alarm/8800123/17" || msg.qos != 1 || msg.retain {
		t.Fatalf("published %+v", msg)
	}

	var got map[string]any
	if err := json.Unmarshal(msg.payload, &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got["System_No"] != "8800123" || got["Alarm_Name"] != "Deviation Alarm" {
		t.Fatalf("payload = %s", msg.payload)
	}
}

func TestMQTTNotifierNotConnected(t *testing.T) {
	n := NewMQTTNotifier(&fakeClient{}, topic.NewTopicBuilder("root"))

	err := n.Send(context.Background(), &model.Record{SystemNo: "1"})
	if !core.IsTransport(err) {
		t.Fatalf("Send() error = %v, want transport error", err)
	}
}

func TestMQTTNotifierLifecycle(t *testing.T) {
	client := &fakeClient{}
	n := NewMQTTNotifier(client, topic.NewTopicBuilder("root"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Start(ctx) }()

	deadline := time.Now().Add(time.Second)
	for !client.IsConnected() {
		if time.Now().After(deadline) {
			t.Fatal("client not started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !client.disconnected {
		t.Fatal("client not disconnected on shutdown")
	}
}

type stubSink struct {
	name  string
	err   error
	calls int
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Send(context.Context, *model.Record) error {
	s.calls++
	return s.err
}

func TestFanout(t *testing.T) {
	soap := &stubSink{name: "soap", err: core.ProtocolError("create", errors.New("fault"))}
	mqtt := &stubSink{name: "mqtt"}
	redis := &stubSink{name: "redis", err: errors.New("refused")}

	f := NewFanout(soap, mqtt, redis)
	if f.Name() != "soap,mqtt,redis" || f.Len() != 3 {
		t.Fatalf("Name() = %q, Len() = %d", f.Name(), f.Len())
	}

	err := f.Send(context.Background(), &model.Record{})
	if err == nil {
		t.Fatal("Send() error = nil, want joined error")
	}
	if soap.calls != 1 || mqtt.calls != 1 || redis.calls != 1 {
		t.Fatalf("calls soap=%d mqtt=%d redis=%d, want all 1", soap.calls, mqtt.calls, redis.calls)
	}
	if !core.IsProtocol(err) {
		t.Errorf("joined error lost its kind: %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "soap:") || !strings.Contains(msg, "redis: refused") {
		t.Errorf("error = %q", msg)
	}

	mqtt.err = nil
	if err := NewFanout(mqtt).Send(context.Background(), &model.Record{}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}

func TestRedisNotifierUnreachable(t *testing.T) {
	opts := options.NewRedisOptions()
	opts.Addr = "127.0.0.1:1"
	n := NewRedisNotifier(opts)
	defer n.client.Close()

	if n.Name() != "redis" {
		t.Fatalf("Name() = %q", n.Name())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := n.Send(ctx, &model.Record{SystemNo: "1"}); !core.IsTransport(err) {
		t.Fatalf("Send() error = %v, want transport error", err)
	}
}
