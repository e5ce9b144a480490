package mqtt

import (
	"testing"
	"time"
)

func TestNewClientAppliesDefaults(t *testing.T) {
	cfg := &ClientConfig{BrokerURL: "tcp://localhost:1883", ClientID: "alarmbridge-test"}

	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if cfg.KeepAlive != defaultKeepAlive || cfg.ConnectTimeout != defaultConnectTimeout {
		t.Errorf("defaults not applied: keepalive=%d timeout=%s", cfg.KeepAlive, cfg.ConnectTimeout)
	}
	if c.IsConnected() {
		t.Error("client should not report connected before Start")
	}
	if err := c.Publish(t.Context(), "x", 0, false, nil); err != errNotStarted {
		t.Errorf("Publish before Start = %v, want errNotStarted", err)
	}
}

func TestNewClientKeepsExplicitSettings(t *testing.T) {
	cfg := &ClientConfig{
		BrokerURL:      "ssl://broker.example.com:8883",
		ClientID:       "alarmbridge-test",
		KeepAlive:      15,
		ConnectTimeout: time.Second,
	}
	if _, err := NewClient(cfg); err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if cfg.KeepAlive != 15 || cfg.ConnectTimeout != time.Second {
		t.Errorf("explicit settings overwritten: keepalive=%d timeout=%s", cfg.KeepAlive, cfg.ConnectTimeout)
	}
}

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr bool
	}{
		{"empty url", ClientConfig{ClientID: "a"}, true},
		{"no scheme", ClientConfig{BrokerURL: "localhost", ClientID: "a"}, true},
		{"http scheme", ClientConfig{BrokerURL: "http://localhost:1883", ClientID: "a"}, true},
		{"missing client id", ClientConfig{BrokerURL: "tcp://localhost:1883"}, true},
		{"password without user", ClientConfig{BrokerURL: "tcp://localhost:1883", ClientID: "a", Password: "p"}, true},
		{"tcp", ClientConfig{BrokerURL: "tcp://localhost:1883", ClientID: "a"}, false},
		{"ssl", ClientConfig{BrokerURL: "ssl://broker.example.com:8883", ClientID: "a"}, false},
		{"websocket", ClientConfig{BrokerURL: "wss://broker.example.com/mqtt", ClientID: "a", Username: "u", Password: "p"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
