package model

import (
	"net"
	"net/url"
)

// Endpoint is one streaming destination assigned by the platform.
type Endpoint struct {
	Scheme string
	Host   string
	Port   string
}

// URL returns scheme://host:port.
func (e Endpoint) URL() string {
	u := url.URL{Scheme: e.Scheme, Host: net.JoinHostPort(e.Host, e.Port)}
	return u.String()
}

func (e Endpoint) String() string {
	return e.URL()
}

// Identity is the stream credential set echoed back by the platform on sign-in.
type Identity struct {
	SessionID string
	UserName  string
	Password  string
}

// Health is the JSON body of the health endpoint.
type Health struct {
	Status        string          `json:"status"`
	Listeners     int             `json:"listeners"`
	Endpoints     int             `json:"endpoints"`
	UsePlaintext  bool            `json:"use_plaintext"`
	SignedIn      bool            `json:"platform_signed_in"`
	AllowedAlarms []string        `json:"allowed_alarms"`
	References    map[Dataset]int `json:"references,omitempty"`
}
