package platform

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

// stateOK is the envelope State the platform uses for success.
const stateOK = "0"

// maxBodyLog bounds how much of an unexpected body is quoted in errors.
const maxBodyLog = 500

// Envelope is the response wrapper shared by every platform call.
type Envelope struct {
	State   model.Value     `json:"State"`
	Token   string          `json:"Token"`
	Message model.Value     `json:"Message"`
	Data    json.RawMessage `json:"Data"`
}

// OK reports whether State is the success sentinel, sent as "0" or 0.
func (e *Envelope) OK() bool {
	return e.State.Trimmed() == stateOK
}

// Client submits form-post calls to the platform's single API endpoint.
type Client struct {
	url          string
	origin       string
	languageType string
	http         *http.Client
}

// NewClient creates a platform client from the given options.
func NewClient(opts *options.PlatformOptions) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !opts.VerifyTLS}

	return &Client{
		url:          opts.URL,
		origin:       opts.Origin,
		languageType: opts.LanguageType,
		http: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
	}
}

// Submit posts one InformationType/OperationType call with args encoded as the
// Arguments field and decodes the response envelope. It does not judge State.
func (c *Client) Submit(ctx context.Context, token, informationType, operationType string, args any) (*Envelope, error) {
	op := informationType + "/" + operationType

	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode arguments: %w", op, err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := []struct{ name, value string }{
		{"Token", token},
		{"OperationType", operationType},
		{"InformationType", informationType},
		{"LanguageType", c.languageType},
		{"Arguments", string(argsJSON)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("%s: failed to build form: %w", op, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: failed to build form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, core.TransportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.TransportError(op, err)
	}

	log.Debug("Platform API response", "op", op, "status", resp.StatusCode, "body", truncate(raw, 200))

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, core.ProtocolError(op, fmt.Errorf("non-JSON response (HTTP %d): %s", resp.StatusCode, truncate(raw, maxBodyLog)))
	}
	if !env.State.Present() {
		return nil, core.ProtocolError(op, errors.New("response has no State"))
	}

	return &env, nil
}

// rejection builds the error for a non-success envelope.
func rejection(env *Envelope) error {
	msg := env.Message.Trimmed()
	if msg == "" {
		return fmt.Errorf("state %s", env.State.Trimmed())
	}
	return fmt.Errorf("state %s: %s", env.State.Trimmed(), msg)
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
