package soap

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Azure/go-ntlmssp"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

var _ core.Sink = (*Client)(nil)

// maxResponse bounds how much of a response body is read.
const maxResponse = 1 << 20

// Client calls Create on the WB_Tracking_API page service.
type Client struct {
	endpoint  string
	namespace string
	username  string
	password  string
	http      *http.Client
}

// NewClient creates a SOAP client. With credentials configured, requests are
// authenticated with NTLM, falling back to basic auth when the server asks
// for it. Timeouts come from the caller's context.
func NewClient(opts *options.SoapOptions) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify}

	return &Client{
		endpoint:  opts.Endpoint,
		namespace: opts.Namespace,
		username:  opts.Username,
		password:  opts.Password,
		http: &http.Client{
			Transport: ntlmssp.Negotiator{RoundTripper: transport},
		},
	}
}

func (c *Client) Name() string { return "soap" }

// Send creates one WB_Tracking_API entry from rec.
func (c *Client) Send(ctx context.Context, rec *model.Record) error {
	body, err := c.encode(rec)
	if err != nil {
		return core.ProtocolError("soap encode", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return core.ProtocolError("soap create", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", fmt.Sprintf("%q", c.namespace+":Create"))
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return core.TransportError("soap create", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return core.TransportError("soap create", err)
	}

	key, err := decodeResponse(resp.StatusCode, data)
	if err != nil {
		return core.ProtocolError("soap create", err)
	}

	log.Debug("SOAP Create OK", "systemNo", rec.SystemNo, "key", key)
	return nil
}

func (c *Client) encode(rec *model.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(newEnvelope(c.namespace, rec)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeResponse returns the key of the created entry. A fault is an error
// whatever the status code; servers commonly send faults with 500.
func decodeResponse(status int, data []byte) (string, error) {
	var env responseEnvelope
	xmlErr := xml.Unmarshal(data, &env)

	if xmlErr == nil && env.Body.Fault != nil {
		f := env.Body.Fault
		return "", fmt.Errorf("fault %s: %s", f.Code, strings.TrimSpace(f.String))
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("status %d: %s", status, clip(data, 300))
	}
	if xmlErr != nil {
		return "", fmt.Errorf("invalid response: %w", xmlErr)
	}
	if env.Body.Result == nil {
		return "", nil
	}
	return env.Body.Result.Record.Key, nil
}

func clip(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
