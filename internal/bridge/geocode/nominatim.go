package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

var _ core.Geocoder = (*Nominatim)(nil)

// Nominatim is a reverse geocoder for any service speaking the Nominatim
// /reverse API.
type Nominatim struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// NewNominatim returns nil when no URL is configured.
func NewNominatim(opts *options.GeocodeOptions) *Nominatim {
	if opts == nil || opts.URL == "" {
		return nil
	}
	return &Nominatim{
		endpoint:  opts.URL,
		userAgent: opts.UserAgent,
		client:    &http.Client{Timeout: opts.Timeout},
	}
}

// Reverse returns the display name of the place at lat, lon.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	u, err := url.Parse(n.endpoint)
	if err != nil {
		return "", core.ProtocolError("geocode", err)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", core.ProtocolError("geocode", err)
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", core.TransportError("geocode", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", core.ProtocolError("geocode", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var out reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", core.ParseError("geocode", err)
	}

	// Nominatim answers 200 with an "error" member when nothing is there.
	return strings.TrimSpace(out.DisplayName), nil
}
