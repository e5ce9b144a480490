package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

func newTestGeocoder(url string) *Nominatim {
	return NewNominatim(&options.GeocodeOptions{URL: url, UserAgent: "alarmbridge-test", Timeout: time.Second})
}

func TestReverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lat") != "24.7136" || q.Get("lon") != "46.6753" || q.Get("format") != "json" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if ua := r.Header.Get("User-Agent"); ua != "alarmbridge-test" {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"place_id":1,"display_name":"King Fahd Rd, Riyadh"}`))
	}))
	defer srv.Close()

	got, err := newTestGeocoder(srv.URL+"/reverse").Reverse(context.Background(), 24.7136, 46.6753)
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	if got != "King Fahd Rd, Riyadh" {
		t.Fatalf("Reverse() = %q", got)
	}
}

func TestReverseNothingFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	got, err := newTestGeocoder(srv.URL).Reverse(context.Background(), 0, 0)
	if err != nil || got != "" {
		t.Fatalf("Reverse() = %q, %v; want empty, nil", got, err)
	}
}

func TestReverseErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusInternalServerError) },
			check:   core.IsProtocol,
		},
		{
			name:    "not json",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) },
			check:   core.IsParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestGeocoder(srv.URL).Reverse(context.Background(), 1, 2)
			if !tt.check(err) {
				t.Fatalf("Reverse() error = %v", err)
			}
		})
	}
}

func TestNewNominatimDisabled(t *testing.T) {
	if g := NewNominatim(&options.GeocodeOptions{}); g != nil {
		t.Fatal("geocoder created without a URL")
	}
}
