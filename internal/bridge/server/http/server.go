package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/internal/pkg/metrics"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

// Status reports the bridge state for the health endpoints.
type Status interface {
	Health() model.Health
	Ready() bool
}

// References is the read side of the reference cache.
type References interface {
	core.ReferenceLookup
	Lookup(ctx context.Context, ds model.Dataset, key string) (model.Reference, bool, error)
}

type Server struct {
	server  *http.Server
	options *options.HttpOptions
	status  Status
	refs    References
	geo     core.Geocoder
}

// NewServer builds the lookup and health server. geo may be nil.
func NewServer(opts *options.HttpOptions, status Status, refs References, geo core.Geocoder) *Server {
	s := &Server{
		options: opts,
		status:  status,
		refs:    refs,
		geo:     geo,
	}

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/", s.health).Methods(http.MethodGet)

	// Basic Liveness Probe
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// Readiness follows the platform session.
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !s.status.Ready() {
			http.Error(w, "not signed in", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/vehicle/{key}", s.reference(model.DatasetVehicles)).Methods(http.MethodGet)
	r.HandleFunc("/geofence/{key}", s.reference(model.DatasetGeofences)).Methods(http.MethodGet)
	r.HandleFunc("/route/{key}", s.reference(model.DatasetRoutes)).Methods(http.MethodGet)
	r.HandleFunc("/alarm/{key}", s.alarm).Methods(http.MethodGet)
	r.HandleFunc("/geocode/{lat}/{lon}", s.geocode).Methods(http.MethodGet)

	return r
}

func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen(s.options.Network, s.options.Addr)
	if err != nil {
		return err
	}

	log.Info("Starting HTTP Server", "addr", s.options.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status.Health())
}

func (s *Server) reference(ds model.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := mux.Vars(r)["key"]

		ref, ok, err := s.refs.Lookup(r.Context(), ds, key)
		if err != nil {
			log.Error(err, "Reference lookup failed", "dataset", ds, "key", key)
			writeError(w, http.StatusBadGateway, "reference refresh failed")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, string(ds)+" entry not found")
			return
		}
		writeJSON(w, http.StatusOK, ref)
	}
}

func (s *Server) alarm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["key"]

	name, ok, err := s.refs.AlarmName(r.Context(), id)
	if err != nil {
		log.Error(err, "Alarm type lookup failed", "id", id)
		writeError(w, http.StatusBadGateway, "reference refresh failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "alarm type not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "name": name})
}

func (s *Server) geocode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lat, errLat := strconv.ParseFloat(vars["lat"], 64)
	lon, errLon := strconv.ParseFloat(vars["lon"], 64)
	if errLat != nil || errLon != nil {
		writeError(w, http.StatusBadRequest, "lat and lon must be numbers")
		return
	}

	if s.geo == nil {
		writeError(w, http.StatusNotFound, "geocoding is disabled")
		return
	}

	addr, err := s.geo.Reverse(r.Context(), lat, lon)
	if err != nil {
		log.Error(err, "Reverse geocoding failed", "lat", lat, "lon", lon)
		writeError(w, http.StatusBadGateway, "geocoder unavailable")
		return
	}
	if addr == "" {
		writeError(w, http.StatusNotFound, "no address found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lat": lat, "lon": lon, "display_name": addr})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
