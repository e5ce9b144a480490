package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	middleware "github.com/autopeer-io/alarmbridge/internal/pkg/middleware/grpc"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

// ServiceName is the health service name reported next to the overall status.
const ServiceName = "alarmbridge.Bridge"

// pollInterval is how often the readiness function is sampled.
const pollInterval = 5 * time.Second

// ReadyFunc reports whether the bridge is serving.
type ReadyFunc func() bool

// Server exposes the standard gRPC health service and reflection.
type Server struct {
	server  *grpc.Server
	health  *health.Server
	ready   ReadyFunc
	options *options.GrpcOptions
}

func NewServer(opts *options.GrpcOptions, ready ReadyFunc) *Server {
	s := grpc.NewServer(
		grpc.ConnectionTimeout(opts.ConnectionTimeout),
		grpc.ChainUnaryInterceptor(
			middleware.UnaryLoggingInterceptor,
			middleware.UnaryTimeoutInterceptor(middleware.DefaultRPCTimeout),
		),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s) // Enable grpc_cli support

	return &Server{
		server:  s,
		health:  hs,
		ready:   ready,
		options: opts,
	}
}

func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen(s.options.Network, s.options.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve runs the server on lis until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	log.Info("Starting gRPC Server", "addr", lis.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	s.updateStatus()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.updateStatus()
		case <-ctx.Done():
			s.health.Shutdown()
			s.server.GracefulStop()
			return nil
		}
	}
}

func (s *Server) updateStatus() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if s.ready() {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
