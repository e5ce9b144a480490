package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/autopeer-io/alarmbridge/pkg/log"
)

const DefaultRPCTimeout = 10 * time.Second

// UnaryTimeoutInterceptor bounds every unary call that arrives without a
// deadline of its own.
func UnaryTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = DefaultRPCTimeout
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return handler(ctx, req)
	}
}

// UnaryLoggingInterceptor logs every unary call at debug level.
func UnaryLoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Debug("gRPC call", "method", info.FullMethod, "duration", time.Since(start), "error", err)
	return resp, err
}
