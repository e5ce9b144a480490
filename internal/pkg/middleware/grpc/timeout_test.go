package grpc

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
)

func TestUnaryTimeoutInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	interceptor := UnaryTimeoutInterceptor(time.Second)

	var got time.Time
	var ok bool
	handler := func(ctx context.Context, req any) (any, error) {
		got, ok = ctx.Deadline()
		return nil, nil
	}

	if _, err := interceptor(context.Background(), nil, info, handler); err != nil {
		t.Fatal(err)
	}
	if !ok || time.Until(got) > time.Second {
		t.Fatalf("deadline = %v, %v; want one within a second", got, ok)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	want, _ := ctx.Deadline()
	if _, err := interceptor(ctx, nil, info, handler); err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Fatalf("existing deadline replaced: got %v, want %v", got, want)
	}
}

func TestDefaultTimeout(t *testing.T) {
	var ok bool
	handler := func(ctx context.Context, req any) (any, error) {
		_, ok = ctx.Deadline()
		return nil, nil
	}
	_, _ = UnaryTimeoutInterceptor(0)(context.Background(), nil, &grpc.UnaryServerInfo{}, handler)
	if !ok {
		t.Fatal("zero timeout should fall back to the default")
	}
}
