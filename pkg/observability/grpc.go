package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryMetricsInterceptor returns a gRPC unary server interceptor that
// records a request counter and a latency histogram per method, labelled
// with the response status code.
func UnaryMetricsInterceptor(serviceName string) grpc.UnaryServerInterceptor {
	meter := otel.Meter(serviceName)

	requests, _ := meter.Int64Counter("rpc.server.requests",
		metric.WithDescription("Completed RPC requests"))
	duration, _ := meter.Float64Histogram("rpc.server.duration",
		metric.WithDescription("RPC handling time"),
		metric.WithUnit("ms"))

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0

		attrs := metric.WithAttributes(
			attribute.String("rpc.method", info.FullMethod),
			attribute.String("rpc.code", status.Code(err).String()),
		)
		requests.Add(ctx, 1, attrs)
		duration.Record(ctx, elapsed, attrs)

		return resp, err
	}
}
