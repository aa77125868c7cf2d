package middleware

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"user-directory-api/internal/adapter/ratelimit"
)

// RateLimit returns a gRPC unary interceptor sharing the token bucket used by
// the HTTP API. Buckets are keyed by full method and client IP.
func RateLimit(limiter *ratelimit.RateLimiter, log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !limiter.Enabled() {
			return handler(ctx, req)
		}

		clientIP := getClientIP(ctx)
		key := "grpc:" + info.FullMethod + ":" + clientIP

		allowed, err := limiter.Allow(ctx, key)
		if err != nil {
			log.Debug("rate limiter unavailable", zap.String("key", key), zap.Error(err))
		}
		if !allowed {
			return nil, status.Error(codes.ResourceExhausted, "Rate limit exceeded")
		}

		return handler(ctx, req)
	}
}

// getClientIP extracts the client IP address from the gRPC context.
func getClientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			return xff[0]
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}

	return "unknown"
}
