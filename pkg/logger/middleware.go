package logger

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// NewRequestID returns a fresh request identifier.
func NewRequestID() string {
	return uuid.New().String()
}

// RequestIDInterceptor is a gRPC interceptor that adds a request ID to the context.
// An incoming x-request-id metadata value is reused when present.
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get("x-request-id"); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		if requestID == "" {
			requestID = NewRequestID()
		}

		return handler(WithRequestID(ctx, requestID), req)
	}
}
