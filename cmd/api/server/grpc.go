package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/reflection"

	grpcadapter "user-directory-api/internal/adapter/grpc"
	"user-directory-api/internal/adapter/grpc/middleware"
	"user-directory-api/internal/adapter/ratelimit"
	"user-directory-api/pkg/logger"
)

// SetupGRPC creates the gRPC server carrying the health service
func SetupGRPC(rateLimiter *ratelimit.RateLimiter, l *zap.Logger) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			middleware.RateLimit(rateLimiter, l.Named("grpc")),
		),
	)
	hs := grpcadapter.RegisterHealth(grpcServer)
	reflection.Register(grpcServer)

	return grpcServer, hs
}
