// Package grpc exposes the service's gRPC surface.
package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name the health service reports status for.
const ServiceName = "users.v1.UserDirectory"

// RegisterHealth registers the standard health service on s and marks both the
// server and ServiceName as serving.
func RegisterHealth(s *grpc.Server) *health.Server {
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return hs
}
