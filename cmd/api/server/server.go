package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	ginhandler "user-directory-api/internal/adapter/gin/handler"
	"user-directory-api/internal/adapter/ratelimit"
	"user-directory-api/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
	GRPC   *grpc.Server   // nil when gRPC is disabled
	Health *health.Server // nil when gRPC is disabled

	httpLis net.Listener
	grpcLis net.Listener
}

// New creates a new server instance
func New(
	cfg *config.Config,
	l *zap.Logger,
	userHandler *ginhandler.UserHandler,
	healthHandler *ginhandler.HealthHandler,
	rateLimiter *ratelimit.RateLimiter,
) *Server {
	s := &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(cfg, userHandler, healthHandler, rateLimiter, l),
	}
	if cfg.App.GRPCEnabled {
		s.GRPC, s.Health = SetupGRPC(rateLimiter, l)
	}
	return s
}

// Listen binds the HTTP and gRPC ports.
func (s *Server) Listen(ctx context.Context) error {
	lc := net.ListenConfig{}

	httpLis, err := lc.Listen(ctx, "tcp", s.httpAddress())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpAddress(), err)
	}
	s.httpLis = httpLis

	if s.GRPC != nil {
		grpcLis, err := lc.Listen(ctx, "tcp", s.grpcAddress())
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("failed to listen on %s: %w", s.grpcAddress(), err)
		}
		s.grpcLis = grpcLis
	}

	return nil
}

// HTTPAddr returns the bound HTTP address, or nil before Listen.
func (s *Server) HTTPAddr() net.Addr {
	if s.httpLis == nil {
		return nil
	}
	return s.httpLis.Addr()
}

// GRPCAddr returns the bound gRPC address, or nil before Listen or when disabled.
func (s *Server) GRPCAddr() net.Addr {
	if s.grpcLis == nil {
		return nil
	}
	return s.grpcLis.Addr()
}

// Serve runs both servers until ctx is canceled or either fails, then shuts
// both down gracefully. Listen must be called first.
func (s *Server) Serve(ctx context.Context) error {
	if s.httpLis == nil {
		return errors.New("server: Serve called before Listen")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("HTTP server running", zap.String("address", s.httpLis.Addr().String()))
		if err := s.Gin.Serve(s.httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if s.GRPC != nil {
		g.Go(func() error {
			s.Logger.Info("gRPC server running", zap.String("address", s.grpcLis.Addr().String()))
			if err := s.GRPC.Serve(s.grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.App.ShutdownTimeout())
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("starting graceful shutdown",
		zap.Duration("timeout", s.Config.App.ShutdownTimeout()),
	)

	if s.Health != nil {
		s.Health.Shutdown()
	}

	var errs []error
	if err := s.Gin.Shutdown(ctx); err != nil {
		s.Logger.Error("failed to shutdown HTTP server", zap.Error(err))
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	if s.GRPC != nil {
		done := make(chan struct{})
		go func() {
			s.GRPC.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			s.Logger.Warn("gRPC graceful stop timed out, forcing stop")
			s.GRPC.Stop()
		}
	}

	return errors.Join(errs...)
}

// grpcAddress returns the gRPC server address
func (s *Server) grpcAddress() string {
	return ":" + s.Config.App.GRPCPort
}

// httpAddress returns the HTTP server address
func (s *Server) httpAddress() string {
	return ":" + s.Config.App.HTTPPort
}
