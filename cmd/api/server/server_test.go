package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	ginhandler "user-directory-api/internal/adapter/gin/handler"
	"user-directory-api/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.App.HTTPPort = "0"
	cfg.App.GRPCPort = "0"
	cfg.App.Environment = "test"
	cfg.App.ShutdownTimeoutSeconds = 2
	return cfg
}

func loopback(addr net.Addr) string {
	return "127.0.0.1:" + strconv.Itoa(addr.(*net.TCPAddr).Port)
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	l := zaptest.NewLogger(t)
	return New(cfg, l, ginhandler.NewUserHandler(nil, l, nil), ginhandler.NewHealthHandler(), nil)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Listen(ctx))

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	resp, err := http.Get("http://" + loopback(s.HTTPAddr()) + "/api/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy","message":"Application is running"}`, string(body))

	conn, err := grpc.NewClient(loopback(s.GRPCAddr()), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	hc, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.GetStatus())

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_GRPCDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.GRPCEnabled = false
	s := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Listen(ctx))
	assert.Nil(t, s.GRPC)
	assert.Nil(t, s.GRPCAddr())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_ServeBeforeListen(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	err := s.Serve(context.Background())
	assert.Error(t, err)
}
