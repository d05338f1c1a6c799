package grpc_server

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/waste3d/pianoplatform-api/internal/infrastructure/logger"
)

// ServiceName is the health-check name of the progress store.
const ServiceName = "pianoplatform.ProgressStore"

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer publishes storage reachability over grpc.health.v1.
type HealthServer struct {
	*health.Server
	store   Pinger
	timeout time.Duration
	log     *logger.Logger
}

func NewHealthServer(store Pinger, log *logger.Logger) *HealthServer {
	h := &HealthServer{
		Server:  health.NewServer(),
		store:   store,
		timeout: 2 * time.Second,
		log:     log,
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

func (h *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.SetServingStatus("", status)
	h.SetServingStatus(ServiceName, status)
}

// Probe pings the store once and updates the serving status.
func (h *HealthServer) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("storage ping failed", "error", err)
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return false
	}
	h.set(healthpb.HealthCheckResponse_SERVING)
	return true
}

// Watch probes every interval until ctx is done, then marks the server as
// shutting down so watchers see NOT_SERVING.
func (h *HealthServer) Watch(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			return nil
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

func NewServer(h *HealthServer) *grpc.Server {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, h)
	return s
}
