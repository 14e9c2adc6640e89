// Package grpc runs the gRPC health endpoint used by orchestrators. Its
// serving status follows periodic probes of the database and the object
// store.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rolandocepedadev/ccat/internal/logging"
)

// ServiceName is reported alongside the server-wide "" service.
const ServiceName = "ccat"

const probeTimeout = 5 * time.Second

// Check is one named dependency probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type HealthServer struct {
	address  string
	logger   logging.Logger
	interval time.Duration
	checks   []Check
	health   *health.Server
	listen   func(network, address string) (net.Listener, error)
	serving  bool
}

func NewHealthServer(address string, l logging.Logger, interval time.Duration, checks ...Check) *HealthServer {
	return &HealthServer{
		address:  address,
		logger:   l.With("module", "grpc_health"),
		interval: interval,
		checks:   checks,
		health:   health.NewServer(),
		listen:   net.Listen,
	}
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *HealthServer) Run(ctx context.Context) error {
	listen, err := s.listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.check(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC health server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *HealthServer) watch(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check runs every probe and publishes the aggregate status.
func (s *HealthServer) check(ctx context.Context) {
	serving := true
	for _, c := range s.checks {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := c.Probe(pctx)
		cancel()
		if err != nil {
			serving = false
			s.logger.Warn(ctx, "health probe failed", "check", c.Name, "error", err)
		}
	}

	status := healthpb.HealthCheckResponse_SERVING
	if !serving {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)

	if serving != s.serving {
		s.logger.Info(ctx, "health status changed", "status", status.String())
		s.serving = serving
	}
}
