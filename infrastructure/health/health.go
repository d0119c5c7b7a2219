// Package health exposes the grpc.health.v1 service for the chat acceptors.
package health

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"context"
	"fmt"
	"log/slog"
	"net"

	sdkgrpc "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var _ contract.Worker = (*Service)(nil)

// ServiceName is the health service name of a transport, e.g. "chat.stream".
func ServiceName(transport chat.Transport) string {
	return "chat." + string(transport)
}

// Service reports each acceptor as SERVING while its loop runs.
type Service struct {
	addr   string
	log    *slog.Logger
	health *grpchealth.Server
}

func NewService(addr string, log *slog.Logger, transports ...chat.Transport) *Service {
	health := grpchealth.NewServer()
	for _, transport := range transports {
		health.SetServingStatus(ServiceName(transport), healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return &Service{addr: addr, log: log, health: health}
}

// Notifier returns a callback suitable for the acceptors' OnServing option.
func (s *Service) Notifier(transport chat.Transport) func(serving bool) {
	return func(serving bool) {
		s.SetServing(transport, serving)
	}
}

func (s *Service) SetServing(transport chat.Transport, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName(transport), status)
	s.log.Debug("Health status changed", "service", ServiceName(transport), "status", status.String())
}

// Run listens on the configured address and serves until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, listener)
}

func (s *Service) Serve(ctx context.Context, listener net.Listener) error {
	server := grpc.NewServer(grpc.UnaryInterceptor(sdkgrpc.UnaryLoggingInterceptor(s.log)))
	healthpb.RegisterHealthServer(server, s.health)

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("Starting gRPC health server", "address", listener.Addr().String())
		errChan <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		// Every watcher is told NOT_SERVING before the server goes away
		s.health.Shutdown()
		server.GracefulStop()
		<-errChan
		return nil
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("gRPC health server error: %w", err)
		}
		return nil
	}
}
