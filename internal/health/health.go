// Package health exposes the standard gRPC health service so supervisors can
// tell whether the recognition service has its models loaded.
package health

import (
	"net"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/banshee-data/motion.report/internal/monitoring"
)

// Service is the name health checks use for the recognition pipeline.
const Service = "motion.Recognition"

var logf = monitoring.Component("health")

type Server struct {
	lis    net.Listener
	grpc   *grpc.Server
	health *grpchealth.Server
}

// Listen binds addr and registers a health service that reports NOT_SERVING
// for Service until SetReady(true).
func Listen(addr string) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		lis:    lis,
		grpc:   grpc.NewServer(),
		health: grpchealth.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus(Service, healthpb.HealthCheckResponse_NOT_SERVING)
	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr { return s.lis.Addr() }

// SetReady flips Service between SERVING and NOT_SERVING.
func (s *Server) SetReady(ready bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(Service, status)
	logf("%s is %s", Service, status)
}

// Serve blocks serving gRPC until Stop.
func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}

// Stop marks every service NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
