package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/LendPeak/LendPeak2-sub000/pkg/auth"
	"github.com/LendPeak/LendPeak2-sub000/pkg/observability"
	"github.com/LendPeak/LendPeak2-sub000/pkg/tlsutil"
)

// Server wraps a gRPC server with the calculation handler registered.
type Server struct {
	gs      *grpc.Server
	handler *CalcHandler
	logger  *slog.Logger
}

// newRoleGuard builds the per-method authorization interceptor. Read-only
// RPCs accept any authenticated caller; mutating RPCs need an operator or
// admin role. Methods outside the table (health, reflection) pass through.
func newRoleGuard() grpc.UnaryServerInterceptor {
	const svc = "/lendpeak.calc.v1.LoanCalcService/"
	readRoles := auth.RequireRole(auth.RoleAPIClient, auth.RoleOperator, auth.RoleAdmin)
	writeRoles := auth.RequireRole(auth.RoleOperator, auth.RoleAdmin)

	guards := map[string]grpc.UnaryServerInterceptor{
		svc + "CalculatePayment":     readRoles,
		svc + "GetSchedule":          readRoles,
		svc + "DetectBalloons":       readRoles,
		svc + "GenerateSchedule":     writeRoles,
		svc + "ApplyPrepayment":      writeRoles,
		svc + "ApplyBalloonStrategy": writeRoles,
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if guard, ok := guards[info.FullMethod]; ok {
			return guard(ctx, req, info, handler)
		}
		return handler(ctx, req)
	}
}

// NewServer creates and configures the gRPC server. jwtService may be nil
// when authentication is disabled.
func NewServer(handler *CalcHandler, logger *slog.Logger, jwtService *auth.JWTService) *Server {
	interceptors := []grpc.UnaryServerInterceptor{
		observability.UnaryMetricsInterceptor("loan-calc-service"),
	}
	if jwtService != nil {
		interceptors = append(interceptors, auth.UnaryAuthInterceptor(jwtService, []string{
			"/grpc.health.v1.Health/Check",
			"/grpc.health.v1.Health/Watch",
		}))
		interceptors = append(interceptors, newRoleGuard())
	}

	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(interceptors...),
	}

	// Optional TLS: set GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE to enable.
	if certFile, keyFile := os.Getenv("GRPC_TLS_CERT_FILE"), os.Getenv("GRPC_TLS_KEY_FILE"); certFile != "" && keyFile != "" {
		creds, err := tlsutil.ServerTLSConfig(certFile, keyFile)
		if err != nil {
			logger.Error("failed to load TLS credentials, starting without TLS", "error", err)
		} else {
			serverOpts = append(serverOpts, grpc.Creds(creds))
			logger.Info("gRPC TLS enabled", "cert", certFile, "key", keyFile)
		}
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpc.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus("loan-calc-service", healthpb.HealthCheckResponse_SERVING)

	// Only enable reflection when GRPC_REFLECTION=true.
	if os.Getenv("GRPC_REFLECTION") == "true" {
		reflection.Register(gs)
	}

	RegisterLoanCalcServiceServer(gs, handler)

	return &Server{
		gs:      gs,
		handler: handler,
		logger:  logger,
	}
}

// Serve starts the gRPC server on the specified address.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.logger.Info("gRPC server listening", "addr", addr)
	return s.gs.Serve(lis)
}

// GracefulStop stops the server gracefully.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.gs.GracefulStop()
}
