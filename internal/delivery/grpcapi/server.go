package grpcapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/delivery/grpcapi/admin"
	usecase "github.com/LavaJover/shvark-vip-service/internal/usecase/payment"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// NewServer builds the admin gRPC server with the health service attached.
func NewServer(paymentUsecase usecase.PaymentUsecase) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor))

	admin.RegisterPaymentAdminServer(grpcServer, admin.NewAdminHandler(paymentUsecase))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(admin.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return grpcServer, healthServer
}

func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		slog.Warn("grpc request failed",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return resp, err
	}
	slog.Info("grpc request", "method", info.FullMethod, "duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}
