package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/app/background"
	"github.com/LavaJover/shvark-vip-service/internal/app/setup"
	"github.com/LavaJover/shvark-vip-service/internal/config"
	"github.com/LavaJover/shvark-vip-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-vip-service/internal/delivery/http/router"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	_, logCloser, err := logger.Setup(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logCloser.Close()

	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer deps.Close()

	useCases, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP
	sqlDB, err := deps.DB.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	engine := router.NewRouter(useCases.PaymentUsecase, useCases.Hub, router.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		JWTIssuer:   cfg.Auth.Issuer,
		MerchantKey: cfg.Gateway.MerchantKey,
		Gatherer:    deps.Registry,
		DBPing:      sqlDB.PingContext,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC
	grpcServer, healthServer := grpcapi.NewServer(useCases.PaymentUsecase)
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	tasks := background.NewBackgroundTasks(useCases.PaymentUsecase, cfg.Payment.SweepInterval)
	tasks.StartAll(ctx)

	errCh := make(chan error, 2)
	go func() {
		slog.Info("http server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		slog.Info("grpc server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("server failed", "error", err.Error())
		stop()
	}

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err.Error())
	}
	useCases.Hub.Close()
	grpcServer.GracefulStop()
	tasks.Wait()

	slog.Info("vip service stopped")
}
