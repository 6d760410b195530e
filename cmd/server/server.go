package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/KirkDiggler/trainer-api/internal/auth"
	"github.com/KirkDiggler/trainer-api/internal/boundary"
	"github.com/KirkDiggler/trainer-api/internal/config"
	apperrors "github.com/KirkDiggler/trainer-api/internal/errors"
	v1 "github.com/KirkDiggler/trainer-api/internal/handlers/http/v1"
	"github.com/KirkDiggler/trainer-api/internal/orchestrators/clients"
	"github.com/KirkDiggler/trainer-api/internal/pkg/clock"
	"github.com/KirkDiggler/trainer-api/internal/pkg/idgen"
	"github.com/KirkDiggler/trainer-api/internal/pkg/logger"
	"github.com/KirkDiggler/trainer-api/internal/redis"
	clientrepo "github.com/KirkDiggler/trainer-api/internal/repositories/clients"
)

var configPath string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP and gRPC servers",
	Long:  `Start the trainer API HTTP server and the gRPC health listener.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&configPath, "config-path", "./configs", "directory holding config_<env>.yaml")
}

func runServer(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadOptions{ConfigPath: configPath, AllowNoConfig: true})
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.NewFromConfig(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	clk := clock.New()

	repo, err := clientrepo.NewRedisRepository(&clientrepo.Config{Client: redisClient, Clock: clk})
	if err != nil {
		return fmt.Errorf("failed to create client repository: %w", err)
	}

	clientService, err := clients.NewOrchestrator(&clients.Config{
		ClientRepo:  repo,
		IDGenerator: idgen.NewUUID("cl_"),
	})
	if err != nil {
		return fmt.Errorf("failed to create client orchestrator: %w", err)
	}

	authenticator, err := auth.New(authConfig(cfg.Auth, clk))
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := boundary.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	b, err := boundary.New(&boundary.Config{
		Classifier: apperrors.NewClassifier(apperrors.WithStorageDetector(redis.IsDriverError)),
		Logger:     logger.StandardLogger(),
		Metrics:    metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to create boundary: %w", err)
	}

	handler, err := v1.NewHandler(&v1.HandlerConfig{
		ClientService: clientService,
		Authenticator: authenticator,
		Boundary:      b,
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	if err != nil {
		return fmt.Errorf("failed to create http handler: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(b.UnaryInterceptors()...))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	errChan := make(chan error, 2)

	go func() {
		logger.WithField("addr", cfg.App.HTTPAddr).Info("HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	if cfg.App.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.App.GRPCAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.App.GRPCAddr, err)
		}
		go func() {
			logger.WithField("addr", cfg.App.GRPCAddr).Info("gRPC server starting")
			if err := grpcServer.Serve(lis); err != nil {
				errChan <- fmt.Errorf("grpc server failed: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal, gracefully stopping...")
	case err := <-errChan:
		return err
	}

	healthServer.Shutdown()
	shutdown(cfg.App.ShutdownTimeout, httpServer, grpcServer)

	return nil
}

func shutdown(timeout time.Duration, httpServer *http.Server, grpcServer *grpc.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP server did not stop cleanly")
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Warnf("Graceful shutdown timeout exceeded, forcing stop")
		grpcServer.Stop()
	case <-stopped:
		logger.Info("Servers stopped gracefully")
	}
}

func authConfig(cfg config.AuthConfig, clk clock.Clock) *auth.Config {
	return &auth.Config{
		Secret:    cfg.Secret,
		Issuer:    cfg.Issuer,
		TTL:       cfg.TokenTTL,
		ClockSkew: cfg.ClockSkew,
		Clock:     clk,
	}
}
