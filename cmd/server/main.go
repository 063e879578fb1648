package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"pair-lab/infrastructure/collab"
	"pair-lab/infrastructure/http/server"
	"pair-lab/infrastructure/storage"
	"pair-lab/internal"
	"pair-lab/runtime/workers"
	"pair-lab/services"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Exit codes reported to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a server failure.
// Returning instead of exiting lets deferred cleanup (badger) run.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()
	debug := logger.Enabled(ctx, slog.LevelDebug)

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, debug))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if debug {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", config.DebugInspectorPort, endpoint))
		database.StartDebugServer(db, config.DebugInspectorPort, endpoint, internal.SessionMapper)
	}

	// 3. Collaboration provider
	provider, err := collab.NewClient(collab.Config{
		BaseURL:     config.ProviderBaseURL,
		APIKey:      config.ProviderAPIKey,
		APISecret:   config.ProviderAPISecret,
		CallType:    config.ProviderCallType,
		ChannelType: config.ProviderChanType,
	}, &http.Client{Timeout: config.ProviderTimeout}, logger)
	if err != nil {
		return exitConfig, fmt.Errorf("provider client: %w", err)
	}

	// 4. Services
	sessionRepository := storage.NewSessionRepository(db, logger)
	orphanRepository := storage.NewOrphanRepository(db, logger)
	sessionService := services.NewSessionService(logger, sessionRepository, orphanRepository, provider, provider,
		services.SessionServiceConfig{
			StoreTimeout:    config.StoreCallTimeout,
			ProviderTimeout: config.ProviderTimeout,
			CredentialTTL:   config.CredentialTTL,
			ActiveLimit:     config.ActiveListLimit,
			RecentLimit:     config.RecentListLimit,
		})

	grpcAddress := fmt.Sprintf("%s:%d", config.Host, config.GrpcPort)
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", grpcAddress, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)

	// 5. Background workers
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	if config.OrphanSweepEvery > 0 {
		supervisor.Add(workers.NewOrphanSweeper(logger, orphanRepository, provider,
			config.OrphanSweepEvery, config.ProviderTimeout))
	}
	if config.ReportInterval > 0 {
		supervisor.Add(workers.NewSessionReporter(logger, sessionRepository, orphanRepository, config.ReportInterval))
	}
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		supervisor.Run(ctx)
	}()

	// 6. HTTP surface
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	probe := func() error {
		return db.View(func(txn *badger.Txn) error { return nil })
	}
	router := server.NewRouter(logger, sessionService, server.NewHealthHandler(logger, probe), []byte(config.AuthSecret))
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. gRPC health
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(logger)))
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	go func() {
		logger.Info("Starting gRPC health server", "address", grpcAddress)
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 9. Graceful shutdown: in-flight lifecycle operations finish before badger closes
	logger.Info("Shutting down gracefully...")
	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	supervisor.Stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")

	return code, runErr
}

func buildBadgerOpts(config internal.Config, debug bool) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if debug {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}
