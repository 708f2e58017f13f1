package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cyphera/delegation-server/internal/account"
	"github.com/cyphera/delegation-server/internal/bundler"
	"github.com/cyphera/delegation-server/internal/config"
	"github.com/cyphera/delegation-server/internal/delegation"
	"github.com/cyphera/delegation-server/internal/execution"
	"github.com/cyphera/delegation-server/internal/logger"
	"github.com/cyphera/delegation-server/internal/network"
	"github.com/cyphera/delegation-server/internal/secrets"
	"github.com/cyphera/delegation-server/internal/service"
	"github.com/cyphera/delegation-server/proto"
)

func main() {
	// Local development reads a .env file; deployed environments inject
	// real environment variables.
	_ = godotenv.Load()

	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = "development"
	}
	logger.InitLogger(stage)
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid server configuration", zap.Error(err))
	}

	ctx := context.Background()

	secretsClient, err := secrets.NewManagerClient(ctx, logger.Log)
	if err != nil {
		logger.Fatal("Failed to initialize secrets client", zap.Error(err))
	}

	resolver := network.NewResolver(network.ResolverParams{
		Store:            secretsClient,
		Logger:           logger.Log,
		RPCKeyARNEnv:     cfg.RPCKeySecretARNEnv,
		RPCKeyEnv:        cfg.RPCKeyFallbackEnv,
		BundlerKeyARNEnv: cfg.BundlerKeySecretARNEnv,
		BundlerKeyEnv:    cfg.BundlerKeyFallbackEnv,
		TTL:              cfg.NetworkConfigTTL,
	})

	builder, err := execution.NewBuilder()
	if err != nil {
		logger.Fatal("Failed to initialize execution builder", zap.Error(err))
	}

	svc := service.New(service.Params{
		Config:    cfg,
		Logger:    logger.Log,
		Validator: delegation.NewValidator(logger.Log, cfg.RequireDelegatorDeployed),
		Networks:  resolver,
		Accounts:  account.NewResolver(cfg.DeploymentSalt),
		Builder:   builder,
		Engine:    bundler.NewEngine(logger.Log, nil),
	})

	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(20*1024*1024),
		grpc.MaxSendMsgSize(20*1024*1024),
	)
	proto.RegisterDelegationServiceServer(grpcServer, svc)

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("Failed to listen on gRPC address",
			zap.String("addr", cfg.GRPCAddr),
			zap.Error(err),
		)
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      service.NewHealthRouter(stage, logger.Log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Health server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server stopped", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("Delegation server listening",
			zap.String("addr", cfg.GRPCAddr),
			zap.String("stage", stage),
		)
		if err := grpcServer.Serve(listener); err != nil {
			logger.Fatal("gRPC server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
}
