package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"order-catalog-service/internal/analytics"
	"order-catalog-service/internal/api"
	"order-catalog-service/internal/config"
	"order-catalog-service/internal/storage"
	"order-catalog-service/internal/store"
	"order-catalog-service/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func serve(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer telemetry.SyncLogger(logger)
	logger.Info("starting service", zap.String("env", cfg.AppEnv), zap.String("log_level", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		tp, err := telemetry.InitTracer(defaultAppName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
		logger.Info("tracing enabled", zap.String("jaeger_endpoint", cfg.Tracing.JaegerEndpoint))
	}

	db, err := store.Connect(ctx, storeOptions(cfg, cfg.Postgres.Automigrate), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("error closing database", zap.Error(err))
		}
	}()
	logger.Info("database connection established")

	deps := api.Dependencies{
		Categories: db,
		Products:   db,
		Orders:     db,
		Sales:      analytics.NewEngine(db, db, logger.Named("analytics")),
		DB:         db,
		Logger:     logger.Named("http"),
	}
	if cfg.S3.Enabled {
		images, err := newImageStorage(ctx, cfg.S3, logger)
		if err != nil {
			return err
		}
		deps.Images = images
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      api.NewRouter(api.NewHTTPHandler(deps), cfg.HttpServer.CORSAllowedOrigins),
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	grpcLogger := logger.Named("grpc")
	grpcServer := api.NewGRPCServer(api.NewGRPCHandler(db, db, deps.Sales, grpcLogger), grpcLogger)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		return fmt.Errorf("listen for gRPC on port %s: %w", cfg.GrpcServer.Port, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("port", cfg.HttpServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("gRPC server listening", zap.String("port", cfg.GrpcServer.Port))
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("starting graceful shutdown")
		shutdown(logger, httpServer, grpcServer)
		return nil
	})

	err = g.Wait()
	logger.Info("service stopped")
	return err
}

func newImageStorage(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*storage.S3Storage, error) {
	images, err := storage.NewS3Storage(ctx, storage.Options{
		Endpoint:        cfg.Endpoint,
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	}, logger.Named("storage"))
	if err != nil {
		return nil, err
	}
	if err := images.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	logger.Info("object storage ready", zap.String("bucket", cfg.Bucket))
	return images, nil
}

// shutdown drains both servers, forcing the gRPC server down if it outlives the timeout.
func shutdown(logger *zap.Logger, httpServer *http.Server, grpcServer *grpc.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		logger.Info("gRPC server gracefully shut down")
	case <-ctx.Done():
		logger.Warn("gRPC server graceful shutdown timed out, forcing stop", zap.Error(ctx.Err()))
		grpcServer.Stop()
	}
}
