package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/holaholu/url-shortener/internal/config"
	"github.com/holaholu/url-shortener/internal/handler"
	"github.com/holaholu/url-shortener/internal/logger"
	"github.com/holaholu/url-shortener/internal/middleware"
	"github.com/holaholu/url-shortener/internal/otel"
	"github.com/holaholu/url-shortener/internal/service"
	"github.com/holaholu/url-shortener/internal/storage"
	"github.com/holaholu/url-shortener/internal/utils"
	"github.com/holaholu/url-shortener/internal/validator"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger is not initialized yet
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Telemetry.ServiceName, cfg.Telemetry.Environment)
	defer logger.Sync()

	log := logger.L()
	if cfg.Source != "" {
		log.Info("Using config file", zap.String("path", cfg.Source))
	}

	if err := run(cfg, log); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// Initialize OpenTelemetry if enabled
	if cfg.Telemetry.Enabled {
		log.Info("Initializing OpenTelemetry", zap.String("endpoint", cfg.Telemetry.OTLPEndpoint))

		shutdown, err := otel.Init(otel.Config{
			OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: version,
			Environment:    cfg.Telemetry.Environment,
		})
		if err != nil {
			log.Warn("Failed to initialize OpenTelemetry", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn("Error shutting down OpenTelemetry", zap.Error(err))
				}
			}()
		}
	}

	// Open the store once; it is shared by every request and closed on exit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.Open(ctx, storageOptions(cfg))
	cancel()
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Type, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("Error closing storage", zap.Error(err))
		}
	}()
	log.Info("Storage ready", zap.String("type", cfg.Storage.Type.String()))

	generator, err := utils.NewRandomGenerator(cfg.ShortID.Length)
	if err != nil {
		return err
	}
	requestIDs, err := utils.NewRequestIDGenerator(cfg.Snowflake.MachineID)
	if err != nil {
		return fmt.Errorf("failed to create request ID generator: %w", err)
	}

	if cfg.Validator.InsecureSkipVerify {
		log.Warn("TLS certificate verification is disabled for URL validation")
	}
	urlValidator := validator.New(validator.Config{
		Timeout:            cfg.Validator.Timeout,
		InsecureSkipVerify: cfg.Validator.InsecureSkipVerify,
	})

	urlService := service.NewURLService(store, urlValidator, generator, service.Config{
		BaseURL:     cfg.Server.BaseURL,
		MaxAttempts: cfg.ShortID.MaxAttempts,
	})

	var h http.Handler = middleware.Chain(
		handler.New(urlService).Routes(),
		middleware.Logger(log, requestIDs),
		middleware.Recovery(log),
	)
	if cfg.Telemetry.Enabled {
		h = otelhttp.NewHandler(h, cfg.Telemetry.ServiceName,
			otelhttp.WithPropagators(otel.Propagator()),
		)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Shorten may wait on the validator's probe
		WriteTimeout: cfg.Validator.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return serve(server, cfg.Server.ShutdownTimeout, log)
}

// serve runs server until SIGINT/SIGTERM, then shuts it down gracefully
func serve(server *http.Server, shutdownTimeout time.Duration, log *zap.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("address", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

func storageOptions(cfg *config.Config) storage.Options {
	r, p := cfg.Storage.Redis, cfg.Storage.Postgres
	return storage.Options{
		Type: cfg.Storage.Type,
		Redis: storage.RedisConfig{
			URL:      r.URL,
			Host:     r.Host,
			Port:     r.Port,
			Password: r.Password,
			DB:       r.DB,
		},
		Postgres: storage.PostgresConfig{
			URL:             p.URL,
			Host:            p.Host,
			Port:            p.Port,
			User:            p.User,
			Password:        p.Password,
			DBName:          p.DBName,
			SSLMode:         p.SSLMode,
			MaxOpenConns:    p.MaxOpenConns,
			MaxIdleConns:    p.MaxIdleConns,
			ConnMaxLifetime: p.ConnMaxLifetime,
		},
	}
}
