// Command vapord runs the Vapor control plane: an HTTP API for managing
// virtual servers and their attached disks, backed by a pluggable
// persistence layer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vaporstack/vapor/internal/logger"
	"github.com/vaporstack/vapor/pkg/api"
	"github.com/vaporstack/vapor/pkg/config"
	"github.com/vaporstack/vapor/pkg/metrics"
	"github.com/vaporstack/vapor/pkg/server"
	"github.com/vaporstack/vapor/pkg/service"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	logLevel := flag.String("log-level", "", "Override log level (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	fmt.Println("Vapor - IaaS Control Plane")
	logger.Info("Log level set to: %s", cfg.Logging.Level)
	logger.Info("Store backend: %s", cfg.Store.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := config.CreateServerStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create server store: %v", err)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	svc := service.New(st, metrics.NewServiceMetrics())

	srv := server.New(st, cfg.Server.ShutdownTimeout)

	httpAdapter := api.New(api.Config{
		Host:            cfg.API.Host,
		Port:            cfg.API.Port,
		APIKey:          cfg.API.APIKey,
		ReadTimeout:     cfg.API.ReadTimeout,
		WriteTimeout:    cfg.API.WriteTimeout,
		RateLimit:       cfg.API.RateLimit,
		RateLimitBurst:  cfg.API.RateLimitBurst,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, svc)
	if err := srv.AddAdapter(httpAdapter); err != nil {
		log.Fatalf("Failed to register HTTP adapter: %v", err)
	}

	if cfg.Metrics.Enabled {
		metricsCfg := metrics.ServerConfig{
			Port:            cfg.Metrics.Port,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		}
		if err := srv.AddAdapter(metrics.NewServer(metricsCfg)); err != nil {
			log.Fatalf("Failed to register metrics adapter: %v", err)
		}
	}

	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Server error: %v", err)
	}

	logger.Info("Shutdown complete")
}
