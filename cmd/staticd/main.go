package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/vocdoni/staticd/log"
	"github.com/vocdoni/staticd/server"
	"github.com/vocdoni/staticd/service"
)

// Services holds all the running services
type Services struct {
	HTTPD *service.HTTPDService
	API   *service.APIService
}

func main() {
	// Load configuration
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := validateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	log.Init(cfg.Log.Level, cfg.Log.Output, nil)
	log.Infow("starting staticd", "version", Version, "config", cfg.ConfigFile)

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := setupServices(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to setup services: %v", err)
	}
	defer shutdownServices(services)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())
}

// setupServices initializes and starts all required services
func setupServices(ctx context.Context, cfg *Config) (*Services, error) {
	services := &Services{}

	log.Infow("starting file server",
		"host", cfg.Host,
		"port", cfg.Port,
		"webRoot", cfg.WebRoot,
		"accessLog", cfg.AccessLog.Dir)
	services.HTTPD = service.NewHTTPD(server.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		WebRoot:        cfg.WebRoot,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxConnections: cfg.Server.MaxConnections,
		GzipCacheSize:  cfg.Server.GzipCacheSize,
	}, cfg.AccessLog.Dir)
	if err := services.HTTPD.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start file server: %w", err)
	}

	if cfg.API.Enabled {
		log.Infow("starting API service", "host", cfg.API.Host, "port", cfg.API.Port)
		services.API = service.NewAPI(services.HTTPD.Server, cfg.API.Host, cfg.API.Port, Version, false)
		if err := services.API.Start(ctx); err != nil {
			services.HTTPD.Stop()
			return nil, fmt.Errorf("failed to start API service: %w", err)
		}
	}

	log.Monitor("staticd is running, ready to serve files", map[string]any{
		"address": services.HTTPD.Server.Addr().String(),
		"webRoot": cfg.WebRoot,
		"api":     cfg.API.Enabled,
	})
	return services, nil
}

// shutdownServices gracefully shuts down all services
func shutdownServices(services *Services) {
	if services == nil {
		return
	}

	// Stop services in reverse order of startup
	if services.API != nil {
		services.API.Stop()
	}
	if services.HTTPD != nil {
		services.HTTPD.Stop()
	}
}
