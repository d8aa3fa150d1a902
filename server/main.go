package server

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pushrelay/pkg/config"
	"pushrelay/pkg/logger"
)

// Main parses flags, loads configuration and runs the relay until a
// shutdown signal arrives.
func Main() {
	addr := flag.String("addr", "", "Listen address (overrides config)")
	configPath := flag.String("config", "", "Config file path (optional)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "", "Log format: text or json")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Init(logger.InfoLevel, "text")
		logger.Get().ErrorWithErr("failed to load configuration", err)
		os.Exit(1)
	}

	// Command-line flags win over file and environment
	if *addr != "" {
		cfg.Address = *addr
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}

	logger.Init(logger.LogLevel(cfg.Logging.Level), cfg.Logging.Format)
	log := logger.Get()
	log.InfoWith("configuration loaded", "config", cfg.String())

	srv := NewServer(cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errorChan := make(chan error, 1)
	go func() {
		errorChan <- srv.Start()
	}()

	select {
	case sig := <-sigChan:
		log.InfoWith("received signal, shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.ErrorWithErr("error during shutdown", err)
		}

	case err := <-errorChan:
		if err != nil {
			log.ErrorWithErr("server error", err)
			os.Exit(1)
		}
	}
}
