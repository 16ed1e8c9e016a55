package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tbeaudouin05/mcp-gateway/api/bootstrap"
	"github.com/tbeaudouin05/mcp-gateway/api/config"
	"github.com/tbeaudouin05/mcp-gateway/api/logging"
	"github.com/tbeaudouin05/mcp-gateway/api/router"
)

func main() {
	port := flag.String("port", "", "listen port (overrides PORT)")
	logLevel := flag.String("log-level", "", "log level: DEBUG, INFO, WARNING, ERROR (overrides LOG_LEVEL)")
	flag.Parse()

	if err := bootstrap.Ensure(); err != nil {
		slog.Error("initialization failed", "error", err)
		os.Exit(1)
	}

	if *port != "" {
		config.AppConfig.HTTPPort = *port
	}
	if *logLevel != "" {
		config.AppConfig.LogLevel = *logLevel
	}
	logging.Setup(config.AppConfig.LogLevel)

	srv := &http.Server{
		Addr:              ":" + config.AppConfig.HTTPPort,
		Handler:           router.NewHTTPAdapter(bootstrap.GetHandler()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		slog.Info("gateway listening",
			"port", config.AppConfig.HTTPPort,
			"environment", config.AppConfig.Environment,
			"version", config.AppConfig.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
