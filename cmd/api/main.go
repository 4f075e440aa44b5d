package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/lex-code-hooks/cmd/mainconfig"
	"github.com/wolfman30/lex-code-hooks/internal/api/router"
	"github.com/wolfman30/lex-code-hooks/internal/app/bootstrap"
	"github.com/wolfman30/lex-code-hooks/internal/appointment"
	appconfig "github.com/wolfman30/lex-code-hooks/internal/config"
	"github.com/wolfman30/lex-code-hooks/internal/http/handlers"
	"github.com/wolfman30/lex-code-hooks/internal/observability/metrics"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lex code hook API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_store", cfg.SessionStore,
	)

	metricsHandler, dialogMetrics := setupDialogMetrics()

	dialogRouter, err := bootstrap.BuildDialogRouter(cfg, logger, dialogMetrics, nil)
	if err != nil {
		logger.Error("failed to build dialog router", "error", err)
		os.Exit(1)
	}

	sessions, err := bootstrap.BuildSessionStore(context.Background(), cfg, logger, mainconfig.LoadAWSConfig)
	if err != nil {
		logger.Error("failed to build session store", "error", err)
		os.Exit(1)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		HookHandler:        handlers.NewHookHandler(dialogRouter, logger),
		SimulatorHandler:   handlers.NewSimulatorHandler(dialogRouter, sessions, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupDialogMetrics() (http.Handler, *metrics.DialogMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewDialogMetrics(reg,
		metrics.WithAppointmentTypes(appointment.AppointmentTypes()...),
	)
}
