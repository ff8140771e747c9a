// Command percored is a minimal process wrapper around the engine: it loads
// configuration, wires structured logging, and serves the Prometheus
// registry, then blocks. The engine itself has no network surface of its
// own (spec.md §1 Non-goals exclude order matching, custody, and gateway
// concerns) — an embedder drives internal/state.Book directly; this binary
// exists to prove the ambient stack (config, logging, metrics) boots.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nhb-labs/percore/internal/config"
	"github.com/nhb-labs/percore/internal/observability/logging"
	"github.com/nhb-labs/percore/internal/observability/metrics"
)

func main() {
	configPath := flag.String("config", "./percore.toml", "path to the engine configuration file")
	metricsAddr := flag.String("metrics-addr", ":9090", "listen address for the Prometheus /metrics endpoint")
	env := flag.String("env", "development", "deployment environment tag attached to every log line")
	logFile := flag.String("log-file", "", "rotate JSON logs to this path instead of stdout")
	flag.Parse()

	dest := io.Writer(os.Stdout)
	if *logFile != "" {
		dest = logging.RotatingFile(*logFile)
	}
	logger := logging.Setup("percore-engine", *env, dest)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.String("path", *configPath), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metrics.Engine()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: *metricsAddr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("metrics server listening", slog.String("addr", *metricsAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server exited", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", slog.String("error", err.Error()))
	}
}
