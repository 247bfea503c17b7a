package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"seriesgen/internal/api"
	"seriesgen/internal/config"
	"seriesgen/internal/logger"
	"seriesgen/internal/metrics"
	"seriesgen/internal/sink"
	"seriesgen/internal/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("SERIESGEN_CONFIG"), "path to YAML config (optional)")
	flag.Parse()

	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	os.Exit(serve(*configPath))
}

// serve returns the process exit code so deferred cleanup runs before os.Exit.
func serve(configPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	results := store.New(cfg.Server.ResultTTL, 0)
	defer results.Close()

	deps := api.Deps{
		Config:   cfg,
		Results:  results,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Log:      log,
	}
	if cfg.S3.Enabled {
		uploader, err := sink.NewS3Uploader(context.Background(), cfg.S3, log)
		if err != nil {
			return fmt.Errorf("s3: %w", err)
		}
		deps.Publisher = uploader
		log.Info("publishing enabled", zap.String("bucket", cfg.S3.Bucket), zap.String("prefix", cfg.S3.Prefix))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
