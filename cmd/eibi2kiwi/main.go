// Command eibi2kiwi converts the current EiBi shortwave broadcast schedule
// into KiwiSDR label files. RUN_MODE=once performs a single conversion pass
// and exits; RUN_MODE=serve keeps running, refreshes on a cron schedule, and
// serves health, metrics, and the generated CSV over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/kiwidx/eibi-schedule-etl/internal/adapter/eibi"
	httpadapter "github.com/kiwidx/eibi-schedule-etl/internal/adapter/http"
	kafkaadapter "github.com/kiwidx/eibi-schedule-etl/internal/adapter/kafka"
	"github.com/kiwidx/eibi-schedule-etl/internal/adapter/kiwi"
	"github.com/kiwidx/eibi-schedule-etl/internal/config"
	"github.com/kiwidx/eibi-schedule-etl/internal/observability"
	"github.com/kiwidx/eibi-schedule-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	sites, err := eibi.LoadSites(cfg.SitesPath)
	if err != nil {
		logger.Error("failed to load site table", "path", cfg.SitesPath, "error", err)
		os.Exit(1)
	}
	logger.Info("site table loaded", "path", cfg.SitesPath, "countries", len(sites))

	source := eibi.NewClient(cfg, metrics, logger)

	emitters := []pipeline.RecordEmitter{
		kiwi.NewCSVEmitter(cfg.OutputCSVPath, cfg.SortByFreq, logger),
	}
	if cfg.OutputJSONPath != "" {
		emitters = append(emitters, kiwi.NewJSONEmitter(cfg.OutputJSONPath, cfg.SortByFreq, logger))
	}
	if cfg.OutputICSPath != "" {
		emitters = append(emitters, kiwi.NewICSEmitter(cfg.OutputICSPath, logger))
	}

	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		emitters = append(emitters, kafkaWriter)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}

	p := pipeline.New(source, sites, emitters, logger, metrics, cfg.ReferenceDate)

	if cfg.RunMode == config.ModeOnce {
		if err := p.Run(context.Background()); err != nil {
			logger.Error("conversion failed", "error", err)
			os.Exit(1)
		}
		closeKafka(kafkaWriter, logger)
		return
	}

	serve(cfg, p, kafkaWriter, logger)
}

// serve runs the long-lived mode: one immediate pass, cron-scheduled
// refreshes, and the HTTP endpoints.
func serve(cfg *config.Config, p *pipeline.Pipeline, kafkaWriter *kafkaadapter.Writer, logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.OutputCSVPath, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// First pass right away so the endpoints have something to serve. A
	// failure here is not fatal: the cron refresh will try again.
	if err := p.Run(ctx); err != nil {
		logger.Error("initial conversion failed", "error", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.RefreshCronSpec, func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("scheduled conversion failed", "error", err)
		}
	}); err != nil {
		logger.Error("invalid refresh cron spec", "spec", cfg.RefreshCronSpec, "error", err)
		os.Exit(1)
	}
	c.Start()
	logger.Info("refresh scheduled", "spec", cfg.RefreshCronSpec)

	<-ctx.Done()
	logger.Info("shutting down")

	cronCtx := c.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	closeKafka(kafkaWriter, logger)

	logger.Info("shutdown complete")
}

func closeKafka(w *kafkaadapter.Writer, logger *slog.Logger) {
	if w == nil {
		return
	}
	if err := w.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
}
