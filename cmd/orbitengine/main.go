package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cedarwud/orbit-engine-sub008/internal/config"
	"github.com/cedarwud/orbit-engine-sub008/internal/element"
	"github.com/cedarwud/orbit-engine-sub008/internal/frames"
	"github.com/cedarwud/orbit-engine-sub008/internal/link"
	"github.com/cedarwud/orbit-engine-sub008/internal/metrics"
	"github.com/cedarwud/orbit-engine-sub008/internal/pipeline"
	"github.com/cedarwud/orbit-engine-sub008/internal/sink"
	"github.com/cedarwud/orbit-engine-sub008/internal/visibility"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	configPath := flag.String("config", "orbitengine.toml", "path to run configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("invalid run configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional Prometheus endpoint for long catalog runs.
	if cfg.Output.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			logger.Info("serving metrics", "addr", cfg.Output.MetricsAddr)
			if err := http.ListenAndServe(cfg.Output.MetricsAddr, mux); err != nil {
				logger.Warn("metrics endpoint stopped", "error", err)
			}
		}()
	}

	catalog := element.NewCatalog()
	loader := element.NewLoader(cfg.ElementSource, cfg.Tags, logger)
	ds, err := loader.Load(ctx)
	if err != nil {
		logger.Error("loading element catalog", "error", err)
		os.Exit(1)
	}
	catalog.Replace(ds)
	metrics.SetCatalogAge(catalog.AgeSeconds())
	logger.Info("element catalog loaded",
		"source", ds.Source,
		"satellites", len(ds.Satellites),
		"epoch_min", ds.EpochRange.Min.Format(time.RFC3339),
		"epoch_max", ds.EpochRange.Max.Format(time.RFC3339),
	)

	// All shared configuration is resolved here, before the parallel
	// phase, and is immutable for its duration.
	transformer, err := frames.NewTransformer(cfg.Transform)
	if err != nil {
		logger.Error("invalid frame configuration", "error", err)
		os.Exit(1)
	}
	scorer, err := link.NewScorer(cfg.Link)
	if err != nil {
		logger.Error("invalid link configuration", "error", err)
		os.Exit(1)
	}

	deps := pipeline.Deps{
		Observer:        cfg.Observer,
		Registry:        visibility.NewRegistry(cfg.Constellations),
		Transformer:     transformer,
		Scorer:          scorer,
		PropConfig:      cfg.PropConfig,
		Tracker:         cfg.Tracker,
		EnablePrefilter: cfg.Run.EnablePrefilter,
	}

	times := cfg.Run.SampleTimes()
	logger.Info("starting pipeline run",
		"satellites", len(ds.Satellites),
		"sample_times", len(times),
		"start", cfg.Run.Start.Format(time.RFC3339),
		"step", cfg.Run.Step.String(),
		"workers", cfg.Run.Workers,
		"prefilter", cfg.Run.EnablePrefilter,
	)

	runner := pipeline.NewRunner(cfg.Run.Workers, deps, logger)
	start := time.Now()
	results, summary := runner.Run(ctx, ds.Satellites, times)
	logger.Info("run finished", "duration_ms", time.Since(start).Milliseconds())

	if cfg.Output.SQLitePath != "" {
		db, err := sink.Open(cfg.Output.SQLitePath)
		if err != nil {
			logger.Error("opening dataset database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		written := 0
		for _, res := range results {
			if res.Err != nil {
				continue
			}
			if err := db.WriteResult(res); err != nil {
				logger.Error("persisting satellite result", "norad_id", res.NORADID, "error", err)
				os.Exit(1)
			}
			written++
		}
		logger.Info("dataset written", "path", cfg.Output.SQLitePath, "satellites", written)
	}

	if cfg.Output.ReportPath != "" {
		rep := sink.BuildReport(results, summary)
		if err := sink.WriteReport(rep, cfg.Output.ReportPath); err != nil {
			logger.Error("writing run report", "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", cfg.Output.ReportPath)
	}

	if summary.Succeeded == 0 && summary.Satellites > 0 {
		logger.Error("no satellite chain succeeded", "failed", summary.Failed)
		os.Exit(1)
	}
}
