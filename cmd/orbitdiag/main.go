// orbitdiag runs a single satellite through the full pipeline chain and
// prints every intermediate value, for debugging upstream data quality.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cedarwud/orbit-engine-sub008/internal/config"
	"github.com/cedarwud/orbit-engine-sub008/internal/element"
	"github.com/cedarwud/orbit-engine-sub008/internal/frames"
	"github.com/cedarwud/orbit-engine-sub008/internal/link"
	"github.com/cedarwud/orbit-engine-sub008/internal/pipeline"
	"github.com/cedarwud/orbit-engine-sub008/internal/visibility"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	configPath := flag.String("config", "orbitengine.toml", "path to run configuration")
	noradID := flag.Int("norad", 0, "NORAD ID to trace (default: first in catalog)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("ERROR loading config:", err)
		os.Exit(1)
	}

	loader := element.NewLoader(cfg.ElementSource, cfg.Tags, logger)
	ds, err := loader.Load(context.Background())
	if err != nil {
		fmt.Println("ERROR loading catalog:", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d element sets from %s\n", len(ds.Satellites), ds.Source)

	set := &ds.Satellites[0]
	if *noradID != 0 {
		set = nil
		for i := range ds.Satellites {
			if ds.Satellites[i].NORADID == *noradID {
				set = &ds.Satellites[i]
				break
			}
		}
		if set == nil {
			fmt.Printf("NORAD %d not found in catalog\n", *noradID)
			os.Exit(1)
		}
	}
	fmt.Printf("Tracing %s (NORAD %d), constellation %q, epoch %v\n",
		set.Name, set.NORADID, set.Constellation, set.Epoch)

	transformer, err := frames.NewTransformer(cfg.Transform)
	if err != nil {
		fmt.Println("ERROR building transformer:", err)
		os.Exit(1)
	}
	scorer, err := link.NewScorer(cfg.Link)
	if err != nil {
		fmt.Println("ERROR building scorer:", err)
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

	res := pipeline.RunChain(set, cfg.Run.SampleTimes(), deps)
	if res.Err != nil {
		fmt.Printf("CHAIN FAILED at stage %s: %v\n", res.FailedStage, res.Err)
		os.Exit(1)
	}

	connectable := 0
	for _, s := range res.Visibility {
		if s.Connectable {
			connectable++
		}
	}
	fmt.Printf("Samples: %d total, %d connectable\n", len(res.Visibility), connectable)

	for _, s := range res.Visibility {
		mark := " "
		if s.Connectable {
			mark = "*"
		}
		fmt.Printf("  %s %s el=%6.2f° az=%6.2f° range=%8.1fkm\n",
			mark, s.Time.Format(time.RFC3339), s.ElevationDeg, s.AzimuthDeg, s.RangeKm)
	}

	for i, w := range res.Windows {
		fmt.Printf("window %d: %s → %s dur=%.0fs samples=%d continuity=%.2f\n",
			i, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339),
			w.Duration.Seconds(), w.ConnectableCount, w.ContinuityScore)
	}

	if res.Stats.MeanPowerDBm != nil {
		fmt.Printf("mean power %.1f dBm, mean quality %.1f dB\n",
			*res.Stats.MeanPowerDBm, *res.Stats.MeanQualityDB)
	} else {
		fmt.Println("no connectable samples, no aggregates")
	}
	for _, d := range res.Diags {
		fmt.Printf("diag %s at %s: %s\n", d.Kind, d.Time.Format(time.RFC3339), d.Detail)
	}
}
