// Package pipeline sequences the per-satellite processing chain — propagate,
// transform, assess, score, window — and runs chains in parallel across
// satellites.
package pipeline

import (
	"fmt"
	"time"

	"github.com/cedarwud/orbit-engine-sub008/internal/element"
	"github.com/cedarwud/orbit-engine-sub008/internal/frames"
	"github.com/cedarwud/orbit-engine-sub008/internal/link"
	"github.com/cedarwud/orbit-engine-sub008/internal/propagate"
	"github.com/cedarwud/orbit-engine-sub008/internal/visibility"
	"github.com/cedarwud/orbit-engine-sub008/internal/window"
)

// Stage names used in failure reporting and metrics labels.
const (
	StagePropagate   = "propagate"
	StageTransform   = "transform"
	StageFeasibility = "feasibility"
	StageSignal      = "signal"
	StageWindow      = "window"
	StageCancelled   = "cancelled"
)

// Deps bundles the shared, immutable collaborators of every chain. Built
// once in the single-threaded setup phase; no chain mutates it.
type Deps struct {
	Observer    visibility.Observer
	Registry    *visibility.Registry
	Transformer *frames.Transformer
	Scorer      *link.Scorer
	PropConfig  propagate.Config
	Tracker     window.Tracker

	// EnablePrefilter turns on the sub-horizon geometric rejection test,
	// which skips the full frame transform for samples that cannot be
	// visible. Classification is unchanged; only cost is saved.
	EnablePrefilter bool
}

// SatelliteResult is one satellite's complete pipeline output. Either Err is
// nil and the series fields are populated, or Err holds the single failure
// that aborted the chain — a failed satellite never publishes partial data.
type SatelliteResult struct {
	NORADID       int
	Name          string
	Constellation string

	Visibility []visibility.Sample
	Quality    []link.QualitySample
	Windows    []window.ServiceWindow
	Stats      link.SeriesStats
	Diags      []DiagRecord

	Err         error
	FailedStage string
}

// RunChain executes the full chain for one satellite over the ordered sample
// times. All errors are wrapped with the satellite identity so upstream data
// quality problems are diagnosable.
func RunChain(set *element.Set, times []time.Time, deps Deps) SatelliteResult {
	res := SatelliteResult{
		NORADID:       set.NORADID,
		Name:          set.Name,
		Constellation: set.Constellation,
	}

	fail := func(stage string, err error) SatelliteResult {
		res.Err = fmt.Errorf("NORAD %d: %w", set.NORADID, err)
		res.FailedStage = stage
		return res
	}

	// The constellation threshold is resolved exactly once per satellite
	// and is immutable for the whole series.
	constellation, err := deps.Registry.Resolve(set.Constellation)
	if err != nil {
		return fail(StageFeasibility, err)
	}

	prop, err := propagate.New(set, deps.PropConfig)
	if err != nil {
		return fail(StagePropagate, err)
	}

	diags := &Diagnostics{}
	samples := make([]visibility.Sample, 0, len(times))

	for _, t := range times {
		sv, err := prop.Propagate(t)
		if err != nil {
			return fail(StagePropagate, err)
		}
		if prop.Stale(t) {
			diags.Add(t, DiagStaleElements,
				fmt.Sprintf("element age %.1f days", sv.ElementAgeDays))
		}

		var g frames.GeodeticSample
		if deps.EnablePrefilter &&
			frames.SubHorizonFast(sv, deps.Observer.ECEF, frames.JulianDate(t)) {
			g = deps.Transformer.ToGeodeticCoarse(sv)
			diags.Add(t, DiagPrefilterSkip, "sub-horizon, full transform skipped")
		} else {
			g, err = deps.Transformer.ToGeodetic(sv)
			if err != nil {
				return fail(StageTransform, err)
			}
		}
		if g.BelowSanityFloor() {
			diags.Add(t, DiagAltitudeSanity,
				fmt.Sprintf("altitude %.3f km below sanity floor", g.AltKm))
		}

		samples = append(samples, visibility.Assess(g, deps.Observer, constellation))
	}

	quality := make([]link.QualitySample, 0, len(samples))
	for _, vs := range samples {
		if !vs.Connectable {
			continue
		}
		q, err := deps.Scorer.Score(vs)
		if err != nil {
			return fail(StageSignal, err)
		}
		quality = append(quality, q)
	}

	windows, err := deps.Tracker.Windows(samples)
	if err != nil {
		return fail(StageWindow, err)
	}

	res.Visibility = samples
	res.Quality = quality
	res.Windows = windows
	res.Stats = link.Aggregate(quality)
	res.Diags = diags.Records()
	return res
}
