package pipeline

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/cedarwud/orbit-engine-sub008/internal/element"
	"github.com/cedarwud/orbit-engine-sub008/internal/frames"
	"github.com/cedarwud/orbit-engine-sub008/internal/link"
	"github.com/cedarwud/orbit-engine-sub008/internal/propagate"
	"github.com/cedarwud/orbit-engine-sub008/internal/visibility"
)

// Synthetic LEO element set: mean motion 15.0 rev/day, inclination 53°,
// epoch 2024 day 100.5 (April 9, 2024 12:00 UTC).
const (
	leoLine1 = "1 44713U 19074A   24100.50000000  .00001000  00000-0  10000-4 0  9995"
	leoLine2 = "2 44713  53.0000 200.0000 0001000  90.0000 270.0000 15.00000000    05"
)

var leoEpoch = time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)

func leoSet() *element.Set {
	return &element.Set{
		NORADID:         44713,
		Name:            "STARLINK-1007",
		Epoch:           leoEpoch,
		Line1:           leoLine1,
		Line2:           leoLine2,
		Constellation:   "starlink",
		InclinationDeg:  53.0,
		Eccentricity:    0.0001,
		MeanMotionRevPD: 15.0,
	}
}

func testDeps(t *testing.T) Deps {
	t.Helper()

	transformer, err := frames.NewTransformer(frames.TransformConfig{})
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}

	scorer, err := link.NewScorer(link.Params{
		CarrierGHz:    12.0,
		BandwidthHz:   20e6,
		EIRPDBm:       70.0,
		RxGainDBi:     35.0,
		NoiseFigureDB: 2.0,
		SystemTempK:   290.0,
		Atmosphere: link.Atmosphere{
			TemperatureK:      288.0,
			PressureHPa:       1013.25,
			WaterVaporDensity: 7.5,
		},
		Bands: link.ClassBands{Excellent: 20, Good: 13, Fair: 3},
	})
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}

	return Deps{
		Observer: visibility.NewObserver(24.94, 121.37, 0.05),
		Registry: visibility.NewRegistry([]visibility.ConstellationConfig{
			{Name: "starlink", MinElevationDeg: 10},
		}),
		Transformer: transformer,
		Scorer:      scorer,
		PropConfig:  propagate.Config{},
	}
}

// sampleTimes covers one full orbit (96 min at 15 rev/day) at 30 s cadence
// starting at the element epoch.
func sampleTimes() []time.Time {
	times := make([]time.Time, 0, 192)
	for i := 0; i < 192; i++ {
		times = append(times, leoEpoch.Add(time.Duration(i)*30*time.Second))
	}
	return times
}

func TestRunChainComplete(t *testing.T) {
	deps := testDeps(t)
	times := sampleTimes()

	res := RunChain(leoSet(), times, deps)
	if res.Err != nil {
		t.Fatalf("chain failed at %s: %v", res.FailedStage, res.Err)
	}

	if len(res.Visibility) != len(times) {
		t.Errorf("got %d visibility samples, want %d", len(res.Visibility), len(times))
	}

	connectable := 0
	for i, s := range res.Visibility {
		if !s.Time.Equal(times[i]) {
			t.Fatalf("sample %d timestamp %v, want %v", i, s.Time, times[i])
		}
		if s.Connectable {
			connectable++
		}
	}

	// Every connectable sample is scored, and only those.
	if len(res.Quality) != connectable {
		t.Errorf("got %d quality samples for %d connectable", len(res.Quality), connectable)
	}
	if res.Stats.ConnectableCount != connectable {
		t.Errorf("stats count %d, want %d", res.Stats.ConnectableCount, connectable)
	}

	// Window counts account for exactly the connectable samples.
	windowed := 0
	for _, w := range res.Windows {
		windowed += w.ConnectableCount
	}
	if windowed != connectable {
		t.Errorf("windows cover %d connectable samples, want %d", windowed, connectable)
	}
}

func TestRunChainDeterministic(t *testing.T) {
	deps := testDeps(t)
	times := sampleTimes()[:60]

	first := RunChain(leoSet(), times, deps)
	second := RunChain(leoSet(), times, deps)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated chain runs over identical inputs differ")
	}
}

// The pre-filter skips transforms but never changes classification.
func TestRunChainPrefilterEquivalence(t *testing.T) {
	times := sampleTimes()

	plain := testDeps(t)
	fast := testDeps(t)
	fast.EnablePrefilter = true

	full := RunChain(leoSet(), times, plain)
	filtered := RunChain(leoSet(), times, fast)
	if full.Err != nil || filtered.Err != nil {
		t.Fatalf("chain errors: %v / %v", full.Err, filtered.Err)
	}

	for i := range full.Visibility {
		if full.Visibility[i].Connectable != filtered.Visibility[i].Connectable {
			t.Fatalf("sample %d: prefilter changed classification (%v vs %v, elevation %.3f)",
				i, full.Visibility[i].Connectable, filtered.Visibility[i].Connectable,
				full.Visibility[i].ElevationDeg)
		}
	}
}

func TestRunChainUnknownConstellation(t *testing.T) {
	set := leoSet()
	set.Constellation = "unknown_xyz"

	res := RunChain(set, sampleTimes()[:2], testDeps(t))
	if res.FailedStage != StageFeasibility {
		t.Errorf("failed at %q, want %q", res.FailedStage, StageFeasibility)
	}
	var uce *visibility.UnknownConstellationError
	if !errors.As(res.Err, &uce) {
		t.Fatalf("expected UnknownConstellationError, got %v", res.Err)
	}
	if res.Visibility != nil || res.Quality != nil || res.Windows != nil {
		t.Error("failed chain published partial series data")
	}
}

func TestRunChainInvalidElements(t *testing.T) {
	set := leoSet()
	set.Eccentricity = 1.5

	res := RunChain(set, sampleTimes()[:2], testDeps(t))
	if res.FailedStage != StagePropagate {
		t.Errorf("failed at %q, want %q", res.FailedStage, StagePropagate)
	}
	var iee *propagate.InvalidElementError
	if !errors.As(res.Err, &iee) {
		t.Fatalf("expected InvalidElementError, got %v", res.Err)
	}
}

func TestRunChainElementAgeCutoff(t *testing.T) {
	// Sampling 400 days past the epoch must abort the chain, not emit
	// divergent positions.
	times := []time.Time{leoEpoch.AddDate(0, 0, 400)}

	res := RunChain(leoSet(), times, testDeps(t))
	if res.FailedStage != StagePropagate {
		t.Errorf("failed at %q, want %q", res.FailedStage, StagePropagate)
	}
	var pde *propagate.PropagationDivergenceError
	if !errors.As(res.Err, &pde) {
		t.Fatalf("expected PropagationDivergenceError, got %v", res.Err)
	}
}

func TestRunChainStaleDiagnostics(t *testing.T) {
	deps := testDeps(t)
	deps.PropConfig = propagate.Config{MaxElementAgeDays: 30, StaleElementAgeDays: 7}

	// 10 days past epoch: inside the hard cutoff, past the soft threshold.
	times := []time.Time{leoEpoch.AddDate(0, 0, 10)}
	res := RunChain(leoSet(), times, deps)
	if res.Err != nil {
		t.Fatalf("chain failed: %v", res.Err)
	}

	stale := 0
	for _, d := range res.Diags {
		if d.Kind == DiagStaleElements {
			stale++
		}
	}
	if stale != 1 {
		t.Errorf("got %d stale-element diagnostics, want 1", stale)
	}
}

func TestDiagnosticsCollector(t *testing.T) {
	var d Diagnostics
	ts := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	d.Add(ts, DiagStaleElements, "a")
	d.Add(ts, DiagPrefilterSkip, "b")
	d.Add(ts, DiagStaleElements, "c")

	if got := d.CountByKind(DiagStaleElements); got != 2 {
		t.Errorf("CountByKind = %d, want 2", got)
	}
	recs := d.Records()
	if len(recs) != 3 || recs[0].Detail != "a" || recs[2].Detail != "c" {
		t.Errorf("records out of order: %+v", recs)
	}
}
