package visibility

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cedarwud/orbit-engine-sub008/internal/frames"
)

func TestNewObserverECEFMagnitude(t *testing.T) {
	// Observer at sea level should have ECEF magnitude close to the
	// WGS-84 equatorial radius.
	obs := NewObserver(0, 0, 0)
	if math.Abs(obs.ECEF.Norm()-6378.137) > 0.001 {
		t.Errorf("equatorial observer ECEF magnitude = %.4f km, want ~6378.137", obs.ECEF.Norm())
	}

	// Observer at north pole: magnitude should be the polar radius.
	obs = NewObserver(90, 0, 0)
	if math.Abs(obs.ECEF.Norm()-6356.7523) > 0.001 {
		t.Errorf("polar observer ECEF magnitude = %.4f km, want ~6356.752", obs.ECEF.Norm())
	}
}

// TestAssessOverhead: satellite directly above the observer gives ~90°
// elevation and a connectable sample for any threshold ≤ 90°.
func TestAssessOverhead(t *testing.T) {
	obs := NewObserver(24.94, 121.37, 0.05)
	cfg := ConstellationConfig{Name: "starlink", MinElevationDeg: 10}

	g := frames.GeodeticSample{
		Time:   time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC),
		LatDeg: 24.94,
		LonDeg: 121.37,
		AltKm:  550,
	}

	s := Assess(g, obs, cfg)
	if math.Abs(s.ElevationDeg-90.0) > 0.1 {
		t.Errorf("overhead elevation = %.3f°, want ~90", s.ElevationDeg)
	}
	if math.Abs(s.RangeKm-549.95) > 1.0 {
		t.Errorf("overhead range = %.2f km, want ~549.95", s.RangeKm)
	}
	if !s.Connectable {
		t.Error("overhead satellite not connectable")
	}
	if s.ThresholdDeg != 10 {
		t.Errorf("threshold recorded as %v, want 10", s.ThresholdDeg)
	}
}

// TestThresholdLawExact: connectable ⇔ elevation ≥ threshold, with no
// hysteresis, across samples straddling the threshold.
func TestThresholdLawExact(t *testing.T) {
	obs := NewObserver(0, 0, 0)
	cfg := ConstellationConfig{Name: "test", MinElevationDeg: 25}
	ts := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

	// Sweep the satellite from overhead towards the horizon by moving it
	// in longitude at constant altitude.
	for lon := 0.0; lon < 30; lon += 0.25 {
		g := frames.GeodeticSample{Time: ts, LatDeg: 0, LonDeg: lon, AltKm: 550}
		s := Assess(g, obs, cfg)

		want := s.ElevationDeg >= cfg.MinElevationDeg
		if s.Connectable != want {
			t.Fatalf("lon %.2f: connectable = %v but elevation %.4f vs threshold %.1f",
				lon, s.Connectable, s.ElevationDeg, cfg.MinElevationDeg)
		}
	}
}

func TestAssessAzimuthDirections(t *testing.T) {
	obs := NewObserver(0, 0, 0)
	cfg := ConstellationConfig{Name: "test", MinElevationDeg: 0}
	ts := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

	// Satellite to the north: azimuth ~0. To the east: ~90.
	north := Assess(frames.GeodeticSample{Time: ts, LatDeg: 5, LonDeg: 0, AltKm: 550}, obs, cfg)
	if north.AzimuthDeg > 1 && north.AzimuthDeg < 359 {
		t.Errorf("northern satellite azimuth = %.2f°, want ~0", north.AzimuthDeg)
	}

	east := Assess(frames.GeodeticSample{Time: ts, LatDeg: 0, LonDeg: 5, AltKm: 550}, obs, cfg)
	if math.Abs(east.AzimuthDeg-90) > 1 {
		t.Errorf("eastern satellite azimuth = %.2f°, want ~90", east.AzimuthDeg)
	}
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry([]ConstellationConfig{
		{Name: "Starlink", MinElevationDeg: 10},
		{Name: "oneweb", MinElevationDeg: 15},
	})

	// Case-insensitive exact match.
	cfg, err := reg.Resolve("STARLINK")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.MinElevationDeg != 10 {
		t.Errorf("threshold = %v, want 10", cfg.MinElevationDeg)
	}

	// Unresolvable tags fail, never default.
	_, err = reg.Resolve("unknown_xyz")
	var uce *UnknownConstellationError
	if !errors.As(err, &uce) {
		t.Fatalf("expected UnknownConstellationError, got %v", err)
	}
	if uce.Tag != "unknown_xyz" {
		t.Errorf("error tag = %q, want \"unknown_xyz\"", uce.Tag)
	}
}
