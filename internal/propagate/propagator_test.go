package propagate

import (
	"errors"
	"testing"
	"time"

	"github.com/cedarwud/orbit-engine-sub008/internal/element"
	"github.com/cedarwud/orbit-engine-sub008/internal/frames"
)

// Synthetic LEO element set: mean motion 15.0 rev/day, eccentricity 0.0001,
// inclination 53°, epoch 2024 day 100.5 (April 9, 2024 12:00 UTC).
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

func TestPropagateNearEpoch(t *testing.T) {
	prop, err := New(leoSet(), Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	sv, err := prop.Propagate(leoEpoch.Add(10 * time.Minute))
	if err != nil {
		t.Fatalf("Propagate failed: %v", err)
	}

	mag := sv.Position.Norm()
	if mag < 6500 || mag > 7500 {
		t.Errorf("position magnitude = %.1f km, expected LEO shell", mag)
	}
	if sv.Frame != frames.FrameTEME {
		t.Errorf("frame = %q, want TEME", sv.Frame)
	}
	if sv.ElementAgeDays <= 0 || sv.ElementAgeDays > 0.01 {
		t.Errorf("element age = %v days, want ~0.007", sv.ElementAgeDays)
	}
}

// TestPropagateDeterministic: the same (elements, timestamp) pair must yield
// a bit-identical state vector on repeated calls.
func TestPropagateDeterministic(t *testing.T) {
	prop, err := New(leoSet(), Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	target := leoEpoch.Add(45 * time.Minute)
	first, err := prop.Propagate(target)
	if err != nil {
		t.Fatalf("first Propagate failed: %v", err)
	}
	second, err := prop.Propagate(target)
	if err != nil {
		t.Fatalf("second Propagate failed: %v", err)
	}

	if first != second {
		t.Errorf("propagation not deterministic: %+v != %+v", first, second)
	}
}

// TestPropagateAgeCutoff: propagating 400 days past the epoch must fail with
// PropagationDivergenceError under the configured cutoff.
func TestPropagateAgeCutoff(t *testing.T) {
	prop, err := New(leoSet(), Config{MaxElementAgeDays: 30})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = prop.Propagate(leoEpoch.Add(400 * 24 * time.Hour))
	var pde *PropagationDivergenceError
	if !errors.As(err, &pde) {
		t.Fatalf("expected PropagationDivergenceError for 400-day-old elements, got %v", err)
	}
	if pde.NORADID != 44713 {
		t.Errorf("error NORADID = %d, want 44713", pde.NORADID)
	}
}

func TestStaleFlag(t *testing.T) {
	prop, err := New(leoSet(), Config{StaleElementAgeDays: 7})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if prop.Stale(leoEpoch.Add(time.Hour)) {
		t.Error("fresh elements flagged stale")
	}
	if !prop.Stale(leoEpoch.Add(10 * 24 * time.Hour)) {
		t.Error("10-day-old elements not flagged stale")
	}
}

func TestInvalidElements(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*element.Set)
		field  string
	}{
		{
			name:   "eccentricity at 1",
			mutate: func(s *element.Set) { s.Eccentricity = 1.0 },
			field:  "eccentricity",
		},
		{
			name:   "negative eccentricity",
			mutate: func(s *element.Set) { s.Eccentricity = -0.01 },
			field:  "eccentricity",
		},
		{
			name:   "inclination above 180",
			mutate: func(s *element.Set) { s.InclinationDeg = 190 },
			field:  "inclination_deg",
		},
		{
			name:   "mean motion implausibly high",
			mutate: func(s *element.Set) { s.MeanMotionRevPD = 25 },
			field:  "mean_motion_rev_per_day",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := leoSet()
			tc.mutate(set)

			_, err := New(set, Config{})
			var iee *InvalidElementError
			if !errors.As(err, &iee) {
				t.Fatalf("expected InvalidElementError, got %v", err)
			}
			if iee.Field != tc.field {
				t.Errorf("offending field = %q, want %q", iee.Field, tc.field)
			}
		})
	}
}

func TestInvalidTLEFormat(t *testing.T) {
	set := leoSet()
	set.Line1 = "1 garbage"

	if _, err := New(set, Config{}); err == nil {
		t.Fatal("expected error for malformed TLE lines, got nil")
	}
}
