// Package propagate wraps the SGP4 analytic orbit model behind the
// go-satellite library and turns element sets into inertial state vectors.
//
// SGP4 library choice: github.com/joshuaferrara/go-satellite. Pure Go (no
// CGO), explicit TEME output, battle-tested since 2016.
//
// Note: Propagate() takes Satellite by value so SGP4 error codes are not
// visible to the caller. Propagation failures are detected by checking the
// output for NaN/Inf and unreasonable position magnitudes.
package propagate

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/cedarwud/orbit-engine-sub008/internal/element"
	"github.com/cedarwud/orbit-engine-sub008/internal/frames"
)

// Plausibility bounds for parsed elements. Mean motion covers everything
// from super-GEO (~0.5 rev/day) to very low decaying orbits (~20 rev/day).
const (
	minMeanMotion = 0.5
	maxMeanMotion = 20.0
)

// Position magnitude sanity range for Earth-orbiting satellites (km).
const (
	minRadiusKm = 6200.0
	maxRadiusKm = 50000.0
)

// Config controls element-age policy for a Propagator.
type Config struct {
	// MaxElementAgeDays is the hard cutoff: propagating an element set
	// older than this fails with PropagationDivergenceError. Zero selects
	// the default of 30 days.
	MaxElementAgeDays float64

	// StaleElementAgeDays marks the soft threshold past which samples are
	// still produced but consumers should flag degraded accuracy. Zero
	// selects the default of 7 days.
	StaleElementAgeDays float64
}

const (
	defaultMaxAgeDays   = 30.0
	defaultStaleAgeDays = 7.0
)

func (c Config) maxAge() float64 {
	if c.MaxElementAgeDays == 0 {
		return defaultMaxAgeDays
	}
	return c.MaxElementAgeDays
}

func (c Config) staleAge() float64 {
	if c.StaleElementAgeDays == 0 {
		return defaultStaleAgeDays
	}
	return c.StaleElementAgeDays
}

// Propagator produces TEME state vectors for a single satellite's element
// set. Immutable after construction; deterministic: the same timestamp
// always yields the same state vector.
type Propagator struct {
	set *element.Set
	sat satellite.Satellite
	cfg Config
}

// New validates the element set against physical bounds and initializes the
// SGP4 model. Out-of-bounds parameters yield an InvalidElementError.
//
// Pre-validates TLE format before handing lines to the library, because
// go-satellite calls log.Fatal on malformed input (which would kill the
// process).
func New(set *element.Set, cfg Config) (*Propagator, error) {
	if err := validateElements(set); err != nil {
		return nil, err
	}
	if err := validateTLELines(set.Line1, set.Line2); err != nil {
		return nil, fmt.Errorf("invalid TLE for NORAD %d: %w", set.NORADID, err)
	}

	sat := satellite.TLEToSat(set.Line1, set.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, &InvalidElementError{
			NORADID: set.NORADID,
			Field:   "sgp4_init",
			Value:   float64(sat.Error),
			Reason:  fmt.Sprintf("model initialization failed: %s", sat.ErrorStr),
		}
	}

	return &Propagator{set: set, sat: sat, cfg: cfg}, nil
}

// validateElements enforces the physical bounds on the parsed classical
// elements.
func validateElements(set *element.Set) error {
	switch {
	case set.Eccentricity < 0 || set.Eccentricity >= 1:
		return &InvalidElementError{
			NORADID: set.NORADID,
			Field:   "eccentricity",
			Value:   set.Eccentricity,
			Reason:  "outside [0, 1)",
		}
	case set.InclinationDeg < 0 || set.InclinationDeg > 180:
		return &InvalidElementError{
			NORADID: set.NORADID,
			Field:   "inclination_deg",
			Value:   set.InclinationDeg,
			Reason:  "outside [0, 180]",
		}
	case set.MeanMotionRevPD < minMeanMotion || set.MeanMotionRevPD > maxMeanMotion:
		return &InvalidElementError{
			NORADID: set.NORADID,
			Field:   "mean_motion_rev_per_day",
			Value:   set.MeanMotionRevPD,
			Reason:  fmt.Sprintf("outside [%.1f, %.1f]", minMeanMotion, maxMeanMotion),
		}
	}
	return nil
}

// validateTLELines performs basic format validation on TLE lines.
func validateTLELines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}
	return nil
}

// Set returns the element set the propagator was built from.
func (p *Propagator) Set() *element.Set {
	return p.set
}

// ElementAgeDays returns the element set's age in days at t, so downstream
// consumers can flag degraded accuracy.
func (p *Propagator) ElementAgeDays(t time.Time) float64 {
	return p.set.AgeDays(t)
}

// Stale reports whether the element age at t exceeds the soft accuracy
// threshold.
func (p *Propagator) Stale(t time.Time) bool {
	return math.Abs(p.ElementAgeDays(t)) > p.cfg.staleAge()
}

// Propagate computes the satellite's TEME state vector at t.
func (p *Propagator) Propagate(t time.Time) (frames.StateVector, error) {
	age := p.ElementAgeDays(t)
	if math.Abs(age) > p.cfg.maxAge() {
		return frames.StateVector{}, &PropagationDivergenceError{
			NORADID: p.set.NORADID,
			Time:    t,
			Reason:  fmt.Sprintf("element age %.1f days exceeds cutoff %.1f days", age, p.cfg.maxAge()),
		}
	}

	t = t.UTC()
	pos, vel := satellite.Propagate(p.sat,
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	// Detect propagation failures via NaN/Inf check.
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return frames.StateVector{}, &PropagationDivergenceError{
			NORADID: p.set.NORADID,
			Time:    t,
			Reason:  "output is NaN/Inf",
		}
	}

	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	if mag < minRadiusKm || mag > maxRadiusKm {
		return frames.StateVector{}, &PropagationDivergenceError{
			NORADID: p.set.NORADID,
			Time:    t,
			Reason:  fmt.Sprintf("unreasonable position magnitude %.1f km", mag),
		}
	}

	return frames.StateVector{
		Time:           t,
		Position:       frames.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z},
		Velocity:       frames.Vec3{X: vel.X, Y: vel.Y, Z: vel.Z},
		Frame:          frames.FrameTEME,
		ElementAgeDays: age,
	}, nil
}
