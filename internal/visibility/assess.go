// Package visibility classifies per-timestamp satellite geometry against an
// observer: topocentric look angles plus the constellation-specific
// connectable threshold.
package visibility

import (
	"time"

	"github.com/cedarwud/orbit-engine-sub008/internal/frames"
)

// Sample is one timestamped visibility assessment for a satellite.
type Sample struct {
	Time         time.Time
	ElevationDeg float64
	AzimuthDeg   float64
	RangeKm      float64
	Connectable  bool
	ThresholdDeg float64 // the constellation minimum elevation that was applied
}

// Assess computes look angles from the observer to the satellite's geodetic
// position and classifies the sample. The classification rule is exact:
// connectable ⇔ elevation ≥ the constellation's minimum service elevation.
// The threshold is resolved once per satellite, before its series; Assess
// never re-resolves it.
func Assess(g frames.GeodeticSample, obs Observer, cfg ConstellationConfig) Sample {
	la := obs.LookAnglesTo(frames.GeodeticToECEF(g.LatDeg, g.LonDeg, g.AltKm))
	return Sample{
		Time:         g.Time,
		ElevationDeg: la.ElevationDeg,
		AzimuthDeg:   la.AzimuthDeg,
		RangeKm:      la.RangeKm,
		Connectable:  la.ElevationDeg >= cfg.MinElevationDeg,
		ThresholdDeg: cfg.MinElevationDeg,
	}
}
