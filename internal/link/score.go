// Package link computes radio-link quality for connectable visibility
// samples: free-space path loss, gaseous attenuation, received power, a
// bandwidth-normalized quality index, and an interference/noise ratio, plus
// per-series aggregation.
package link

import (
	"fmt"
	"math"
	"time"

	"github.com/cedarwud/orbit-engine-sub008/internal/visibility"
)

// Boltzmann constant in J/K.
const boltzmann = 1.380649e-23

// Reference bandwidth for the quality index (one LTE/NR resource block).
const referenceBandwidthHz = 180e3

// Class labels a sample's signal quality.
type Class string

const (
	ClassExcellent Class = "excellent"
	ClassGood      Class = "good"
	ClassFair      Class = "fair"
	ClassPoor      Class = "poor"
)

// Classes lists all labels in descending quality order.
var Classes = []Class{ClassExcellent, ClassGood, ClassFair, ClassPoor}

// QualitySample is the scored link quality for one connectable visibility
// sample.
type QualitySample struct {
	Time             time.Time
	ReceivedPowerDBm float64 // RSRP-equivalent
	QualityIndexDB   float64 // RSRQ-equivalent
	SINRDb           float64 // interference/noise ratio
	Class            Class
}

// NotConnectableError reports a Score call on a non-connectable sample.
// This is a precondition violation by the caller, not a data error.
type NotConnectableError struct {
	Time         time.Time
	ElevationDeg float64
}

func (e *NotConnectableError) Error() string {
	return fmt.Sprintf("score called on non-connectable sample at %s (elevation %.2f°)",
		e.Time.UTC().Format(time.RFC3339), e.ElevationDeg)
}

// Scorer evaluates the link budget. Immutable after construction and safe
// for concurrent use.
type Scorer struct {
	params   Params
	noiseDBm float64 // kTB noise floor plus noise figure
}

// NewScorer validates params and returns a Scorer.
func NewScorer(params Params) (*Scorer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Noise floor in dBm: 10 log10(k·Tsys·B · 1000) + NF.
	noise := 10*math.Log10(boltzmann*params.SystemTempK*params.BandwidthHz*1000) +
		params.NoiseFigureDB

	return &Scorer{params: params, noiseDBm: noise}, nil
}

// Score computes the link-quality sample for a connectable visibility
// sample. Calling it with a non-connectable sample returns a
// NotConnectableError and no result.
func (s *Scorer) Score(vs visibility.Sample) (QualitySample, error) {
	if !vs.Connectable {
		return QualitySample{}, &NotConnectableError{
			Time:         vs.Time,
			ElevationDeg: vs.ElevationDeg,
		}
	}

	fspl := FreeSpacePathLossDB(vs.RangeKm, s.params.CarrierGHz)
	atmLoss := atmosphericLossDB(s.params.CarrierGHz, vs.ElevationDeg, s.params.Atmosphere)

	received := s.params.EIRPDBm - fspl - atmLoss + s.params.RxGainDBi

	// Quality index: received power normalized to the reference bandwidth,
	// so wide and narrow carriers are comparable.
	quality := received - 10*math.Log10(s.params.BandwidthHz/referenceBandwidthHz)

	sinr := received - s.noiseDBm

	return QualitySample{
		Time:             vs.Time,
		ReceivedPowerDBm: received,
		QualityIndexDB:   quality,
		SINRDb:           sinr,
		Class:            s.classify(sinr),
	}, nil
}

// classify maps SINR to a quality class using the configured fixed bands.
func (s *Scorer) classify(sinrDB float64) Class {
	b := s.params.Bands
	switch {
	case sinrDB >= b.Excellent:
		return ClassExcellent
	case sinrDB >= b.Good:
		return ClassGood
	case sinrDB >= b.Fair:
		return ClassFair
	default:
		return ClassPoor
	}
}

// FreeSpacePathLossDB returns free-space path loss in dB for a slant range
// in km and carrier frequency in GHz:
//
//	FSPL = 92.45 + 20 log10(d_km) + 20 log10(f_GHz)
func FreeSpacePathLossDB(rangeKm, freqGHz float64) float64 {
	return 92.45 + 20*math.Log10(rangeKm) + 20*math.Log10(freqGHz)
}
