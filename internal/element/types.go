package element

import "time"

// Set is a single satellite's orbital element set, parsed from two-line
// element format. Immutable once parsed.
type Set struct {
	NORADID       int
	Name          string
	Epoch         time.Time
	Line1         string
	Line2         string
	Constellation string // resolved constellation tag, lowercase

	// Classical elements parsed from line 2.
	InclinationDeg  float64
	RAANDeg         float64
	Eccentricity    float64
	ArgPerigeeDeg   float64
	MeanAnomalyDeg  float64
	MeanMotionRevPD float64 // revolutions per day
}

// AgeDays returns the element set's age in days at the given instant.
// Negative when t precedes the epoch.
func (s *Set) AgeDays(t time.Time) float64 {
	return t.Sub(s.Epoch).Hours() / 24.0
}

// EpochRange is the minimum and maximum epoch in a catalog snapshot.
type EpochRange struct {
	Min time.Time
	Max time.Time
}

// Dataset is a complete catalog of element sets from one source.
type Dataset struct {
	Source     string
	LoadedAt   time.Time
	EpochRange EpochRange
	Satellites []Set
}
