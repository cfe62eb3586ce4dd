package frames

import (
	"math"

	"github.com/soniakeys/meeus/nutation"
)

// NutationModel selects the nutation series evaluated by the Transformer.
type NutationModel string

const (
	// NutationIAU1980 is the full IAU-1980 nutation series. Default.
	NutationIAU1980 NutationModel = "iau1980"

	// NutationLowPrecision is the low-accuracy approximation from Meeus
	// "Astronomical Algorithms" Ch. 22, good to ~0.5" in Δψ.
	NutationLowPrecision NutationModel = "lowprec"
)

const (
	deg2rad    = math.Pi / 180.0
	arcsec2rad = deg2rad / 3600.0
)

// jdeAtCenturies converts Julian centuries since J2000.0 back to a Julian
// ephemeris date for the series evaluations.
func jdeAtCenturies(t float64) float64 {
	return j2000 + 36525.0*t
}

// meanObliquity returns the mean obliquity of the ecliptic ε0 (radians) for
// Julian centuries T since J2000.0 (IAU-80 expression).
func meanObliquity(t float64) float64 {
	return nutation.MeanObliquity(jdeAtCenturies(t)).Rad()
}

// nutationIAU1980 evaluates the IAU-1980 series at Julian centuries T,
// returning nutation in longitude Δψ and in obliquity Δε (radians).
func nutationIAU1980(t float64) (dpsi, deps float64) {
	dpsiA, depsA := nutation.Nutation(jdeAtCenturies(t))
	return dpsiA.Rad(), depsA.Rad()
}

// nutationLowPrecision evaluates the Meeus Ch. 22 low-accuracy expressions at
// Julian centuries T, returning Δψ and Δε in radians.
func nutationLowPrecision(t float64) (dpsi, deps float64) {
	dpsiA, depsA := nutation.ApproxNutation(jdeAtCenturies(t))
	return dpsiA.Rad(), depsA.Rad()
}

// equationOfEquinoxes returns the difference between apparent and mean
// sidereal time (radians) given nutation in longitude and the mean obliquity.
func equationOfEquinoxes(dpsi, eps0 float64) float64 {
	return dpsi * math.Cos(eps0)
}
