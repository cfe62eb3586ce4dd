package frames

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// j2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00:00 TT).
const j2000 = 2451545.0

// JulianDate converts a time.Time (UTC) to Julian Date.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// centuriesJ2000 returns Julian centuries elapsed since J2000.0 for the given
// Julian Date.
func centuriesJ2000(jd float64) float64 {
	return (jd - j2000) / 36525.0
}

// GMST calculates Greenwich Mean Sidereal Time in radians for a given UT1
// Julian Date. Uses the IAU-82 model as described in Vallado "Fundamentals of
// Astrodynamics".
//
// Formula (Vallado Eq 3-47):
//
//	θ_GMST = 67310.54841 + (876600h + 8640184.812866)*T + 0.093104*T² - 6.2e-6*T³
//
// where T is Julian centuries of UT1 from J2000.0, result is in seconds of time.
func GMST(jdUT1 float64) float64 {
	tUT1 := centuriesJ2000(jdUT1)

	// GMST in seconds of time.
	// 876600h = 876600 * 3600 = 3155760000 seconds.
	gmstSec := 67310.54841 +
		(3155760000.0+8640184.812866)*tUT1 +
		0.093104*tUT1*tUT1 -
		6.2e-6*tUT1*tUT1*tUT1

	// Normalize to [0, 86400) seconds, then convert to radians.
	gmstSec = math.Mod(gmstSec, 86400.0)
	if gmstSec < 0 {
		gmstSec += 86400.0
	}
	return gmstSec / 86400.0 * 2.0 * math.Pi
}
