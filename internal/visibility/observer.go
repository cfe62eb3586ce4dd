package visibility

import (
	"math"

	"github.com/cedarwud/orbit-engine-sub008/internal/frames"
)

// Observer holds a ground observer's location in both geodetic and ECEF
// frames. ECEF coordinates are precomputed once so they can be reused across
// many satellite lookups.
type Observer struct {
	LatDeg, LonDeg, AltKm float64
	ECEF                  frames.Vec3 // km
}

// NewObserver creates an Observer from geodetic coordinates. Latitude and
// longitude are in degrees, altitude in kilometers above the WGS-84
// ellipsoid.
func NewObserver(latDeg, lonDeg, altKm float64) Observer {
	return Observer{
		LatDeg: latDeg,
		LonDeg: lonDeg,
		AltKm:  altKm,
		ECEF:   frames.GeodeticToECEF(latDeg, lonDeg, altKm),
	}
}

// LookAngles holds azimuth, elevation, and slant range from an observer to a
// satellite.
type LookAngles struct {
	AzimuthDeg   float64 // 0 = North, clockwise
	ElevationDeg float64 // 0 = horizon, 90 = zenith
	RangeKm      float64
}

// LookAnglesTo computes azimuth, elevation, and range from the observer to a
// satellite position in ECEF kilometers.
//
// Uses the SEZ (South-East-Zenith) topocentric rotation per Vallado
// Section 4.4. Azimuth: 0 = North, measured clockwise. Elevation: 0 =
// horizon, 90 = zenith.
func (o Observer) LookAnglesTo(sat frames.Vec3) LookAngles {
	// Range vector in ECEF.
	r := sat.Sub(o.ECEF)

	lat := o.LatDeg * math.Pi / 180.0
	lon := o.LonDeg * math.Pi / 180.0
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	sinLon := math.Sin(lon)
	cosLon := math.Cos(lon)

	// Rotate ECEF range vector to SEZ (South, East, Zenith).
	south := sinLat*cosLon*r.X + sinLat*sinLon*r.Y - cosLat*r.Z
	east := -sinLon*r.X + cosLon*r.Y
	zenith := cosLat*cosLon*r.X + cosLat*sinLon*r.Y + sinLat*r.Z

	rangeMag := math.Sqrt(south*south + east*east + zenith*zenith)

	// Elevation: angle above horizon.
	el := math.Asin(zenith / rangeMag)

	// Azimuth: measured clockwise from North.
	// In SEZ, North = -South direction, so az = atan2(east, -south).
	az := math.Atan2(east, -south)
	if az < 0 {
		az += 2 * math.Pi
	}

	return LookAngles{
		AzimuthDeg:   az * 180.0 / math.Pi,
		ElevationDeg: el * 180.0 / math.Pi,
		RangeKm:      rangeMag,
	}
}
