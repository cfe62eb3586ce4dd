package frames

import (
	"math"
	"time"
)

// WGS-84 ellipsoid parameters (kilometers).
const (
	WGS84A  = 6378.137              // semi-major axis (km)
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// altitudeSanityFloorKm is the lowest altitude considered plausible for a
// propagated sample. Samples below it are flagged, not clamped.
const altitudeSanityFloorKm = -1.0

// GeodeticSample is a satellite position in WGS-84 geodetic coordinates at a
// single instant.
type GeodeticSample struct {
	Time   time.Time
	LatDeg float64 // [-90, 90]
	LonDeg float64 // [-180, 180)
	AltKm  float64 // above the WGS-84 ellipsoid
}

// BelowSanityFloor reports whether the sample's altitude violates the sanity
// bound for Earth-orbiting objects.
func (g GeodeticSample) BelowSanityFloor() bool {
	return g.AltKm < altitudeSanityFloorKm
}

// ECEFToGeodetic converts an ECEF position (km) to geodetic coordinates
// using the iterative Bowring method. Converges in 2-3 iterations for Earth
// orbits.
func ECEFToGeodetic(p Vec3) (latDeg, lonDeg, altKm float64) {
	lon := math.Atan2(p.Y, p.X)

	rho := math.Sqrt(p.X*p.X + p.Y*p.Y)

	// Initial estimate using Bowring's method.
	lat := math.Atan2(p.Z, rho*(1-wgs84E2))

	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		n := WGS84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(p.Z+wgs84E2*n*sinLat, rho)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := WGS84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = rho/cosLat - n
	} else {
		alt = math.Abs(p.Z)/math.Abs(sinLat) - n*(1-wgs84E2)
	}

	lonDeg = lon / deg2rad
	// atan2 yields (-180, 180]; the convention here is [-180, 180).
	if lonDeg >= 180.0 {
		lonDeg -= 360.0
	}
	return lat / deg2rad, lonDeg, alt
}

// GeodeticToECEF converts geodetic coordinates (degrees, km) to an ECEF
// position vector (km).
func GeodeticToECEF(latDeg, lonDeg, altKm float64) Vec3 {
	lat := latDeg * deg2rad
	lon := lonDeg * deg2rad

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Radius of curvature in the prime vertical.
	n := WGS84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return Vec3{
		X: (n + altKm) * cosLat * math.Cos(lon),
		Y: (n + altKm) * cosLat * math.Sin(lon),
		Z: (n*(1-wgs84E2) + altKm) * sinLat,
	}
}
