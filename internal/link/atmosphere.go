package link

import "math"

// Simplified ITU-R P.676 gaseous absorption: specific attenuation (dB/km)
// for dry air and water vapor below 57 GHz, scaled to the supplied surface
// conditions, then integrated over an equivalent-height slant path with
// cosecant scaling.
//
// Equivalent heights for the dominant absorption layers (km).
const (
	dryAirEquivHeightKm     = 6.0
	waterVaporEquivHeightKm = 2.1
)

// Cosecant path scaling breaks down at grazing incidence; elevations below
// this floor use the floor value instead.
const minPathElevationDeg = 0.5

// specificAttenuationDry returns the dry-air (oxygen) specific attenuation
// in dB/km at frequency f (GHz), pressure p (hPa), temperature t (K).
// Valid below 57 GHz.
func specificAttenuationDry(f, p, t float64) float64 {
	pp := p / 1013.25
	tt := 288.0 / t

	gamma := (7.19e-3 + 6.09/(f*f+0.227) + 4.81/((f-57)*(f-57)+1.50)) * f * f * 1e-3
	return gamma * pp * pp * math.Pow(tt, 2.8)
}

// specificAttenuationWater returns the water-vapor specific attenuation in
// dB/km at frequency f (GHz), temperature t (K), water vapor density rho
// (g/m³). Valid below 350 GHz.
func specificAttenuationWater(f, t, rho float64) float64 {
	tt := 288.0 / t

	gamma := (0.050 + 0.0021*rho +
		3.6/((f-22.2)*(f-22.2)+8.5) +
		10.6/((f-183.3)*(f-183.3)+9.0) +
		8.9/((f-325.4)*(f-325.4)+26.3)) * f * f * rho * 1e-4
	return gamma * math.Pow(tt, 2.5)
}

// atmosphericLossDB returns total gaseous attenuation (dB) along a slant
// path at the given elevation angle (degrees).
func atmosphericLossDB(fGHz, elevationDeg float64, atm Atmosphere) float64 {
	gammaO := specificAttenuationDry(fGHz, atm.PressureHPa, atm.TemperatureK)
	gammaW := specificAttenuationWater(fGHz, atm.TemperatureK, atm.WaterVaporDensity)

	zenithLoss := gammaO*dryAirEquivHeightKm + gammaW*waterVaporEquivHeightKm

	el := elevationDeg
	if el < minPathElevationDeg {
		el = minPathElevationDeg
	}
	return zenithLoss / math.Sin(el*math.Pi/180.0)
}
