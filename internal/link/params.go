package link

import "fmt"

// Atmosphere holds the externally supplied atmospheric state used by the
// gaseous-attenuation model. Nothing here is ever defaulted: missing values
// fail run configuration, because a silently assumed atmosphere would bias
// the dataset.
type Atmosphere struct {
	TemperatureK      float64
	PressureHPa       float64
	WaterVaporDensity float64 // g/m³
}

// ClassBands are the fixed SINR thresholds (dB) separating the four quality
// classes. A sample is excellent when SINR ≥ Excellent, good when ≥ Good,
// fair when ≥ Fair, otherwise poor. Configuration input, never computed
// from the data.
type ClassBands struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// Params is the full link-budget parameterization for a Scorer.
type Params struct {
	CarrierGHz    float64
	BandwidthHz   float64
	EIRPDBm       float64 // transmit EIRP
	RxGainDBi     float64 // receive antenna gain
	NoiseFigureDB float64
	SystemTempK   float64 // receive system noise temperature
	Atmosphere    Atmosphere
	Bands         ClassBands
}

// Validate reports the first missing or implausible required field. Used at
// configuration load, before the parallel phase starts.
func (p Params) Validate() error {
	switch {
	case p.CarrierGHz <= 0:
		return fmt.Errorf("carrier frequency must be positive, got %g GHz", p.CarrierGHz)
	case p.CarrierGHz >= 57:
		return fmt.Errorf("carrier frequency %g GHz is above the 57 GHz validity limit of the attenuation model", p.CarrierGHz)
	case p.BandwidthHz <= 0:
		return fmt.Errorf("bandwidth must be positive, got %g Hz", p.BandwidthHz)
	case p.SystemTempK <= 0:
		return fmt.Errorf("system temperature must be positive, got %g K", p.SystemTempK)
	case p.Atmosphere.TemperatureK <= 0:
		return fmt.Errorf("atmospheric temperature must be positive, got %g K", p.Atmosphere.TemperatureK)
	case p.Atmosphere.PressureHPa <= 0:
		return fmt.Errorf("atmospheric pressure must be positive, got %g hPa", p.Atmosphere.PressureHPa)
	case p.Atmosphere.WaterVaporDensity < 0:
		return fmt.Errorf("water vapor density must be non-negative, got %g g/m³", p.Atmosphere.WaterVaporDensity)
	case p.Bands.Excellent <= p.Bands.Good || p.Bands.Good <= p.Bands.Fair:
		return fmt.Errorf("quality class bands must be strictly decreasing: excellent %g > good %g > fair %g",
			p.Bands.Excellent, p.Bands.Good, p.Bands.Fair)
	}
	return nil
}
