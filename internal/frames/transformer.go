// Package frames provides the coordinate transformations between propagated
// inertial state vectors and WGS-84 geodetic positions.
//
// The full chain for a true-equator (TEME) input is: rotation by apparent
// sidereal time (GMST plus the equation of the equinoxes) into the pseudo
// Earth-fixed frame, then polar motion into ITRF, then the iterative
// ECEF→geodetic conversion. J2000 inputs are first brought to true-of-date
// via IAU-76 precession and the selected nutation series.
//
// Reference: Vallado, "Fundamentals of Astrodynamics and Applications", Ch. 3.
package frames

import (
	"fmt"
	"math"
	"time"
)

// Frame tags a state vector's reference frame.
type Frame string

const (
	// FrameTEME is the true equator, mean equinox frame produced by SGP4.
	FrameTEME Frame = "TEME"

	// FrameJ2000 is the mean equator, mean equinox of J2000.0 frame.
	FrameJ2000 Frame = "J2000"
)

// StateVector is a satellite position/velocity in an inertial frame at a
// single instant.
type StateVector struct {
	Time           time.Time
	Position       Vec3 // km
	Velocity       Vec3 // km/s
	Frame          Frame
	ElementAgeDays float64 // time since the source element epoch
}

// FrameCorrectionError reports that a time-dependent frame correction could
// not be evaluated for the given instant. The transform never falls back to
// an identity rotation.
type FrameCorrectionError struct {
	Time   time.Time
	Model  string
	Reason string
}

func (e *FrameCorrectionError) Error() string {
	return fmt.Sprintf("frame correction %s at %s: %s",
		e.Model, e.Time.UTC().Format(time.RFC3339), e.Reason)
}

// TransformConfig holds the externally supplied Earth-orientation values and
// model selection for a Transformer.
type TransformConfig struct {
	Nutation NutationModel // empty selects NutationIAU1980

	// Earth-orientation parameters. Small and slowly varying; supplied by
	// the run configuration rather than an online EOP service.
	PolarXArcsec float64 // xp
	PolarYArcsec float64 // yp
	DeltaUT1Sec  float64 // UT1 - UTC, |value| < 0.9 s

	// ValidityYears bounds the time span (either side of J2000.0) over
	// which the precession/nutation polynomials are trusted. Zero selects
	// the default of 150 years.
	ValidityYears float64
}

const defaultValidityYears = 150.0

// Transformer converts inertial state vectors to geodetic samples. It is
// immutable after construction and safe for concurrent use.
type Transformer struct {
	nutate   func(t float64) (dpsi, deps float64)
	model    NutationModel
	xpRad    float64
	ypRad    float64
	dut1Days float64
	spanDays float64
}

// NewTransformer validates the configuration and returns a Transformer.
func NewTransformer(cfg TransformConfig) (*Transformer, error) {
	model := cfg.Nutation
	if model == "" {
		model = NutationIAU1980
	}

	var nutate func(t float64) (float64, float64)
	switch model {
	case NutationIAU1980:
		nutate = nutationIAU1980
	case NutationLowPrecision:
		nutate = nutationLowPrecision
	default:
		return nil, fmt.Errorf("unknown nutation model %q", model)
	}

	if math.Abs(cfg.DeltaUT1Sec) >= 0.9 {
		return nil, fmt.Errorf("delta UT1 %.3f s out of range (-0.9, 0.9)", cfg.DeltaUT1Sec)
	}

	years := cfg.ValidityYears
	if years == 0 {
		years = defaultValidityYears
	}

	return &Transformer{
		nutate:   nutate,
		model:    model,
		xpRad:    cfg.PolarXArcsec * arcsec2rad,
		ypRad:    cfg.PolarYArcsec * arcsec2rad,
		dut1Days: cfg.DeltaUT1Sec / 86400.0,
		spanDays: years * 365.25,
	}, nil
}

// ToGeodetic converts an inertial state vector to a geodetic sample,
// applying precession (J2000 input only), nutation, Earth rotation, and
// polar motion in order. Pure: the same input always yields the same output.
func (tr *Transformer) ToGeodetic(sv StateVector) (GeodeticSample, error) {
	itrf, err := tr.ToITRF(sv)
	if err != nil {
		return GeodeticSample{}, err
	}

	lat, lon, alt := ECEFToGeodetic(itrf)
	return GeodeticSample{
		Time:   sv.Time,
		LatDeg: lat,
		LonDeg: lon,
		AltKm:  alt,
	}, nil
}

// ToITRF converts an inertial position to the Earth-fixed ITRF frame (km).
func (tr *Transformer) ToITRF(sv StateVector) (Vec3, error) {
	jdUTC := JulianDate(sv.Time)
	if math.Abs(jdUTC-j2000) > tr.spanDays {
		return Vec3{}, &FrameCorrectionError{
			Time:   sv.Time,
			Model:  string(tr.model),
			Reason: fmt.Sprintf("epoch outside ±%.0f day model validity span", tr.spanDays),
		}
	}

	t := centuriesJ2000(jdUTC) // TT-UTC difference is negligible at this precision
	eps0 := meanObliquity(t)
	dpsi, deps := tr.nutate(t)

	var tod Vec3
	switch sv.Frame {
	case FrameTEME:
		// TEME already sits on the true equator; only the equinox origin
		// differs, which the apparent sidereal angle below absorbs.
		tod = sv.Position
	case FrameJ2000:
		tod = nutateMODToTOD(precessJ2000ToMOD(sv.Position, t), eps0, dpsi, deps)
	default:
		return Vec3{}, &FrameCorrectionError{
			Time:   sv.Time,
			Model:  string(tr.model),
			Reason: fmt.Sprintf("unsupported input frame %q", sv.Frame),
		}
	}

	// Earth rotation: TEME rotates by GMST alone, true-of-date by the
	// apparent sidereal angle GMST + EqEquinox (Vallado Sec. 3.7).
	angle := GMST(jdUTC + tr.dut1Days)
	if sv.Frame == FrameJ2000 {
		angle += equationOfEquinoxes(dpsi, eps0)
	}
	pef := rotZ(tod, angle)

	// Polar motion: r_ITRF = R2(xp) R1(yp) r_PEF.
	return rotY(rotX(pef, tr.ypRad), tr.xpRad), nil
}

// ToGeodeticCoarse converts a TEME state vector to geodetic using the
// GMST-only rotation, skipping nutation and polar motion (tens of meters of
// error at most). Only valid on the pre-filter path, where the sample is
// already known to be far below the horizon and the residual error cannot
// affect classification.
func (tr *Transformer) ToGeodeticCoarse(sv StateVector) GeodeticSample {
	pef := rotZ(sv.Position, GMST(JulianDate(sv.Time)+tr.dut1Days))
	lat, lon, alt := ECEFToGeodetic(pef)
	return GeodeticSample{
		Time:   sv.Time,
		LatDeg: lat,
		LonDeg: lon,
		AltKm:  alt,
	}
}

// Model returns the nutation model the transformer was built with.
func (tr *Transformer) Model() NutationModel {
	return tr.model
}

// SubHorizonFast is a cheap geocentric-angle rejection test: it reports true
// only when the satellite cannot possibly be above the observer's horizon,
// so callers may skip the full transform chain for such samples. It is
// conservative and never changes a connectable classification; samples that
// pass it are still classified exactly downstream.
func SubHorizonFast(sv StateVector, observerECEF Vec3, jdUT1 float64) bool {
	// Rotate the observer into the inertial frame by -GMST; polar motion
	// and nutation move the result by well under the margin below.
	inertialObs := rotZ(observerECEF, -GMST(jdUT1))

	r := sv.Position.Norm()
	if r <= WGS84A {
		return false // implausible input, let the full chain report it
	}

	// Central angle between observer and sub-satellite point beyond which
	// the satellite is geometrically below the horizon: acos(Re/r), padded
	// by 2 degrees for ellipsoid flattening and frame simplifications.
	cosAngle := sv.Position.Dot(inertialObs) / (r * inertialObs.Norm())
	limit := math.Acos(WGS84A/r) + 2.0*deg2rad

	return math.Acos(cosAngle) > limit
}
