package frames

// precessionAngles returns the IAU-76 equatorial precession angles ζ, θ, z
// (radians) for Julian centuries T since J2000.0 (Vallado Eq 3-56).
func precessionAngles(t float64) (zeta, theta, z float64) {
	t2 := t * t
	t3 := t2 * t
	zeta = (2306.2181*t + 0.30188*t2 + 0.017998*t3) * arcsec2rad
	theta = (2004.3109*t - 0.42665*t2 - 0.041833*t3) * arcsec2rad
	z = (2306.2181*t + 1.09468*t2 + 0.018203*t3) * arcsec2rad
	return
}

// precessJ2000ToMOD rotates a J2000 (mean equator, mean equinox of J2000)
// vector to mean-of-date: r_MOD = R3(-z) R2(θ) R3(-ζ) r_J2000.
func precessJ2000ToMOD(v Vec3, t float64) Vec3 {
	zeta, theta, z := precessionAngles(t)
	return rotZ(rotY(rotZ(v, -zeta), theta), -z)
}

// nutateMODToTOD rotates a mean-of-date vector to true-of-date:
// r_TOD = R1(-ε) R3(-Δψ) R1(ε0) r_MOD, with ε = ε0 + Δε.
func nutateMODToTOD(v Vec3, eps0, dpsi, deps float64) Vec3 {
	eps := eps0 + deps
	return rotX(rotZ(rotX(v, eps0), -dpsi), -eps)
}
