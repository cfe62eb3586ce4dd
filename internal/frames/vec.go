package frames

import "math"

// Vec3 is a 3D vector in whatever frame the caller is working in.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Sub returns v - u.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the dot product of v and u.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// rotX rotates v about the X axis by angle a (radians).
func rotX(v Vec3, a float64) Vec3 {
	c, s := math.Cos(a), math.Sin(a)
	return Vec3{
		X: v.X,
		Y: c*v.Y + s*v.Z,
		Z: -s*v.Y + c*v.Z,
	}
}

// rotY rotates v about the Y axis by angle a (radians).
func rotY(v Vec3, a float64) Vec3 {
	c, s := math.Cos(a), math.Sin(a)
	return Vec3{
		X: c*v.X - s*v.Z,
		Y: v.Y,
		Z: s*v.X + c*v.Z,
	}
}

// rotZ rotates v about the Z axis by angle a (radians).
func rotZ(v Vec3, a float64) Vec3 {
	c, s := math.Cos(a), math.Sin(a)
	return Vec3{
		X: c*v.X + s*v.Y,
		Y: -s*v.X + c*v.Y,
		Z: v.Z,
	}
}
