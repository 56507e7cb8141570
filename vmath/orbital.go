package vmath

import "math"

// CirclePoint returns the position on a horizontal circle of the given radius
// at angle t*speed, measured from +Z toward +X
// Positive speed traverses +Z → +X, negative speed the opposite way
func CirclePoint(t, speed, radius float64) (x, z float64) {
	s, c := math.Sincos(t * speed)
	return s * radius, c * radius
}

// CirclePeriod returns seconds per revolution, or +Inf for a stationary body
func CirclePeriod(speed float64) float64 {
	if speed == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / math.Abs(speed)
}

// Spherical converts radius, polar (from +Y) and azimuth (from +Z toward +X)
// into a cartesian offset
func Spherical(radius, polar, azimuth float64) Vec3 {
	sp, cp := math.Sincos(polar)
	sa, ca := math.Sincos(azimuth)
	return Vec3{
		X: radius * sp * sa,
		Y: radius * cp,
		Z: radius * sp * ca,
	}
}

// ToSpherical is the inverse of Spherical
func ToSpherical(v Vec3) (radius, polar, azimuth float64) {
	radius = v.Length()
	if radius == 0 {
		return 0, 0, 0
	}
	polar = math.Acos(Clamp(v.Y/radius, -1, 1))
	azimuth = math.Atan2(v.X, v.Z)
	return radius, polar, azimuth
}
