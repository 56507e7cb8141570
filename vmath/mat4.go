package vmath

import "math"

// Mat4 is a row-major 4x4 matrix applied to column vectors (p' = M·p)
type Mat4 [16]float64

// Vec4 is a homogeneous point
type Vec4 struct {
	X, Y, Z, W float64
}

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// ScaleMat returns a non-uniform scale matrix
func ScaleMat(s Vec3) Mat4 {
	return Mat4{
		s.X, 0, 0, 0,
		0, s.Y, 0, 0,
		0, 0, s.Z, 0,
		0, 0, 0, 1,
	}
}

// RotationY returns a rotation about +Y, matching RotateY
func RotationY(yaw float64) Mat4 {
	s, c := math.Sincos(yaw)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// FromQuat returns the rotation matrix of a unit quaternion (x, y, z, w)
func FromQuat(x, y, z, w float64) Mat4 {
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	return Mat4{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy), 0,
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx), 0,
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// TRS composes translate · yaw · uniform scale
func TRS(pos Vec3, yaw, scale float64) Mat4 {
	return Translate(pos).Mul(RotationY(yaw)).Mul(ScaleMat(Vec3{scale, scale, scale}))
}

// Mul returns m·n
func (m Mat4) Mul(n Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * n[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// MulPoint transforms p with w=1 and returns the homogeneous result
func (m Mat4) MulPoint(p Vec3) Vec4 {
	return Vec4{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
		W: m[12]*p.X + m[13]*p.Y + m[14]*p.Z + m[15],
	}
}

// Apply transforms p and performs the perspective divide
func (m Mat4) Apply(p Vec3) Vec3 {
	h := m.MulPoint(p)
	if h.W == 0 || h.W == 1 {
		return Vec3{h.X, h.Y, h.Z}
	}
	inv := 1 / h.W
	return Vec3{h.X * inv, h.Y * inv, h.Z * inv}
}

// Perspective returns an OpenGL-style projection; fovY in radians
// Clip-space z maps [near, far] to [-1, 1]
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovY/2)
	nf := 1 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, 2 * far * near * nf,
		0, 0, -1, 0,
	}
}

// Orthographic returns an orthographic projection mapping the box to [-1, 1]³
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	return Mat4{
		2 / (right - left), 0, 0, -(right + left) / (right - left),
		0, 2 / (top - bottom), 0, -(top + bottom) / (top - bottom),
		0, 0, -2 / (far - near), -(far + near) / (far - near),
		0, 0, 0, 1,
	}
}

// LookAt returns a view matrix for an eye looking at target
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	if s.LengthSq() == 0 {
		// Looking straight along up, pick any perpendicular
		s = f.Cross(Vec3{0, 0, 1}).Normalize()
	}
	u := s.Cross(f)
	return Mat4{
		s.X, s.Y, s.Z, -s.Dot(eye),
		u.X, u.Y, u.Z, -u.Dot(eye),
		-f.X, -f.Y, -f.Z, f.Dot(eye),
		0, 0, 0, 1,
	}
}
