package spline

import "github.com/go-gl/mathgl/mgl32"

const alignEpsilon = 1e-6

// AlignObject builds a model matrix that places an object at position with
// its local -Z axis pointing along front and its Y axis as close to up as
// possible. Degenerate front or up vectors fall back to the canonical axes.
func AlignObject(position, front, up mgl32.Vec3) mgl32.Mat4 {
	z := mgl32.Vec3{0, 0, 1}
	if front.Len() > alignEpsilon {
		z = front.Normalize().Mul(-1)
	}

	x := mgl32.Vec3{1, 0, 0}
	if side := up.Cross(z); side.Len() > alignEpsilon {
		x = side.Normalize()
	}

	y := z.Cross(x)

	return mgl32.Mat4{
		x.X(), x.Y(), x.Z(), 0,
		y.X(), y.Y(), y.Z(), 0,
		z.X(), z.Y(), z.Z(), 0,
		position.X(), position.Y(), position.Z(), 1,
	}
}
