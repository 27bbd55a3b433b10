package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pgrlab/asteroids/spline"
)

var zAxis = mgl32.Vec3{0, 0, 1}

// missiles spin around their flight axis this many times per second
const missileSpinFrequency = 2

// UFO hull colours pulse with this frequency
const ufoPulseFrequency = 0.33

// ModelMatrix places e in the world. Billboards are not handled here, see
// BillboardMatrix.
func ModelMatrix(e Entity) mgl32.Mat4 {
	o := e.Base()
	scale := mgl32.Scale3D(o.Size, o.Size, o.Size)

	switch v := e.(type) {
	case *SpaceShip:
		return mgl32.Translate3D(o.Position.Elem()).
			Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(v.ViewAngle))).
			Mul4(scale)
	case *Asteroid:
		angle := v.RotationSpeed * v.Age()
		return mgl32.Translate3D(o.Position.Elem()).
			Mul4(scale).
			Mul4(mgl32.HomogRotate3DZ(angle))
	case *Missile:
		angle := 2 * math32.Pi * missileSpinFrequency * v.Age()
		return spline.AlignObject(o.Position, o.Direction, zAxis).
			Mul4(scale).
			Mul4(mgl32.HomogRotate3DZ(angle))
	case *Ufo:
		return spline.AlignObject(o.Position, o.Direction, zAxis).Mul4(scale)
	default:
		return mgl32.Translate3D(o.Position.Elem()).Mul4(scale)
	}
}

// BillboardMatrix turns a quad in the XY plane towards the camera by undoing
// the rotation part of view.
func BillboardMatrix(o *Object, view mgl32.Mat4) mgl32.Mat4 {
	rot := view.Mat3().Transpose().Mat4()
	return mgl32.Translate3D(o.Position.Elem()).
		Mul4(mgl32.Scale3D(o.Size, o.Size, o.Size)).
		Mul4(rot)
}

// NormalMatrix is the inverse transpose of the upper 3x3 part of model.
func NormalMatrix(model mgl32.Mat4) mgl32.Mat4 {
	return model.Mat3().Inv().Transpose().Mat4()
}

// SkyboxInversePV maps NDC points of the far plane back to world directions.
// The translation of view is dropped so the sky never moves with the camera.
func SkyboxInversePV(cam Camera) mgl32.Mat4 {
	rot := cam.View
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return cam.Projection.Mul4(rot).Inv()
}

// UfoPulse is the weight in [0,1] of the blinking top colour of u.
func UfoPulse(u *Ufo) float32 {
	angle := 2 * math32.Pi * ufoPulseFrequency * u.Age()
	return 0.5 * (math32.Cos(angle) + 1)
}
