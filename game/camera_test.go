package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func project(cam Camera, p mgl32.Vec3) mgl32.Vec3 {
	clip := cam.Projection.Mul4(cam.View).Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

func assertMatNear(t *testing.T, want, got mgl32.Mat4, tolerance float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tolerance, "element %d", i)
	}
}

func TestTopDownCoversField(t *testing.T) {
	w := emptyWorld(t)
	cam := w.Camera(1.5)

	ndc := project(cam, mgl32.Vec3{1, 1, 0})
	assert.InDelta(t, 1, ndc.X(), 1e-5)
	assert.InDelta(t, 1, ndc.Y(), 1e-5)

	ndc = project(cam, mgl32.Vec3{-0.5, 0.25, 0})
	assert.InDelta(t, -0.5, ndc.X(), 1e-5)
	assert.InDelta(t, 0.25, ndc.Y(), 1e-5)
}

func TestFreeCameraLooksAlongShip(t *testing.T) {
	w := emptyWorld(t)
	w.Ship.Position = mgl32.Vec3{0.2, -0.3, 0}
	w.TurnRight(45)
	assert.True(t, w.ToggleFreeCamera())

	ahead := w.Ship.Position.Add(w.Ship.Direction)
	ndc := project(w.Camera(1), ahead)
	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.True(t, ndc.Z() > -1 && ndc.Z() < 1)

	// tilting the camera up moves the point ahead below the centre
	w.AdjustElevation(20)
	ndc = project(w.Camera(1), ahead)
	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.Less(t, ndc.Y(), float32(-0.1))

	assert.False(t, w.ToggleFreeCamera())
	assert.Equal(t, w.TopDown(), w.Camera(1))
}

func TestShipModelMatrix(t *testing.T) {
	w := emptyWorld(t)
	w.Ship.Position = mgl32.Vec3{0.5, 0.5, 0}

	m := ModelMatrix(&w.Ship)
	nose := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assertVecNear(t, w.Ship.Position.Add(w.Ship.Direction.Mul(w.Ship.Size)), nose, 1e-5)
}

func TestAsteroidModelMatrixSpins(t *testing.T) {
	a := &Asteroid{Object: Object{Position: mgl32.Vec3{0.1, 0, 0}, Size: 0.5, CurrentTime: 2}, RotationSpeed: 0.25}

	p := ModelMatrix(a).Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	// rotated by 0.5 rad, then scaled and moved
	assertVecNear(t, mgl32.Vec3{0.1 + 0.5*0.87758255, 0.5 * 0.47942555, 0}, p, 1e-5)
}

func TestMissileAndUfoFaceTheirDirection(t *testing.T) {
	dir := mgl32.Vec3{0, -1, 0}
	for _, e := range []Entity{
		&Missile{Object: Object{Position: mgl32.Vec3{0.3, 0.3, 0}, Direction: dir, Size: 0.01, CurrentTime: 0.1}},
		&Ufo{Object: Object{Position: mgl32.Vec3{0.3, 0.3, 0}, Direction: dir, Size: 0.05}},
	} {
		m := ModelMatrix(e)
		forward := m.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3().Normalize()
		assertVecNear(t, dir, forward, 1e-5, e.Kind().String())
		assertVecNear(t, e.Base().Position, m.Col(3).Vec3(), 1e-6, e.Kind().String())
	}
}

func TestBillboardFacesCamera(t *testing.T) {
	w := emptyWorld(t)
	w.TurnLeft(30)
	w.ToggleFreeCamera()
	w.AdjustElevation(15)
	cam := w.Camera(1)

	e := &Explosion{Object: Object{Position: mgl32.Vec3{0.1, 0.4, 0}, Size: 0.1}}
	mv := cam.View.Mul4(BillboardMatrix(&e.Object, cam.View))
	assertMatNear(t, mgl32.Scale3D(0.1, 0.1, 0.1).Mat3().Mat4(), mv.Mat3().Mat4(), 1e-5)
}

func TestSkyboxInversePV(t *testing.T) {
	w := emptyWorld(t)
	w.ToggleFreeCamera()
	w.Ship.Position = mgl32.Vec3{0.4, 0.4, 0}
	cam := w.Camera(4.0 / 3)

	rot := cam.View
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	assertMatNear(t, mgl32.Ident4(), SkyboxInversePV(cam).Mul4(cam.Projection.Mul4(rot)), 1e-4)
}

func TestNormalMatrix(t *testing.T) {
	model := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	n := NormalMatrix(model)
	normal := n.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	assertVecNear(t, mgl32.Vec3{0, 0, 0.5}, normal, 1e-6)
}

func TestUfoPulse(t *testing.T) {
	u := &Ufo{}
	assert.InDelta(t, 1, UfoPulse(u), 1e-6)
	u.CurrentTime = 0.5 / ufoPulseFrequency
	assert.InDelta(t, 0, UfoPulse(u), 1e-5)
}
