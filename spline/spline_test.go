package spline

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = float32(1e-5)

func assertVecNear(t *testing.T, want, got mgl32.Vec3, tolerance float32, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], float64(tolerance), msgAndArgs...)
	}
}

func square() []mgl32.Vec3 {
	return []mgl32.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{-1, 0, 0},
		{0, -1, 0},
	}
}

func TestNewClosedCurveRejectsShortPolygons(t *testing.T) {
	for n := 0; n < MinPoints; n++ {
		_, err := NewClosedCurve(square()[:n])
		assert.ErrorIs(t, err, ErrTooFewPoints, "n=%d", n)
	}
}

func TestNewClosedCurveCopiesPoints(t *testing.T) {
	points := square()
	c, err := NewClosedCurve(points)
	require.NoError(t, err)

	points[0] = mgl32.Vec3{9, 9, 9}
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, c.Point(0))
	assert.Equal(t, 4, c.Len())
}

func TestPointWraps(t *testing.T) {
	c, err := NewClosedCurve(square())
	require.NoError(t, err)

	assert.Equal(t, c.Point(0), c.Point(4))
	assert.Equal(t, c.Point(3), c.Point(-1))
	assert.Equal(t, c.Point(1), c.Point(-7))
}

func TestSquareLoopPassesThroughControlPoints(t *testing.T) {
	c, err := NewClosedCurve(square())
	require.NoError(t, err)

	assertVecNear(t, mgl32.Vec3{1, 0, 0}, c.Evaluate(0), tol)
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, c.Evaluate(4), tol)
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, c.Evaluate(1), tol)
	assertVecNear(t, mgl32.Vec3{-1, 0, 0}, c.Evaluate(2), tol)
	assertVecNear(t, mgl32.Vec3{0, -1, 0}, c.Evaluate(-1), tol)
}

func TestSquareLoopTangentAtStart(t *testing.T) {
	c, err := NewClosedCurve(square())
	require.NoError(t, err)

	// half the chord between the neighbours (0,-1,0) and (0,1,0)
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, c.Derivative(0), tol)
}

func TestEvaluateIsPeriodic(t *testing.T) {
	c, err := NewClosedCurve(UfoPath())
	require.NoError(t, err)
	n := float32(c.Len())

	for tt := float32(-3); tt < 2*n; tt += 0.125 {
		assertVecNear(t, c.Evaluate(tt), c.Evaluate(tt+n), tol, "t=%v", tt)
		assertVecNear(t, c.Derivative(tt), c.Derivative(tt+n), tol, "t=%v", tt)
	}
}

func TestSegmentBoundariesAreContinuous(t *testing.T) {
	c, err := NewClosedCurve(UfoPath())
	require.NoError(t, err)

	for k := 0; k < c.Len(); k++ {
		assertVecNear(t, c.Segment(k, 0), c.Segment(k-1, 1), tol, "position at %d", k)
		assertVecNear(t, c.SegmentDerivative(k, 0), c.SegmentDerivative(k-1, 1), tol, "tangent at %d", k)
		assertVecNear(t, c.Point(k), c.Evaluate(float32(k)), tol, "control point %d", k)
	}
}

func TestDerivativeMatchesFiniteDifference(t *testing.T) {
	c, err := NewClosedCurve(UfoPath())
	require.NoError(t, err)

	const h = float32(1e-2)
	for k := 0; k < c.Len(); k++ {
		for _, u := range []float32{0.25, 0.5, 0.75} {
			tt := float32(k) + u
			numeric := c.Evaluate(tt + h).Sub(c.Evaluate(tt - h)).Mul(1 / (2 * h))
			assertVecNear(t, numeric, c.Derivative(tt), 2e-3, "t=%v", tt)
		}
	}
}

func TestSampleMatchesEvaluateAndDerivative(t *testing.T) {
	c, err := NewClosedCurve(UfoPath())
	require.NoError(t, err)

	for _, tt := range []float32{0, 0.3, 5.5, 11.99, -2.25} {
		pos, tangent := c.Sample(tt)
		assert.Equal(t, c.Evaluate(tt), pos)
		assert.Equal(t, c.Derivative(tt), tangent)
	}
}

func TestVerify(t *testing.T) {
	for name, points := range map[string][]mgl32.Vec3{
		"square": square(),
		"ufo":    UfoPath(),
	} {
		c, err := NewClosedCurve(points)
		require.NoError(t, err, name)
		assert.NoError(t, Verify(c), name)
	}
}

func TestAlignObject(t *testing.T) {
	pos := mgl32.Vec3{0.5, -0.25, 0}
	m := AlignObject(pos, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{0, 0, 1})

	forward := m.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, forward, tol)
	assertVecNear(t, pos, m.Col(3).Vec3(), tol)

	// the frame stays orthonormal
	x, y, z := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	assert.InDelta(t, 1, x.Len(), 1e-5)
	assert.InDelta(t, 1, y.Len(), 1e-5)
	assert.InDelta(t, 0, x.Dot(z), 1e-5)
	assert.InDelta(t, 0, y.Dot(z), 1e-5)
}

func TestAlignObjectDegenerateInputs(t *testing.T) {
	m := AlignObject(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assertVecNear(t, mgl32.Vec3{0, 0, 1}, m.Col(2).Vec3(), tol)

	m = AlignObject(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, 1})
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, m.Col(0).Vec3(), tol)
	for _, v := range m {
		assert.False(t, math32.IsNaN(v))
	}
}
