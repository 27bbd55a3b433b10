// Package spline evaluates smooth closed curves through a loop of control
// points. Each segment is a Catmull-Rom cubic built from the segment's two
// end points and their cyclic neighbours, so position and tangent are
// continuous across segment boundaries without extra constraints.
package spline

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MinPoints is the smallest control polygon a cubic segment can be built from.
const MinPoints = 4

// ErrTooFewPoints is returned when a curve is built from fewer than MinPoints points.
var ErrTooFewPoints = errors.New("spline: closed curve needs at least 4 control points")

// Curve is a closed loop through a fixed sequence of control points.
// It is read-only after construction and safe for concurrent use.
type Curve struct {
	points []mgl32.Vec3
}

// NewClosedCurve copies points into a new closed curve.
func NewClosedCurve(points []mgl32.Vec3) (*Curve, error) {
	if len(points) < MinPoints {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	c := &Curve{points: make([]mgl32.Vec3, len(points))}
	copy(c.points, points)
	return c, nil
}

// Len returns the number of control points, which is also the number of segments.
func (c *Curve) Len() int {
	return len(c.points)
}

// Point returns control point i; the index wraps in both directions.
func (c *Curve) Point(i int) mgl32.Vec3 {
	return c.points[wrap(i, len(c.points))]
}

// Segment evaluates segment i (wrapped) at local parameter u in [0,1].
func (c *Curve) Segment(i int, u float32) mgl32.Vec3 {
	return EvaluateSegment(c.Point(i-1), c.Point(i), c.Point(i+1), c.Point(i+2), u)
}

// SegmentDerivative evaluates the tangent of segment i (wrapped) at u.
func (c *Curve) SegmentDerivative(i int, u float32) mgl32.Vec3 {
	return EvaluateSegmentDerivative(c.Point(i-1), c.Point(i), c.Point(i+1), c.Point(i+2), u)
}

// Evaluate returns the position at parameter t. The integer part of t picks
// the segment (modulo Len), the fractional part is the local parameter.
func (c *Curve) Evaluate(t float32) mgl32.Vec3 {
	i, u := c.split(t)
	return c.Segment(i, u)
}

// Derivative returns the first derivative of the curve at t.
func (c *Curve) Derivative(t float32) mgl32.Vec3 {
	i, u := c.split(t)
	return c.SegmentDerivative(i, u)
}

// Sample returns both position and tangent at t.
func (c *Curve) Sample(t float32) (position, tangent mgl32.Vec3) {
	i, u := c.split(t)
	return c.Segment(i, u), c.SegmentDerivative(i, u)
}

func (c *Curve) split(t float32) (int, float32) {
	floor := math32.Floor(t)
	return wrap(int(floor), len(c.points)), t - floor
}

// EvaluateSegment blends four points with the Catmull-Rom basis. The result
// runs from p1 (u=0) to p2 (u=1); p0 and p3 only shape the tangents.
func EvaluateSegment(p0, p1, p2, p3 mgl32.Vec3, u float32) mgl32.Vec3 {
	u2 := u * u
	u3 := u2 * u

	b0 := -u3 + 2*u2 - u
	b1 := 3*u3 - 5*u2 + 2
	b2 := -3*u3 + 4*u2 + u
	b3 := u3 - u2

	return p0.Mul(b0).Add(p1.Mul(b1)).Add(p2.Mul(b2)).Add(p3.Mul(b3)).Mul(0.5)
}

// EvaluateSegmentDerivative is the derivative of EvaluateSegment with respect to u.
func EvaluateSegmentDerivative(p0, p1, p2, p3 mgl32.Vec3, u float32) mgl32.Vec3 {
	u2 := u * u

	d0 := -3*u2 + 4*u - 1
	d1 := 9*u2 - 10*u
	d2 := -9*u2 + 8*u + 1
	d3 := 3*u2 - 2*u

	return p0.Mul(d0).Add(p1.Mul(d1)).Add(p2.Mul(d2)).Add(p3.Mul(d3)).Mul(0.5)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
