package spline

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// VerifyTolerance is the largest coordinate difference Verify accepts.
const VerifyTolerance = 1e-5

// Verify checks that c is continuous in position and tangent at every
// segment boundary and that it closes on itself. The game runs it once on
// startup before any UFO is spawned.
func Verify(c *Curve) error {
	n := c.Len()
	for k := 0; k < n; k++ {
		end, start := c.Segment(k-1, 1), c.Segment(k, 0)
		if !near(end, start) {
			return fmt.Errorf("spline: position jumps at boundary %d: %v != %v", k, end, start)
		}
		if !near(start, c.Point(k)) {
			return fmt.Errorf("spline: segment %d does not start at its control point: %v != %v", k, start, c.Point(k))
		}
		dEnd, dStart := c.SegmentDerivative(k-1, 1), c.SegmentDerivative(k, 0)
		if !near(dEnd, dStart) {
			return fmt.Errorf("spline: tangent jumps at boundary %d: %v != %v", k, dEnd, dStart)
		}
	}
	if first, last := c.Evaluate(0), c.Evaluate(float32(n)); !near(first, last) {
		return fmt.Errorf("spline: curve is not closed: %v != %v", first, last)
	}
	return nil
}

func near(a, b mgl32.Vec3) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > VerifyTolerance {
			return false
		}
	}
	return true
}
