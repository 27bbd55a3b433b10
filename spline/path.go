package spline

import "github.com/go-gl/mathgl/mgl32"

// UfoPath returns the control polygon of the figure-eight loop flown by UFOs.
// The loop is centred on the origin and spans the unit play-field.
func UfoPath() []mgl32.Vec3 {
	return []mgl32.Vec3{
		{0.00, 0.00, 0.0},
		{-0.33, 0.35, 0.0},
		{-0.66, 0.35, 0.0},
		{-1.00, 0.00, 0.0},
		{-0.66, -0.35, 0.0},
		{-0.33, -0.35, 0.0},
		{0.00, 0.00, 0.0},
		{0.33, 0.35, 0.0},
		{0.66, 0.35, 0.0},
		{1.00, 0.00, 0.0},
		{0.66, -0.35, 0.0},
		{0.33, -0.35, 0.0},
	}
}
