package collision

import "github.com/go-gl/mathgl/mgl32"

// Field is a rectangular play-field centred on the origin in the XY plane.
// Objects leaving one edge reappear on the opposite one.
type Field struct {
	HalfWidth  float32
	HalfHeight float32
}

// DefaultField is the unit scene the asteroids game is played in.
var DefaultField = Field{HalfWidth: 1, HalfHeight: 1}

// Contains reports whether an object of the given size at position is still
// (at least partly) visible, i.e. Wrap would leave it where it is.
func (f Field) Contains(position mgl32.Vec3, objectSize float32) bool {
	w, h := f.HalfWidth+objectSize, f.HalfHeight+objectSize
	return position.X() >= -w && position.X() <= w &&
		position.Y() >= -h && position.Y() <= h
}

// Wrap moves an object that left the field completely to the opposite edge.
// Z is not touched.
func (f Field) Wrap(position mgl32.Vec3, objectSize float32) mgl32.Vec3 {
	w, h := f.HalfWidth+objectSize, f.HalfHeight+objectSize
	wrapped := position

	if position.X() > w {
		wrapped[0] = -w
	} else if position.X() < -w {
		wrapped[0] = w
	}

	if position.Y() > h {
		wrapped[1] = -h
	} else if position.Y() < -h {
		wrapped[1] = h
	}

	return wrapped
}

// CheckBounds wraps position against DefaultField.
func CheckBounds(position mgl32.Vec3, objectSize float32) mgl32.Vec3 {
	return DefaultField.Wrap(position, objectSize)
}
