package keyframe

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// FlockFrameDuration is how long each pose of the bird clip is held.
const FlockFrameDuration = 150 * time.Millisecond

// bird vertices
const (
	nose = iota
	tail
	back
	belly
	leftTip
	rightTip
	leftTrail
	rightTrail
	birdVertices
)

var birdFaces = []uint16{
	nose, back, tail,
	nose, tail, belly,
	nose, leftTip, back,
	back, leftTip, leftTrail,
	nose, back, rightTip,
	back, rightTrail, rightTip,
}

// Flock builds a flapping bird as a looping clip of frames poses. The body is
// fixed, the wing tips travel on one full sine period over the loop.
func Flock(frames int) *Clip {
	if frames < 2 {
		frames = 2
	}
	c := &Clip{
		VertexCount:   birdVertices,
		Frames:        make([][]float32, frames),
		Faces:         append([]uint16(nil), birdFaces...),
		Color:         mgl32.Vec3{0.95, 0.75, 0.2},
		FrameDuration: FlockFrameDuration,
	}
	for f := range c.Frames {
		phase := 2 * math32.Pi * float32(f) / float32(frames)
		lift := 0.6 * math32.Sin(phase)
		// wings fold slightly when raised or lowered
		span := 1 - 0.25*math32.Abs(math32.Sin(phase))

		pose := [birdVertices]mgl32.Vec3{
			nose:       {0, 0, 0.6},
			tail:       {0, 0.05, -0.6},
			back:       {0, 0.1, 0},
			belly:      {0, -0.12, 0},
			leftTip:    {-span, lift, -0.1},
			rightTip:   {span, lift, -0.1},
			leftTrail:  {-0.5 * span, 0.5 * lift, -0.35},
			rightTrail: {0.5 * span, 0.5 * lift, -0.35},
		}
		frame := make([]float32, 0, 3*birdVertices)
		for _, v := range pose {
			frame = append(frame, v[0], v[1], v[2])
		}
		c.Frames[f] = frame
	}
	return c
}
