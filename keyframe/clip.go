// Package keyframe stores vertex animations as a list of poses that are
// blended on the GPU. The CPU side only decides which two poses are current
// and how far between them the animation is.
package keyframe

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidClip is wrapped by every Validate failure.
var ErrInvalidClip = errors.New("keyframe: invalid clip")

// Clip is a looping vertex animation. Every frame holds xyz for each of the
// VertexCount vertices; all frames share Faces.
type Clip struct {
	VertexCount   int
	Frames        [][]float32
	Faces         []uint16
	Color         mgl32.Vec3
	FrameDuration time.Duration
}

func (c *Clip) Validate() error {
	if c.VertexCount <= 0 {
		return fmt.Errorf("%w: no vertices", ErrInvalidClip)
	}
	if len(c.Frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrInvalidClip)
	}
	// faces are uint16, so more vertices could never be referenced
	if c.VertexCount > maxVertices || len(c.Frames) > maxFrames || len(c.Faces) > maxFaces {
		return fmt.Errorf("%w: %d vertices x %d frames, %d face indices", ErrInvalidClip, c.VertexCount, len(c.Frames), len(c.Faces))
	}
	if c.FrameDuration <= 0 {
		return fmt.Errorf("%w: frame duration %v", ErrInvalidClip, c.FrameDuration)
	}
	for i, f := range c.Frames {
		if len(f) != 3*c.VertexCount {
			return fmt.Errorf("%w: frame %d has %d floats, want %d", ErrInvalidClip, i, len(f), 3*c.VertexCount)
		}
	}
	if len(c.Faces)%3 != 0 {
		return fmt.Errorf("%w: %d face indices is not a triangle list", ErrInvalidClip, len(c.Faces))
	}
	for i, idx := range c.Faces {
		if int(idx) >= c.VertexCount {
			return fmt.Errorf("%w: face index %d at %d out of range", ErrInvalidClip, idx, i)
		}
	}
	return nil
}

// FrameAt maps elapsed animation time to the pair of frames to blend and the
// blend factor t in [0,1). The last frame blends back into the first.
func (c *Clip) FrameAt(elapsed time.Duration) (frame, next int, t float32) {
	if elapsed < 0 {
		elapsed = 0
	}
	n := len(c.Frames)
	step := elapsed / c.FrameDuration
	frame = int(step % time.Duration(n))
	next = (frame + 1) % n
	t = float32(elapsed%c.FrameDuration) / float32(c.FrameDuration)
	return frame, next, t
}

// Pose blends the two current frames on the CPU, exactly as the vertex
// shader does with mix(). dst is reused when it has enough capacity.
func (c *Clip) Pose(elapsed time.Duration, dst []float32) []float32 {
	frame, next, t := c.FrameAt(elapsed)
	a, b := c.Frames[frame], c.Frames[next]
	if cap(dst) < len(a) {
		dst = make([]float32, len(a))
	}
	dst = dst[:len(a)]
	for i := range a {
		dst[i] = a[i] + (b[i]-a[i])*t
	}
	return dst
}

// Lerp is mix(a, b, t).
func Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
