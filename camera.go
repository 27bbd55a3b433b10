package main

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	minScale  = 0.1
	maxScale  = 2.0
	scaleStep = 1.1
	// degrees of rotation per pixel of mouse drag
	dragSensitivity = 0.5
	// distance of the model from the eye
	modelDistance = 3
)

// Turntable rotates and scales the model in front of a fixed eye. Dragging
// the mouse changes yaw and pitch, the arrow keys change the scale.
type Turntable struct {
	yaw, pitch float32 // degrees
	scale      float32

	dragging               bool
	lastMouseX, lastMouseY float64
}

func NewTurntable() *Turntable {
	return &Turntable{scale: 1}
}

// startDrag remembers where a drag began so the first motion event does not
// jump.
func (t *Turntable) startDrag(x, y float64) {
	t.dragging = true
	t.lastMouseX, t.lastMouseY = x, y
}

func (t *Turntable) stopDrag() {
	t.dragging = false
}

func (t *Turntable) processMouseMovement(x, y float64) {
	if !t.dragging {
		return
	}
	xOffset := float32(x - t.lastMouseX)
	yOffset := float32(y - t.lastMouseY)
	t.lastMouseX, t.lastMouseY = x, y

	t.yaw += xOffset * dragSensitivity
	t.pitch += yOffset * dragSensitivity
}

func (t *Turntable) grow() {
	t.scale = min(t.scale*scaleStep, maxScale)
}

func (t *Turntable) shrink() {
	t.scale = max(t.scale/scaleStep, minScale)
}

// modelMatrix pushes the model away from the eye and applies pitch, then yaw.
// Scaling is left to the vertex shader.
func (t *Turntable) modelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, -modelDistance).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.pitch))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.yaw)))
}
