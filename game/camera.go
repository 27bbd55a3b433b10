package game

import "github.com/go-gl/mathgl/mgl32"

// Camera is a view and projection pair for one frame.
type Camera struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// TopDown looks at the whole play-field from above with a parallel
// projection. The game-over banner is always drawn with it.
func (w *World) TopDown() Camera {
	sc := w.cfg.Scene
	return Camera{
		View: mgl32.LookAtV(
			mgl32.Vec3{0, 0, 1},
			mgl32.Vec3{0, 0, 0},
			mgl32.Vec3{0, 1, 0},
		),
		Projection: mgl32.Ortho(
			-sc.Width, sc.Width,
			-sc.Height, sc.Height,
			-10*sc.Depth, 10*sc.Depth,
		),
	}
}

// Camera returns the active camera for a viewport of the given aspect ratio.
// In free mode it rides the ship, tilted up or down by CameraElevation.
func (w *World) Camera(aspect float32) Camera {
	if !w.FreeCamera {
		return w.TopDown()
	}

	cc := w.cfg.Camera
	position := w.Ship.Position
	up := mgl32.Vec3{0, 0, 1}
	viewDir := w.Ship.Direction

	axis := viewDir.Cross(up)
	if axis.Len() > 0 {
		tilt := mgl32.HomogRotate3D(mgl32.DegToRad(w.CameraElevation), axis.Normalize())
		up = tilt.Mul4x1(up.Vec4(0)).Vec3()
		viewDir = tilt.Mul4x1(viewDir.Vec4(0)).Vec3()
	}

	return Camera{
		View:       mgl32.LookAtV(position, position.Add(viewDir), up),
		Projection: mgl32.Perspective(mgl32.DegToRad(cc.Fov), aspect, cc.Near, cc.Far),
	}
}
