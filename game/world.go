// Package game simulates the asteroids world: a ship steered by the player,
// asteroids that split when hit, UFOs flying along a closed spline, missiles,
// explosions and the game-over banner. It has no rendering dependencies; all
// state lives in a World that the frontend ticks and draws.
package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pgrlab/asteroids/collision"
	"github.com/pgrlab/asteroids/settings"
	"github.com/pgrlab/asteroids/spline"
)

// Key is a held control. Keys are sampled once per tick.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	keyCount
)

// Event is something the frontend may want to react to, e.g. with a sound.
type Event int

const (
	EventExplosion Event = iota + 1
	EventMissileFired
	EventGameOver
)

// World owns every entity of a running game.
type World struct {
	cfg   settings.Settings
	rng   *rand.Rand
	field collision.Field
	path  *spline.Curve

	Ship       SpaceShip
	Asteroids  []Asteroid
	Missiles   []Missile
	Ufos       []Ufo
	Explosions []Explosion
	Banner     *Banner

	GameOver        bool
	FreeCamera      bool
	CameraElevation float32 // degrees

	keys    [keyCount]bool
	elapsed float32
	events  []Event

	missileLaunchTime    float32
	ufoMissileLaunchTime float32
}

// NewWorld creates a world and starts the first game at time 0.
func NewWorld(cfg settings.Settings, rng *rand.Rand) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	path, err := spline.NewClosedCurve(spline.UfoPath())
	if err != nil {
		return nil, fmt.Errorf("ufo path: %w", err)
	}
	if err := spline.Verify(path); err != nil {
		return nil, fmt.Errorf("ufo path: %w", err)
	}

	w := &World{
		cfg:   cfg,
		rng:   rng,
		field: cfg.Field(),
		path:  path,
	}
	w.Restart(0)
	return w, nil
}

func (w *World) Settings() settings.Settings { return w.cfg }

// Elapsed is the time of the last tick.
func (w *World) Elapsed() float32 { return w.elapsed }

// Restart throws away every object and starts a new game at now.
func (w *World) Restart(now float32) {
	w.elapsed = now
	w.Asteroids = w.Asteroids[:0]
	w.Missiles = w.Missiles[:0]
	w.Ufos = w.Ufos[:0]
	w.Explosions = w.Explosions[:0]
	w.Banner = nil

	w.Ship = SpaceShip{
		Object: Object{
			Size:        w.cfg.Ship.Size,
			StartTime:   now,
			CurrentTime: now,
		},
	}
	w.setViewAngle(90)

	for i := 0; i < w.cfg.Asteroids.CountMin; i++ {
		w.Asteroids = append(w.Asteroids, w.newAsteroid())
	}

	w.FreeCamera = false
	w.CameraElevation = 0
	w.keys = [keyCount]bool{}
	w.GameOver = false
	w.missileLaunchTime = now - w.cfg.Missiles.LaunchDelay
	w.ufoMissileLaunchTime = now - w.cfg.Missiles.LaunchDelay
}

// SetKey records a key press or release. Presses are ignored once the game
// is over; releases always go through so nothing stays stuck.
func (w *World) SetKey(k Key, down bool) {
	if k < 0 || k >= keyCount {
		return
	}
	if down && w.GameOver {
		return
	}
	w.keys[k] = down
}

// Events returns the events raised since the last call.
func (w *World) Events() []Event {
	ev := w.events
	w.events = nil
	return ev
}

func (w *World) emit(e Event) {
	w.events = append(w.events, e)
}

func (w *World) TurnLeft(deltaDeg float32) {
	angle := w.Ship.ViewAngle + deltaDeg
	if angle >= 360 {
		angle -= 360
	}
	w.setViewAngle(angle)
}

func (w *World) TurnRight(deltaDeg float32) {
	angle := w.Ship.ViewAngle - deltaDeg
	if angle < 0 {
		angle += 360
	}
	w.setViewAngle(angle)
}

func (w *World) setViewAngle(deg float32) {
	w.Ship.ViewAngle = deg
	rad := mgl32.DegToRad(deg)
	w.Ship.Direction = mgl32.Vec3{math32.Cos(rad), math32.Sin(rad), 0}
}

func (w *World) Accelerate(delta float32) {
	w.Ship.Speed = min(w.Ship.Speed+delta, w.cfg.Ship.SpeedMax)
}

func (w *World) Decelerate(delta float32) {
	w.Ship.Speed = max(w.Ship.Speed-delta, 0)
}

// Teleport moves the ship to a random spot of the play-field.
func (w *World) Teleport() {
	if w.GameOver {
		return
	}
	w.Ship.Position = w.randomPoint()
}

// FireMissile launches a missile from the ship nose unless the previous one
// left less than the launch delay ago.
func (w *World) FireMissile(now float32) bool {
	dir := w.Ship.Direction
	pos := w.Ship.Position.Add(dir.Mul(1.5 * w.Ship.Size))
	return w.launchMissile(pos, dir, now, &w.missileLaunchTime)
}

func (w *World) launchMissile(pos, dir mgl32.Vec3, now float32, lastLaunch *float32) bool {
	if now-*lastLaunch < w.cfg.Missiles.LaunchDelay {
		return false
	}
	*lastLaunch = now

	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	w.Missiles = append(w.Missiles, Missile{Object: Object{
		Position:    pos,
		Direction:   dir,
		Speed:       w.cfg.Missiles.Speed,
		Size:        w.cfg.Missiles.Size,
		StartTime:   w.elapsed,
		CurrentTime: w.elapsed,
	}})
	w.emit(EventMissileFired)
	return true
}

// InsertExplosion starts an explosion animation at pos.
func (w *World) InsertExplosion(pos mgl32.Vec3) {
	ex := w.cfg.Explosions
	w.Explosions = append(w.Explosions, Explosion{
		Object: Object{
			Position:    pos,
			Direction:   mgl32.Vec3{0, 0, 1},
			Size:        ex.Size,
			StartTime:   w.elapsed,
			CurrentTime: w.elapsed,
		},
		TextureFrames: ex.Frames,
		FrameDuration: ex.FrameDuration,
	})
	w.emit(EventExplosion)
}

func (w *World) SetGameOver() {
	if !w.GameOver {
		w.emit(EventGameOver)
	}
	w.GameOver = true
}

// ToggleFreeCamera switches between the top view and the ship camera and
// returns the new mode.
func (w *World) ToggleFreeCamera() bool {
	w.FreeCamera = !w.FreeCamera
	return w.FreeCamera
}

// AdjustElevation tilts the ship camera. A change that would reach the
// configured limit is dropped.
func (w *World) AdjustElevation(deltaDeg float32) {
	if math32.Abs(w.CameraElevation+deltaDeg) < w.cfg.Camera.ElevationMax {
		w.CameraElevation += deltaDeg
	}
}

func (w *World) signed() float32 {
	return 2*w.rng.Float32() - 1
}

func (w *World) randomPoint() mgl32.Vec3 {
	return mgl32.Vec3{w.signed() * w.field.HalfWidth, w.signed() * w.field.HalfHeight, 0}
}

func (w *World) randomDirection() mgl32.Vec3 {
	for {
		d := mgl32.Vec3{w.signed(), w.signed(), 0}
		if d.Len() > 1e-3 {
			return d.Normalize()
		}
	}
}

// spawnPosition picks a random point that is not right on top of the ship.
// On a field too small to have one it gives up after spawnAttempts tries.
func (w *World) spawnPosition() mgl32.Vec3 {
	var p mgl32.Vec3
	for range spawnAttempts {
		p = w.randomPoint()
		if !collision.PointInSphere(p, w.Ship.Position, 3*w.cfg.Ship.Size) {
			break
		}
	}
	return p
}

const spawnAttempts = 1000

func (w *World) newAsteroid() Asteroid {
	cfg := w.cfg.Asteroids
	return Asteroid{
		Object: Object{
			Direction:   w.randomDirection(),
			Position:    w.spawnPosition(),
			Speed:       cfg.SpeedMax * w.rng.Float32(),
			Size:        cfg.Size,
			StartTime:   w.elapsed,
			CurrentTime: w.elapsed,
		},
		RotationSpeed: cfg.RotationSpeedMax * w.rng.Float32(),
	}
}

func (w *World) newUfo() Ufo {
	anchor := w.spawnPosition()
	return Ufo{
		Object: Object{
			Position:    anchor,
			Direction:   w.randomDirection(),
			Speed:       w.rng.Float32(),
			Size:        w.cfg.Ufos.Size,
			StartTime:   w.elapsed,
			CurrentTime: w.elapsed,
		},
		RotationSpeed: w.cfg.Ufos.RotationSpeedMax * w.rng.Float32(),
		InitPosition:  anchor,
	}
}

// Entities lists everything to draw this frame, ship first. The pointers
// are valid until the next Tick or Restart.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, 2+len(w.Asteroids)+len(w.Missiles)+len(w.Ufos)+len(w.Explosions))
	out = append(out, &w.Ship)
	for i := range w.Asteroids {
		out = append(out, &w.Asteroids[i])
	}
	for i := range w.Missiles {
		out = append(out, &w.Missiles[i])
	}
	for i := range w.Ufos {
		out = append(out, &w.Ufos[i])
	}
	for i := range w.Explosions {
		out = append(out, &w.Explosions[i])
	}
	if w.Banner != nil {
		out = append(out, w.Banner)
	}
	return out
}
