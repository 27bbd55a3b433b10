package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type Kind int

const (
	KindSpaceShip Kind = iota
	KindAsteroid
	KindMissile
	KindUfo
	KindExplosion
	KindBanner
)

func (k Kind) String() string {
	switch k {
	case KindSpaceShip:
		return "spaceship"
	case KindAsteroid:
		return "asteroid"
	case KindMissile:
		return "missile"
	case KindUfo:
		return "ufo"
	case KindExplosion:
		return "explosion"
	case KindBanner:
		return "banner"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Object is the state every entity shares. Times are seconds since the
// world's clock started.
type Object struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Speed     float32
	Size      float32
	Destroyed bool

	StartTime   float32
	CurrentTime float32
}

// Age is the time the object has been alive at its last update.
func (o *Object) Age() float32 {
	return o.CurrentTime - o.StartTime
}

func (o *Object) Base() *Object { return o }

func (o *Object) sealed() {}

// Entity is implemented only by the variant types of this package.
type Entity interface {
	Kind() Kind
	Base() *Object
	sealed()
}

type SpaceShip struct {
	Object
	ViewAngle float32 // degrees, counter-clockwise from +X
}

type Asteroid struct {
	Object
	RotationSpeed float32 // radians per second
}

type Missile struct {
	Object
}

type Ufo struct {
	Object
	RotationSpeed float32
	// the flight path is anchored here
	InitPosition mgl32.Vec3
}

type Explosion struct {
	Object
	TextureFrames int
	FrameDuration float32
}

// Expired reports whether the whole animation has been played.
func (e *Explosion) Expired() bool {
	return e.CurrentTime > e.StartTime+float32(e.TextureFrames)*e.FrameDuration
}

// Frame is the atlas frame shown at the last update.
func (e *Explosion) Frame() int {
	if e.FrameDuration <= 0 || e.TextureFrames <= 0 {
		return 0
	}
	return int(e.Age()/e.FrameDuration) % e.TextureFrames
}

type Banner struct {
	Object
}

func (*SpaceShip) Kind() Kind { return KindSpaceShip }
func (*Asteroid) Kind() Kind  { return KindAsteroid }
func (*Missile) Kind() Kind   { return KindMissile }
func (*Ufo) Kind() Kind       { return KindUfo }
func (*Explosion) Kind() Kind { return KindExplosion }
func (*Banner) Kind() Kind    { return KindBanner }
