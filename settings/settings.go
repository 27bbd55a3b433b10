// Package settings holds the tunable constants of the asteroids game. A TOML
// file can override any of them.
package settings

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pgrlab/asteroids/collision"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// Scene is the half-extent of the play-field.
type Scene struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
	Depth  float32 `toml:"depth"`
}

type Ship struct {
	Size           float32 `toml:"size"`
	SpeedIncrement float32 `toml:"speed_increment"`
	SpeedMax       float32 `toml:"speed_max"`
	// degrees per tick while an arrow key is held
	ViewAngleDelta float32 `toml:"view_angle_delta"`
}

type Asteroids struct {
	CountMin         int     `toml:"count_min"`
	CountMax         int     `toml:"count_max"`
	Parts            int     `toml:"parts"`
	Size             float32 `toml:"size"`
	SizeFactor       float32 `toml:"size_factor"`
	SpeedMax         float32 `toml:"speed_max"`
	RotationSpeedMax float32 `toml:"rotation_speed_max"`
}

// MinSize is the size below which a hit asteroid no longer splits.
func (a Asteroids) MinSize() float32 {
	return a.Size * a.SizeFactor * a.SizeFactor
}

type Ufos struct {
	CountMin         int     `toml:"count_min"`
	CountMax         int     `toml:"count_max"`
	Size             float32 `toml:"size"`
	RotationSpeedMax float32 `toml:"rotation_speed_max"`
	// probability that one of the UFOs fires during a tick
	FireChance float32 `toml:"fire_chance"`
}

type Missiles struct {
	Size        float32 `toml:"size"`
	Speed       float32 `toml:"speed"`
	MaxDistance float32 `toml:"max_distance"`
	// seconds between two launches of the same shooter
	LaunchDelay float32 `toml:"launch_delay"`
}

type Explosions struct {
	Size          float32 `toml:"size"`
	Frames        int     `toml:"frames"`
	FrameDuration float32 `toml:"frame_duration"`
}

type Camera struct {
	ElevationMax float32 `toml:"elevation_max"`
	Fov          float32 `toml:"fov"`
	Near         float32 `toml:"near"`
	Far          float32 `toml:"far"`
	// degrees of elevation per pixel of vertical mouse travel
	MouseSensitivity float32 `toml:"mouse_sensitivity"`
}

type Assets struct {
	AsteroidModel    string `toml:"asteroid_model"`
	SpaceShipModel   string `toml:"spaceship_model"`
	ExplosionTexture string `toml:"explosion_texture"`
	BannerTexture    string `toml:"banner_texture"`
	// cube faces are loaded from <prefix>_<posx|negx|...><ext>
	SkyboxPrefix string `toml:"skybox_prefix"`
	SkyboxExt    string `toml:"skybox_ext"`
}

type Audio struct {
	Enabled        bool   `toml:"enabled"`
	Music          string `toml:"music"`
	ExplosionSound string `toml:"explosion_sound"`
	FireSound      string `toml:"fire_sound"`
}

// Settings is the complete game configuration.
type Settings struct {
	TickMillis  int  `toml:"tick_millis"`
	UseLighting bool `toml:"use_lighting"`

	Window     Window     `toml:"window"`
	Scene      Scene      `toml:"scene"`
	Ship       Ship       `toml:"ship"`
	Asteroids  Asteroids  `toml:"asteroids"`
	Ufos       Ufos       `toml:"ufos"`
	Missiles   Missiles   `toml:"missiles"`
	Explosions Explosions `toml:"explosions"`
	Camera     Camera     `toml:"camera"`
	Assets     Assets     `toml:"assets"`
	Audio      Audio      `toml:"audio"`
}

func Default() Settings {
	return Settings{
		TickMillis:  33,
		UseLighting: true,
		Window:      Window{Width: 750, Height: 750, Title: "Asteroids Game"},
		Scene:       Scene{Width: 1, Height: 1, Depth: 1},
		Ship: Ship{
			Size:           0.05,
			SpeedIncrement: 0.025,
			SpeedMax:       1.0,
			ViewAngleDelta: 2.0,
		},
		Asteroids: Asteroids{
			CountMin:         5,
			CountMax:         10,
			Parts:            3,
			Size:             0.05,
			SizeFactor:       0.75,
			SpeedMax:         0.5,
			RotationSpeedMax: 1.0,
		},
		Ufos: Ufos{
			CountMin:         1,
			CountMax:         3,
			Size:             0.05,
			RotationSpeedMax: 1.0,
			FireChance:       0.01,
		},
		Missiles: Missiles{
			Size:        0.0085,
			Speed:       1.5,
			MaxDistance: 1.5,
			LaunchDelay: 0.25,
		},
		Explosions: Explosions{Size: 0.1, Frames: 16, FrameDuration: 0.1},
		Camera: Camera{
			ElevationMax:     45,
			Fov:              60,
			Near:             0.1,
			Far:              10,
			MouseSensitivity: 0.5,
		},
		Assets: Assets{
			AsteroidModel:    "data/asteroid.obj",
			SpaceShipModel:   "data/ghoul.obj",
			ExplosionTexture: "data/explode.png",
			BannerTexture:    "data/gameOver.png",
			SkyboxPrefix:     "data/skybox",
			SkyboxExt:        ".jpg",
		},
		Audio: Audio{
			Enabled:        true,
			Music:          "sounds/music.qoa",
			ExplosionSound: "sounds/explosion.qoa",
			FireSound:      "sounds/fire.qoa",
		},
	}
}

// Load reads a TOML file on top of the defaults. Keys missing from the file
// keep their default value, unknown keys are an error.
func Load(path string) (Settings, error) {
	s := Default()

	f, err := os.Open(path)
	if err != nil {
		return s, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return s, fmt.Errorf("decode settings %s: %w", path, err)
	}
	return s, s.Validate()
}

// Validate rejects configurations the game cannot run with.
func (s Settings) Validate() error {
	switch {
	case s.TickMillis <= 0:
		return fmt.Errorf("%w: tick_millis must be positive, got %d", ErrInvalid, s.TickMillis)
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, s.Window.Width, s.Window.Height)
	case s.Scene.Width <= 0 || s.Scene.Height <= 0:
		return fmt.Errorf("%w: scene extent %vx%v", ErrInvalid, s.Scene.Width, s.Scene.Height)
	case s.Ship.Size <= 0:
		return fmt.Errorf("%w: ship size must be positive, got %v", ErrInvalid, s.Ship.Size)
	case s.Ship.ViewAngleDelta <= 0 || s.Ship.ViewAngleDelta >= 360:
		return fmt.Errorf("%w: ship view_angle_delta must be in (0,360), got %v", ErrInvalid, s.Ship.ViewAngleDelta)
	case s.Missiles.Speed < 0 || s.Missiles.LaunchDelay < 0:
		return fmt.Errorf("%w: missile speed %v and launch_delay %v must not be negative", ErrInvalid, s.Missiles.Speed, s.Missiles.LaunchDelay)
	case s.Asteroids.CountMin < 0 || s.Asteroids.CountMax < s.Asteroids.CountMin:
		return fmt.Errorf("%w: asteroid counts [%d, %d]", ErrInvalid, s.Asteroids.CountMin, s.Asteroids.CountMax)
	case s.Asteroids.Parts < 1:
		return fmt.Errorf("%w: asteroids must split into at least one part", ErrInvalid)
	case s.Asteroids.SizeFactor <= 0 || s.Asteroids.SizeFactor >= 1:
		return fmt.Errorf("%w: asteroid size_factor must be in (0,1), got %v", ErrInvalid, s.Asteroids.SizeFactor)
	case s.Ufos.CountMin < 0 || s.Ufos.CountMax < s.Ufos.CountMin:
		return fmt.Errorf("%w: ufo counts [%d, %d]", ErrInvalid, s.Ufos.CountMin, s.Ufos.CountMax)
	case s.Explosions.Frames <= 0 || s.Explosions.FrameDuration <= 0:
		return fmt.Errorf("%w: explosion animation %d frames x %vs", ErrInvalid, s.Explosions.Frames, s.Explosions.FrameDuration)
	case s.Camera.ElevationMax <= 0 || s.Camera.ElevationMax >= 90:
		return fmt.Errorf("%w: camera elevation_max must be in (0,90), got %v", ErrInvalid, s.Camera.ElevationMax)
	case s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near:
		return fmt.Errorf("%w: camera clip planes %v..%v", ErrInvalid, s.Camera.Near, s.Camera.Far)
	}
	return nil
}

// TickPeriod is the fixed simulation step.
func (s Settings) TickPeriod() time.Duration {
	return time.Duration(s.TickMillis) * time.Millisecond
}

// Field returns the play-field objects wrap around in.
func (s Settings) Field() collision.Field {
	return collision.Field{HalfWidth: s.Scene.Width, HalfHeight: s.Scene.Height}
}
