package game

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pgrlab/asteroids/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

// emptyWorld has no random spawns, so tests place every object themselves.
func emptyWorld(t *testing.T) *World {
	t.Helper()
	cfg := settings.Default()
	cfg.Asteroids.CountMin, cfg.Asteroids.CountMax = 0, 0
	cfg.Ufos.CountMin, cfg.Ufos.CountMax = 0, 0
	cfg.Ufos.FireChance = 0
	w, err := NewWorld(cfg, newRand())
	require.NoError(t, err)
	return w
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3, tolerance float64, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tolerance, msgAndArgs...)
	}
}

func TestNewWorld(t *testing.T) {
	cfg := settings.Default()
	cfg.Asteroids.CountMin, cfg.Asteroids.CountMax = 50, 60
	w, err := NewWorld(cfg, newRand())
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec3{}, w.Ship.Position)
	assert.Equal(t, float32(90), w.Ship.ViewAngle)
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, w.Ship.Direction, 1e-6)
	assert.Zero(t, w.Ship.Speed)
	assert.False(t, w.GameOver)
	assert.Empty(t, w.Ufos)
	require.Len(t, w.Asteroids, 50)

	for _, a := range w.Asteroids {
		assert.Greater(t, a.Position.Len(), 3*cfg.Ship.Size)
		assert.Equal(t, cfg.Asteroids.Size, a.Size)
		assert.InDelta(t, 1, a.Direction.Len(), 1e-5)
		assert.LessOrEqual(t, a.Speed, cfg.Asteroids.SpeedMax)
		assert.True(t, w.field.Contains(a.Position, a.Size))
	}
}

func TestNewWorldRejectsInvalidSettings(t *testing.T) {
	cfg := settings.Default()
	cfg.Camera.ElevationMax = -1
	_, err := NewWorld(cfg, newRand())
	assert.ErrorIs(t, err, settings.ErrInvalid)
}

func TestTurning(t *testing.T) {
	w := emptyWorld(t)

	w.TurnRight(100)
	assert.Equal(t, float32(350), w.Ship.ViewAngle)
	w.TurnLeft(20)
	assert.InDelta(t, 10, w.Ship.ViewAngle, 1e-4)
	assertVecNear(t, mgl32.Vec3{0.98480775, 0.17364818, 0}, w.Ship.Direction, 1e-5)
}

func TestSpeedIsClamped(t *testing.T) {
	w := emptyWorld(t)
	speedMax := w.Settings().Ship.SpeedMax

	for range 100 {
		w.Accelerate(0.1)
	}
	assert.Equal(t, speedMax, w.Ship.Speed)

	for range 100 {
		w.Decelerate(0.1)
	}
	assert.Zero(t, w.Ship.Speed)
}

func TestHeldKeysSteerTheShip(t *testing.T) {
	w := emptyWorld(t)
	cfg := w.Settings()

	w.SetKey(KeyUp, true)
	w.SetKey(KeyLeft, true)
	w.Tick(0.033)

	assert.Equal(t, cfg.Ship.SpeedIncrement, w.Ship.Speed)
	assert.Equal(t, 90+cfg.Ship.ViewAngleDelta, w.Ship.ViewAngle)

	w.SetKey(KeyLeft, false)
	w.Tick(0.066)
	assert.Equal(t, 90+cfg.Ship.ViewAngleDelta, w.Ship.ViewAngle)
	// moved along its heading during the second tick
	assert.Greater(t, w.Ship.Position.Y(), float32(0))
}

func TestFireMissileIsRateLimited(t *testing.T) {
	w := emptyWorld(t)
	w.Events()

	require.True(t, w.FireMissile(0))
	assert.False(t, w.FireMissile(0.1))
	assert.True(t, w.FireMissile(0.3))
	require.Len(t, w.Missiles, 2)

	m := w.Missiles[0]
	assertVecNear(t, mgl32.Vec3{0, 1.5 * w.Ship.Size, 0}, m.Position, 1e-6)
	assert.Equal(t, w.Settings().Missiles.Speed, m.Speed)
	assert.Equal(t, []Event{EventMissileFired, EventMissileFired}, w.Events())
	assert.Empty(t, w.Events())
}

func TestMissileRange(t *testing.T) {
	w := emptyWorld(t)
	require.True(t, w.FireMissile(0))

	w.Tick(0.5)
	w.Tick(0.9)
	require.Len(t, w.Missiles, 1)
	// wrapped over the top edge
	assert.Less(t, w.Missiles[0].Position.Y(), float32(0))
	assert.False(t, w.GameOver)

	w.Tick(1.1)
	assert.Empty(t, w.Missiles)
}

func TestMissileSplitsAsteroid(t *testing.T) {
	w := emptyWorld(t)
	cfg := w.Settings()

	target := mgl32.Vec3{0.5, 0.5, 0}
	w.Asteroids = append(w.Asteroids, Asteroid{Object: Object{Position: target, Size: cfg.Asteroids.Size}})
	w.Missiles = append(w.Missiles, Missile{Object: Object{Position: target.Add(mgl32.Vec3{0.01, 0, 0}), Size: cfg.Missiles.Size}})

	w.CheckCollisions()

	assert.True(t, w.Missiles[0].Destroyed)
	require.Len(t, w.Explosions, 1)
	assert.Equal(t, w.Missiles[0].Position, w.Explosions[0].Position)

	n := len(w.Asteroids)
	require.GreaterOrEqual(t, n, 2)
	require.LessOrEqual(t, n, 1+cfg.Asteroids.Parts)
	for _, frag := range w.Asteroids[:n-1] {
		assert.False(t, frag.Destroyed)
		assert.Equal(t, target, frag.Position)
		assert.Equal(t, cfg.Asteroids.Size*cfg.Asteroids.SizeFactor, frag.Size)
	}
	assert.True(t, w.Asteroids[n-1].Destroyed)

	w.Tick(0.033)
	assert.Len(t, w.Asteroids, n-1)
	assert.Empty(t, w.Missiles)
}

func TestSmallAsteroidDoesNotSplit(t *testing.T) {
	w := emptyWorld(t)
	cfg := w.Settings()

	target := mgl32.Vec3{-0.5, 0.5, 0}
	w.Asteroids = append(w.Asteroids, Asteroid{Object: Object{Position: target, Size: cfg.Asteroids.MinSize()}})
	w.Missiles = append(w.Missiles, Missile{Object: Object{Position: target, Size: cfg.Missiles.Size}})

	w.CheckCollisions()
	require.Len(t, w.Asteroids, 1)
	assert.True(t, w.Asteroids[0].Destroyed)
}

func TestMissileHitsUfo(t *testing.T) {
	w := emptyWorld(t)
	pos := mgl32.Vec3{0.3, -0.3, 0}
	w.Ufos = append(w.Ufos, Ufo{Object: Object{Position: pos, Size: 0.05}, InitPosition: pos})
	w.Missiles = append(w.Missiles, Missile{Object: Object{Position: pos, Size: 0.0085}})

	w.CheckCollisions()
	assert.True(t, w.Ufos[0].Destroyed)
	assert.True(t, w.Missiles[0].Destroyed)
	assert.Len(t, w.Explosions, 1)
	assert.False(t, w.GameOver)
}

func TestShipCollisionEndsGame(t *testing.T) {
	w := emptyWorld(t)
	w.Events()
	w.Asteroids = append(w.Asteroids, Asteroid{Object: Object{Position: mgl32.Vec3{0.08, 0, 0}, Size: 0.05}})
	w.SetKey(KeySpace, true)

	w.Tick(0.033)

	assert.True(t, w.GameOver)
	require.NotNil(t, w.Banner)
	assert.Equal(t, float32(0.033), w.Banner.StartTime)
	assert.False(t, w.keys[KeySpace])
	assert.Contains(t, w.Events(), EventGameOver)

	// presses are ignored now, releases still go through
	w.SetKey(KeyUp, true)
	assert.False(t, w.keys[KeyUp])

	w.Tick(0.5)
	assert.Equal(t, float32(0.5), w.Banner.CurrentTime)
	assert.Equal(t, float32(0.033), w.Banner.StartTime)

	w.Teleport()
	assert.Equal(t, mgl32.Vec3{}, w.Ship.Position)
}

func TestMissileHitsShip(t *testing.T) {
	w := emptyWorld(t)
	w.Missiles = append(w.Missiles, Missile{Object: Object{Position: mgl32.Vec3{0.01, 0.01, 0}}})

	w.CheckCollisions()
	assert.True(t, w.GameOver)
	assert.True(t, w.Missiles[0].Destroyed)
}

func TestUfoFollowsPath(t *testing.T) {
	w := emptyWorld(t)
	anchor := mgl32.Vec3{0, 0.6, 0}
	w.Ufos = append(w.Ufos, Ufo{
		Object:       Object{Position: anchor, Direction: mgl32.Vec3{1, 0, 0}, Speed: 0.5, Size: 0.05},
		InitPosition: anchor,
	})

	for _, now := range []float32{0.25, 1, 3.3, 10} {
		w.Tick(now)
		require.Len(t, w.Ufos, 1)
		u := w.Ufos[0]

		pos, tangent := w.path.Sample(0.5 * now)
		assertVecNear(t, w.field.Wrap(anchor.Add(pos), u.Size), u.Position, 1e-5, "now=%v", now)
		assertVecNear(t, tangent.Normalize(), u.Direction, 1e-5, "now=%v", now)
	}
}

func TestTickRefillsPopulations(t *testing.T) {
	w := emptyWorld(t)
	w.cfg.Asteroids.CountMin, w.cfg.Asteroids.CountMax = 3, 6
	w.cfg.Ufos.CountMin, w.cfg.Ufos.CountMax = 2, 4

	w.Tick(0.033)
	assert.GreaterOrEqual(t, len(w.Asteroids), 3)
	assert.LessOrEqual(t, len(w.Asteroids), 6)
	assert.GreaterOrEqual(t, len(w.Ufos), 2)
	assert.LessOrEqual(t, len(w.Ufos), 4)
	for _, u := range w.Ufos {
		assert.Equal(t, u.InitPosition, u.Position)
		assert.Equal(t, float32(0.033), u.StartTime)
	}

	w.Asteroids = w.Asteroids[:1]
	w.Tick(0.066)
	assert.GreaterOrEqual(t, len(w.Asteroids), 3)
	assert.LessOrEqual(t, len(w.Asteroids), 6)

	// a population at its minimum is left alone
	w.Asteroids = w.Asteroids[:3]
	w.Tick(0.099)
	assert.Len(t, w.Asteroids, 3)
}

func TestUfoFiresAtLaunchRate(t *testing.T) {
	w := emptyWorld(t)
	w.cfg.Ufos.FireChance = 1
	// missiles stay where they were launched
	w.cfg.Missiles.Speed = 0
	anchor := mgl32.Vec3{0, 0.6, 0}
	w.Ufos = append(w.Ufos, Ufo{
		Object:       Object{Position: anchor, Size: w.cfg.Ufos.Size},
		InitPosition: anchor,
	})
	w.Events()

	w.Tick(0.033)
	require.Len(t, w.Missiles, 1)
	u := w.Ufos[0]
	m := w.Missiles[0]
	assertVecNear(t, u.Direction, m.Direction, 1e-6)
	assertVecNear(t, u.Position.Add(u.Direction.Mul(1.5*u.Size)), m.Position, 1e-6)
	assert.Equal(t, []Event{EventMissileFired}, w.Events())

	// the ship's own launch timer is separate
	assert.True(t, w.FireMissile(0.04))
	w.Missiles = w.Missiles[:1]
	w.Events()

	for k := 2; k <= 8; k++ {
		w.Tick(0.033 * float32(k))
	}
	assert.Len(t, w.Missiles, 1)
	assert.Empty(t, w.Events())

	w.Tick(0.033 * 9)
	assert.Len(t, w.Missiles, 2)
	assert.Equal(t, []Event{EventMissileFired}, w.Events())
	assert.False(t, w.GameOver)
}

func TestExplosionExpires(t *testing.T) {
	w := emptyWorld(t)
	w.InsertExplosion(mgl32.Vec3{0.2, 0.2, 0})

	w.Tick(0.35)
	require.Len(t, w.Explosions, 1)
	assert.Equal(t, 3, w.Explosions[0].Frame())

	w.Tick(1.5)
	require.Len(t, w.Explosions, 1)
	w.Tick(1.7)
	assert.Empty(t, w.Explosions)
}

func TestInsertExplosion(t *testing.T) {
	w := emptyWorld(t)
	w.InsertExplosion(mgl32.Vec3{0.1, 0.2, 0})
	e := w.Explosions[0]
	assert.Equal(t, w.Settings().Explosions.Size, e.Size)
	assert.Equal(t, 16, e.TextureFrames)
	assert.Zero(t, e.Speed)
}

func TestPick(t *testing.T) {
	w := emptyWorld(t)
	for i := range 3 {
		w.Asteroids = append(w.Asteroids, Asteroid{Object: Object{Position: mgl32.Vec3{float32(i) * 0.3, 0.5, 0}, Size: 0.05}})
	}

	assert.False(t, w.Pick(0))
	assert.False(t, w.Pick(4))
	assert.True(t, w.Pick(2))
	assert.True(t, w.Asteroids[1].Destroyed)
	assert.False(t, w.Asteroids[0].Destroyed)
	require.Len(t, w.Explosions, 1)
	assert.Equal(t, w.Asteroids[1].Position, w.Explosions[0].Position)
	assert.False(t, w.Pick(2))
}

func TestStencilID(t *testing.T) {
	assert.Equal(t, byte(1), StencilID(0))
	assert.Equal(t, byte(255), StencilID(254))
	assert.Zero(t, StencilID(255))
	assert.Zero(t, StencilID(-1))
}

func TestAdjustElevation(t *testing.T) {
	w := emptyWorld(t)

	w.AdjustElevation(40)
	assert.Equal(t, float32(40), w.CameraElevation)
	w.AdjustElevation(10)
	assert.Equal(t, float32(40), w.CameraElevation)
	w.AdjustElevation(-85)
	assert.Equal(t, float32(40), w.CameraElevation)
	w.AdjustElevation(-80)
	assert.Equal(t, float32(-40), w.CameraElevation)
}

func TestRestart(t *testing.T) {
	cfg := settings.Default()
	w, err := NewWorld(cfg, newRand())
	require.NoError(t, err)

	w.ToggleFreeCamera()
	w.AdjustElevation(20)
	w.SetGameOver()
	w.Tick(1)
	w.InsertExplosion(mgl32.Vec3{})
	require.NotNil(t, w.Banner)

	w.Restart(2)
	assert.False(t, w.GameOver)
	assert.False(t, w.FreeCamera)
	assert.Zero(t, w.CameraElevation)
	assert.Nil(t, w.Banner)
	assert.Empty(t, w.Explosions)
	assert.Empty(t, w.Missiles)
	assert.Len(t, w.Asteroids, cfg.Asteroids.CountMin)
	assert.Equal(t, float32(2), w.Ship.StartTime)
	assert.True(t, w.FireMissile(2))
}

func TestEntities(t *testing.T) {
	w := emptyWorld(t)
	w.Asteroids = append(w.Asteroids, Asteroid{})
	w.Missiles = append(w.Missiles, Missile{})
	w.InsertExplosion(mgl32.Vec3{})
	w.SetGameOver()
	w.Tick(0.033)

	var kinds []Kind
	for _, e := range w.Entities() {
		kinds = append(kinds, e.Kind())
	}
	assert.Equal(t, KindSpaceShip, kinds[0])
	assert.Equal(t, KindBanner, kinds[len(kinds)-1])
	assert.Contains(t, kinds, KindExplosion)

	w.Entities()[0].Base().Speed = 0.5
	assert.Equal(t, float32(0.5), w.Ship.Speed)
	assert.Equal(t, "ufo", KindUfo.String())
}
