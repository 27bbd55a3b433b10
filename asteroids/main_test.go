package main

import (
	"math/rand/v2"
	"testing"

	"github.com/pgrlab/asteroids/game"
	"github.com/pgrlab/asteroids/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *Asteroids {
	t.Helper()
	rng := rand.New(rand.NewPCG(3, 5))
	w, err := game.NewWorld(settings.Default(), rng)
	require.NoError(t, err)
	return &Asteroids{world: w, rng: rng}
}

func TestRestartFollowsTickClock(t *testing.T) {
	a := newTestApp(t)
	period := float32(a.world.Settings().TickPeriod().Seconds())

	next := float32(0)
	for range 30 {
		a.world.Tick(next)
		next += period
	}
	a.restart()
	assert.Equal(t, next-period, a.world.Elapsed())

	a.world.Tick(next)
	assert.GreaterOrEqual(t, a.world.Ship.Age(), float32(0))
	for _, ast := range a.world.Asteroids {
		assert.GreaterOrEqual(t, ast.Age(), float32(0))
		assert.LessOrEqual(t, ast.Age(), period+1e-6)
	}
}

func TestRandomPointStaysInScene(t *testing.T) {
	a := newTestApp(t)
	sc := a.world.Settings().Scene
	for range 100 {
		p := a.randomPoint()
		assert.LessOrEqual(t, p.X(), sc.Width)
		assert.GreaterOrEqual(t, p.X(), -sc.Width)
		assert.LessOrEqual(t, p.Y(), sc.Height)
		assert.GreaterOrEqual(t, p.Y(), -sc.Height)
		assert.Zero(t, p.Z())
	}
}
