package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pgrlab/asteroids/collision"
)

// Tick advances the world to now (seconds). It applies held keys, moves all
// objects, resolves collisions and keeps the asteroid and UFO populations up.
func (w *World) Tick(now float32) {
	w.elapsed = now

	if w.keys[KeyRight] {
		w.TurnRight(w.cfg.Ship.ViewAngleDelta)
	}
	if w.keys[KeyLeft] {
		w.TurnLeft(w.cfg.Ship.ViewAngleDelta)
	}
	if w.keys[KeyUp] {
		w.Accelerate(w.cfg.Ship.SpeedIncrement)
	}
	if w.keys[KeyDown] {
		w.Decelerate(w.cfg.Ship.SpeedIncrement)
	}

	if w.GameOver && w.Banner != nil {
		w.Banner.CurrentTime = now
	}

	w.update(now)

	if w.keys[KeySpace] {
		w.FireMissile(now)
	}

	w.CheckCollisions()

	if len(w.Ufos) < w.cfg.Ufos.CountMin {
		for range w.respawnCount(len(w.Ufos), w.cfg.Ufos.CountMin, w.cfg.Ufos.CountMax) {
			w.Ufos = append(w.Ufos, w.newUfo())
		}
	}

	if len(w.Ufos) > 0 && w.rng.Float32() < w.cfg.Ufos.FireChance {
		ufo := &w.Ufos[w.rng.IntN(len(w.Ufos))]
		pos := ufo.Position.Add(ufo.Direction.Mul(1.5 * ufo.Size))
		w.launchMissile(pos, ufo.Direction, now, &w.ufoMissileLaunchTime)
	}

	if len(w.Asteroids) < w.cfg.Asteroids.CountMin {
		for range w.respawnCount(len(w.Asteroids), w.cfg.Asteroids.CountMin, w.cfg.Asteroids.CountMax) {
			w.Asteroids = append(w.Asteroids, w.newAsteroid())
		}
	}

	if w.GameOver {
		w.keys[KeySpace] = false
		if w.Banner == nil {
			w.Banner = &Banner{Object: Object{
				Direction:   mgl32.Vec3{0, 1, 0},
				Size:        1,
				StartTime:   now,
				CurrentTime: now,
			}}
		}
	}
}

// respawnCount draws how many objects to add to the have existing ones so
// that the population ends up between lo and hi.
func (w *World) respawnCount(have, lo, hi int) int {
	return lo + w.rng.IntN(hi-lo+1) - have
}

func (w *World) update(now float32) {
	move := func(o *Object) {
		dt := now - o.CurrentTime
		o.CurrentTime = now
		o.Position = o.Position.Add(o.Direction.Mul(dt * o.Speed))
		o.Position = w.field.Wrap(o.Position, o.Size)
	}

	move(&w.Ship.Object)

	w.Asteroids = compact(w.Asteroids, func(a *Asteroid) bool {
		if a.Destroyed {
			return false
		}
		move(&a.Object)
		return true
	})

	w.Missiles = compact(w.Missiles, func(m *Missile) bool {
		move(&m.Object)
		if m.Age()*m.Speed > w.cfg.Missiles.MaxDistance {
			m.Destroyed = true
		}
		return !m.Destroyed
	})

	w.Ufos = compact(w.Ufos, func(u *Ufo) bool {
		if u.Destroyed {
			return false
		}
		u.CurrentTime = now
		t := u.Speed * u.Age()
		pos, tangent := w.path.Sample(t)
		u.Position = w.field.Wrap(u.InitPosition.Add(pos), u.Size)
		if tangent.Len() > 0 {
			u.Direction = tangent.Normalize()
		}
		return true
	})

	w.Explosions = compact(w.Explosions, func(e *Explosion) bool {
		e.CurrentTime = now
		if e.Expired() {
			e.Destroyed = true
		}
		return !e.Destroyed
	})
}

// compact keeps the elements for which keep returns true, preserving order
// and reusing the backing array.
func compact[T any](s []T, keep func(*T) bool) []T {
	n := 0
	for i := range s {
		if keep(&s[i]) {
			s[n] = s[i]
			n++
		}
	}
	clear(s[n:])
	return s[:n]
}

// CheckCollisions marks everything that got hit, inserts explosions and
// splits big asteroids.
func (w *World) CheckCollisions() {
	ship := &w.Ship

	for i := range w.Asteroids {
		a := &w.Asteroids[i]
		if !a.Destroyed && spheresHit(&ship.Object, &a.Object) {
			a.Destroyed = true
			w.InsertExplosion(ship.Position)
			w.SetGameOver()
		}
	}

	for i := range w.Ufos {
		u := &w.Ufos[i]
		if !u.Destroyed && spheresHit(&ship.Object, &u.Object) {
			u.Destroyed = true
			w.InsertExplosion(ship.Position)
			w.SetGameOver()
		}
	}

	// fragments join the field after this pass so the missile that created
	// them cannot hit them again
	var fragments []Asteroid

	for i := range w.Missiles {
		m := &w.Missiles[i]

		for j := range w.Asteroids {
			a := &w.Asteroids[j]
			if a.Destroyed || !pointHit(m.Position, &a.Object) {
				continue
			}
			m.Destroyed = true
			a.Destroyed = true
			w.InsertExplosion(m.Position)

			if a.Size > w.cfg.Asteroids.MinSize() {
				parts := w.rng.IntN(w.cfg.Asteroids.Parts) + 1
				for range parts {
					frag := w.newAsteroid()
					frag.Position = a.Position
					frag.Size = a.Size * w.cfg.Asteroids.SizeFactor
					fragments = append(fragments, frag)
				}
			}
		}

		for j := range w.Ufos {
			u := &w.Ufos[j]
			if !u.Destroyed && pointHit(m.Position, &u.Object) {
				m.Destroyed = true
				u.Destroyed = true
				w.InsertExplosion(m.Position)
			}
		}

		if pointHit(m.Position, &ship.Object) {
			m.Destroyed = true
			w.InsertExplosion(m.Position)
			w.SetGameOver()
		}
	}

	if len(fragments) > 0 {
		w.Asteroids = append(fragments, w.Asteroids...)
	}
}

func spheresHit(a, b *Object) bool {
	return collision.SpheresIntersect(a.Position, a.Size, b.Position, b.Size)
}

func pointHit(p mgl32.Vec3, o *Object) bool {
	return collision.PointInSphere(p, o.Position, o.Size)
}

// Pick handles a click on stencil value id. Zero is the background; k>0 is
// the asteroid drawn k-th in the last frame. It reports whether an asteroid
// was destroyed.
func (w *World) Pick(id byte) bool {
	if id == 0 {
		return false
	}
	idx := int(id) - 1
	if idx >= len(w.Asteroids) {
		return false
	}
	a := &w.Asteroids[idx]
	if a.Destroyed {
		return false
	}
	a.Destroyed = true
	w.InsertExplosion(a.Position)
	return true
}

// MaxPickable is the number of asteroids that can get a stencil id.
const MaxPickable = 255

// StencilID returns the stencil value for the i-th asteroid, 0 when it
// cannot be picked.
func StencilID(i int) byte {
	if i < 0 || i >= MaxPickable {
		return 0
	}
	return byte(i + 1)
}
