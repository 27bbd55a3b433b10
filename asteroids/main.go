package main

import (
	"log"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pgrlab/asteroids/game"
	"github.com/pgrlab/asteroids/settings"
	flag "github.com/spf13/pflag"
)

// at most this many ticks are simulated per frame; a longer stall is skipped
const maxCatchUpTicks = 5

var heldKeys = map[glfw.Key]game.Key{
	glfw.KeyLeft:  game.KeyLeft,
	glfw.KeyRight: game.KeyRight,
	glfw.KeyUp:    game.KeyUp,
	glfw.KeyDown:  game.KeyDown,
	glfw.KeySpace: game.KeySpace,
}

// Asteroids holds the running game and everything the GLFW callbacks touch.
type Asteroids struct {
	world    *game.World
	renderer *Renderer
	audio    *Audio
	rng      *rand.Rand

	// cursor position from the previous motion event, window coordinates
	lastCursorY float64
	cursorKnown bool
	// pending click in framebuffer pixels, handled after the next draw
	click   [2]int
	clicked bool
}

func init() {
	// This is needed to arrange that main() runs on main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.StringP("config", "c", "", "TOML file overriding the default settings")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	noAudio := flag.Bool("no-audio", false, "disable music and sound effects")
	flag.Parse()

	cfg := settings.Default()
	if *configPath != "" {
		var err error
		if cfg, err = settings.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *noAudio {
		cfg.Audio.Enabled = false
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	log.Printf("seed %d", *seed)
	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))

	if err := glfw.Init(); err != nil {
		log.Fatal(err)
	}
	defer glfw.Terminate()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	// picking needs a stencil buffer
	glfw.WindowHint(glfw.StencilBits, 8)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		log.Fatal(err)
	}
	log.Printf("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	fbWidth, fbHeight := window.GetFramebufferSize()
	renderer, err := NewRenderer(cfg, fbWidth, fbHeight)
	if err != nil {
		log.Fatal(err)
	}
	defer renderer.Delete()

	var audio *Audio
	if cfg.Audio.Enabled {
		if audio, err = NewAudio(cfg.Audio); err != nil {
			log.Printf("audio disabled: %v", err)
		}
	}
	defer audio.Close()
	audio.PlayLoop()

	world, err := game.NewWorld(cfg, rng)
	if err != nil {
		log.Fatal(err)
	}
	glfw.SetTime(0)

	app := &Asteroids{world: world, renderer: renderer, audio: audio, rng: rng}
	window.SetFramebufferSizeCallback(app.framebufferSizeCallback)
	window.SetKeyCallback(app.keyCallback)
	window.SetMouseButtonCallback(app.mouseButtonCallback)
	window.SetCursorPosCallback(app.cursorPosCallback)

	period := float32(cfg.TickPeriod().Seconds())
	nextTick := float32(0)
	for !window.ShouldClose() {
		glfw.PollEvents()

		now := float32(glfw.GetTime())
		if now-nextTick > maxCatchUpTicks*period {
			nextTick = now - maxCatchUpTicks*period
		}
		for nextTick <= now {
			world.Tick(nextTick)
			nextTick += period
		}
		audio.Handle(world.Events())

		renderer.Draw(world)
		// the stencil buffer still holds the ids of the frame just drawn
		if app.clicked {
			app.clicked = false
			if world.Pick(renderer.Pick(app.click[0], app.click[1])) {
				audio.Handle(world.Events())
			}
		}

		window.SwapBuffers()
	}
}

func (a *Asteroids) framebufferSizeCallback(w *glfw.Window, width int, height int) {
	a.renderer.Resize(width, height)
}

func (a *Asteroids) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if k, ok := heldKeys[key]; ok {
		switch action {
		case glfw.Press:
			a.world.SetKey(k, true)
		case glfw.Release:
			a.world.SetKey(k, false)
		}
		return
	}
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyR:
		a.restart()
	case glfw.KeyT:
		a.world.Teleport()
	case glfw.KeyC:
		free := a.world.ToggleFreeCamera()
		a.cursorKnown = false
		if free {
			w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else {
			w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	case glfw.KeyE:
		a.world.InsertExplosion(a.randomPoint())
	case glfw.KeyG:
		a.world.SetGameOver()
	case glfw.KeyL:
		log.Printf("lighting %v", a.renderer.ToggleLighting())
	case glfw.KeyF:
		log.Printf("reflector %v", a.renderer.ToggleReflector())
	case glfw.KeyH:
		a.renderer.ToggleHelp()
	}
}

// restart begins a new game on the simulation clock, so the next fixed tick
// still moves time forward.
func (a *Asteroids) restart() {
	a.world.Restart(a.world.Elapsed())
}

func (a *Asteroids) randomPoint() mgl32.Vec3 {
	sc := a.world.Settings().Scene
	return mgl32.Vec3{
		(2*a.rng.Float32() - 1) * sc.Width,
		(2*a.rng.Float32() - 1) * sc.Height,
		0,
	}
}

func (a *Asteroids) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || action != glfw.Press {
		return
	}
	x, y := w.GetCursorPos()
	// cursor positions are in screen coordinates, the stencil is in pixels
	winWidth, winHeight := w.GetSize()
	fbWidth, fbHeight := w.GetFramebufferSize()
	if winWidth == 0 || winHeight == 0 {
		return
	}
	a.click = [2]int{
		int(x * float64(fbWidth) / float64(winWidth)),
		int(y * float64(fbHeight) / float64(winHeight)),
	}
	a.clicked = true
}

// cursorPosCallback tilts the free camera with vertical mouse motion.
func (a *Asteroids) cursorPosCallback(w *glfw.Window, xpos float64, ypos float64) {
	if !a.world.FreeCamera {
		return
	}
	if a.cursorKnown {
		dy := float32(ypos - a.lastCursorY)
		a.world.AdjustElevation(dy * a.world.Settings().Camera.MouseSensitivity)
	}
	a.lastCursorY = ypos
	a.cursorKnown = true
}
