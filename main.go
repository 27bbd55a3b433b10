// The keyframe viewer plays a clip, blending between poses on the GPU.
// Without --clip it shows the built-in flapping bird.
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pgrlab/asteroids/keyframe"
	flag "github.com/spf13/pflag"
)

const (
	initialWindowWidth  = 512
	initialWindowHeight = 512
	sizeOfFloat         = int(unsafe.Sizeof(float32(0)))
)

// clipMesh holds every frame of a clip in one vertex buffer, followed by a
// scratch slot for poses blended on the CPU. Drawing a pose re-points both
// position attributes at the current and the next frame.
type clipMesh struct {
	clip          *keyframe.Clip
	VAO, VBO, EBO uint32
	position      uint32
	nextPosition  uint32

	cpuBlend bool
	pose     []float32
}

func init() {
	// This is needed to arrange that main() runs on main thread.
	runtime.LockOSThread()
}

func main() {
	clipPath := flag.String("clip", "", "clip file written by bakeclip")
	frames := flag.Int("frames", 11, "poses of the built-in bird")
	cpuBlend := flag.Bool("cpu-blend", false, "blend poses on the CPU instead of in the vertex shader")
	flag.Parse()

	clip, err := loadClip(*clipPath, *frames)
	if err != nil {
		log.Fatal(err)
	}

	if err := glfw.Init(); err != nil {
		log.Fatal(err)
	}
	defer glfw.Terminate()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(initialWindowWidth, initialWindowHeight, "Keyframes", nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatal(err)
	}

	shader, err := NewShader("shaders/bird.vert", "shaders/bird.frag")
	if err != nil {
		log.Fatal(err)
	}
	defer shader.delete()

	mesh := newClipMesh(clip, shader)
	mesh.cpuBlend = *cpuBlend
	defer mesh.delete()

	turntable := NewTurntable()
	projection := perspective(window.GetFramebufferSize())
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width int, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		projection = perspective(width, height)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		if action == glfw.Press {
			turntable.startDrag(w.GetCursorPos())
		} else if action == glfw.Release {
			turntable.stopDrag()
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		turntable.processMouseMovement(xpos, ypos)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyLeft:
			turntable.shrink()
		case glfw.KeyRight:
			turntable.grow()
		}
	})

	fmt.Println("drag with the left mouse button to rotate the model")
	fmt.Println("use left/right arrows to decrease/increase its scale")

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.5, 0.4, 0.8, 1.0)
	start := time.Now()
	for !window.ShouldClose() {
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		shader.use()
		shader.setMat4("PVM", projection.Mul4(turntable.modelMatrix()))
		shader.setFloat("scale", turntable.scale)
		shader.setVec3("color", clip.Color)
		mesh.draw(shader, time.Since(start))

		window.SwapBuffers()
		glfw.PollEvents()
	}
}

func loadClip(path string, frames int) (*keyframe.Clip, error) {
	if path == "" {
		return keyframe.Flock(frames), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	clip, err := keyframe.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clip, nil
}

func perspective(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(60), aspect, 1, 20)
}

func newClipMesh(clip *keyframe.Clip, shader *Shader) *clipMesh {
	m := &clipMesh{
		clip:         clip,
		position:     shader.attrib("aPosition"),
		nextPosition: shader.attrib("aNextPosition"),
	}

	frameFloats := clip.VertexCount * 3
	vertices := make([]float32, 0, (len(clip.Frames)+1)*frameFloats)
	for _, frame := range clip.Frames {
		vertices = append(vertices, frame...)
	}
	vertices = append(vertices, clip.Frames[0]...)

	gl.GenVertexArrays(1, &m.VAO)
	gl.GenBuffers(1, &m.VBO)
	gl.GenBuffers(1, &m.EBO)

	gl.BindVertexArray(m.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*sizeOfFloat, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(clip.Faces)*int(unsafe.Sizeof(uint16(0))), gl.Ptr(clip.Faces), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(m.position)
	gl.VertexAttribPointerWithOffset(m.position, 3, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(m.nextPosition)
	gl.VertexAttribPointerWithOffset(m.nextPosition, 3, gl.FLOAT, false, 0, 0)
	gl.BindVertexArray(0)
	return m
}

// draw renders the pose at elapsed. The interpolation happens in the vertex
// shader unless cpuBlend is set.
func (m *clipMesh) draw(shader *Shader, elapsed time.Duration) {
	frame, next, t := m.clip.FrameAt(elapsed)

	frameBytes := uintptr(m.clip.VertexCount * 3 * sizeOfFloat)
	gl.BindVertexArray(m.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	if m.cpuBlend {
		m.pose = m.clip.Pose(elapsed, m.pose)
		scratch := len(m.clip.Frames)
		gl.BufferSubData(gl.ARRAY_BUFFER, scratch*int(frameBytes), len(m.pose)*sizeOfFloat, gl.Ptr(m.pose))
		frame, next, t = scratch, scratch, 0
	}
	shader.setFloat("t", t)
	gl.VertexAttribPointerWithOffset(m.position, 3, gl.FLOAT, false, 0, uintptr(frame)*frameBytes)
	gl.VertexAttribPointerWithOffset(m.nextPosition, 3, gl.FLOAT, false, 0, uintptr(next)*frameBytes)
	gl.DrawElements(gl.TRIANGLES, int32(len(m.clip.Faces)), gl.UNSIGNED_SHORT, nil)
	gl.BindVertexArray(0)
}

func (m *clipMesh) delete() {
	gl.DeleteVertexArrays(1, &m.VAO)
	gl.DeleteBuffers(1, &m.VBO)
	gl.DeleteBuffers(1, &m.EBO)
}
