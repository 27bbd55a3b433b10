package main

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pgrlab/asteroids/game"
	"github.com/pgrlab/asteroids/settings"
)

// explosion atlases are laid out in rows of this many frames
const explosionAtlasColumns = 8

var hudColor = mgl32.Vec3{0.9, 0.9, 0.9}

// Renderer owns every GL object needed to draw a game.World.
type Renderer struct {
	rm *ResourceManager

	lighting, explosion, banner, skybox *Shader

	asteroid, ship, missile, ufo *Mesh

	explosionTexture, bannerTexture *Texture2D
	sky                             *CubeMap

	billboardQuad, bannerQuad, farPlane *quad

	text *TextRenderer

	useLighting bool
	reflectorOn bool
	showHelp    bool

	width, height int
}

// NewRenderer compiles the programs and loads every model and texture named
// in cfg. It must run on the thread owning the GL context.
func NewRenderer(cfg settings.Settings, width, height int) (*Renderer, error) {
	r := &Renderer{
		rm:          NewResourceManager(),
		useLighting: cfg.UseLighting,
		reflectorOn: true,
		showHelp:    true,
	}
	if err := r.load(cfg); err != nil {
		r.Delete()
		return nil, err
	}
	r.Resize(width, height)
	checkGLError("NewRenderer")
	return r, nil
}

func (r *Renderer) load(cfg settings.Settings) error {
	var err error
	for name, dst := range map[string]**Shader{
		"lighting":  &r.lighting,
		"explosion": &r.explosion,
		"banner":    &r.banner,
		"skybox":    &r.skybox,
	} {
		if *dst, err = r.rm.LoadShader(name); err != nil {
			return err
		}
	}
	textShader, err := r.rm.LoadShader("text")
	if err != nil {
		return err
	}

	if r.asteroid, err = LoadModel(cfg.Assets.AsteroidModel, r.rm); err != nil {
		return fmt.Errorf("asteroid model: %w", err)
	}
	if r.ship, err = LoadModel(cfg.Assets.SpaceShipModel, r.rm); err != nil {
		return fmt.Errorf("space ship model: %w", err)
	}

	r.missile = NewMesh(missileVertices(), nil, Material{
		Ambient:   cyan,
		Diffuse:   cyan,
		Specular:  cyan,
		Shininess: 10,
	})
	ufoVertices, ufoIndices := ufoGeometry()
	r.ufo = NewMesh(ufoVertices, ufoIndices, Material{
		Ambient:   magenta,
		Diffuse:   magenta,
		Specular:  magenta,
		Shininess: 10,
	})

	if r.explosionTexture, err = r.rm.LoadTexture(cfg.Assets.ExplosionTexture, gl.CLAMP_TO_EDGE); err != nil {
		return fmt.Errorf("explosion texture: %w", err)
	}
	if r.bannerTexture, err = r.rm.LoadTexture(cfg.Assets.BannerTexture, gl.REPEAT); err != nil {
		return fmt.Errorf("banner texture: %w", err)
	}
	if r.sky, err = LoadCubeMap(cfg.Assets.SkyboxPrefix, cfg.Assets.SkyboxExt); err != nil {
		return err
	}

	r.billboardQuad = newQuad(billboardQuad)
	r.bannerQuad = newQuad(bannerQuad)
	r.farPlane = newQuad(farPlaneQuad)

	r.text = NewTextRenderer(textShader, cfg.Window.Width, cfg.Window.Height)
	return r.text.Load(18)
}

// Resize is called with the framebuffer size in pixels.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	if r.text != nil {
		r.text.Resize(width, height)
	}
}

func (r *Renderer) Aspect() float32 {
	if r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

func (r *Renderer) ToggleLighting() bool {
	r.useLighting = !r.useLighting
	return r.useLighting
}

func (r *Renderer) ToggleReflector() bool {
	r.reflectorOn = !r.reflectorOn
	return r.reflectorOn
}

func (r *Renderer) ToggleHelp() {
	r.showHelp = !r.showHelp
}

// Draw renders one frame of w. Asteroid i is written to the stencil buffer
// as game.StencilID(i) so a following Pick can identify it.
func (r *Renderer) Draw(w *game.World) {
	cam := w.Camera(r.Aspect())
	now := w.Elapsed()

	gl.ClearColor(0, 0, 0, 1)
	gl.ClearStencil(0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)

	r.lighting.use()
	r.lighting.setFloat("time", now)
	r.lighting.setBool("useLighting", r.useLighting)
	r.lighting.setBool("reflectorOn", r.reflectorOn)
	r.lighting.setVec3("reflectorPosition", w.Ship.Position)
	r.lighting.setVec3("reflectorDirection", w.Ship.Direction)
	r.lighting.setMat4("Vmatrix", cam.View)
	r.lighting.setInt("texSampler", 0)

	entities := w.Entities()
	asteroids := 0
	for _, e := range entities {
		switch v := e.(type) {
		case *game.SpaceShip:
			if w.GameOver {
				continue
			}
			gl.StencilFunc(gl.ALWAYS, 0, 0xFF)
			r.drawMesh(r.ship, game.ModelMatrix(v), cam, r.ship.Material)
		case *game.Asteroid:
			// ids follow the slice index so Pick finds the same asteroid
			id := game.StencilID(asteroids)
			asteroids++
			if v.Destroyed {
				continue
			}
			gl.StencilFunc(gl.ALWAYS, int32(id), 0xFF)
			r.drawMesh(r.asteroid, game.ModelMatrix(v), cam, r.asteroid.Material)
		case *game.Missile:
			gl.StencilFunc(gl.ALWAYS, 0, 0xFF)
			r.drawMesh(r.missile, game.ModelMatrix(v), cam, r.missile.Material)
		case *game.Ufo:
			gl.StencilFunc(gl.ALWAYS, 0, 0xFF)
			r.drawUfo(v, cam)
		}
	}
	gl.Disable(gl.STENCIL_TEST)

	r.drawSkybox(cam)

	// blended entities go after the sky
	for _, e := range entities {
		switch v := e.(type) {
		case *game.Explosion:
			r.drawExplosion(v, cam)
		case *game.Banner:
			r.drawBanner(v, w.TopDown())
		}
	}

	r.drawHUD(w)
	checkGLError("Draw")
}

// Pick reads the stencil value under the framebuffer pixel (x, y), measured
// from the top left corner.
func (r *Renderer) Pick(x, y int) byte {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return 0
	}
	var id byte
	gl.ReadPixels(int32(x), int32(r.height-1-y), 1, 1, gl.STENCIL_INDEX, gl.UNSIGNED_BYTE, gl.Ptr(&id))
	checkGLError("Pick")
	return id
}

func (r *Renderer) drawMesh(mesh *Mesh, model mgl32.Mat4, cam game.Camera, mat Material) {
	r.setTransform(model, cam)
	r.setMaterial(mat)
	mesh.Draw()
}

func (r *Renderer) setTransform(model mgl32.Mat4, cam game.Camera) {
	r.lighting.setMat4("PVMmatrix", cam.Projection.Mul4(cam.View).Mul4(model))
	r.lighting.setMat4("Mmatrix", model)
	r.lighting.setMat4("normalMatrix", game.NormalMatrix(model))
}

func (r *Renderer) setMaterial(mat Material) {
	r.lighting.setVec3("material.ambient", mat.Ambient)
	r.lighting.setVec3("material.diffuse", mat.Diffuse)
	r.lighting.setVec3("material.specular", mat.Specular)
	r.lighting.setFloat("material.shininess", mat.Shininess)
	r.lighting.setBool("material.useTexture", mat.Texture != nil)
	if mat.Texture != nil {
		gl.ActiveTexture(gl.TEXTURE0)
		mat.Texture.Bind()
	}
}

// drawUfo blinks the two halves of the dome in opposite phase.
func (r *Renderer) drawUfo(u *game.Ufo, cam game.Camera) {
	r.setTransform(game.ModelMatrix(u), cam)
	pulse := game.UfoPulse(u)
	base := r.ufo.Material

	top := mgl32.Vec3{pulse, pulse, 0}
	r.setMaterial(Material{Ambient: top, Diffuse: top, Specular: top, Shininess: base.Shininess})
	r.ufo.DrawRange(0, ufoFanVertices)

	fade := 1 - pulse
	r.setMaterial(Material{
		Ambient:   base.Ambient.Mul(fade),
		Diffuse:   base.Diffuse.Mul(fade),
		Specular:  base.Specular.Mul(fade),
		Shininess: base.Shininess,
	})
	r.ufo.DrawRange(ufoFanVertices, ufoFanVertices)

	r.setMaterial(base)
	r.ufo.Draw()
}

func (r *Renderer) drawSkybox(cam game.Camera) {
	gl.DepthFunc(gl.LEQUAL)
	r.skybox.use()
	r.skybox.setMat4("inversePVmatrix", game.SkyboxInversePV(cam))
	r.skybox.setInt("skyboxSampler", 0)
	r.skybox.setBool("toneMap", r.sky.HDR)
	gl.ActiveTexture(gl.TEXTURE0)
	r.sky.Bind()
	r.farPlane.Draw()
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	gl.DepthFunc(gl.LESS)
}

func (r *Renderer) drawExplosion(e *game.Explosion, cam game.Camera) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)
	gl.DepthMask(false)

	model := game.BillboardMatrix(&e.Object, cam.View)
	rows := max(1, (e.TextureFrames+explosionAtlasColumns-1)/explosionAtlasColumns)
	cols := min(e.TextureFrames, explosionAtlasColumns)

	r.explosion.use()
	r.explosion.setMat4("PVMmatrix", cam.Projection.Mul4(cam.View).Mul4(model))
	r.explosion.setInt("frame", int32(e.Frame()))
	r.explosion.setInt("texSampler", 0)
	gl.Uniform2i(r.explosion.location("pattern"), int32(max(1, cols)), int32(rows))

	gl.ActiveTexture(gl.TEXTURE0)
	r.explosionTexture.Bind()
	r.billboardQuad.Draw()

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// drawBanner always uses the top-down camera so the text stays readable.
func (r *Renderer) drawBanner(b *game.Banner, cam game.Camera) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	model := game.ModelMatrix(b)
	r.banner.use()
	r.banner.setMat4("PVMmatrix", cam.Projection.Mul4(cam.View).Mul4(model))
	r.banner.setFloat("time", b.Age())
	r.banner.setInt("texSampler", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	r.bannerTexture.Bind()
	r.bannerQuad.Draw()

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
}

func (r *Renderer) drawHUD(w *game.World) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	camera := "top-down"
	if w.FreeCamera {
		camera = fmt.Sprintf("free %+.0f deg", w.CameraElevation)
	}
	lines := []string{
		fmt.Sprintf("asteroids %d  ufos %d  speed %.2f", len(w.Asteroids), len(w.Ufos), w.Ship.Speed),
		"camera " + camera,
	}
	if w.GameOver {
		lines = append(lines, "game over, press R to restart")
	}
	if r.showHelp {
		lines = append(lines,
			"arrows steer, space fires, click destroys",
			"t teleport  c camera  e explosion  g give up",
			"l lighting  f reflector  h help  esc quit",
		)
	}
	for i, line := range lines {
		r.text.RenderText(line, 10, 10+float32(i)*22, 1, hudColor)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
}

func (r *Renderer) Delete() {
	for _, m := range []*Mesh{r.asteroid, r.ship, r.missile, r.ufo} {
		if m != nil {
			m.Delete()
		}
	}
	for _, q := range []*quad{r.billboardQuad, r.bannerQuad, r.farPlane} {
		if q != nil {
			q.Delete()
		}
	}
	if r.sky != nil {
		r.sky.Delete()
	}
	if r.text != nil {
		r.text.Delete()
	}
	r.rm.Clear()
}
