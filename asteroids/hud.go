package main

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Character represents a glyph's texture and related data.
type Character struct {
	TextureID     uint32 // ID handle of the glyph texture
	width, height int
	bearingX      int // offset from the pen to the left edge of the glyph
	bearingY      int // offset from the baseline up to the top of the glyph
	Advance       fixed.Int26_6
}

// TextRenderer draws ASCII text with one texture per glyph, in pixel
// coordinates with the origin at the top left of the window.
type TextRenderer struct {
	characters map[rune]Character
	shader     *Shader
	VAO, VBO   uint32
	ascent     int
}

func NewTextRenderer(shader *Shader, width, height int) *TextRenderer {
	tr := TextRenderer{shader: shader}
	tr.Resize(width, height)
	tr.shader.setInt("text", 0)
	// configure VAO/VBO for texture quads
	gl.GenVertexArrays(1, &tr.VAO)
	gl.GenBuffers(1, &tr.VBO)
	gl.BindVertexArray(tr.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, int(unsafe.Sizeof(float32(0)))*6*4, gl.Ptr(nil), gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*int32(unsafe.Sizeof(float32(0))), gl.Ptr(nil))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return &tr
}

func (tr *TextRenderer) Resize(width, height int) {
	tr.shader.use()
	tr.shader.setMat4("projection", mgl32.Ortho2D(0.0, float32(width), float32(height), 0.0))
}

// Load rasterizes the printable ASCII range of the Go Regular font.
func (tr *TextRenderer) Load(fontSize float64) error {
	ttf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(ttf, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	tr.ascent = face.Metrics().Ascent.Ceil()
	tr.characters = make(map[rune]Character)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	defer gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	for c := rune(32); c < 127; c++ {
		bounds, advance, ok := face.GlyphBounds(c)
		if !ok {
			continue
		}
		width := (bounds.Max.X - bounds.Min.X).Ceil()
		height := (bounds.Max.Y - bounds.Min.Y).Ceil()

		if width <= 0 || height <= 0 {
			// blanks only move the pen
			tr.characters[c] = Character{Advance: advance}
			continue
		}

		dst := image.NewGray(image.Rect(0, 0, width, height))
		d := font.Drawer{
			Dst:  dst,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(-bounds.Min.X.Floor(), -bounds.Min.Y.Floor()),
		}
		d.DrawString(string(c))

		var texture uint32
		gl.GenTextures(1, &texture)
		gl.BindTexture(gl.TEXTURE_2D, texture)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(width), int32(height), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(dst.Pix))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

		tr.characters[c] = Character{
			TextureID: texture,
			width:     width,
			height:    height,
			bearingX:  bounds.Min.X.Floor(),
			bearingY:  -bounds.Min.Y.Floor(),
			Advance:   advance,
		}
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// RenderText draws text with its top left corner at (x, y).
func (tr *TextRenderer) RenderText(text string, x, y, scale float32, color mgl32.Vec3) {
	tr.shader.use()
	tr.shader.setVec3("textColor", color)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(tr.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.VBO)

	baseline := y + float32(tr.ascent)*scale
	for _, char := range text {
		ch, ok := tr.characters[char]
		if !ok {
			continue
		}

		if ch.TextureID != 0 {
			xpos := x + float32(ch.bearingX)*scale
			ypos := baseline - float32(ch.bearingY)*scale
			w := float32(ch.width) * scale
			h := float32(ch.height) * scale

			vertices := []float32{
				xpos, ypos + h, 0.0, 1.0,
				xpos + w, ypos, 1.0, 0.0,
				xpos, ypos, 0.0, 0.0,

				xpos, ypos + h, 0.0, 1.0,
				xpos + w, ypos + h, 1.0, 1.0,
				xpos + w, ypos, 1.0, 0.0,
			}

			gl.BindTexture(gl.TEXTURE_2D, ch.TextureID)
			gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*int(unsafe.Sizeof(vertices[0])), gl.Ptr(vertices))
			gl.DrawArrays(gl.TRIANGLES, 0, 6)
		}

		// advance is in 1/64 pixels
		x += float32(ch.Advance) / 64 * scale
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (tr *TextRenderer) Delete() {
	for _, ch := range tr.characters {
		if ch.TextureID != 0 {
			gl.DeleteTextures(1, &ch.TextureID)
		}
	}
	gl.DeleteVertexArrays(1, &tr.VAO)
	gl.DeleteBuffers(1, &tr.VBO)
}
