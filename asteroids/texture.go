package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
)

type Texture2D struct {
	// holds the ID of the texture object, used for all texture operations to reference to this particular texture
	ID uint32
	// width and height of loaded image in pixels
	Width, Height int32
	// wrapping mode on S and T axis
	Wrap_S, Wrap_T int32
	// filtering mode if texture pixels < screen pixels
	Filter_Min int32
	// filtering mode if texture pixels > screen pixels
	Filter_Max int32
}

func NewTexture() *Texture2D {
	t := Texture2D{
		Wrap_S:     gl.REPEAT,
		Wrap_T:     gl.REPEAT,
		Filter_Min: gl.LINEAR_MIPMAP_LINEAR,
		Filter_Max: gl.LINEAR,
	}
	gl.GenTextures(1, &t.ID)
	return &t
}

func (tex *Texture2D) Generate(img *image.RGBA) {
	tex.Width = int32(img.Rect.Dx())
	tex.Height = int32(img.Rect.Dy())

	gl.BindTexture(gl.TEXTURE_2D, tex.ID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, tex.Width, tex.Height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	// set Texture wrap and filter modes
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, tex.Wrap_S)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, tex.Wrap_T)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, tex.Filter_Min)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, tex.Filter_Max)
	// unbind texture
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (tex *Texture2D) Bind() {
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)
}

func (tex *Texture2D) Delete() {
	gl.DeleteTextures(1, &tex.ID)
}

// cube map faces in the order of the GL_TEXTURE_CUBE_MAP_* targets
var cubeFaces = [6]string{"posx", "negx", "posy", "negy", "posz", "negz"}

type CubeMap struct {
	ID uint32
	// HDR is set when the faces hold linear radiance and need tone mapping
	HDR bool
}

// LoadCubeMap reads <prefix>_<face><ext> for all six faces. Radiance (.hdr)
// faces are uploaded as floating point textures.
func LoadCubeMap(prefix, ext string) (*CubeMap, error) {
	cm := &CubeMap{HDR: strings.EqualFold(ext, ".hdr")}
	gl.GenTextures(1, &cm.ID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cm.ID)

	for i, face := range cubeFaces {
		path := prefix + "_" + face + ext
		target := uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X + i)
		var err error
		if cm.HDR {
			err = uploadHDRFace(target, path)
		} else {
			err = uploadFace(target, path)
		}
		if err != nil {
			gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
			cm.Delete()
			return nil, fmt.Errorf("skybox face %s: %w", face, err)
		}
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return cm, nil
}

func uploadFace(target uint32, path string) error {
	img, err := loadImage(path, false)
	if err != nil {
		return err
	}
	gl.TexImage2D(target, 0, gl.RGBA, int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	return nil
}

func uploadHDRFace(target uint32, path string) error {
	pixels, w, h, err := loadRadiance(path)
	if err != nil {
		return err
	}
	gl.TexImage2D(target, 0, gl.RGB16F, int32(w), int32(h), 0, gl.RGB, gl.FLOAT, gl.Ptr(pixels))
	return nil
}

// loadRadiance decodes an RGBE file into tightly packed RGB floats.
func loadRadiance(path string) ([]float32, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	img, err := rgbe.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	himg, ok := img.(hdr.Image)
	if !ok {
		return nil, 0, 0, fmt.Errorf("%s is not a radiance image", filepath.Base(path))
	}

	b := himg.Bounds()
	pixels := make([]float32, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := himg.HDRAt(x, y).HDRRGBA()
			pixels = append(pixels, float32(r), float32(g), float32(bl))
		}
	}
	return pixels, b.Dx(), b.Dy(), nil
}

func (cm *CubeMap) Bind() {
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cm.ID)
}

func (cm *CubeMap) Delete() {
	gl.DeleteTextures(1, &cm.ID)
}
