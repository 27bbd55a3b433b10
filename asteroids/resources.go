package main

import (
	"embed"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
)

// Embed all programs from the shaders/ directory
//
//go:embed shaders/*
var shaderFiles embed.FS

type ResourceManager struct {
	shaders  map[string]*Shader
	textures map[string]*Texture2D
}

func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		shaders:  make(map[string]*Shader),
		textures: make(map[string]*Texture2D),
	}
}

// LoadShader compiles shaders/<name>.vert and shaders/<name>.frag.
func (rm *ResourceManager) LoadShader(name string) (*Shader, error) {
	vertexCode, err := shaderFiles.ReadFile("shaders/" + name + ".vert")
	if err != nil {
		return nil, err
	}
	fragmentCode, err := shaderFiles.ReadFile("shaders/" + name + ".frag")
	if err != nil {
		return nil, err
	}
	shader, err := NewShader(string(vertexCode), string(fragmentCode))
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	rm.shaders[name] = shader
	return shader, nil
}

// LoadTexture decodes an image file into an RGBA texture. Textures are
// cached by path.
func (rm *ResourceManager) LoadTexture(path string, wrap int32) (*Texture2D, error) {
	if tex, ok := rm.textures[path]; ok {
		return tex, nil
	}
	img, err := loadImage(path, true)
	if err != nil {
		return nil, err
	}
	tex := NewTexture()
	tex.Wrap_S, tex.Wrap_T = wrap, wrap
	tex.Generate(img)
	rm.textures[path] = tex
	return tex, nil
}

func (rm *ResourceManager) Clear() {
	for _, s := range rm.shaders {
		s.delete()
	}
	for _, t := range rm.textures {
		t.Delete()
	}
	clear(rm.shaders)
	clear(rm.textures)
}

// loadImage decodes path into RGBA pixels. With flip the first row ends up at
// the bottom, the way 2D textures expect them; cube map faces keep the file
// order.
func loadImage(path string, flip bool) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	if flip {
		flipRows(dst.Pix, dst.Stride)
	}
	return dst, nil
}

func flipRows(pix []byte, stride int) {
	rows := len(pix) / stride
	tmp := make([]byte, stride)
	for y := range rows / 2 {
		top := pix[y*stride : (y+1)*stride]
		bottom := pix[(rows-1-y)*stride : (rows-y)*stride]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
