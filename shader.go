package main

import (
	"embed"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/*
var shaderFiles embed.FS

type Shader struct {
	id uint32
}

// NewShader builds a program from two files of the embedded shaders/ tree.
func NewShader(vertexPath string, fragmentPath string) (*Shader, error) {
	data, err := shaderFiles.ReadFile(vertexPath)
	if err != nil {
		return nil, err
	}
	vertexShaderSource := string(data)
	data, err = shaderFiles.ReadFile(fragmentPath)
	if err != nil {
		return nil, err
	}
	fragmentShaderSource := string(data)

	vertexShader := gl.CreateShader(gl.VERTEX_SHADER)
	// The source must be a null-terminated C string.
	sourceString, vertexFreeFunc := gl.Strs(vertexShaderSource + "\x00")
	defer vertexFreeFunc()
	gl.ShaderSource(vertexShader, 1, sourceString, nil)
	gl.CompileShader(vertexShader)
	defer gl.DeleteShader(vertexShader)

	fragmentShader := gl.CreateShader(gl.FRAGMENT_SHADER)
	sourceString, fragmentFreeFunc := gl.Strs(fragmentShaderSource + "\x00")
	defer fragmentFreeFunc()
	gl.ShaderSource(fragmentShader, 1, sourceString, nil)
	gl.CompileShader(fragmentShader)
	defer gl.DeleteShader(fragmentShader)

	var success int32
	infoLog := make([]uint8, 512)
	gl.GetShaderiv(vertexShader, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		gl.GetShaderInfoLog(vertexShader, 512, nil, &infoLog[0])
		return nil, fmt.Errorf("failed to compile %s: %v", vertexPath, string(infoLog))
	}
	gl.GetShaderiv(fragmentShader, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		gl.GetShaderInfoLog(fragmentShader, 512, nil, &infoLog[0])
		return nil, fmt.Errorf("failed to compile %s: %v", fragmentPath, string(infoLog))
	}

	id := gl.CreateProgram()
	gl.AttachShader(id, vertexShader)
	gl.AttachShader(id, fragmentShader)
	gl.LinkProgram(id)

	gl.GetProgramiv(id, gl.LINK_STATUS, &success)
	if success == gl.FALSE {
		gl.GetProgramInfoLog(id, 512, nil, &infoLog[0])
		return nil, fmt.Errorf("failed to link shader program: %v", string(infoLog))
	}

	return &Shader{id: id}, nil
}

func (s *Shader) use() {
	gl.UseProgram(s.id)
}

// attrib returns the location the linker gave to an input of the vertex
// shader.
func (s *Shader) attrib(name string) uint32 {
	return uint32(gl.GetAttribLocation(s.id, gl.Str(name+"\x00")))
}

func (s *Shader) setFloat(name string, value float32) {
	gl.Uniform1f(gl.GetUniformLocation(s.id, gl.Str(name+"\x00")), value)
}

func (s *Shader) setVec3(name string, value mgl32.Vec3) {
	gl.Uniform3fv(gl.GetUniformLocation(s.id, gl.Str(name+"\x00")), 1, &value[0])
}

func (s *Shader) setMat4(name string, value mgl32.Mat4) {
	gl.UniformMatrix4fv(gl.GetUniformLocation(s.id, gl.Str(name+"\x00")), 1, false, &value[0])
}

func (s *Shader) delete() {
	gl.DeleteProgram(s.id)
}
