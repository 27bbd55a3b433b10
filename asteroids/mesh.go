package main

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// attribute locations shared by every program drawing a Mesh
const (
	attribPosition = 0
	attribNormal   = 1
	attribColor    = 2
	attribTexCoord = 3
)

type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	Color     mgl32.Vec3
	TexCoords mgl32.Vec2
}

type Material struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
	// optional diffuse map
	Texture *Texture2D
}

// Mesh is one interleaved vertex buffer, optionally indexed.
type Mesh struct {
	vertices []Vertex
	indices  []uint32
	Material Material
	VAO      uint32
	VBO      uint32
	EBO      uint32
}

func NewMesh(vertices []Vertex, indices []uint32, material Material) *Mesh {
	mesh := &Mesh{
		vertices: vertices,
		indices:  indices,
		Material: material,
	}
	mesh.setupMesh()
	return mesh
}

// Draw renders the indexed part of the mesh, or all vertices when there is
// no index buffer.
func (mesh *Mesh) Draw() {
	gl.BindVertexArray(mesh.VAO)
	if len(mesh.indices) > 0 {
		gl.DrawElements(gl.TRIANGLES, int32(len(mesh.indices)), gl.UNSIGNED_INT, unsafe.Pointer(nil))
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(mesh.vertices)))
	}
	gl.BindVertexArray(0)
}

// DrawRange renders count vertices starting at first, ignoring indices.
func (mesh *Mesh) DrawRange(first, count int32) {
	gl.BindVertexArray(mesh.VAO)
	gl.DrawArrays(gl.TRIANGLES, first, count)
	gl.BindVertexArray(0)
}

func (mesh *Mesh) Delete() {
	gl.DeleteVertexArrays(1, &mesh.VAO)
	gl.DeleteBuffers(1, &mesh.VBO)
	if mesh.EBO != 0 {
		gl.DeleteBuffers(1, &mesh.EBO)
	}
}

func (mesh *Mesh) setupMesh() {
	gl.GenVertexArrays(1, &mesh.VAO)
	gl.GenBuffers(1, &mesh.VBO)
	gl.BindVertexArray(mesh.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, mesh.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.vertices)*int(unsafe.Sizeof(Vertex{})), unsafe.Pointer(&mesh.vertices[0]), gl.STATIC_DRAW)

	if len(mesh.indices) > 0 {
		gl.GenBuffers(1, &mesh.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mesh.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.indices)*int(unsafe.Sizeof(uint32(0))), unsafe.Pointer(&mesh.indices[0]), gl.STATIC_DRAW)
	}

	stride := int32(unsafe.Sizeof(Vertex{}))
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointer(attribPosition, 3, gl.FLOAT, false, stride, gl.Ptr(nil))
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointer(attribNormal, 3, gl.FLOAT, false, stride, gl.Ptr(unsafe.Offsetof(Vertex{}.Normal)))
	gl.EnableVertexAttribArray(attribColor)
	gl.VertexAttribPointer(attribColor, 3, gl.FLOAT, false, stride, gl.Ptr(unsafe.Offsetof(Vertex{}.Color)))
	gl.EnableVertexAttribArray(attribTexCoord)
	gl.VertexAttribPointer(attribTexCoord, 2, gl.FLOAT, false, stride, gl.Ptr(unsafe.Offsetof(Vertex{}.TexCoords)))

	gl.BindVertexArray(0)
}

// quad is a textured 2D mesh drawn as a triangle strip, used for billboards,
// the banner and the far plane.
type quad struct {
	VAO, VBO uint32
	count    int32
}

// newQuad uploads interleaved xyz+uv data.
func newQuad(data []float32) *quad {
	q := &quad{count: int32(len(data) / 5)}
	gl.GenVertexArrays(1, &q.VAO)
	gl.GenBuffers(1, &q.VBO)
	gl.BindVertexArray(q.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*int(unsafe.Sizeof(data[0])), gl.Ptr(data), gl.STATIC_DRAW)

	stride := 5 * int32(unsafe.Sizeof(float32(0)))
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointer(attribPosition, 3, gl.FLOAT, false, stride, gl.Ptr(nil))
	gl.EnableVertexAttribArray(attribTexCoord)
	gl.VertexAttribPointer(attribTexCoord, 2, gl.FLOAT, false, stride, gl.Ptr(3*unsafe.Sizeof(float32(0))))
	gl.BindVertexArray(0)
	return q
}

func (q *quad) Draw() {
	gl.BindVertexArray(q.VAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, q.count)
	gl.BindVertexArray(0)
}

func (q *quad) Delete() {
	gl.DeleteVertexArrays(1, &q.VAO)
	gl.DeleteBuffers(1, &q.VBO)
}
