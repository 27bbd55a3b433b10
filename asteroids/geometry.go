package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	magenta     = mgl32.Vec3{1, 0, 1}
	green       = mgl32.Vec3{0, 1, 0}
	blue        = mgl32.Vec3{0, 0, 1}
	yellow      = mgl32.Vec3{1, 1, 0}
	cyan        = mgl32.Vec3{0, 1, 1}
	ufoBellyTip = mgl32.Vec3{0.3, 0.3, 0.3}
)

// ufo draw ranges: the top is two fans of three triangles, the bottom is
// indexed
const (
	ufoFanVertices = 9
	ufoTopVertices = 2 * ufoFanVertices
)

// missileVertices is a regular tetrahedron with flat shaded faces, its long
// axis along z.
func missileVertices() []Vertex {
	s := 1 / math32.Sqrt2
	corners := [4]mgl32.Vec3{
		{1, 0, -s},
		{0, 1, s},
		{-1, 0, -s},
		{0, -1, s},
	}
	faces := [4][3]int{
		{3, 0, 1},
		{2, 3, 1},
		{0, 2, 1},
		{2, 0, 3},
	}
	faceColors := [4][3]mgl32.Vec3{
		{magenta, magenta, green},
		{blue, magenta, green},
		{magenta, blue, green},
		{blue, magenta, magenta},
	}

	vertices := make([]Vertex, 0, 12)
	for f, face := range faces {
		a, b, c := corners[face[0]], corners[face[1]], corners[face[2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for k, idx := range face {
			vertices = append(vertices, Vertex{
				Position: corners[idx],
				Normal:   n,
				Color:    faceColors[f][k],
			})
		}
	}
	return vertices
}

// ufoGeometry is a flat hexagonal saucer in the xz plane with its dome along
// +y. The first ufoTopVertices vertices are the dome, drawn as two alternating
// fans; the bottom is indexed.
func ufoGeometry() ([]Vertex, []uint32) {
	const h = 0.25
	rim := make([]mgl32.Vec3, 6)
	for i := range rim {
		// rim vertex 0 sits at 30 degrees
		angle := math32.Pi/6 + float32(i)*math32.Pi/3
		rim[i] = mgl32.Vec3{math32.Cos(angle), 0, math32.Sin(angle)}
	}
	top := mgl32.Vec3{0, h, 0}
	bottom := mgl32.Vec3{0, -h, 0}

	vertices := make([]Vertex, 0, ufoTopVertices+7)
	dome := func(i, j int, color mgl32.Vec3) {
		a, b := rim[i], rim[j]
		n := top.Sub(a).Cross(b.Sub(a)).Normalize()
		for _, p := range [3]mgl32.Vec3{a, top, b} {
			vertices = append(vertices, Vertex{Position: p, Normal: n, Color: color})
		}
	}
	// the yellow fan first, then the magenta one
	for _, i := range [3]int{5, 1, 3} {
		dome(i, (i+1)%6, yellow)
	}
	for _, i := range [3]int{0, 2, 4} {
		dome(i, (i+1)%6, magenta)
	}

	for _, p := range rim {
		n := mgl32.Vec3{h * p.X(), -1, h * p.Z()}.Normalize()
		vertices = append(vertices, Vertex{Position: p, Normal: n, Color: magenta})
	}
	vertices = append(vertices, Vertex{Position: bottom, Normal: mgl32.Vec3{0, -1, 0}, Color: ufoBellyTip})

	indices := make([]uint32, 0, 18)
	for i := range uint32(6) {
		indices = append(indices, ufoTopVertices+(i+5)%6, ufoTopVertices+i, ufoTopVertices+6)
	}
	return vertices, indices
}

// billboardQuad is a unit square around the origin in the xy plane.
var billboardQuad = []float32{
	// x   y    z    u    v
	-1, -1, 0, 0, 0,
	1, -1, 0, 1, 0,
	-1, 1, 0, 0, 1,
	1, 1, 0, 1, 1,
}

// bannerQuad is a wide strip across the centre of the field.
var bannerQuad = []float32{
	-1, -0.25, 0, 0, 0,
	1, -0.25, 0, 1, 0,
	-1, 0.25, 0, 0, 1,
	1, 0.25, 0, 1, 1,
}

// farPlaneQuad covers the whole screen in NDC; the skybox shader pushes it
// to the far plane.
var farPlaneQuad = []float32{
	-1, -1, 0, 0, 0,
	1, -1, 0, 1, 0,
	-1, 1, 0, 0, 1,
	1, 1, 0, 1, 1,
}
