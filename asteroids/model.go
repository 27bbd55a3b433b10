package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/udhos/gwob"
)

var errEmptyModel = errors.New("model has no triangles")

// LoadModel loads a single-material OBJ file and its MTL library. The model
// is centred and scaled to fit into [-1,1]^3; missing normals are generated
// by averaging the adjacent face normals.
func LoadModel(path string, rm *ResourceManager) (*Mesh, error) {
	obj, err := gwob.NewObjFromFile(path, &gwob.ObjParserOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to load OBJ model: %w", err)
	}

	vertices, indices, err := meshData(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	material := Material{
		Ambient:   mgl32.Vec3{0.2, 0.2, 0.2},
		Diffuse:   mgl32.Vec3{0.8, 0.8, 0.8},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		Shininess: 10,
	}

	if obj.Mtllib != "" && len(obj.Groups) > 0 {
		dir := filepath.Dir(path)
		lib, err := gwob.ReadMaterialLibFromFile(filepath.Join(dir, obj.Mtllib), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load MTL file: %w", err)
		}
		if mtl, ok := lib.Lib[obj.Groups[0].Usemtl]; ok {
			material = materialFrom(mtl)
			if mtl.MapKd != "" {
				tex, err := rm.LoadTexture(filepath.Join(dir, mtl.MapKd), gl.REPEAT)
				if err != nil {
					return nil, err
				}
				material.Texture = tex
			}
		}
	}

	for i := range vertices {
		vertices[i].Color = material.Diffuse
	}
	return NewMesh(vertices, indices, material), nil
}

func materialFrom(mtl *gwob.Material) Material {
	shininess := mtl.Ns
	if shininess <= 0 {
		shininess = 1
	}
	return Material{
		Ambient:   mgl32.Vec3(mtl.Ka),
		Diffuse:   mgl32.Vec3(mtl.Kd),
		Specular:  mgl32.Vec3(mtl.Ks),
		Shininess: shininess,
	}
}

// meshData unpacks the interleaved coordinates of obj into vertices and
// triangle indices.
func meshData(obj *gwob.Obj) ([]Vertex, []uint32, error) {
	if len(obj.Indices) < 3 || obj.StrideSize == 0 {
		return nil, nil, errEmptyModel
	}

	stride := obj.StrideSize / 4
	posOffset := obj.StrideOffsetPosition / 4
	texOffset := obj.StrideOffsetTexture / 4
	normOffset := obj.StrideOffsetNormal / 4

	vertices := make([]Vertex, len(obj.Coord)/stride)
	for i := range vertices {
		base := i * stride
		v := &vertices[i]
		v.Position = mgl32.Vec3{obj.Coord[base+posOffset], obj.Coord[base+posOffset+1], obj.Coord[base+posOffset+2]}
		if obj.TextCoordFound {
			v.TexCoords = mgl32.Vec2{obj.Coord[base+texOffset], obj.Coord[base+texOffset+1]}
		}
		if obj.NormCoordFound {
			v.Normal = mgl32.Vec3{obj.Coord[base+normOffset], obj.Coord[base+normOffset+1], obj.Coord[base+normOffset+2]}
		}
	}

	indices := make([]uint32, 0, len(obj.Indices))
	for _, idx := range obj.Indices {
		if idx < 0 || idx >= len(vertices) {
			return nil, nil, fmt.Errorf("index %d out of range", idx)
		}
		indices = append(indices, uint32(idx))
	}
	indices = indices[:len(indices)/3*3]

	if !obj.NormCoordFound {
		smoothNormals(vertices, indices)
	}
	normalizeVertices(vertices)
	return vertices, indices, nil
}

// normalizeVertices centres the bounding box at the origin and scales its
// longest side to 2.
func normalizeVertices(vertices []Vertex) {
	if len(vertices) == 0 {
		return
	}
	lo, hi := vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		for k := range 3 {
			lo[k] = min(lo[k], v.Position[k])
			hi[k] = max(hi[k], v.Position[k])
		}
	}
	center := lo.Add(hi).Mul(0.5)
	extent := hi.Sub(lo)
	longest := max(extent[0], extent[1], extent[2])
	if longest == 0 {
		longest = 2
	}
	scale := 2 / longest
	for i := range vertices {
		vertices[i].Position = vertices[i].Position.Sub(center).Mul(scale)
	}
}

// smoothNormals replaces the vertex normals with the normalized sum of the
// (area weighted) normals of the faces sharing each vertex.
func smoothNormals(vertices []Vertex, indices []uint32) {
	for i := range vertices {
		vertices[i].Normal = mgl32.Vec3{}
	}
	for f := 0; f+2 < len(indices); f += 3 {
		a, b, c := indices[f], indices[f+1], indices[f+2]
		pa, pb, pc := vertices[a].Position, vertices[b].Position, vertices[c].Position
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		vertices[a].Normal = vertices[a].Normal.Add(n)
		vertices[b].Normal = vertices[b].Normal.Add(n)
		vertices[c].Normal = vertices[c].Normal.Add(n)
	}
	for i := range vertices {
		if vertices[i].Normal.Len() > 0 {
			vertices[i].Normal = vertices[i].Normal.Normalize()
		}
	}
}
