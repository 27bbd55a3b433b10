// Package collision holds the geometric predicates the game uses to detect
// hits and to keep objects inside the play-field.
package collision

import "github.com/go-gl/mathgl/mgl32"

// PointInSphere reports whether point lies inside or on the sphere.
func PointInSphere(point, center mgl32.Vec3, radius float32) bool {
	d := point.Sub(center)
	return d.Dot(d) <= radius*radius
}

// SpheresIntersect reports whether two spheres touch or overlap.
func SpheresIntersect(center1 mgl32.Vec3, radius1 float32, center2 mgl32.Vec3, radius2 float32) bool {
	return center1.Sub(center2).Len() <= radius1+radius2
}
