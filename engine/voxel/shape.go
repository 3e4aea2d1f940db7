package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Shape selects the integer world cells an edit writes to.
type Shape interface {
	Bounds(center mgl32.Vec3) (Int3, Int3)
}

// Sphere covers the rounded box [round(c-r), round(c+r)]. Every cell in
// the box is written, not only the ones inside the radius.
type Sphere struct {
	Radius float32
}

func (s Sphere) Bounds(center mgl32.Vec3) (Int3, Int3) {
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	return RoundVec3(center.Sub(r)), RoundVec3(center.Add(r))
}

type Box struct {
	HalfExtents mgl32.Vec3
}

func (b Box) Bounds(center mgl32.Vec3) (Int3, Int3) {
	return RoundVec3(center.Sub(b.HalfExtents)), RoundVec3(center.Add(b.HalfExtents))
}

// Edit is an absolute write: every covered sample gets Value, and Material
// when it is not nil.
type Edit struct {
	Shape    Shape
	Value    float32
	Material *Material
}
