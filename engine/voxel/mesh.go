package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a flat-shaded triangle soup in world space. Every triangle owns
// its three vertices, so Indices is always 0..n-1.
type Mesh struct {
	Positions []mgl32.Vec3
	Colors    []mgl32.Vec4
	Normals   []mgl32.Vec3
	Indices   []uint32
}

func (m *Mesh) appendTriangle(a, b, c mgl32.Vec3, ma, mb, mc Material) {
	normal := FlatNormal(a, b, c)
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, a, b, c)
	m.Colors = append(m.Colors, ma.Color(), mb.Color(), mc.Color())
	m.Normals = append(m.Normals, normal, normal, normal)
	m.Indices = append(m.Indices, base, base+1, base+2)
}

func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Positions)
}

func (m *Mesh) Triangle(i int) [3]mgl32.Vec3 {
	return [3]mgl32.Vec3{
		m.Positions[m.Indices[i*3]],
		m.Positions[m.Indices[i*3+1]],
		m.Positions[m.Indices[i*3+2]],
	}
}

// Area is the summed surface area of all triangles.
func (m *Mesh) Area() float32 {
	var area float32
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		area += t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Len() * 0.5
	}
	return area
}

// Bounds returns the axis aligned box around all positions.
func (m *Mesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if m.VertexCount() == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	min, max := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < min[axis] {
				min[axis] = p[axis]
			}
			if p[axis] > max[axis] {
				max[axis] = p[axis]
			}
		}
	}
	return min, max
}

// FlatNormal is the normalized (b-a)x(c-a), or the zero vector for a
// degenerate triangle.
func FlatNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	length := n.Len()
	if length == 0 {
		return mgl32.Vec3{}
	}
	return n.Mul(1 / length)
}
