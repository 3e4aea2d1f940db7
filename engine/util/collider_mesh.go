package util

import (
	"fmt"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"math"
)

var ErrEmptyCollider = errors.New("collider has no usable triangles")

// minDoubleArea is the smallest |(b-a)x(c-a)| a triangle needs to be kept.
const minDoubleArea = 1e-9

// TriangleCollider answers segment queries against a static triangle soup.
type TriangleCollider struct {
	name      string
	triangles [][3]mgl32.Vec3
	bounds    AABB
}

// NewTriangleCollider copies the indexed triangles, skipping degenerate
// ones. It fails when nothing is left or a position is not finite.
func NewTriangleCollider(name string, positions []mgl32.Vec3, indices []uint32) (*TriangleCollider, error) {
	if len(indices)%3 != 0 {
		return nil, errors.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	m := &TriangleCollider{name: name}
	for i := 0; i < len(indices); i += 3 {
		var triangle [3]mgl32.Vec3
		for k := 0; k < 3; k++ {
			index := indices[i+k]
			if int(index) >= len(positions) {
				return nil, errors.Errorf("index %d out of range (%d positions)", index, len(positions))
			}
			triangle[k] = positions[index]
			if !IsFiniteVec3(triangle[k]) {
				return nil, errors.Errorf("vertex %d is not finite", index)
			}
		}
		if triangle[1].Sub(triangle[0]).Cross(triangle[2].Sub(triangle[0])).Len() < minDoubleArea {
			continue
		}
		m.triangles = append(m.triangles, triangle)
	}
	if len(m.triangles) == 0 {
		return nil, ErrEmptyCollider
	}
	points := make([]mgl32.Vec3, 0, len(m.triangles)*3)
	for _, t := range m.triangles {
		points = append(points, t[0], t[1], t[2])
	}
	m.bounds = AABBAroundPoints(points)
	return m, nil
}

func (m *TriangleCollider) Bounds() AABB {
	return m.bounds
}

func (m *TriangleCollider) TriangleCount() int {
	return len(m.triangles)
}

func (m *TriangleCollider) IterateTriangles(callback func(triangle [3]mgl32.Vec3)) {
	for _, t := range m.triangles {
		callback(t)
	}
}

// IntersectsRay tests the segment rayStart..rayEnd and returns the hit
// nearest to rayStart.
func (m *TriangleCollider) IntersectsRay(rayStart, rayEnd mgl32.Vec3) (bool, mgl32.Vec3) {
	// flat meshes have a zero-thickness box
	if !m.bounds.Grow(1e-4).IntersectsSegment(rayStart, rayEnd) {
		return false, mgl32.Vec3{}
	}
	minT := float32(math.MaxFloat32)
	doesIntersect := false
	nearestIntersection := mgl32.Vec3{0, 0, 0}
	m.IterateTriangles(func(triangle [3]mgl32.Vec3) {
		intersection, atPoint, t := intersectLineSegmentTriangle(rayStart, rayEnd, triangle[0], triangle[1], triangle[2])
		if intersection && t < minT {
			doesIntersect = true
			minT = t
			nearestIntersection = atPoint
		}
	})
	return doesIntersect, nearestIntersection
}

func (m *TriangleCollider) String() string {
	return fmt.Sprintf("TriangleCollider{Name = %s, Triangles = %d, Min = %v, Max = %v}", m.name, len(m.triangles), m.bounds.Min(), m.bounds.Max())
}
