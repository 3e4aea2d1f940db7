package util

import (
	"github.com/go-gl/mathgl/mgl32"
)

type AABB struct {
	center  mgl32.Vec3
	extents mgl32.Vec3 // full size on each axis, half of it on either side of center
}

func NewAABB(center, extents mgl32.Vec3) AABB {
	return AABB{
		center:  center,
		extents: extents,
	}
}

func NewAABBFromMin(min, extents mgl32.Vec3) AABB {
	return AABB{
		center:  min.Add(extents.Mul(0.5)),
		extents: extents,
	}
}

func NewAABBFromMinMax(min, max mgl32.Vec3) AABB {
	return NewAABBFromMin(min, max.Sub(min))
}

// AABBAroundPoints returns the smallest box holding all points.
func AABBAroundPoints(points []mgl32.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		for axis := 0; axis < 3; axis++ {
			min[axis] = Min(min[axis], p[axis])
			max[axis] = Max(max[axis], p[axis])
		}
	}
	return NewAABBFromMinMax(min, max)
}

func (a AABB) Min() mgl32.Vec3 {
	return a.center.Sub(a.extents.Mul(0.5))
}

func (a AABB) Max() mgl32.Vec3 {
	return a.center.Add(a.extents.Mul(0.5))
}

func (a AABB) Center() mgl32.Vec3 {
	return a.center
}

func (a AABB) ContainsPoint(p mgl32.Vec3) bool {
	min, max := a.Min(), a.Max()
	return p.X() >= min.X() && p.X() <= max.X() &&
		p.Y() >= min.Y() && p.Y() <= max.Y() &&
		p.Z() >= min.Z() && p.Z() <= max.Z()
}

func (a AABB) Intersects(b AABB) bool {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := b.Min(), b.Max()
	for axis := 0; axis < 3; axis++ {
		if aMax[axis] < bMin[axis] || aMin[axis] > bMax[axis] {
			return false
		}
	}
	return true
}

// IntersectsSegment is the slab test for the segment start..end.
func (a AABB) IntersectsSegment(start, end mgl32.Vec3) bool {
	min, max := a.Min(), a.Max()
	direction := end.Sub(start)
	tMin, tMax := float32(0), float32(1)
	for axis := 0; axis < 3; axis++ {
		if abs(direction[axis]) < 1e-9 {
			if start[axis] < min[axis] || start[axis] > max[axis] {
				return false
			}
			continue
		}
		inv := 1 / direction[axis]
		t1 := (min[axis] - start[axis]) * inv
		t2 := (max[axis] - start[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = Max(tMin, t1)
		tMax = Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// Grow returns the box enlarged by margin on every side.
func (a AABB) Grow(margin float32) AABB {
	return NewAABB(a.center, a.extents.Add(mgl32.Vec3{margin, margin, margin}.Mul(2)))
}
