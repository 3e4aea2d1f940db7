package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/marchingterrain/engine/physics"
	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/memmaker/marchingterrain/engine/voxel"
)

// Walker is the demo reference point. It circles the origin and carries a
// small box body so edit rays cast from inside it ignore it.
type Walker struct {
	center   mgl32.Vec3
	radius   float32
	step     float32
	angle    float32
	position mgl32.Vec3

	world    *physics.World
	body     voxel.ColliderHandle
	hasBody  bool
	halfSize float32
}

func NewWalker(world *physics.World, center mgl32.Vec3, radius, step float32) *Walker {
	w := &Walker{
		center:   center,
		radius:   radius,
		step:     step,
		world:    world,
		halfSize: 0.4,
	}
	w.moveTo(util.PointOnCircle(center, radius, 0))
	return w
}

func (w *Walker) ReferencePosition() (mgl32.Vec3, bool) {
	return w.position, true
}

func (w *Walker) ReferenceCollider() (voxel.ColliderHandle, bool) {
	return w.body, w.hasBody
}

func (w *Walker) Advance() {
	w.angle += w.step
	w.moveTo(util.PointOnCircle(w.center, w.radius, w.angle))
}

func (w *Walker) moveTo(position mgl32.Vec3) {
	w.position = position
	if w.world == nil {
		return
	}
	if w.hasBody {
		w.world.RemoveCollider(w.body)
		w.hasBody = false
	}
	positions, indices := boxTriangles(position, w.halfSize)
	handle, err := w.world.AddStatic("walker", positions, indices)
	if err != nil {
		util.LogSystemError(fmt.Sprintf("[Walker] body collider: %v", err))
		return
	}
	w.body = handle
	w.hasBody = true
}

// boxTriangles returns an axis aligned cube around center as 12 triangles.
func boxTriangles(center mgl32.Vec3, half float32) ([]mgl32.Vec3, []uint32) {
	positions := make([]mgl32.Vec3, 8)
	for i := range positions {
		offset := mgl32.Vec3{-half, -half, -half}
		if i&1 != 0 {
			offset[0] = half
		}
		if i&2 != 0 {
			offset[1] = half
		}
		if i&4 != 0 {
			offset[2] = half
		}
		positions[i] = center.Add(offset)
	}
	indices := []uint32{
		0, 2, 1, 1, 2, 3, // -z
		4, 5, 6, 5, 7, 6, // +z
		0, 1, 4, 1, 5, 4, // -y
		2, 6, 3, 3, 6, 7, // +y
		0, 4, 2, 2, 4, 6, // -x
		1, 3, 5, 3, 7, 5, // +x
	}
	return positions, indices
}
