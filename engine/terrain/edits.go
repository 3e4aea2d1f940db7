package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"sync"
)

// EditRequest asks for an edit where the ray from Origin along Direction
// first hits the terrain.
type EditRequest struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
	Shape     voxel.Shape
	Value     float32
	Material  *voxel.Material
}

func (r EditRequest) Edit() voxel.Edit {
	return voxel.Edit{Shape: r.Shape, Value: r.Value, Material: r.Material}
}

const DefaultEditRadius = 1.5

// Fill sets a sphere to solid (1), Carve sets it to empty (0). These are
// the primary and secondary button actions.
func Fill(origin, direction mgl32.Vec3, radius float32) EditRequest {
	return EditRequest{Origin: origin, Direction: direction, Shape: voxel.Sphere{Radius: radius}, Value: 1}
}

func Carve(origin, direction mgl32.Vec3, radius float32) EditRequest {
	return EditRequest{Origin: origin, Direction: direction, Shape: voxel.Sphere{Radius: radius}, Value: 0}
}

// EditQueue collects requests from any goroutine until the tick drains them.
type EditQueue struct {
	mutex   sync.Mutex
	pending []EditRequest
}

func (q *EditQueue) Submit(request EditRequest) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.pending = append(q.pending, request)
}

// Drain returns all pending requests in submission order and empties the
// queue.
func (q *EditQueue) Drain() []EditRequest {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	drained := q.pending
	q.pending = nil
	return drained
}

func (q *EditQueue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.pending)
}
