package physics

import (
	"fmt"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/marchingterrain/engine/terrain"
	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"github.com/pkg/errors"
	"math"
	"sort"
	"sync"
)

// World is a minimal collision backend: static triangle colliders for
// terrain chunks plus segment queries against them.
type World struct {
	mutex     sync.RWMutex
	next      uint64
	colliders map[voxel.ColliderHandle]*util.TriangleCollider
}

func NewWorld() *World {
	return &World{
		colliders: make(map[voxel.ColliderHandle]*util.TriangleCollider),
	}
}

// AddCollider builds a collider from the chunk mesh. Meshes made only of
// degenerate triangles are rejected.
func (w *World) AddCollider(pos voxel.Int3, mesh *voxel.Mesh) (voxel.ColliderHandle, error) {
	if mesh == nil {
		return 0, errors.Errorf("chunk %s has no mesh", pos)
	}
	collider, err := util.NewTriangleCollider(fmt.Sprintf("chunk%s", pos), mesh.Positions, mesh.Indices)
	if err != nil {
		return 0, errors.Wrapf(err, "collider for chunk %s", pos)
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.next++
	handle := voxel.ColliderHandle(w.next)
	w.colliders[handle] = collider
	return handle, nil
}

// AddStatic registers an arbitrary triangle soup, e.g. a player body that
// edit rays should be able to exclude.
func (w *World) AddStatic(name string, positions []mgl32.Vec3, indices []uint32) (voxel.ColliderHandle, error) {
	collider, err := util.NewTriangleCollider(name, positions, indices)
	if err != nil {
		return 0, err
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.next++
	handle := voxel.ColliderHandle(w.next)
	w.colliders[handle] = collider
	return handle, nil
}

func (w *World) RemoveCollider(handle voxel.ColliderHandle) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	delete(w.colliders, handle)
}

func (w *World) Len() int {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return len(w.colliders)
}

// CastRay returns the nearest collider hit within maxDistance. Colliders are
// visited in handle order so equal distances resolve the same way each time.
func (w *World) CastRay(origin, direction mgl32.Vec3, maxDistance float32, exclude *voxel.ColliderHandle) (terrain.RayHit, bool) {
	if direction.Len() == 0 || maxDistance <= 0 {
		return terrain.RayHit{}, false
	}
	direction = direction.Normalize()
	end := origin.Add(direction.Mul(maxDistance))

	w.mutex.RLock()
	defer w.mutex.RUnlock()
	handles := make([]voxel.ColliderHandle, 0, len(w.colliders))
	for handle := range w.colliders {
		if exclude != nil && handle == *exclude {
			continue
		}
		handles = append(handles, handle)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	best := terrain.RayHit{Distance: float32(math.MaxFloat32)}
	found := false
	for _, handle := range handles {
		hit, point := w.colliders[handle].IntersectsRay(origin, end)
		if !hit {
			continue
		}
		distance := point.Sub(origin).Len()
		if distance < best.Distance {
			best = terrain.RayHit{Collider: handle, Distance: distance, Point: point}
			found = true
		}
	}
	return best, found
}
