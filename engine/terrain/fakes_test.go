package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"github.com/pkg/errors"
)

type fakeRenderer struct {
	next           uint64
	meshes         map[voxel.MeshHandle]voxel.Int3
	materials      map[voxel.MaterialHandle]voxel.Int3
	removed        int
	removedUnknown int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		meshes:    make(map[voxel.MeshHandle]voxel.Int3),
		materials: make(map[voxel.MaterialHandle]voxel.Int3),
	}
}

func (r *fakeRenderer) AddMesh(pos voxel.Int3, mesh *voxel.Mesh) voxel.MeshHandle {
	r.next++
	r.meshes[voxel.MeshHandle(r.next)] = pos
	return voxel.MeshHandle(r.next)
}

func (r *fakeRenderer) AddMaterial(pos voxel.Int3) voxel.MaterialHandle {
	r.next++
	r.materials[voxel.MaterialHandle(r.next)] = pos
	return voxel.MaterialHandle(r.next)
}

func (r *fakeRenderer) RemoveMesh(handle voxel.MeshHandle) {
	if _, ok := r.meshes[handle]; !ok {
		r.removedUnknown++
	}
	delete(r.meshes, handle)
	r.removed++
}

func (r *fakeRenderer) RemoveMaterial(handle voxel.MaterialHandle) {
	if _, ok := r.materials[handle]; !ok {
		r.removedUnknown++
	}
	delete(r.materials, handle)
}

type fakePhysics struct {
	next      uint64
	colliders map[voxel.ColliderHandle]voxel.Int3
	failing   map[voxel.Int3]bool

	// hitChunk and hitDistance script the next ray casts
	hitChunk    *voxel.Int3
	hitDistance float32
	casts       int
	lastExclude *voxel.ColliderHandle
	lastMaxDist float32
}

func newFakePhysics() *fakePhysics {
	return &fakePhysics{
		colliders: make(map[voxel.ColliderHandle]voxel.Int3),
		failing:   make(map[voxel.Int3]bool),
	}
}

func (p *fakePhysics) AddCollider(pos voxel.Int3, mesh *voxel.Mesh) (voxel.ColliderHandle, error) {
	if p.failing[pos] {
		return 0, errors.New("degenerate collision mesh")
	}
	p.next++
	p.colliders[voxel.ColliderHandle(p.next)] = pos
	return voxel.ColliderHandle(p.next), nil
}

func (p *fakePhysics) RemoveCollider(handle voxel.ColliderHandle) {
	delete(p.colliders, handle)
}

func (p *fakePhysics) CastRay(origin, direction mgl32.Vec3, maxDistance float32, exclude *voxel.ColliderHandle) (RayHit, bool) {
	p.casts++
	p.lastExclude = exclude
	p.lastMaxDist = maxDistance
	if p.hitChunk == nil {
		return RayHit{}, false
	}
	for handle, pos := range p.colliders {
		if pos == *p.hitChunk {
			return RayHit{Collider: handle, Distance: p.hitDistance, Point: origin.Add(direction.Mul(p.hitDistance))}, true
		}
	}
	return RayHit{}, false
}

type memoryStore struct {
	grids map[voxel.Int3]voxel.Grid
	saves int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{grids: make(map[voxel.Int3]voxel.Grid)}
}

func (s *memoryStore) LoadGrid(pos voxel.Int3) (voxel.Grid, bool, error) {
	grid, ok := s.grids[pos]
	return grid, ok, nil
}

func (s *memoryStore) SaveGrid(pos voxel.Int3, grid *voxel.Grid) error {
	s.grids[pos] = *grid
	s.saves++
	return nil
}

type eventLog struct {
	events []Event
}

func (l *eventLog) OnTerrainEvent(event Event) {
	l.events = append(l.events, event)
}

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// floorGenerator is solid up to and including world height y=4.
var floorGenerator = voxel.GeneratorFunc(func(pos voxel.Int3) voxel.Grid {
	var grid voxel.Grid
	origin := voxel.ChunkOrigin(pos)
	size := int(voxel.GRID_SIZE)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			for z := 0; z < size; z++ {
				cell := voxel.Cell{Material: voxel.Dirt}
				if int(origin.Y)+y <= 4 {
					cell.Value = 1
				}
				grid.Set(x, y, z, cell)
			}
		}
	}
	return grid
})

var emptyGenerator = voxel.ConstantGenerator{Cell: voxel.Cell{Value: 0}}
