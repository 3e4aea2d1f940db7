package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/marchingterrain/engine/voxel"
)

// ReferenceProvider supplies the position streaming is centered on. ok is
// false while there is no reference, e.g. before a player exists.
type ReferenceProvider interface {
	ReferencePosition() (position mgl32.Vec3, ok bool)
	// ReferenceCollider is excluded from edit ray casts.
	ReferenceCollider() (collider voxel.ColliderHandle, ok bool)
}

type Renderer interface {
	AddMesh(pos voxel.Int3, mesh *voxel.Mesh) voxel.MeshHandle
	AddMaterial(pos voxel.Int3) voxel.MaterialHandle
	RemoveMesh(handle voxel.MeshHandle)
	RemoveMaterial(handle voxel.MaterialHandle)
}

type RayHit struct {
	Collider voxel.ColliderHandle
	Distance float32
	Point    mgl32.Vec3
}

type Physics interface {
	AddCollider(pos voxel.Int3, mesh *voxel.Mesh) (voxel.ColliderHandle, error)
	RemoveCollider(handle voxel.ColliderHandle)
	// CastRay returns the nearest hit within maxDistance along the
	// normalized direction, ignoring the excluded collider.
	CastRay(origin, direction mgl32.Vec3, maxDistance float32, exclude *voxel.ColliderHandle) (RayHit, bool)
}

// Store keeps grids of edited chunks while they are streamed out.
type Store interface {
	LoadGrid(pos voxel.Int3) (voxel.Grid, bool, error)
	SaveGrid(pos voxel.Int3, grid *voxel.Grid) error
}

// StaticReference is a ReferenceProvider with a fixed position.
type StaticReference struct {
	Position    mgl32.Vec3
	Valid       bool
	Collider    voxel.ColliderHandle
	HasCollider bool
}

func (s *StaticReference) ReferencePosition() (mgl32.Vec3, bool) {
	return s.Position, s.Valid
}

func (s *StaticReference) ReferenceCollider() (voxel.ColliderHandle, bool) {
	return s.Collider, s.HasCollider
}
