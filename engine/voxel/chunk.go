package voxel

import (
	"fmt"
	"github.com/go-gl/mathgl/mgl32"
)

// Handles are opaque ids issued by the renderer and physics collaborators.
type MeshHandle uint64
type MaterialHandle uint64
type ColliderHandle uint64

// Published records what is currently shown for a chunk.
type Published struct {
	Mesh        MeshHandle
	Material    MaterialHandle
	Collider    ColliderHandle
	HasCollider bool
}

type Chunk struct {
	position      Int3
	grid          Grid
	isDirty       bool
	shouldDestroy bool
	modified      bool
	mesh          *Mesh
	published     *Published
}

func NewChunk(pos Int3, grid Grid) *Chunk {
	return &Chunk{
		position: pos,
		grid:     grid,
		isDirty:  true,
	}
}

func (c *Chunk) Position() Int3 {
	return c.position
}

func (c *Chunk) Origin() Int3 {
	return ChunkOrigin(c.position)
}

func (c *Chunk) Grid() *Grid {
	return &c.grid
}

func (c *Chunk) IsDirty() bool {
	return c.isDirty
}

func (c *Chunk) SetDirty() {
	c.isDirty = true
}

// Modified reports whether an edit ever touched this chunk.
func (c *Chunk) Modified() bool {
	return c.modified
}

func (c *Chunk) MarkForDestroy() {
	c.shouldDestroy = true
}

func (c *Chunk) ShouldDestroy() bool {
	return c.shouldDestroy
}

func (c *Chunk) Mesh() *Mesh {
	return c.mesh
}

func (c *Chunk) Published() *Published {
	return c.published
}

func (c *Chunk) SetPublished(p Published) {
	c.published = &p
}

func (c *Chunk) ClearPublished() {
	c.published = nil
}

// Polygonize rebuilds the cached mesh from the current grid and clears the
// dirty flag. The result is nil if the chunk has no surface.
func (c *Chunk) Polygonize() *Mesh {
	c.mesh = Polygonize(&c.grid, c.Origin())
	c.isDirty = false
	return c.mesh
}

// Edit writes the edit into every sample of this chunk covered by the
// shape around center. It returns false when the shape misses the chunk.
func (c *Chunk) Edit(center mgl32.Vec3, edit Edit) bool {
	lo, hi := edit.Shape.Bounds(center)
	min, max := ChunkBounds(c.position)
	if hi.X < min.X || lo.X > max.X || hi.Y < min.Y || lo.Y > max.Y || hi.Z < min.Z || lo.Z > max.Z {
		return false
	}
	lo = lo.Clamp(min, max)
	hi = hi.Clamp(min, max)
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				index := CellToIndex(int(x-min.X), int(y-min.Y), int(z-min.Z))
				c.grid.cells[index].Value = edit.Value
				if edit.Material != nil {
					c.grid.cells[index].Material = *edit.Material
				}
			}
		}
	}
	c.isDirty = true
	c.modified = true
	return true
}

// Restore replaces the grid with a previously saved copy, keeping the
// chunk marked as modified so it is saved again on removal.
func (c *Chunk) Restore(grid Grid) {
	c.grid = grid
	c.modified = true
	c.isDirty = true
}

func (c *Chunk) String() string {
	return fmt.Sprintf("Chunk%s", c.position.String())
}
