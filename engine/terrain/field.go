package terrain

import (
	"fmt"
	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"github.com/pkg/errors"
	"runtime"
	"sort"
	"sync"
)

// Field owns every live chunk. It is not safe for concurrent use; only
// SpawnBatch fans work out, and it joins before touching the chunk map.
type Field struct {
	chunks    map[voxel.Int3]*voxel.Chunk
	generator voxel.Generator
	store     Store
	pool      pond.Pool
}

func NewField(generator voxel.Generator, store Store, workers int) *Field {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Field{
		chunks:    make(map[voxel.Int3]*voxel.Chunk),
		generator: generator,
		store:     store,
		pool:      pond.NewPool(workers),
	}
}

func (f *Field) Close() {
	f.pool.StopAndWait()
}

func (f *Field) Len() int {
	return len(f.chunks)
}

func (f *Field) Chunk(pos voxel.Int3) *voxel.Chunk {
	return f.chunks[pos]
}

func (f *Field) Has(pos voxel.Int3) bool {
	_, ok := f.chunks[pos]
	return ok
}

// Coords returns the live chunk coordinates in x, y, z order.
func (f *Field) Coords() []voxel.Int3 {
	coords := make([]voxel.Int3, 0, len(f.chunks))
	for pos := range f.chunks {
		coords = append(coords, pos)
	}
	sort.Slice(coords, func(i, j int) bool {
		return coords[i].Less(coords[j])
	})
	return coords
}

// Spawn creates the chunk at pos. Spawning a live coordinate is a no-op.
func (f *Field) Spawn(pos voxel.Int3) *voxel.Chunk {
	if chunk, ok := f.chunks[pos]; ok {
		return chunk
	}
	chunk := f.newChunk(pos)
	f.chunks[pos] = chunk
	return chunk
}

// SpawnBatch generates all missing chunks on the worker pool and inserts
// them in the given order.
func (f *Field) SpawnBatch(coords []voxel.Int3) []*voxel.Chunk {
	created := make([]*voxel.Chunk, len(coords))
	var wg sync.WaitGroup
	for i, pos := range coords {
		if f.Has(pos) {
			continue
		}
		wg.Add(1)
		i, pos := i, pos
		f.pool.Submit(func() {
			defer wg.Done()
			created[i] = f.newChunk(pos)
		})
	}
	wg.Wait()

	spawned := make([]*voxel.Chunk, 0, len(coords))
	for _, chunk := range created {
		if chunk == nil || f.Has(chunk.Position()) {
			continue
		}
		f.chunks[chunk.Position()] = chunk
		spawned = append(spawned, chunk)
	}
	if len(spawned) > 0 {
		util.LogVoxelDebug(fmt.Sprintf("[Field] generated %d chunks, %d live", len(spawned), len(f.chunks)))
	}
	return spawned
}

// newChunk prefers a stored grid over a freshly generated one. It must not
// touch the chunk map.
func (f *Field) newChunk(pos voxel.Int3) *voxel.Chunk {
	if f.store != nil {
		grid, ok, err := f.store.LoadGrid(pos)
		if err != nil {
			util.LogIOError(fmt.Sprintf("[Field] loading chunk %s: %v", pos, err))
		} else if ok {
			chunk := voxel.NewChunk(pos, voxel.Grid{})
			chunk.Restore(grid)
			util.LogVoxelInfo(fmt.Sprintf("[Field] restored edited chunk %s", pos))
			return chunk
		}
	}
	return voxel.NewChunk(pos, f.generator.Generate(pos))
}

// Remove drops the chunk at pos. Edited grids are saved first.
func (f *Field) Remove(pos voxel.Int3) error {
	chunk, ok := f.chunks[pos]
	if !ok {
		return nil
	}
	delete(f.chunks, pos)
	if chunk.Modified() && f.store != nil {
		if err := f.store.SaveGrid(pos, chunk.Grid()); err != nil {
			return errors.Wrapf(err, "saving chunk %s", pos)
		}
	}
	return nil
}

// Neighbors returns the live chunks around pos.
func (f *Field) Neighbors(pos voxel.Int3) []*voxel.Chunk {
	var neighbors []*voxel.Chunk
	for _, n := range voxel.Neighbors(pos) {
		if chunk, ok := f.chunks[n]; ok {
			neighbors = append(neighbors, chunk)
		}
	}
	return neighbors
}

// ChunkAt finds a live chunk whose inclusive box contains world. The chunk
// at the floored coordinate is preferred.
func (f *Field) ChunkAt(world mgl32.Vec3) *voxel.Chunk {
	pos := voxel.ChunkCoordOf(world)
	if chunk, ok := f.chunks[pos]; ok {
		return chunk
	}
	for _, n := range voxel.Neighbors(pos) {
		if chunk, ok := f.chunks[n]; ok && voxel.Contains(n, world) {
			return chunk
		}
	}
	return nil
}

// ApplyEdit writes the edit into the hit chunk and every live neighbor of
// it. Shapes reaching past the first ring of neighbors are cut off there.
func (f *Field) ApplyEdit(hit voxel.Int3, center mgl32.Vec3, edit voxel.Edit) []voxel.Int3 {
	chunk, ok := f.chunks[hit]
	if !ok {
		return nil
	}
	var touched []voxel.Int3
	if chunk.Edit(center, edit) {
		touched = append(touched, hit)
	}
	for _, neighbor := range f.Neighbors(hit) {
		if neighbor.Edit(center, edit) {
			touched = append(touched, neighbor.Position())
		}
	}
	return touched
}
