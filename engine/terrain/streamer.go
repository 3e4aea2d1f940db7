package terrain

import (
	"fmt"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/memmaker/marchingterrain/engine/voxel"
)

// Streamer keeps the chunks around a reference position alive. It holds no
// state between updates; missing chunks are recomputed every time.
type Streamer struct {
	RenderDistance int32
	SpawnPerTick   int
}

type StreamResult struct {
	Center  voxel.Int3
	Marked  []voxel.Int3
	Spawned []voxel.Int3
	// Missing counts wanted chunks still absent after this update.
	Missing int
}

func (s Streamer) radius() int32 {
	if s.RenderDistance < 0 {
		return 1
	}
	return s.RenderDistance + 1
}

func (s Streamer) spawnLimit() int {
	if s.SpawnPerTick < 1 {
		return 1
	}
	return s.SpawnPerTick
}

// Wanted lists every coordinate within the cubic radius around center.
func (s Streamer) Wanted(center voxel.Int3) []voxel.Int3 {
	r := s.radius()
	side := 2*r + 1
	wanted := make([]voxel.Int3, 0, side*side*side)
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			for z := -r; z <= r; z++ {
				wanted = append(wanted, center.Add(voxel.Int3{X: x, Y: y, Z: z}))
			}
		}
	}
	return wanted
}

func (s Streamer) inRange(center, pos voxel.Int3) bool {
	return voxel.ChebyshevDistance3(center, pos) <= s.radius()
}

// Update marks chunks out of range for destruction and spawns the nearest
// missing ones, at most SpawnPerTick per call.
func (s Streamer) Update(field *Field, reference mgl32.Vec3) StreamResult {
	center := voxel.ChunkCoordOf(reference)
	result := StreamResult{Center: center}

	for _, pos := range field.Coords() {
		chunk := field.Chunk(pos)
		if !s.inRange(center, pos) && !chunk.ShouldDestroy() {
			chunk.MarkForDestroy()
			result.Marked = append(result.Marked, pos)
		}
	}

	queue := util.NewPriorityQueue[voxel.Int3](nil)
	for _, pos := range s.Wanted(center) {
		if !field.Has(pos) {
			queue.PushValue(pos, int(pos.Sub(center).LengthSquared()))
		}
	}

	limit := s.spawnLimit()
	batch := make([]voxel.Int3, 0, limit)
	for !queue.IsEmpty() && len(batch) < limit {
		batch = append(batch, queue.PopValue())
	}
	for _, chunk := range field.SpawnBatch(batch) {
		result.Spawned = append(result.Spawned, chunk.Position())
	}
	result.Missing = queue.Len()

	if len(result.Spawned) > 0 || len(result.Marked) > 0 {
		util.LogStreamDebug(fmt.Sprintf("[Streamer] center %s: spawned %d, marked %d, missing %d", center, len(result.Spawned), len(result.Marked), result.Missing))
	}
	return result
}
