package voxel

import (
	"fmt"
	"github.com/go-gl/mathgl/mgl32"
	"math"
)

type Int3 struct {
	X, Y, Z int32
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Sub(tr Int3) Int3 {
	return Int3{i.X - tr.X, i.Y - tr.Y, i.Z - tr.Z}
}

func (i Int3) Mul(factor int32) Int3 {
	i.X *= factor
	i.Y *= factor
	i.Z *= factor
	return i
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

func (i Int3) LengthSquared() int32 {
	return i.X*i.X + i.Y*i.Y + i.Z*i.Z
}

// Clamp limits every axis to [lo, hi].
func (i Int3) Clamp(lo, hi Int3) Int3 {
	return Int3{clamp32(i.X, lo.X, hi.X), clamp32(i.Y, lo.Y, hi.Y), clamp32(i.Z, lo.Z, hi.Z)}
}

// Less orders coordinates by X, then Y, then Z.
func (i Int3) Less(other Int3) bool {
	if i.X != other.X {
		return i.X < other.X
	}
	if i.Y != other.Y {
		return i.Y < other.Y
	}
	return i.Z < other.Z
}

func (i Int3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", i.X, i.Y, i.Z)
}

func RoundVec3(v mgl32.Vec3) Int3 {
	return Int3{
		int32(math.Round(float64(v.X()))),
		int32(math.Round(float64(v.Y()))),
		int32(math.Round(float64(v.Z()))),
	}
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ChunkOrigin is the world position of cell (0,0,0) of the chunk at pos.
func ChunkOrigin(pos Int3) Int3 {
	return pos.Mul(CHUNK_SIZE)
}

// ChunkCoordOf returns the chunk whose half-open box [pos*N, pos*N+N) holds world.
func ChunkCoordOf(world mgl32.Vec3) Int3 {
	n := float64(CHUNK_SIZE)
	return Int3{
		int32(math.Floor(float64(world.X()) / n)),
		int32(math.Floor(float64(world.Y()) / n)),
		int32(math.Floor(float64(world.Z()) / n)),
	}
}

// ChunkCoordOfCell is ChunkCoordOf for integer world cells.
func ChunkCoordOfCell(world Int3) Int3 {
	return Int3{floorDiv(world.X, CHUNK_SIZE), floorDiv(world.Y, CHUNK_SIZE), floorDiv(world.Z, CHUNK_SIZE)}
}

func WorldToLocal(pos Int3, world Int3) Int3 {
	return world.Sub(ChunkOrigin(pos))
}

func LocalToWorld(pos Int3, local Int3) Int3 {
	return ChunkOrigin(pos).Add(local)
}

// ChunkBounds returns the inclusive world box of a chunk. Boxes of adjacent
// chunks share their boundary face.
func ChunkBounds(pos Int3) (Int3, Int3) {
	min := ChunkOrigin(pos)
	return min, min.Add(Int3{CHUNK_SIZE, CHUNK_SIZE, CHUNK_SIZE})
}

func Contains(pos Int3, world mgl32.Vec3) bool {
	min, max := ChunkBounds(pos)
	if world.X() < float32(min.X) || world.Y() < float32(min.Y) || world.Z() < float32(min.Z) {
		return false
	}
	if world.X() > float32(max.X) || world.Y() > float32(max.Y) || world.Z() > float32(max.Z) {
		return false
	}
	return true
}

// Neighbors lists the 26 surrounding chunk coordinates, x outermost.
func Neighbors(pos Int3) [26]Int3 {
	var neighbors [26]Int3
	i := 0
	for x := int32(-1); x <= 1; x++ {
		for y := int32(-1); y <= 1; y++ {
			for z := int32(-1); z <= 1; z++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				neighbors[i] = pos.Add(Int3{x, y, z})
				i++
			}
		}
	}
	return neighbors
}
