package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// cubeOffsets are the local positions of the corners returned by CubeCorners.
var cubeOffsets = [8]mgl32.Vec3{
	{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1},
	{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1},
}

// interpolateEdge places the surface crossing on the edge pa-pb and picks
// the material of the corner whose value lies nearer the iso level. Ties go
// to corner a.
func interpolateEdge(iso float32, pa, pb mgl32.Vec3, va, vb float32, ma, mb Material) (mgl32.Vec3, Material) {
	var t float32
	if va != vb {
		t = (iso - va) / (vb - va)
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	position := pa.Add(pb.Sub(pa).Mul(t))

	material := ma
	if abs32(vb-iso) < abs32(va-iso) {
		material = mb
	}
	return position, material
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

// Polygonize runs marching cubes over all N^3 cubes of a grid whose cell
// (0,0,0) sits at the world position origin. It returns nil when the grid
// holds no surface.
func Polygonize(grid *Grid, origin Int3) *Mesh {
	mesh := &Mesh{}
	var (
		values    [8]float32
		materials [8]Material
		corners   [8]mgl32.Vec3
		edgePos   [12]mgl32.Vec3
		edgeMat   [12]Material
	)
	base := origin.ToVec3()
	size := int(CHUNK_SIZE)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			for z := 0; z < size; z++ {
				cubeIndex := 0
				indices := CubeCorners(x, y, z)
				cubePos := base.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
				for i, index := range indices {
					cell := grid.cells[index]
					values[i] = cell.Value
					materials[i] = cell.Material
					corners[i] = cubePos.Add(cubeOffsets[i])
					if cell.Value < ISO_LEVEL {
						cubeIndex |= 1 << i
					}
				}

				edges := edgeTable[cubeIndex]
				if edges == 0 {
					continue
				}
				for edge, pair := range cubeEdges {
					if edges&(1<<edge) == 0 {
						continue
					}
					a, b := pair[0], pair[1]
					edgePos[edge], edgeMat[edge] = interpolateEdge(ISO_LEVEL, corners[a], corners[b], values[a], values[b], materials[a], materials[b])
				}

				row := &triTable[cubeIndex]
				for i := 0; row[i] != -1; i += 3 {
					e0, e1, e2 := row[i], row[i+1], row[i+2]
					mesh.appendTriangle(edgePos[e0], edgePos[e1], edgePos[e2], edgeMat[e0], edgeMat[e1], edgeMat[e2])
				}
			}
		}
	}
	if len(mesh.Indices) == 0 {
		return nil
	}
	return mesh
}
