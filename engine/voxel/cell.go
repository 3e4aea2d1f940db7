package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Material uint8

const (
	Stone Material = iota
	Granite
	Dirt
	Iron
	Gold
	Ruby
)

var materialNames = [...]string{
	Stone:   "stone",
	Granite: "granite",
	Dirt:    "dirt",
	Iron:    "iron",
	Gold:    "gold",
	Ruby:    "ruby",
}

// linear RGBA
var materialColors = [...]mgl32.Vec4{
	Stone:   {0.5, 0.5, 0.5, 1},
	Granite: {0.9, 0.9, 0.88, 1},
	Dirt:    {0.4, 0.26, 0.13, 1},
	Iron:    {0.72, 0.36, 0.16, 1},
	Gold:    {1, 0.84, 0, 1},
	Ruby:    {0.85, 0.05, 0.1, 1},
}

func (m Material) String() string {
	if int(m) < len(materialNames) {
		return materialNames[m]
	}
	return "unknown"
}

func (m Material) Color() mgl32.Vec4 {
	if int(m) < len(materialColors) {
		return materialColors[m]
	}
	return materialColors[Stone]
}

func (m Material) Valid() bool {
	return int(m) < len(materialNames)
}

func MaterialFromName(name string) (Material, bool) {
	for i, n := range materialNames {
		if n == name {
			return Material(i), true
		}
	}
	return Stone, false
}

type Cell struct {
	Value    float32
	Material Material
}

// Grid holds the (N+1)^3 samples of one chunk. The last layer on each axis
// is a copy of the first layer of the next chunk.
type Grid struct {
	cells [GRID_SIZE_CUBED]Cell
}

func CellToIndex(x, y, z int) int {
	return x*int(GRID_SIZE_SQUARED) + y*int(GRID_SIZE) + z
}

func IndexToCell(index int) (int, int, int) {
	z := index % int(GRID_SIZE)
	y := (index / int(GRID_SIZE)) % int(GRID_SIZE)
	x := index / int(GRID_SIZE_SQUARED)
	return x, y, z
}

func InGrid(x, y, z int) bool {
	n := int(GRID_SIZE)
	return x >= 0 && x < n && y >= 0 && y < n && z >= 0 && z < n
}

// CubeCorners returns the 8 cell indices of the cube at (x,y,z): the bottom
// face counter-clockwise from the origin, then the top face.
func CubeCorners(x, y, z int) [8]int {
	return [8]int{
		// bottom
		CellToIndex(x, y, z),
		CellToIndex(x+1, y, z),
		CellToIndex(x+1, y, z+1),
		CellToIndex(x, y, z+1),
		// top
		CellToIndex(x, y+1, z),
		CellToIndex(x+1, y+1, z),
		CellToIndex(x+1, y+1, z+1),
		CellToIndex(x, y+1, z+1),
	}
}

func (g *Grid) At(x, y, z int) Cell {
	return g.cells[CellToIndex(x, y, z)]
}

func (g *Grid) Set(x, y, z int, cell Cell) {
	g.cells[CellToIndex(x, y, z)] = cell
}

func (g *Grid) AtIndex(index int) Cell {
	return g.cells[index]
}

func (g *Grid) SetIndex(index int, cell Cell) {
	g.cells[index] = cell
}

func (g *Grid) Fill(cell Cell) {
	for i := range g.cells {
		g.cells[i] = cell
	}
}

func (g *Grid) Len() int {
	return len(g.cells)
}

func (g *Grid) Equal(other *Grid) bool {
	return g.cells == other.cells
}

// NewFilledGrid is mostly useful for tests and flat test worlds.
func NewFilledGrid(value float32, material Material) *Grid {
	g := &Grid{}
	g.Fill(Cell{Value: value, Material: material})
	return g
}
