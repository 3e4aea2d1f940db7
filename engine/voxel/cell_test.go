package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"testing"
)

func TestIndexRoundTrip(t *testing.T) {
	for i := 0; i < int(GRID_SIZE_CUBED); i++ {
		x, y, z := IndexToCell(i)
		if !InGrid(x, y, z) {
			t.Fatalf("index %d decoded outside the grid: %d,%d,%d", i, x, y, z)
		}
		if back := CellToIndex(x, y, z); back != i {
			t.Fatalf("index %d -> (%d,%d,%d) -> %d", i, x, y, z, back)
		}
	}
	if got := CellToIndex(1, 2, 3); got != 1*289+2*17+3 {
		t.Errorf("CellToIndex(1,2,3) = %d", got)
	}
}

func TestCubeCornerOrder(t *testing.T) {
	corners := CubeCorners(2, 3, 4)
	want := [8][3]int{
		{2, 3, 4}, {3, 3, 4}, {3, 3, 5}, {2, 3, 5},
		{2, 4, 4}, {3, 4, 4}, {3, 4, 5}, {2, 4, 5},
	}
	for i, c := range want {
		if corners[i] != CellToIndex(c[0], c[1], c[2]) {
			t.Errorf("corner %d: got index %d, want %v", i, corners[i], c)
		}
	}
}

func TestChunkCoordOf(t *testing.T) {
	tests := []struct {
		world mgl32.Vec3
		want  Int3
	}{
		{mgl32.Vec3{0, 0, 0}, Int3{0, 0, 0}},
		{mgl32.Vec3{15.9, 16, 31.99}, Int3{0, 1, 1}},
		{mgl32.Vec3{-0.1, -16, -16.5}, Int3{-1, -1, -2}},
	}
	for _, test := range tests {
		if got := ChunkCoordOf(test.world); got != test.want {
			t.Errorf("ChunkCoordOf(%v) = %v, want %v", test.world, got, test.want)
		}
	}
	if got := ChunkCoordOfCell(Int3{-1, 16, -17}); got != (Int3{-1, 1, -2}) {
		t.Errorf("ChunkCoordOfCell = %v", got)
	}
}

func TestContainsSharesFaces(t *testing.T) {
	face := mgl32.Vec3{16, 4, 4}
	if !Contains(Int3{0, 0, 0}, face) || !Contains(Int3{1, 0, 0}, face) {
		t.Fatal("shared face must belong to both chunks")
	}
	if Contains(Int3{0, 0, 0}, mgl32.Vec3{16.01, 4, 4}) {
		t.Fatal("point past the face belongs only to the next chunk")
	}
}

func TestNeighbors(t *testing.T) {
	center := Int3{3, -2, 7}
	neighbors := Neighbors(center)
	seen := make(map[Int3]bool)
	for _, n := range neighbors {
		d := n.Sub(center)
		if d == (Int3{}) || Abs(d.X) > 1 || Abs(d.Y) > 1 || Abs(d.Z) > 1 {
			t.Fatalf("bad neighbor offset %v", d)
		}
		seen[n] = true
	}
	if len(seen) != 26 {
		t.Fatalf("expected 26 distinct neighbors, got %d", len(seen))
	}
	if neighbors[0] != center.Add(Int3{-1, -1, -1}) || neighbors[1] != center.Add(Int3{-1, -1, 0}) {
		t.Errorf("neighbors not in x, y, z order: %v %v", neighbors[0], neighbors[1])
	}
	if neighbors[25] != center.Add(Int3{1, 1, 1}) {
		t.Errorf("last neighbor = %v", neighbors[25])
	}
}

func TestMaterialNames(t *testing.T) {
	for m := Stone; m <= Ruby; m++ {
		back, ok := MaterialFromName(m.String())
		if !ok || back != m {
			t.Errorf("material %d does not round trip through %q", m, m.String())
		}
	}
	if _, ok := MaterialFromName("obsidian"); ok {
		t.Error("unknown material accepted")
	}
}

func TestChebyshevDistance3(t *testing.T) {
	tests := []struct {
		a, b Int3
		want int32
	}{
		{Int3{}, Int3{}, 0},
		{Int3{}, Int3{1, -1, 1}, 1},
		{Int3{2, 0, 0}, Int3{-1, 1, 0}, 3},
		{Int3{0, 5, 0}, Int3{1, -2, 4}, 7},
	}
	for _, test := range tests {
		if got := ChebyshevDistance3(test.a, test.b); got != test.want {
			t.Errorf("ChebyshevDistance3(%v, %v) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestWorldLocalRoundTrip(t *testing.T) {
	pos := Int3{-2, 0, 3}
	world := Int3{-30, 7, 48}
	local := WorldToLocal(pos, world)
	if local != (Int3{2, 7, 0}) {
		t.Fatalf("WorldToLocal = %v", local)
	}
	if back := LocalToWorld(pos, local); back != world {
		t.Fatalf("LocalToWorld = %v, want %v", back, world)
	}
}
