package voxel

const (
	CHUNK_SIZE        int32 = 16
	GRID_SIZE         int32 = CHUNK_SIZE + 1
	GRID_SIZE_SQUARED int32 = GRID_SIZE * GRID_SIZE
	GRID_SIZE_CUBED   int32 = GRID_SIZE * GRID_SIZE * GRID_SIZE

	// ISO_LEVEL separates solid (>=) from empty (<) samples.
	ISO_LEVEL float32 = 0.5
)

// ChebyshevDistance3 is the largest per-axis distance, the cube radius that
// still contains b around a.
func ChebyshevDistance3(a, b Int3) int32 {
	return max(Abs(a.X-b.X), Abs(a.Y-b.Y), Abs(a.Z-b.Z))
}

func Abs(i int32) int32 {
	if i < 0 {
		return -i
	}
	return i
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
