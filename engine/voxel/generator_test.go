package voxel

import (
	"testing"

	"github.com/ojrac/opensimplex-go"
)

func TestNoiseGeneratorDeterministic(t *testing.T) {
	a := NewNoiseGenerator(DefaultNoiseSettings())
	b := NewNoiseGenerator(DefaultNoiseSettings())
	pos := Int3{2, -1, 3}
	ga, gb := a.Generate(pos), b.Generate(pos)
	if !ga.Equal(&gb) {
		t.Fatal("same seed and coordinate produced different grids")
	}
	again := a.Generate(pos)
	if !ga.Equal(&again) {
		t.Fatal("generator is not pure")
	}
}

func TestNoiseGeneratorRange(t *testing.T) {
	settings := DefaultNoiseSettings()
	settings.Octaves = 3
	gen := NewNoiseGenerator(settings)
	grid := gen.Generate(Int3{0, 0, 0})
	for i := 0; i < grid.Len(); i++ {
		cell := grid.AtIndex(i)
		if cell.Value < 0 || cell.Value > 1 {
			t.Fatalf("density %f out of range at %d", cell.Value, i)
		}
		if !cell.Material.Valid() {
			t.Fatalf("invalid material %d", cell.Material)
		}
	}
}

func TestGeneratorSharesFaces(t *testing.T) {
	gen := NewNoiseGenerator(DefaultNoiseSettings())
	left := gen.Generate(Int3{0, 0, 0})
	right := gen.Generate(Int3{1, 0, 0})
	for y := 0; y < int(GRID_SIZE); y++ {
		for z := 0; z < int(GRID_SIZE); z++ {
			if left.At(int(CHUNK_SIZE), y, z) != right.At(0, y, z) {
				t.Fatalf("face sample differs at y=%d z=%d", y, z)
			}
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	settings := DefaultNoiseSettings()
	a := NewNoiseGenerator(settings).Generate(Int3{})
	settings.Seed = 7
	b := NewNoiseGenerator(settings).Generate(Int3{})
	if a.Equal(&b) {
		t.Fatal("different seeds produced identical grids")
	}
}

func TestClassifyMaterial(t *testing.T) {
	tests := []struct {
		v    float32
		want Material
	}{
		{0.1, Dirt},
		{0.2, Stone},
		{0.35, Granite},
		{0.3, Stone},
		{0.62, Iron},
		{0.81, Gold},
		{0.905, Ruby},
		{0.95, Stone},
		{0.5, Stone},
	}
	for _, test := range tests {
		if got := ClassifyMaterial(test.v); got != test.want {
			t.Errorf("ClassifyMaterial(%v) = %v, want %v", test.v, got, test.want)
		}
	}
}

func TestDefaultNoiseIsFractal(t *testing.T) {
	settings := DefaultNoiseSettings()
	if settings.Octaves != 6 || settings.Lacunarity != 2 || settings.Persistence != 0.5 {
		t.Fatalf("default fbm settings %+v", settings)
	}
	gen := NewNoiseGenerator(settings)
	base := opensimplex.New(settings.Seed)
	differ := 0
	for i := 0; i < 100; i++ {
		x, y, z := float64(i*7-300), float64(i*3-50), float64(i*11-500)
		single := float32(base.Eval3(x*settings.DensityScale, y*settings.DensityScale, z*settings.DensityScale)*0.5 + 0.5)
		if d := gen.Density(x, y, z) - single; d > 1e-4 || d < -1e-4 {
			differ++
		}
	}
	if differ < 90 {
		t.Fatalf("only %d of 100 samples differ from a single octave", differ)
	}
}

func TestSingleOctaveMatchesPlainNoise(t *testing.T) {
	settings := DefaultNoiseSettings()
	settings.Octaves = 1
	gen := NewNoiseGenerator(settings)
	base := opensimplex.New(settings.Seed)
	for i := 0; i < 20; i++ {
		x, y, z := float64(i*5), float64(-i*9), float64(i*13)
		want := float32(base.Eval3(x*settings.DensityScale, y*settings.DensityScale, z*settings.DensityScale)*0.5 + 0.5)
		if got := gen.Density(x, y, z); got-want > 1e-6 || want-got > 1e-6 {
			t.Fatalf("density(%v,%v,%v) = %f, want %f", x, y, z, got, want)
		}
	}
}

func TestNoiseGeneratorNeedsOneOctave(t *testing.T) {
	settings := DefaultNoiseSettings()
	settings.Octaves = 0
	if got := NewNoiseGenerator(settings).Settings().Octaves; got != 1 {
		t.Fatalf("octaves = %d", got)
	}
}
