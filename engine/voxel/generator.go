package voxel

import (
	"github.com/ojrac/opensimplex-go"
)

// Generator produces the initial samples of a chunk. Implementations must
// be pure functions of the coordinate and safe for concurrent use.
type Generator interface {
	Generate(pos Int3) Grid
}

type NoiseSettings struct {
	Seed          int64
	DensityScale  float64
	MaterialScale float64
	Octaves       int
	Lacunarity    float64
	Persistence   float64
}

func DefaultNoiseSettings() NoiseSettings {
	return NoiseSettings{
		Seed:          1337,
		DensityScale:  0.02,
		MaterialScale: 0.05,
		Octaves:       6,
		Lacunarity:    2,
		Persistence:   0.5,
	}
}

type NoiseGenerator struct {
	settings NoiseSettings
	density  opensimplex.Noise
	material opensimplex.Noise
}

func NewNoiseGenerator(settings NoiseSettings) *NoiseGenerator {
	if settings.Octaves < 1 {
		settings.Octaves = 1
	}
	return &NoiseGenerator{
		settings: settings,
		density:  opensimplex.New(settings.Seed),
		material: opensimplex.New(settings.Seed + 1),
	}
}

func (n *NoiseGenerator) Settings() NoiseSettings {
	return n.settings
}

func (n *NoiseGenerator) Generate(pos Int3) Grid {
	var grid Grid
	origin := ChunkOrigin(pos)
	size := int(GRID_SIZE)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			for z := 0; z < size; z++ {
				wx := float64(origin.X) + float64(x)
				wy := float64(origin.Y) + float64(y)
				wz := float64(origin.Z) + float64(z)
				grid.cells[CellToIndex(x, y, z)] = Cell{
					Value:    n.Density(wx, wy, wz),
					Material: n.Material(wx, wy, wz),
				}
			}
		}
	}
	return grid
}

// Density samples the fractal noise at a world position, remapped to [0,1].
func (n *NoiseGenerator) Density(wx, wy, wz float64) float32 {
	s := n.settings
	var sum, amplitude, norm float64 = 0, 1, 0
	frequency := s.DensityScale
	for octave := 0; octave < s.Octaves; octave++ {
		sum += n.density.Eval3(wx*frequency, wy*frequency, wz*frequency) * amplitude
		norm += amplitude
		amplitude *= s.Persistence
		frequency *= s.Lacunarity
	}
	if norm > 0 {
		sum /= norm
	}
	v := float32(sum*0.5 + 0.5)
	if v < 0 {
		return 0
	} else if v > 1 {
		return 1
	}
	return v
}

func (n *NoiseGenerator) Material(wx, wy, wz float64) Material {
	scale := n.settings.MaterialScale
	v := n.material.Eval3(wx*scale, wy*scale, wz*scale)*0.5 + 0.5
	return ClassifyMaterial(float32(v))
}

// ClassifyMaterial maps a [0,1] noise value to a material band. The bands
// are checked in order, the first match wins.
func ClassifyMaterial(v float32) Material {
	switch {
	case v < 0.2:
		return Dirt
	case v > 0.3 && v < 0.4:
		return Granite
	case v > 0.6 && v < 0.64:
		return Iron
	case v > 0.8 && v < 0.82:
		return Gold
	case v > 0.9 && v < 0.91:
		return Ruby
	}
	return Stone
}

// ConstantGenerator fills every chunk with the same cell.
type ConstantGenerator struct {
	Cell Cell
}

func (c ConstantGenerator) Generate(pos Int3) Grid {
	var grid Grid
	grid.Fill(c.Cell)
	return grid
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(pos Int3) Grid

func (f GeneratorFunc) Generate(pos Int3) Grid {
	return f(pos)
}
