package store

import (
	"io"
	"math"

	"github.com/Tnze/go-mc/nbt"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"github.com/pkg/errors"
)

const gridFormatVersion = 1

// gridTag is the NBT layout of one chunk grid. Values are stored as the
// raw float32 bits.
type gridTag struct {
	Version   int32   `nbt:"version"`
	Size      int32   `nbt:"size"`
	Values    []int32 `nbt:"values"`
	Materials []byte  `nbt:"materials"`
}

func EncodeGrid(w io.Writer, grid *voxel.Grid) error {
	tag := gridTag{
		Version:   gridFormatVersion,
		Size:      voxel.GRID_SIZE,
		Values:    make([]int32, grid.Len()),
		Materials: make([]byte, grid.Len()),
	}
	for i := 0; i < grid.Len(); i++ {
		cell := grid.AtIndex(i)
		tag.Values[i] = int32(math.Float32bits(cell.Value))
		tag.Materials[i] = byte(cell.Material)
	}
	if err := nbt.NewEncoder(w).Encode(tag, "grid"); err != nil {
		return errors.Wrap(err, "encoding grid")
	}
	return nil
}

func DecodeGrid(r io.Reader) (voxel.Grid, error) {
	var grid voxel.Grid
	var tag gridTag
	if _, err := nbt.NewDecoder(r).Decode(&tag); err != nil {
		return grid, errors.Wrap(err, "decoding grid")
	}
	if tag.Version != gridFormatVersion {
		return grid, errors.Errorf("unsupported grid version %d", tag.Version)
	}
	if tag.Size != voxel.GRID_SIZE || len(tag.Values) != grid.Len() || len(tag.Materials) != grid.Len() {
		return grid, errors.Errorf("grid size mismatch: size %d, %d values, %d materials", tag.Size, len(tag.Values), len(tag.Materials))
	}
	for i := range tag.Values {
		material := voxel.Material(tag.Materials[i])
		if !material.Valid() {
			return grid, errors.Errorf("invalid material %d at cell %d", material, i)
		}
		grid.SetIndex(i, voxel.Cell{
			Value:    math.Float32frombits(uint32(tag.Values[i])),
			Material: material,
		})
	}
	return grid, nil
}
