package export

import (
	"path/filepath"
	"testing"

	"github.com/memmaker/marchingterrain/engine/terrain"
	"github.com/memmaker/marchingterrain/engine/voxel"
)

var _ terrain.Renderer = (*Scene)(nil)

func cornerMesh(t *testing.T, origin voxel.Int3) *voxel.Mesh {
	t.Helper()
	grid := voxel.NewFilledGrid(0.25, voxel.Stone)
	grid.Set(0, 0, 0, voxel.Cell{Value: 0.75, Material: voxel.Gold})
	mesh := voxel.Polygonize(grid, origin)
	if mesh == nil {
		t.Fatal("no mesh")
	}
	return mesh
}

func TestSceneTracksPublishedMeshes(t *testing.T) {
	scene := NewScene()
	a := scene.AddMesh(voxel.Int3{}, cornerMesh(t, voxel.Int3{}))
	scene.AddMaterial(voxel.Int3{})
	scene.AddMesh(voxel.Int3{X: 1}, cornerMesh(t, voxel.ChunkOrigin(voxel.Int3{X: 1})))
	if scene.MeshCount() != 2 || scene.TriangleCount() != 2 || scene.MaterialCount() != 1 {
		t.Fatalf("meshes %d triangles %d", scene.MeshCount(), scene.TriangleCount())
	}
	scene.RemoveMesh(a)
	if scene.MeshCount() != 1 {
		t.Fatal("removed mesh still counted")
	}
}

func TestSaveAndReadBack(t *testing.T) {
	scene := NewScene()
	scene.AddMesh(voxel.Int3{X: 1}, cornerMesh(t, voxel.ChunkOrigin(voxel.Int3{X: 1})))
	scene.AddMesh(voxel.Int3{X: -1}, cornerMesh(t, voxel.ChunkOrigin(voxel.Int3{X: -1})))

	path := filepath.Join(t.TempDir(), "out", "terrain.glb")
	if err := scene.Save(path); err != nil {
		t.Fatal(err)
	}
	summary, err := ReadSummary(path)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Meshes != 2 || summary.Triangles != 2 {
		t.Fatalf("summary %+v", summary)
	}
	if summary.Names[0] != "chunk(-1,0,0)" || summary.Names[1] != "chunk(1,0,0)" {
		t.Fatalf("meshes not in chunk order: %v", summary.Names)
	}
}

func TestEmptySceneSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := NewScene().Save(path); err != nil {
		t.Fatal(err)
	}
	summary, err := ReadSummary(path)
	if err != nil || summary.Meshes != 0 {
		t.Fatalf("summary %+v err %v", summary, err)
	}
}
