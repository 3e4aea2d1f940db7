package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type sceneMesh struct {
	chunk voxel.Int3
	mesh  *voxel.Mesh
}

// Scene is a headless renderer: it keeps the currently published chunk
// meshes and can write them out as a binary glTF file.
type Scene struct {
	mu        sync.Mutex
	next      uint64
	meshes    map[voxel.MeshHandle]sceneMesh
	materials map[voxel.MaterialHandle]voxel.Int3
}

func NewScene() *Scene {
	return &Scene{
		meshes:    make(map[voxel.MeshHandle]sceneMesh),
		materials: make(map[voxel.MaterialHandle]voxel.Int3),
	}
}

func (s *Scene) AddMesh(pos voxel.Int3, mesh *voxel.Mesh) voxel.MeshHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	handle := voxel.MeshHandle(s.next)
	s.meshes[handle] = sceneMesh{chunk: pos, mesh: mesh}
	return handle
}

func (s *Scene) AddMaterial(pos voxel.Int3) voxel.MaterialHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	handle := voxel.MaterialHandle(s.next)
	s.materials[handle] = pos
	return handle
}

func (s *Scene) RemoveMesh(handle voxel.MeshHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.meshes, handle)
}

func (s *Scene) RemoveMaterial(handle voxel.MaterialHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.materials, handle)
}

func (s *Scene) MeshCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.meshes)
}

func (s *Scene) MaterialCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.materials)
}

func (s *Scene) TriangleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.meshes {
		n += m.mesh.TriangleCount()
	}
	return n
}

// Document builds a glTF document with one node per published chunk, in
// chunk coordinate order. All chunks share one vertex colored material.
func (s *Scene) Document() *gltf.Document {
	s.mu.Lock()
	entries := make([]sceneMesh, 0, len(s.meshes))
	for _, m := range s.meshes {
		entries = append(entries, m)
	}
	s.mu.Unlock()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].chunk.Less(entries[j].chunk)
	})

	doc := gltf.NewDocument()
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "terrain",
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 1, 1, 1},
		},
	})
	for _, entry := range entries {
		mesh := entry.mesh
		positions := make([][3]float32, len(mesh.Positions))
		normals := make([][3]float32, len(mesh.Normals))
		colors := make([][4]float32, len(mesh.Colors))
		for i := range mesh.Positions {
			positions[i] = mesh.Positions[i]
			normals[i] = mesh.Normals[i]
			colors[i] = mesh.Colors[i]
		}
		name := fmt.Sprintf("chunk%s", entry.chunk)
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: name,
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(modeler.WriteIndices(doc, mesh.Indices)),
				Attributes: map[string]uint32{
					"POSITION": modeler.WritePosition(doc, positions),
					"NORMAL":   modeler.WriteNormal(doc, normals),
					"COLOR_0":  modeler.WriteColor(doc, colors),
				},
				Material: gltf.Index(0),
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}
	return doc
}

// Save writes the scene as a .glb file.
func (s *Scene) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating export directory")
	}
	doc := s.Document()
	if err := gltf.SaveBinary(doc, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	util.LogIOInfo(fmt.Sprintf("[Export] wrote %d chunk meshes to %s", len(doc.Meshes), path))
	return nil
}

type Summary struct {
	Meshes    int
	Triangles int
	Names     []string
}

// ReadSummary opens an exported file and counts its meshes and triangles.
func ReadSummary(path string) (Summary, error) {
	var summary Summary
	doc, err := gltf.Open(path)
	if err != nil {
		return summary, errors.Wrapf(err, "opening %s", path)
	}
	for _, mesh := range doc.Meshes {
		summary.Meshes++
		summary.Names = append(summary.Names, mesh.Name)
		for _, primitive := range mesh.Primitives {
			if primitive.Indices == nil {
				continue
			}
			var indices []uint32
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], indices)
			if err != nil {
				return summary, errors.Wrapf(err, "reading indices of %s", mesh.Name)
			}
			summary.Triangles += len(indices) / 3
		}
	}
	return summary, nil
}
