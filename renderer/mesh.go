// Package renderer draws the extracted voxel mesh and the particle
// population with raylib.
package renderer

import (
	"fmt"
	"math"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seep/mesh"
)

// maxIndexedVertices is the largest vertex count a 16-bit index buffer can address.
const maxIndexedVertices = math.MaxUint16 + 1

// MeshRenderer uploads mesh partitions as raylib models. It implements
// mesh.Sink, so it can be handed straight to mesh.Partition.
type MeshRenderer struct {
	Scale float32 // lattice units -> world units
	Color rl.Color
	Wires bool

	models    []rl.Model
	triangles int
}

// NewMeshRenderer creates a renderer that scales lattice coordinates by scale.
func NewMeshRenderer(scale float32) *MeshRenderer {
	return &MeshRenderer{
		Scale: scale,
		Color: rl.Color{R: 150, G: 140, B: 125, A: 255},
	}
}

// AddPartition uploads one partition to the GPU. Must be called after the
// window is open.
func (r *MeshRenderer) AddPartition(vertices []mesh.Coordinate, indices []int) error {
	if len(vertices) > maxIndexedVertices {
		return fmt.Errorf("renderer: partition has %d vertices, 16-bit indices address %d", len(vertices), maxIndexedVertices)
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("renderer: index count %d is not a multiple of 3", len(indices))
	}

	m := rl.Mesh{
		VertexCount:   int32(len(vertices)),
		TriangleCount: int32(len(indices) / 3),
	}

	// Buffers come from raylib's allocator so UnloadModel can free them.
	pos := allocFloats(len(vertices) * 3)
	normals := allocFloats(len(vertices) * 3)
	idx := unsafe.Slice((*uint16)(rl.MemAlloc(uint32(len(indices)*2))), len(indices))

	for i, v := range vertices {
		pos[i*3] = float32(v.X) * r.Scale
		pos[i*3+1] = float32(v.Y) * r.Scale
		pos[i*3+2] = float32(v.Z) * r.Scale
	}

	for t := 0; t < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		n := faceNormal(vertices[a], vertices[b], vertices[c])
		for _, vi := range [3]int{a, b, c} {
			normals[vi*3] = n.X
			normals[vi*3+1] = n.Y
			normals[vi*3+2] = n.Z
		}
		idx[t], idx[t+1], idx[t+2] = uint16(a), uint16(b), uint16(c)
	}

	if len(vertices) > 0 {
		m.Vertices = &pos[0]
		m.Normals = &normals[0]
	}
	if len(indices) > 0 {
		m.Indices = &idx[0]
	}

	rl.UploadMesh(&m, false)
	r.models = append(r.models, rl.LoadModelFromMesh(m))
	r.triangles += len(indices) / 3
	return nil
}

// Partitions returns the number of uploaded partitions.
func (r *MeshRenderer) Partitions() int { return len(r.models) }

// Triangles returns the total uploaded triangle count.
func (r *MeshRenderer) Triangles() int { return r.triangles }

// Draw renders every partition inside an active 3D mode.
func (r *MeshRenderer) Draw() {
	for _, model := range r.models {
		if r.Wires {
			rl.DrawModelWires(model, rl.Vector3{}, 1, r.Color)
			continue
		}
		rl.DrawModel(model, rl.Vector3{}, 1, r.Color)
	}
}

// Unload frees GPU and CPU resources of every partition.
func (r *MeshRenderer) Unload() {
	for _, model := range r.models {
		rl.UnloadModel(model)
	}
	r.models = nil
	r.triangles = 0
}

func allocFloats(n int) []float32 {
	return unsafe.Slice((*float32)(rl.MemAlloc(uint32(n*4))), n)
}

// faceNormal returns the unit normal of a counter-clockwise triangle.
func faceNormal(a, b, c mesh.Coordinate) rl.Vector3 {
	u := rl.Vector3{X: float32(b.X - a.X), Y: float32(b.Y - a.Y), Z: float32(b.Z - a.Z)}
	v := rl.Vector3{X: float32(c.X - a.X), Y: float32(c.Y - a.Y), Z: float32(c.Z - a.Z)}
	return rl.Vector3Normalize(rl.Vector3CrossProduct(u, v))
}
