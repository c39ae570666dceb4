package mesh

import (
	"errors"
	"fmt"
)

// DefaultMaxVertices keeps every partition addressable with 16-bit indices.
const DefaultMaxVertices = 65000

// Sink receives finished partitions. The slices belong to the sink.
type Sink interface {
	AddPartition(vertices []Coordinate, indices []int) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(vertices []Coordinate, indices []int) error

// AddPartition calls f.
func (f SinkFunc) AddPartition(vertices []Coordinate, indices []int) error {
	return f(vertices, indices)
}

// ErrMaxVertices is returned for a ceiling that cannot hold one triangle.
var ErrMaxVertices = errors.New("mesh: max vertices must be at least 3")

// Partition splits m into sub-meshes of at most maxVertices vertices each
// and hands them to sink in order. Triangles are never split. Vertices are
// remapped to partition-local indices, first occurrence wins, and the
// partition is flushed before a triangle whose new vertices would exceed the
// ceiling.
func Partition(m *Mesh, maxVertices int, sink Sink) error {
	if maxVertices < 3 {
		return ErrMaxVertices
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index count %d is not a multiple of 3", len(m.Indices))
	}

	p := newPartitioner(maxVertices, sink)
	for t := 0; t < len(m.Indices); t += 3 {
		tri := m.Indices[t : t+3]
		for _, g := range tri {
			if g < 0 || g >= len(m.Vertices) {
				return fmt.Errorf("mesh: triangle %d references vertex %d of %d", t/3, g, len(m.Vertices))
			}
		}
		if err := p.add(m, tri); err != nil {
			return err
		}
	}
	return p.flush()
}

// Partitions collects the output of Partition.
func Partitions(m *Mesh, maxVertices int) ([]Mesh, error) {
	var parts []Mesh
	err := Partition(m, maxVertices, SinkFunc(func(v []Coordinate, i []int) error {
		parts = append(parts, Mesh{Vertices: v, Indices: i})
		return nil
	}))
	return parts, err
}

type partitioner struct {
	max      int
	sink     Sink
	flushed  int
	remap    map[int]int
	vertices []Coordinate
	indices  []int
}

func newPartitioner(max int, sink Sink) *partitioner {
	return &partitioner{max: max, sink: sink, remap: make(map[int]int)}
}

func (p *partitioner) add(m *Mesh, tri []int) error {
	fresh := 0
	for n, g := range tri {
		if _, ok := p.remap[g]; ok {
			continue
		}
		// A vertex repeated inside the triangle is only new once.
		if n > 0 && (g == tri[0] || (n == 2 && g == tri[1])) {
			continue
		}
		fresh++
	}
	if len(p.vertices)+fresh > p.max {
		if err := p.flush(); err != nil {
			return err
		}
	}

	for _, g := range tri {
		local, ok := p.remap[g]
		if !ok {
			local = len(p.vertices)
			p.remap[g] = local
			p.vertices = append(p.vertices, m.Vertices[g])
		}
		p.indices = append(p.indices, local)
	}
	return nil
}

func (p *partitioner) flush() error {
	if len(p.indices) == 0 {
		return nil
	}
	if err := p.sink.AddPartition(p.vertices, p.indices); err != nil {
		return fmt.Errorf("mesh: partition %d: %w", p.flushed, err)
	}
	p.flushed++
	p.vertices = nil
	p.indices = nil
	p.remap = make(map[int]int)
	return nil
}
