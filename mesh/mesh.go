// Package mesh turns voxel lattices into triangle meshes made of unit cube
// faces and splits them into partitions small enough for a renderer's index
// width.
package mesh

// Coordinate is an integer lattice position.
type Coordinate struct {
	X, Y, Z int
}

// Add returns the component-wise sum.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// Mesh is an indexed triangle list. Vertices are not shared between faces,
// so every quad contributes four entries.
type Mesh struct {
	Vertices []Coordinate
	Indices  []int
}

// TriangleCount returns len(Indices)/3.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Triangle returns the corners of triangle t.
func (m *Mesh) Triangle(t int) [3]Coordinate {
	i := m.Indices[t*3 : t*3+3]
	return [3]Coordinate{m.Vertices[i[0]], m.Vertices[i[1]], m.Vertices[i[2]]}
}

// Axis selects a cube face normal axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Direction selects the negative or positive face along an axis.
type Direction int

const (
	Minus Direction = iota
	Plus
)

// cubeCorners are the unit cube corners; 0-3 lie on y=0, 4-7 on y=1.
var cubeCorners = [8]Coordinate{
	{0, 0, 0}, {0, 0, 1}, {1, 0, 1}, {1, 0, 0},
	{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0},
}

// faceCorners lists each face's quad in outward-facing winding, ordered
// x-, x+, y-, y+, z-, z+.
var faceCorners = [6][4]int{
	{0, 1, 5, 4},
	{7, 6, 2, 3},
	{3, 2, 1, 0},
	{4, 5, 6, 7},
	{4, 7, 3, 0},
	{1, 2, 6, 5},
}

// neighbourOffset is the lattice step across each face, same order as faceCorners.
var neighbourOffset = [6]Coordinate{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

func faceIndex(axis Axis, dir Direction) int {
	return int(axis)*2 + int(dir)
}

// AppendFace appends one cube face at lattice position at: four fresh
// vertices and the triangles [0,1,2] and [0,2,3] relative to them.
func AppendFace(m *Mesh, axis Axis, dir Direction, at Coordinate) {
	quad := faceCorners[faceIndex(axis, dir)]
	base := len(m.Vertices)
	for _, c := range quad {
		m.Vertices = append(m.Vertices, at.Add(cubeCorners[c]))
	}
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

// AppendCube appends all six faces of the cube at lattice position at.
func AppendCube(m *Mesh, at Coordinate) {
	for axis := AxisX; axis <= AxisZ; axis++ {
		AppendFace(m, axis, Minus, at)
		AppendFace(m, axis, Plus, at)
	}
}
