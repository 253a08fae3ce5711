package navmesh

import (
	"github.com/aurelien-rainone/gogeo/f32/d3"
	"github.com/aurelien-rainone/math32"
)

// AreaType is an 8-bit area label. Values greater than NullArea are
// considered walkable; the ordering itself carries no other meaning beyond
// that comparison.
type AreaType uint8

const (
	// NullArea marks a span or triangle as not walkable.
	NullArea AreaType = 0

	// DefaultWalkableArea is the area id assigned to any triangle that
	// passes the walkable-slope test and has not been overridden by a
	// ConvexVolume.
	DefaultWalkableArea AreaType = 63
)

// AABB3D is an axis-aligned bounding box in world units. Min must be
// component-wise less than or equal to Max.
type AABB3D struct {
	Min, Max [3]float32
}

// Valid reports whether the box satisfies Min <= Max component-wise.
func (b AABB3D) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Width returns the AABB's extent along X.
func (b AABB3D) Width() float32 { return b.Max[0] - b.Min[0] }

// Depth returns the AABB's extent along Z.
func (b AABB3D) Depth() float32 { return b.Max[2] - b.Min[2] }

// Height returns the AABB's extent along Y.
func (b AABB3D) Height() float32 { return b.Max[1] - b.Min[1] }

// Intersects reports whether two AABBs overlap, including touching at a
// face.
func (b AABB3D) Intersects(o AABB3D) bool {
	if b.Min[0] > o.Max[0] || b.Max[0] < o.Min[0] {
		return false
	}
	if b.Min[1] > o.Max[1] || b.Max[1] < o.Min[1] {
		return false
	}
	if b.Min[2] > o.Max[2] || b.Max[2] < o.Min[2] {
		return false
	}
	return true
}

// ExpandXZ returns a copy of b whose X/Z extent is grown by n on every side,
// leaving Y untouched. Used to grow a tile's cell AABB by its border size.
func (b AABB3D) ExpandXZ(n float32) AABB3D {
	return AABB3D{
		Min: [3]float32{b.Min[0] - n, b.Min[1], b.Min[2] - n},
		Max: [3]float32{b.Max[0] + n, b.Max[1], b.Max[2] + n},
	}
}

// GridSize returns the voxel grid dimensions (width along X, height along Z)
// implied by an AABB and a cell size, rounding to the nearest integer.
func GridSize(bounds AABB3D, cellSize float32) (width, height int32) {
	width = int32((bounds.Max[0]-bounds.Min[0])/cellSize + 0.5)
	height = int32((bounds.Max[2]-bounds.Min[2])/cellSize + 0.5)
	return
}

// TriMesh is an indexed triangle soup: an ordered vertex pool, ordered
// triangles as triples of vertex indices, and a parallel area id per
// triangle.
type TriMesh struct {
	Verts [][3]float32
	Tris  [][3]int32
	Areas []AreaType
}

// Validate checks the structural invariants of a TriMesh: one area per
// triangle and all vertex indices in range. It never rejects a mesh for
// being empty or degenerate — an empty mesh is a legal, if useless, input.
func (m *TriMesh) Validate() error {
	if len(m.Areas) != len(m.Tris) {
		return &BuildError{Stage: StageRasterization, Message: "len(areas) must equal len(tris)"}
	}
	for i, t := range m.Tris {
		for _, idx := range t {
			if idx < 0 || int(idx) >= len(m.Verts) {
				return &BuildError{Stage: StageRasterization, Message: "triangle references out-of-range vertex index"}
			}
		}
		_ = i
	}
	return nil
}

// Bounds returns the AABB of every vertex in the mesh's vertex pool,
// whether or not a triangle references it. An empty mesh returns a degenerate, zero-sized AABB at the
// origin.
func (m *TriMesh) Bounds() AABB3D {
	if len(m.Verts) == 0 {
		return AABB3D{}
	}
	bmin := m.Verts[0]
	bmax := m.Verts[0]
	for _, v := range m.Verts[1:] {
		d3.Vec3Min(bmin[:], v[:])
		d3.Vec3Max(bmax[:], v[:])
	}
	return AABB3D{Min: bmin, Max: bmax}
}

// ConvexVolume overrides the area of every still-walkable span whose
// footprint falls inside its XZ polygon and whose voxel lies within
// [MinY, MaxY]. An empty Vertices slice is a legal no-op volume.
type ConvexVolume struct {
	// Vertices is the XZ polygon, assumed convex, in either winding order.
	Vertices [][2]float32
	MinY     float32
	MaxY     float32
	Area     AreaType
}

// triNormal computes the unit normal of a triangle from its vertices in
// winding order.
func triNormal(v0, v1, v2 [3]float32) [3]float32 {
	var e0, e1, norm [3]float32
	d3.Vec3Sub(e0[:], v1[:], v0[:])
	d3.Vec3Sub(e1[:], v2[:], v0[:])
	d3.Vec3Cross(norm[:], e0[:], e1[:])
	nv := d3.Vec3(norm[:])
	nv.Normalize()
	return norm
}

// MarkWalkableTriangles sets Areas[i] to DefaultWalkableArea for every
// triangle whose face normal clears walkableSlopeAngle (radians). It never
// clears an area that was already non-null.
func MarkWalkableTriangles(mesh *TriMesh, walkableSlopeAngle float32) {
	thr := math32.Cos(walkableSlopeAngle)
	for i, t := range mesh.Tris {
		n := triNormal(mesh.Verts[t[0]], mesh.Verts[t[1]], mesh.Verts[t[2]])
		if n[1] > thr {
			mesh.Areas[i] = DefaultWalkableArea
		}
	}
}
