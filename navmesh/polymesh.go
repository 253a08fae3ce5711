package navmesh

const meshNullIdx uint16 = 0xffff

// PolygonNavmesh is the triangulated-and-merged output of the pipeline:
// shared vertices in voxel space, and polygons referencing up to
// MaxVerticesPerPolygon of them plus their neighbor-polygon links.
type PolygonNavmesh struct {
	Verts      [][3]uint16 // voxel-space positions
	Polys      [][]uint16  // len(Polys[i]) == vertsPerPoly; meshNullIdx pads unused slots
	Neighbors  [][]uint16  // parallel to Polys; meshNullIdx marks a border edge
	Regs       []uint16
	Areas      []AreaType
	VertsPerPoly int32
	Bounds       AABB3D
	CellSize     float32
	CellHeight   float32
	BorderSize   int32
}

// BuildPolygonMesh triangulates every contour in cset and greedily merges
// adjacent triangles into convex polygons of up to vertsPerPoly vertices,
// then computes polygon-to-polygon adjacency across shared edges.
func BuildPolygonMesh(cset *ContourSet, vertsPerPoly int32) (*PolygonNavmesh, error) {
	var maxVertsPerCont int32
	for _, c := range cset.Conts {
		n := int32(len(c.Verts) / 4)
		if n < 3 {
			continue
		}
		if n > maxVertsPerCont {
			maxVertsPerCont = n
		}
	}

	mesh := &PolygonNavmesh{
		VertsPerPoly: vertsPerPoly,
		Bounds:       cset.Bounds,
		CellSize:     cset.CellSize,
		CellHeight:   cset.CellHeight,
		BorderSize:   cset.BorderSize,
	}
	if maxVertsPerCont == 0 {
		return mesh, nil
	}

	firstVert := make([]int32, vertexBucketCount)
	for i := range firstVert {
		firstVert[i] = -1
	}
	var nextVert []int32

	indices := make([]int64, maxVertsPerCont)
	tris := make([]int32, maxVertsPerCont*3)
	polys := make([]uint16, (maxVertsPerCont+1)*vertsPerPoly)
	tmpPoly := polys[maxVertsPerCont*vertsPerPoly:]

	for _, cont := range cset.Conts {
		nverts := int32(len(cont.Verts) / 4)
		if nverts < 3 {
			continue
		}

		for j := int32(0); j < nverts; j++ {
			indices[j] = int64(j)
		}
		ntris := triangulate(nverts, cont.Verts, indices, tris)
		if ntris <= 0 {
			continue
		}

		contVertIdx := make([]uint16, nverts)
		for j := int32(0); j < nverts; j++ {
			v := cont.Verts[j*4:]
			contVertIdx[j] = addMeshVertex(uint16(v[0]), uint16(v[1]), uint16(v[2]), mesh, firstVert, &nextVert)
		}

		for i := range polys {
			polys[i] = meshNullIdx
		}
		var npolys int32
		for j := int32(0); j < ntris; j++ {
			t := tris[j*3:]
			if t[0] != t[1] && t[0] != t[2] && t[1] != t[2] {
				p := polys[npolys*vertsPerPoly:]
				p[0] = contVertIdx[t[0]]
				p[1] = contVertIdx[t[1]]
				p[2] = contVertIdx[t[2]]
				npolys++
			}
		}
		if npolys == 0 {
			continue
		}

		if vertsPerPoly > 3 {
			for {
				var bestVal, bestA, bestB, bestEa, bestEb int32
				for j := int32(0); j < npolys-1; j++ {
					pj := polys[j*vertsPerPoly:]
					for k := j + 1; k < npolys; k++ {
						pk := polys[k*vertsPerPoly:]
						var ea, eb int32
						v := polyMergeValue(pj, pk, mesh.Verts, &ea, &eb, vertsPerPoly)
						if v > bestVal {
							bestVal, bestA, bestB, bestEa, bestEb = v, j, k, ea, eb
						}
					}
				}
				if bestVal <= 0 {
					break
				}
				pa := polys[bestA*vertsPerPoly:]
				pb := polys[bestB*vertsPerPoly:]
				mergePolyVerts(pa, pb, bestEa, bestEb, tmpPoly, vertsPerPoly)
				last := polys[(npolys-1)*vertsPerPoly:]
				copy(pb[:vertsPerPoly], last[:vertsPerPoly])
				npolys--
			}
		}

		for j := int32(0); j < npolys; j++ {
			p := make([]uint16, vertsPerPoly)
			copy(p, polys[j*vertsPerPoly:(j+1)*vertsPerPoly])
			mesh.Polys = append(mesh.Polys, p)
			mesh.Neighbors = append(mesh.Neighbors, nil)
			mesh.Regs = append(mesh.Regs, cont.Reg)
			mesh.Areas = append(mesh.Areas, cont.Area)
		}
	}

	buildPolyAdjacency(mesh, vertsPerPoly)
	return mesh, nil
}

const vertexBucketCount int32 = 1 << 12

func vertexHash(x, z int32) int32 {
	const (
		h1 int64 = 0x8da6b343
		h3 int64 = 0xcb1ab31f
	)
	n := uint32(h1*int64(x) + h3*int64(z))
	return int32(n & uint32(vertexBucketCount-1))
}

// addMeshVertex returns the index of (x,y,z) in mesh.Verts, reusing an
// existing vertex within 2 voxels of y at the same (x,z) column, or
// appending a new one.
func addMeshVertex(x, y, z uint16, mesh *PolygonNavmesh, firstVert []int32, nextVert *[]int32) uint16 {
	bucket := vertexHash(int32(x), int32(z))
	for i := firstVert[bucket]; i != -1; i = (*nextVert)[i] {
		v := mesh.Verts[i]
		dy := int32(v[1]) - int32(y)
		if dy < 0 {
			dy = -dy
		}
		if v[0] == x && v[2] == z && dy <= 2 {
			return uint16(i)
		}
	}
	idx := int32(len(mesh.Verts))
	mesh.Verts = append(mesh.Verts, [3]uint16{x, y, z})
	*nextVert = append(*nextVert, firstVert[bucket])
	firstVert[bucket] = idx
	return uint16(idx)
}

func countPolyVerts(p []uint16, nvp int32) int32 {
	for i := int32(0); i < nvp; i++ {
		if p[i] == meshNullIdx {
			return i
		}
	}
	return nvp
}

func uleft(a, b, c [3]uint16) bool {
	return (int32(b[0])-int32(a[0]))*(int32(c[2])-int32(a[2]))-
		(int32(c[0])-int32(a[0]))*(int32(b[2])-int32(a[2])) < 0
}

// polyMergeValue returns the squared length of the shared edge between pa
// and pb if merging them is legal (result stays within nvp vertices, both
// resulting corners stay convex) and -1 otherwise.
func polyMergeValue(pa, pb []uint16, verts [][3]uint16, ea, eb *int32, nvp int32) int32 {
	na := countPolyVerts(pa, nvp)
	nb := countPolyVerts(pb, nvp)
	if na+nb-2 > nvp {
		return -1
	}

	*ea, *eb = -1, -1
	for i := int32(0); i < na; i++ {
		va0, va1 := pa[i], pa[(i+1)%na]
		if va0 > va1 {
			va0, va1 = va1, va0
		}
		for j := int32(0); j < nb; j++ {
			vb0, vb1 := pb[j], pb[(j+1)%nb]
			if vb0 > vb1 {
				vb0, vb1 = vb1, vb0
			}
			if va0 == vb0 && va1 == vb1 {
				*ea, *eb = i, j
			}
		}
	}
	if *ea == -1 || *eb == -1 {
		return -1
	}

	va := pa[(*ea+na-1)%na]
	vb := pa[*ea]
	vc := pb[(*eb+2)%nb]
	if !uleft(verts[va], verts[vb], verts[vc]) {
		return -1
	}
	va = pb[(*eb+nb-1)%nb]
	vb = pb[*eb]
	vc = pa[(*ea+2)%na]
	if !uleft(verts[va], verts[vb], verts[vc]) {
		return -1
	}

	va = pa[*ea]
	vb = pa[(*ea+1)%na]
	dx := int32(verts[va][0]) - int32(verts[vb][0])
	dz := int32(verts[va][2]) - int32(verts[vb][2])
	return dx*dx + dz*dz
}

func mergePolyVerts(pa, pb []uint16, ea, eb int32, tmp []uint16, nvp int32) {
	na := countPolyVerts(pa, nvp)
	nb := countPolyVerts(pb, nvp)
	for i := int32(0); i < nvp; i++ {
		tmp[i] = meshNullIdx
	}
	var n int32
	for i := int32(0); i < na-1; i++ {
		tmp[n] = pa[(ea+1+i)%na]
		n++
	}
	for i := int32(0); i < nb-1; i++ {
		tmp[n] = pb[(eb+1+i)%nb]
		n++
	}
	copy(pa, tmp[:nvp])
}

// buildPolyAdjacency computes, for each polygon edge, the index of the
// polygon sharing it (or meshNullIdx for a mesh boundary edge), using the
// shared-vertex-pair bucketing from Lengyel's edge-list construction.
func buildPolyAdjacency(mesh *PolygonNavmesh, nvp int32) {
	npolys := int32(len(mesh.Polys))
	nverts := int32(len(mesh.Verts))
	if npolys == 0 {
		return
	}
	for i := range mesh.Neighbors {
		mesh.Neighbors[i] = make([]uint16, nvp)
		for j := range mesh.Neighbors[i] {
			mesh.Neighbors[i][j] = meshNullIdx
		}
	}

	type edge struct {
		v0, v1       uint16
		poly0, poly1 int32
		edge0, edge1 int32
	}
	firstEdge := make([]int32, nverts)
	for i := range firstEdge {
		firstEdge[i] = -1
	}
	var nextEdge []int32
	var edges []edge

	for i := int32(0); i < npolys; i++ {
		p := mesh.Polys[i]
		for j := int32(0); j < nvp; j++ {
			if p[j] == meshNullIdx {
				break
			}
			v0 := p[j]
			var v1 uint16
			if j+1 >= nvp || p[j+1] == meshNullIdx {
				v1 = p[0]
			} else {
				v1 = p[j+1]
			}
			if v0 < v1 {
				edges = append(edges, edge{v0: v0, v1: v1, poly0: i, edge0: j, poly1: i, edge1: 0})
				nextEdge = append(nextEdge, firstEdge[v0])
				firstEdge[v0] = int32(len(edges) - 1)
			}
		}
	}

	for i := int32(0); i < npolys; i++ {
		p := mesh.Polys[i]
		for j := int32(0); j < nvp; j++ {
			if p[j] == meshNullIdx {
				break
			}
			v0 := p[j]
			var v1 uint16
			if j+1 >= nvp || p[j+1] == meshNullIdx {
				v1 = p[0]
			} else {
				v1 = p[j+1]
			}
			if v0 > v1 {
				for e := firstEdge[v1]; e != -1; e = nextEdge[e] {
					if edges[e].v1 == v0 && edges[e].poly0 == edges[e].poly1 {
						edges[e].poly1 = i
						edges[e].edge1 = j
						break
					}
				}
			}
		}
	}

	for _, e := range edges {
		if e.poly0 != e.poly1 {
			mesh.Neighbors[e.poly0][e.edge0] = uint16(e.poly1)
			mesh.Neighbors[e.poly1][e.edge1] = uint16(e.poly0)
		}
	}
}

// triangulate ear-clips the simple polygon described by verts (4 int32s per
// vertex, only x/z used) in the order given by indices, preferring the
// shortest new diagonal at each step and falling back to a looser
// intersection test if strict ear-clipping stalls on a self-touching
// contour.
func triangulate(n int32, verts []int32, indices []int64, tris []int32) int32 {
	var ntris int32
	dst := tris

	for i := int32(0); i < n; i++ {
		i1 := next(i, n)
		i2 := next(i1, n)
		if diagonal(i, i2, n, verts, indices) {
			indices[i1] |= 0x80000000
		}
	}

	for n > 3 {
		minLen := int32(-1)
		mini := int32(-1)
		for i := int32(0); i < n; i++ {
			i1 := next(i, n)
			if indices[i1]&0x80000000 != 0 {
				p0 := verts[(indices[i]&0x0fffffff)*4:]
				p2 := verts[(indices[next(i1, n)]&0x0fffffff)*4:]
				dx := p2[0] - p0[0]
				dz := p2[2] - p0[2]
				length := dx*dx + dz*dz
				if minLen < 0 || length < minLen {
					minLen, mini = length, i
				}
			}
		}
		if mini == -1 {
			minLen, mini = -1, -1
			for i := int32(0); i < n; i++ {
				i1 := next(i, n)
				i2 := next(i1, n)
				if diagonalLoose(i, i2, n, verts, indices) {
					p0 := verts[(indices[i]&0x0fffffff)*4:]
					p2 := verts[(indices[next(i2, n)]&0x0fffffff)*4:]
					dx := p2[0] - p0[0]
					dz := p2[2] - p0[2]
					length := dx*dx + dz*dz
					if minLen < 0 || length < minLen {
						minLen, mini = length, i
					}
				}
			}
			if mini == -1 {
				return -ntris
			}
		}

		i := mini
		i1 := next(i, n)
		i2 := next(i1, n)
		dst[0] = int32(indices[i] & 0x0fffffff)
		dst[1] = int32(indices[i1] & 0x0fffffff)
		dst[2] = int32(indices[i2] & 0x0fffffff)
		dst = dst[3:]
		ntris++

		n--
		for k := i1; k < n; k++ {
			indices[k] = indices[k+1]
		}
		if i1 >= n {
			i1 = 0
		}
		i = prev(i1, n)
		if diagonal(prev(i, n), i1, n, verts, indices) {
			indices[i] |= 0x80000000
		} else {
			indices[i] &= 0x0fffffff
		}
		if diagonal(i, next(i1, n), n, verts, indices) {
			indices[i1] |= 0x80000000
		} else {
			indices[i1] &= 0x0fffffff
		}
	}

	dst[0] = int32(indices[0] & 0x0fffffff)
	dst[1] = int32(indices[1] & 0x0fffffff)
	dst[2] = int32(indices[2] & 0x0fffffff)
	ntris++
	return ntris
}

func next(i, n int32) int32 {
	if i+1 < n {
		return i + 1
	}
	return 0
}

func prev(i, n int32) int32 {
	if i-1 >= 0 {
		return i - 1
	}
	return n - 1
}

func area2(a, b, c []int32) int32 {
	return (b[0]-a[0])*(c[2]-a[2]) - (c[0]-a[0])*(b[2]-a[2])
}

func xorBool(x, y bool) bool { return x != y }

func leftOf(a, b, c []int32) bool   { return area2(a, b, c) < 0 }
func leftOnOf(a, b, c []int32) bool { return area2(a, b, c) <= 0 }
func collinear(a, b, c []int32) bool { return area2(a, b, c) == 0 }

func vertsEqualXZ(a, b []int32) bool { return a[0] == b[0] && a[2] == b[2] }

func segIntersectProper(a, b, c, d []int32) bool {
	if collinear(a, b, c) || collinear(a, b, d) || collinear(c, d, a) || collinear(c, d, b) {
		return false
	}
	return xorBool(leftOf(a, b, c), leftOf(a, b, d)) && xorBool(leftOf(c, d, a), leftOf(c, d, b))
}

func between(a, b, c []int32) bool {
	if !collinear(a, b, c) {
		return false
	}
	if a[0] != b[0] {
		return (a[0] <= c[0] && c[0] <= b[0]) || (a[0] >= c[0] && c[0] >= b[0])
	}
	return (a[2] <= c[2] && c[2] <= b[2]) || (a[2] >= c[2] && c[2] >= b[2])
}

func segIntersect(a, b, c, d []int32) bool {
	if segIntersectProper(a, b, c, d) {
		return true
	}
	return between(a, b, c) || between(a, b, d) || between(c, d, a) || between(c, d, b)
}

func diagonalie(i, j, n int32, verts []int32, indices []int64) bool {
	d0 := verts[(indices[i]&0x0fffffff)*4:]
	d1 := verts[(indices[j]&0x0fffffff)*4:]
	for k := int32(0); k < n; k++ {
		k1 := next(k, n)
		if k == i || k1 == i || k == j || k1 == j {
			continue
		}
		p0 := verts[(indices[k]&0x0fffffff)*4:]
		p1 := verts[(indices[k1]&0x0fffffff)*4:]
		if vertsEqualXZ(d0, p0) || vertsEqualXZ(d1, p0) || vertsEqualXZ(d0, p1) || vertsEqualXZ(d1, p1) {
			continue
		}
		if segIntersect(d0, d1, p0, p1) {
			return false
		}
	}
	return true
}

func diagonalieLoose(i, j, n int32, verts []int32, indices []int64) bool {
	d0 := verts[(indices[i]&0x0fffffff)*4:]
	d1 := verts[(indices[j]&0x0fffffff)*4:]
	for k := int32(0); k < n; k++ {
		k1 := next(k, n)
		if k == i || k1 == i || k == j || k1 == j {
			continue
		}
		p0 := verts[(indices[k]&0x0fffffff)*4:]
		p1 := verts[(indices[k1]&0x0fffffff)*4:]
		if vertsEqualXZ(d0, p0) || vertsEqualXZ(d1, p0) || vertsEqualXZ(d0, p1) || vertsEqualXZ(d1, p1) {
			continue
		}
		if segIntersectProper(d0, d1, p0, p1) {
			return false
		}
	}
	return true
}

func inCone(i, j, n int32, verts []int32, indices []int64) bool {
	pi := verts[(indices[i]&0x0fffffff)*4:]
	pj := verts[(indices[j]&0x0fffffff)*4:]
	pi1 := verts[(indices[next(i, n)]&0x0fffffff)*4:]
	pin1 := verts[(indices[prev(i, n)]&0x0fffffff)*4:]
	if leftOnOf(pin1, pi, pi1) {
		return leftOf(pi, pj, pin1) && leftOf(pj, pi, pi1)
	}
	return !(leftOnOf(pi, pj, pi1) && leftOnOf(pj, pi, pin1))
}

func inConeLoose(i, j, n int32, verts []int32, indices []int64) bool {
	pi := verts[(indices[i]&0x0fffffff)*4:]
	pj := verts[(indices[j]&0x0fffffff)*4:]
	pi1 := verts[(indices[next(i, n)]&0x0fffffff)*4:]
	pin1 := verts[(indices[prev(i, n)]&0x0fffffff)*4:]
	if leftOnOf(pin1, pi, pi1) {
		return leftOnOf(pi, pj, pin1) && leftOnOf(pj, pi, pi1)
	}
	return !(leftOnOf(pi, pj, pi1) && leftOnOf(pj, pi, pin1))
}

func diagonal(i, j, n int32, verts []int32, indices []int64) bool {
	return inCone(i, j, n, verts, indices) && diagonalie(i, j, n, verts, indices)
}

func diagonalLoose(i, j, n int32, verts []int32, indices []int64) bool {
	return inConeLoose(i, j, n, verts, indices) && diagonalieLoose(i, j, n, verts, indices)
}
