package navmesh

import "github.com/aurelien-rainone/math32"

// DetailNavmesh attaches a finer height-sampled triangulation to each
// polygon of a PolygonNavmesh, so agents standing on a polygon interpolate
// the original terrain height instead of its coarse top face.
type DetailNavmesh struct {
	// Meshes holds, per polygon, (vertBase, vertCount, triBase, triCount)
	// indexing into Verts/Tris.
	Meshes [][4]int32
	Verts  [][3]float32
	Tris   [][3]uint8
}

const unsetHeight uint16 = 0xffff

type heightPatch struct {
	data                      []uint16
	xmin, ymin, width, height int32
}

func buildHeightPatch(chf *CompactHeightfield, xmin, ymin, width, height, borderSize int32) *heightPatch {
	hp := &heightPatch{xmin: xmin, ymin: ymin, width: width, height: height, data: make([]uint16, width*height)}
	for i := range hp.data {
		hp.data[i] = unsetHeight
	}
	for hy := int32(0); hy < height; hy++ {
		y := ymin + hy + borderSize
		if y < 0 || y >= chf.Height {
			continue
		}
		for hx := int32(0); hx < width; hx++ {
			x := xmin + hx + borderSize
			if x < 0 || x >= chf.Width {
				continue
			}
			c := chf.Cells[x+y*chf.Width]
			if c.Count == 0 {
				continue
			}
			// The column's first (lowest) compact span supplies the
			// height; other spans in the column are not considered.
			hp.data[hx+hy*width] = chf.Spans[c.Index].Y
		}
	}
	return hp
}

// sampleHeight looks up the patch height nearest (fx,fz) in world units,
// spiraling outward up to radius cells if the direct cell is unset.
func sampleHeight(hp *heightPatch, fx, fz, cs, ics, ch float32, radius int32) uint16 {
	ix := int32(math32.Floor(fx*ics + 0.01))
	iz := int32(math32.Floor(fz*ics + 0.01))
	ix = clampI32(ix-hp.xmin, 0, hp.width-1)
	iz = clampI32(iz-hp.ymin, 0, hp.height-1)
	h := hp.data[ix+iz*hp.width]
	if h != unsetHeight {
		return h
	}

	x, z, dx, dz := int32(1), int32(0), int32(1), int32(0)
	maxSize := radius*2 + 1
	maxIter := maxSize*maxSize - 1
	var dmin float32 = math32.MaxFloat32
	for i := int32(0); i < maxIter; i++ {
		nx, nz := ix+x, iz+z
		if nx >= 0 && nz >= 0 && nx < hp.width && nz < hp.height {
			nh := hp.data[nx+nz*hp.width]
			if nh != unsetHeight {
				if dist := math32.Abs(float32(x*x + z*z)); dist < dmin {
					h = nh
					dmin = dist
				}
			}
		}
		if x == z || (x < 0 && x == -z) || (x > 0 && x == 1-z) {
			dx, dz = -dz, dx
		}
		x += dx
		z += dz
	}
	return h
}

func distPtSeg3(pt, p, q [3]float32) float32 {
	pqx, pqy, pqz := q[0]-p[0], q[1]-p[1], q[2]-p[2]
	dx, dy, dz := pt[0]-p[0], pt[1]-p[1], pt[2]-p[2]
	d := pqx*pqx + pqy*pqy + pqz*pqz
	t := pqx*dx + pqy*dy + pqz*dz
	if d > 0 {
		t /= d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	dx = p[0] + t*pqx - pt[0]
	dy = p[1] + t*pqy - pt[1]
	dz = p[2] + t*pqz - pt[2]
	return dx*dx + dy*dy + dz*dz
}

func distPtTri3(p, a, b, c [3]float32) float32 {
	v0 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	v1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v2 := [3]float32{p[0] - a[0], p[1] - a[1], p[2] - a[2]}

	dot2D := func(u, v [3]float32) float32 { return u[0]*v[0] + u[2]*v[2] }
	dot00 := dot2D(v0, v0)
	dot01 := dot2D(v0, v1)
	dot02 := dot2D(v0, v2)
	dot11 := dot2D(v1, v1)
	dot12 := dot2D(v1, v2)

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return math32.MaxFloat32
	}
	inv := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv

	const eps = 1e-4
	if u >= -eps && v >= -eps && u+v <= 1+eps {
		y := a[1] + v0[1]*u + v1[1]*v
		return math32.Abs(y - p[1])
	}
	return math32.MaxFloat32
}

// BuildDetailMesh attaches a height-sampled triangulation to every polygon
// of mesh: the polygon's own vertices are fan-triangulated (boundary edges
// are not subdivided), and interior grid samples are inserted one at a time (largest current error
// first, by splitting the triangle that contains the sample) until every
// sample is within sampleMaxError of the mesh or no capacity remains.
func BuildDetailMesh(mesh *PolygonNavmesh, chf *CompactHeightfield, sampleDist, sampleMaxError float32) (*DetailNavmesh, error) {
	dm := &DetailNavmesh{}
	if len(mesh.Verts) == 0 || len(mesh.Polys) == 0 {
		return dm, nil
	}

	cs, ch := mesh.CellSize, mesh.CellHeight
	ics := 1 / cs
	orig := mesh.Bounds.Min
	searchRadius := int32(1)

	for _, poly := range mesh.Polys {
		var worldVerts [][3]float32
		xmin, xmax := chf.Width, int32(0)
		zmin, zmax := chf.Height, int32(0)
		for _, vi := range poly {
			if vi == meshNullIdx {
				break
			}
			v := mesh.Verts[vi]
			worldVerts = append(worldVerts, [3]float32{float32(v[0]) * cs, float32(v[1]) * ch, float32(v[2]) * cs})
			if int32(v[0]) < xmin {
				xmin = int32(v[0])
			}
			if int32(v[0]) > xmax {
				xmax = int32(v[0])
			}
			if int32(v[2]) < zmin {
				zmin = int32(v[2])
			}
			if int32(v[2]) > zmax {
				zmax = int32(v[2])
			}
		}
		if len(worldVerts) < 3 {
			dm.Meshes = append(dm.Meshes, [4]int32{int32(len(dm.Verts)), 0, int32(len(dm.Tris)), 0})
			continue
		}
		xmin, xmax = maxI32(0, xmin-1), minI32(chf.Width, xmax+1)
		zmin, zmax = maxI32(0, zmin-1), minI32(chf.Height, zmax+1)

		hp := buildHeightPatch(chf, xmin, zmin, xmax-xmin, zmax-zmin, mesh.BorderSize)

		verts, tris := triangulatePolygonDetail(worldVerts, hp, cs, ics, ch, sampleDist, sampleMaxError, searchRadius)

		base := int32(len(dm.Verts))
		for i := range verts {
			verts[i][0] += orig[0]
			verts[i][1] += orig[1] + ch
			verts[i][2] += orig[2]
		}
		dm.Verts = append(dm.Verts, verts...)
		triBase := int32(len(dm.Tris))
		dm.Tris = append(dm.Tris, tris...)
		dm.Meshes = append(dm.Meshes, [4]int32{base, int32(len(verts)), triBase, int32(len(tris))})
	}
	return dm, nil
}

// triangulatePolygonDetail builds a fan triangulation of the polygon
// boundary, then greedily inserts the interior grid sample with the
// largest height deviation from the current mesh (splitting its
// containing triangle in three) until samples are within sampleMaxError.
func triangulatePolygonDetail(poly [][3]float32, hp *heightPatch, cs, ics, ch, sampleDist, sampleMaxError float32, searchRadius int32) ([][3]float32, [][3]uint8) {
	verts := append([][3]float32{}, poly...)
	n := int32(len(verts))

	var tris [][3]uint8
	for i := int32(1); i < n-1; i++ {
		tris = append(tris, [3]uint8{0, uint8(i), uint8(i + 1)})
	}

	if sampleDist <= 0 {
		return verts, tris
	}

	var bmin, bmax [3]float32
	bmin, bmax = poly[0], poly[0]
	for _, v := range poly[1:] {
		for k := 0; k < 3; k++ {
			if v[k] < bmin[k] {
				bmin[k] = v[k]
			}
			if v[k] > bmax[k] {
				bmax[k] = v[k]
			}
		}
	}

	x0 := int32(math32.Floor(bmin[0] / sampleDist))
	x1 := int32(math32.Ceil(bmax[0] / sampleDist))
	z0 := int32(math32.Floor(bmin[2] / sampleDist))
	z1 := int32(math32.Ceil(bmax[2] / sampleDist))

	var samples [][3]float32
	for z := z0; z < z1; z++ {
		for x := x0; x < x1; x++ {
			pt := [3]float32{float32(x) * sampleDist, (bmax[1] + bmin[1]) * 0.5, float32(z) * sampleDist}
			if distToPolyXZ(poly, pt) > -sampleDist/2 {
				continue
			}
			h := sampleHeight(hp, pt[0], pt[2], cs, ics, ch, searchRadius)
			samples = append(samples, [3]float32{pt[0], float32(h) * ch, pt[2]})
		}
	}

	const maxVerts = 127
	used := make([]bool, len(samples))
	for iter := 0; iter < len(samples) && int(n) < maxVerts; iter++ {
		bestI := -1
		var bestD float32
		var bestTri int
		for si, s := range samples {
			if used[si] {
				continue
			}
			d, ti := maxErrorAgainstMesh(s, verts, tris)
			if d > bestD {
				bestD, bestI, bestTri = d, si, ti
			}
		}
		if bestI == -1 || bestD <= sampleMaxError {
			break
		}
		used[bestI] = true
		newIdx := uint8(len(verts))
		verts = append(verts, samples[bestI])
		t := tris[bestTri]
		tris[bestTri] = [3]uint8{t[0], t[1], newIdx}
		tris = append(tris, [3]uint8{t[1], t[2], newIdx}, [3]uint8{t[2], t[0], newIdx})
		n++
	}

	return verts, tris
}

// maxErrorAgainstMesh returns the vertical deviation of s from whichever
// existing triangle contains its XZ projection, and that triangle's index.
func maxErrorAgainstMesh(s [3]float32, verts [][3]float32, tris [][3]uint8) (float32, int) {
	for i, t := range tris {
		d := distPtTri3(s, verts[t[0]], verts[t[1]], verts[t[2]])
		if d < math32.MaxFloat32 {
			return d, i
		}
	}
	return 0, -1
}

func distToPolyXZ(poly [][3]float32, p [3]float32) float32 {
	dmin := float32(math32.MaxFloat32)
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := poly[i], poly[j]
		if (vi[2] > p[2]) != (vj[2] > p[2]) &&
			p[0] < (vj[0]-vi[0])*(p[2]-vi[2])/(vj[2]-vi[2])+vi[0] {
			inside = !inside
		}
		if d := distPtSeg3(p, vj, vi); d < dmin {
			dmin = d
		}
	}
	dmin = math32.Sqrt(dmin)
	if inside {
		return -dmin
	}
	return dmin
}
