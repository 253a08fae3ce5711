package navmesh

import (
	assert "github.com/aurelien-rainone/assertgo"
	"github.com/aurelien-rainone/math32"
)

// MarkConvexPolyArea overwrites the area of every still-walkable span whose
// column center falls inside vol's XZ footprint (even-odd test, computed
// once per column) and whose voxel Y lies within [vol.MinY, vol.MaxY]
// (converted to voxel units). An empty vol.Vertices is a no-op.
func MarkConvexPolyArea(chf *CompactHeightfield, vol ConvexVolume) {
	assert.True(chf != nil, "chf should not be nil")
	if len(vol.Vertices) == 0 {
		return
	}

	bmin, bmax := vol.Vertices[0], vol.Vertices[0]
	for _, v := range vol.Vertices[1:] {
		if v[0] < bmin[0] {
			bmin[0] = v[0]
		}
		if v[1] < bmin[1] {
			bmin[1] = v[1]
		}
		if v[0] > bmax[0] {
			bmax[0] = v[0]
		}
		if v[1] > bmax[1] {
			bmax[1] = v[1]
		}
	}

	cbmin := chf.Bounds.Min
	ics, ich := 1/chf.CellSize, 1/chf.CellHeight

	x0 := clampI32(int32((bmin[0]-cbmin[0])*ics), 0, chf.Width-1)
	x1 := clampI32(int32((bmax[0]-cbmin[0])*ics), 0, chf.Width-1)
	z0 := clampI32(int32((bmin[1]-cbmin[2])*ics), 0, chf.Height-1)
	z1 := clampI32(int32((bmax[1]-cbmin[2])*ics), 0, chf.Height-1)

	minY := int32(math32.Floor((vol.MinY - cbmin[1]) * ich))
	maxY := int32(math32.Ceil((vol.MaxY - cbmin[1]) * ich))

	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			cx := cbmin[0] + (float32(x)+0.5)*chf.CellSize
			cz := cbmin[2] + (float32(z)+0.5)*chf.CellSize
			if !pointInPoly(vol.Vertices, cx, cz) {
				continue
			}
			c := chf.Cells[x+z*chf.Width]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				if chf.Areas[i] == NullArea {
					continue
				}
				y := int32(chf.Spans[i].Y)
				if y >= minY && y <= maxY {
					chf.Areas[i] = vol.Area
				}
			}
		}
	}
}

// pointInPoly is a standard even-odd crossing test against a polygon given
// as XZ points.
func pointInPoly(poly [][2]float32, px, pz float32) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := poly[i], poly[j]
		if ((vi[1] > pz) != (vj[1] > pz)) &&
			(px < (vj[0]-vi[0])*(pz-vi[1])/(vj[1]-vi[1])+vi[0]) {
			inside = !inside
		}
	}
	return inside
}
