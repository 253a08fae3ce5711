package navmesh

import "github.com/aurelien-rainone/math32"

// RasterizeTriMesh voxelizes every triangle of mesh into hf, clipping each
// triangle against row boundaries along Z, then each row against column
// boundaries along X (a Sutherland-Hodgman
// divide-and-clip sweep) and inserting the resulting per-column span via
// Heightfield.addSpan. Triangles that do not overlap hf's bounds contribute
// no spans; this is not an error.
func RasterizeTriMesh(hf *Heightfield, mesh *TriMesh, flagMergeThr int32) error {
	ics := 1.0 / hf.CellSize
	ich := 1.0 / hf.CellHeight
	for i, t := range mesh.Tris {
		area := NullArea
		if i < len(mesh.Areas) {
			area = mesh.Areas[i]
		}
		rasterizeTriangle(hf, mesh.Verts[t[0]], mesh.Verts[t[1]], mesh.Verts[t[2]], area, ics, ich, flagMergeThr)
	}
	return nil
}

func rasterizeTriangle(hf *Heightfield, v0, v1, v2 [3]float32, area AreaType, ics, ich float32, flagMergeThr int32) {
	w, h := hf.Width, hf.Height
	bmin, bmax := hf.Bounds.Min, hf.Bounds.Max
	by := bmax[1] - bmin[1]

	tmin, tmax := v0, v0
	for _, v := range [2][3]float32{v1, v2} {
		for k := 0; k < 3; k++ {
			if v[k] < tmin[k] {
				tmin[k] = v[k]
			}
			if v[k] > tmax[k] {
				tmax[k] = v[k]
			}
		}
	}

	if tmin[0] > bmax[0] || tmax[0] < bmin[0] ||
		tmin[1] > bmax[1] || tmax[1] < bmin[1] ||
		tmin[2] > bmax[2] || tmax[2] < bmin[2] {
		return
	}

	cs := hf.CellSize
	y0 := clampI32(int32((tmin[2]-bmin[2])*ics), 0, h-1)
	y1 := clampI32(int32((tmax[2]-bmin[2])*ics), 0, h-1)

	// Scratch buffers for Sutherland-Hodgman style clipping: a triangle
	// clipped against one axis-aligned plane can gain at most one vertex,
	// so 7 slots cover the worst case across both clip axes.
	var bufA, bufB, bufC, bufD [7][3]float32
	in := bufA[:]
	in[0], in[1], in[2] = v0, v1, v2
	nvIn := 3
	row := bufB[:]
	p1 := bufC[:]
	p2 := bufD[:]

	for y := y0; y <= y1; y++ {
		cz := bmin[2] + float32(y)*cs
		nrow, nrem := dividePoly(in[:nvIn], row, p1, cz+cs, 2)
		in, p1 = p1, in
		nvIn = nrem
		if nrow < 3 {
			continue
		}
		rowSlice := row[:nrow]
		// The X sweep swaps rowSlice and p2; start each row with p2 on its
		// own buffer so it never aliases row.
		p2 = bufD[:]

		minX, maxX := rowSlice[0][0], rowSlice[0][0]
		for _, v := range rowSlice[1:] {
			if v[0] < minX {
				minX = v[0]
			}
			if v[0] > maxX {
				maxX = v[0]
			}
		}
		x0 := clampI32(int32((minX-bmin[0])*ics), 0, w-1)
		x1 := clampI32(int32((maxX-bmin[0])*ics), 0, w-1)

		nv2 := nrow
		for x := x0; x <= x1; x++ {
			cx := bmin[0] + float32(x)*cs
			nv, nrem2 := dividePoly(rowSlice[:nv2], p1, p2, cx+cs, 0)
			rowSlice, p2 = p2, rowSlice
			nv2 = nrem2
			if nv < 3 {
				continue
			}
			poly := p1[:nv]

			smin, smax := poly[0][1], poly[0][1]
			for _, v := range poly[1:] {
				smin = math32.Min(smin, v[1])
				smax = math32.Max(smax, v[1])
			}
			smin -= bmin[1]
			smax -= bmin[1]
			if smax < 0 || smin > by {
				continue
			}
			if smin < 0 {
				smin = 0
			}
			if smax > by {
				smax = by
			}

			ismin := uint16(clampI32(int32(math32.Floor(smin*ich)), 0, maxSpanHeight))
			ismax := uint16(clampI32(int32(math32.Ceil(smax*ich)), int32(ismin)+1, maxSpanHeight))
			hf.addSpan(x, y, ismin, ismax, area, flagMergeThr)
		}
	}
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dividePoly splits convex polygon in against the half-open plane axis==x
// into out1 (axis <= x) and out2 (axis >= x), returning (len(out1),
// len(out2)).
func dividePoly(in [][3]float32, out1, out2 [][3]float32, x float32, axis int) (int, int) {
	nin := len(in)
	var d [7]float32
	for i := 0; i < nin; i++ {
		d[i] = x - in[i][axis]
	}

	m, n := 0, 0
	j := nin - 1
	for i := 0; i < nin; i++ {
		ina := d[j] >= 0
		inb := d[i] >= 0
		if ina != inb {
			s := d[j] / (d[j] - d[i])
			var cut [3]float32
			for k := 0; k < 3; k++ {
				cut[k] = in[j][k] + (in[i][k]-in[j][k])*s
			}
			out1[m] = cut
			out2[n] = cut
			m++
			n++
			switch {
			case d[i] > 0:
				out1[m] = in[i]
				m++
			case d[i] < 0:
				out2[n] = in[i]
				n++
			}
		} else {
			if d[i] >= 0 {
				out1[m] = in[i]
				m++
				if d[i] != 0 {
					j = i
					continue
				}
			}
			out2[n] = in[i]
			n++
		}
		j = i
	}
	return m, n
}
