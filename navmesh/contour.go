package navmesh

// Contour is one region's simplified boundary. Verts packs 4 int32s per
// vertex: x, y, z in voxel space, then a tag carrying the neighbor region id
// in its low 16 bits plus the areaBorderFlag/borderVertexFlag bits.
type Contour struct {
	Verts  []int32
	RVerts []int32 // the raw, unsimplified boundary walk, same layout
	Reg    uint16
	Area   AreaType
}

// ContourSet is every region's contour, plus the voxel-space grid metadata
// needed to convert contour vertices back to world space.
type ContourSet struct {
	Conts      []Contour
	Bounds     AABB3D
	CellSize   float32
	CellHeight float32
	Width      int32
	Height     int32
	BorderSize int32
}

const (
	regionMask       int32 = 0xffff
	areaBorderFlag   int32 = 0x20000
	borderVertexFlag int32 = 0x10000
)

// BuildContours walks the boundary of every non-border region in chf,
// simplifies each walk with a Douglas-Peucker pass that treats
// inter-region and inter-area portals as mandatory vertices, and returns
// one Contour per region. chf must already carry a region id per span
// (BuildRegions).
func BuildContours(chf *CompactHeightfield, maxError float32, maxEdgeLen int32, flags int32) (*ContourSet, error) {
	w, h := chf.Width, chf.Height
	borderSize := chf.BorderSize

	cset := &ContourSet{
		Bounds:     chf.Bounds,
		CellSize:   chf.CellSize,
		CellHeight: chf.CellHeight,
		Width:      w - borderSize*2,
		Height:     h - borderSize*2,
		BorderSize: borderSize,
	}
	if borderSize > 0 {
		pad := float32(borderSize) * chf.CellSize
		cset.Bounds.Min[0] += pad
		cset.Bounds.Min[2] += pad
		cset.Bounds.Max[0] -= pad
		cset.Bounds.Max[2] -= pad
	}

	edgeFlags := make([]uint8, len(chf.Spans))
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				s := &chf.Spans[i]
				if s.Reg == nullRegion || s.Reg&borderRegBit != 0 {
					continue
				}
				var res uint8
				for dir := int32(0); dir < 4; dir++ {
					var nr uint16
					if s.GetCon(dir) != notConnected {
						nx, ny := x+dirOffsetX[dir], y+dirOffsetY[dir]
						ni := int32(chf.Cells[nx+ny*w].Index) + s.GetCon(dir)
						nr = chf.Spans[ni].Reg
					}
					if nr == s.Reg {
						res |= 1 << uint(dir)
					}
				}
				edgeFlags[i] = res ^ 0xf // mark edges NOT shared with the same region
			}
		}
	}

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				if edgeFlags[i] == 0 || edgeFlags[i] == 0xf {
					continue
				}
				reg := chf.Spans[i].Reg
				if reg == nullRegion || reg&borderRegBit != 0 {
					continue
				}
				area := chf.Areas[i]

				raw := walkContourBoundary(chf, edgeFlags, x, y, i)
				simplified := simplifyContour(raw, maxError, maxEdgeLen, flags)
				removeDegenerateSegments(&simplified)
				if len(simplified)/4 < 3 {
					continue
				}

				cont := Contour{
					Verts: unpadContour(simplified, borderSize),
					RVerts: unpadContour(raw, borderSize),
					Reg:   reg,
					Area:  area,
				}
				cset.Conts = append(cset.Conts, cont)
			}
		}
	}

	return cset, nil
}

func unpadContour(verts []int32, borderSize int32) []int32 {
	if borderSize == 0 {
		return verts
	}
	out := make([]int32, len(verts))
	copy(out, verts)
	for i := 0; i < len(out); i += 4 {
		out[i+0] -= borderSize
		out[i+2] -= borderSize
	}
	return out
}

// cornerHeight returns the highest floor among the up-to-4 spans meeting at
// the voxel corner adjacent to span i in direction dir, and whether that
// corner sits on a border between exactly two same-area exterior regions
// (in which case it must survive simplification to keep tile seams exact).
func cornerHeight(chf *CompactHeightfield, x, y, i, dir int32) (height int32, isBorder bool) {
	s := &chf.Spans[i]
	height = int32(s.Y)
	dirp := (dir + 1) & 0x3

	var regs [4]int32
	regs[0] = int32(s.Reg) | int32(chf.Areas[i])<<16

	if s.GetCon(dir) != notConnected {
		ax, ay := x+dirOffsetX[dir], y+dirOffsetY[dir]
		ai := int32(chf.Cells[ax+ay*chf.Width].Index) + s.GetCon(dir)
		as := &chf.Spans[ai]
		if int32(as.Y) > height {
			height = int32(as.Y)
		}
		regs[1] = int32(as.Reg) | int32(chf.Areas[ai])<<16
		if as.GetCon(dirp) != notConnected {
			bx, by := ax+dirOffsetX[dirp], ay+dirOffsetY[dirp]
			bi := int32(chf.Cells[bx+by*chf.Width].Index) + as.GetCon(dirp)
			if int32(chf.Spans[bi].Y) > height {
				height = int32(chf.Spans[bi].Y)
			}
			regs[2] = int32(chf.Spans[bi].Reg) | int32(chf.Areas[bi])<<16
		}
	}
	if s.GetCon(dirp) != notConnected {
		ax, ay := x+dirOffsetX[dirp], y+dirOffsetY[dirp]
		ai := int32(chf.Cells[ax+ay*chf.Width].Index) + s.GetCon(dirp)
		as := &chf.Spans[ai]
		if int32(as.Y) > height {
			height = int32(as.Y)
		}
		regs[3] = int32(as.Reg) | int32(chf.Areas[ai])<<16
		if as.GetCon(dir) != notConnected {
			bx, by := ax+dirOffsetX[dir], ay+dirOffsetY[dir]
			bi := int32(chf.Cells[bx+by*chf.Width].Index) + as.GetCon(dir)
			if int32(chf.Spans[bi].Y) > height {
				height = int32(chf.Spans[bi].Y)
			}
			regs[2] = int32(chf.Spans[bi].Reg) | int32(chf.Areas[bi])<<16
		}
	}

	for j := int32(0); j < 4; j++ {
		a, b, c, d := j, (j+1)&0x3, (j+2)&0x3, (j+3)&0x3
		twoSameExts := regs[a]&regs[b]&int32(borderRegBit) != 0 && regs[a] == regs[b]
		twoInts := (regs[c]|regs[d])&int32(borderRegBit) == 0
		sameArea := regs[c]>>16 == regs[d]>>16
		noZeros := regs[a] != 0 && regs[b] != 0 && regs[c] != 0 && regs[d] != 0
		if twoSameExts && twoInts && sameArea && noZeros {
			return height, true
		}
	}
	return height, false
}

// walkContourBoundary traces the boundary of the region owning span i,
// starting at the first edge flagged as a region crossing, walking
// clockwise and rotating into neighbor spans as it crosses connected
// edges. Each emitted vertex is the voxel-space corner (x,height,z) tagged
// with the neighbor region id and border flags.
func walkContourBoundary(chf *CompactHeightfield, edgeFlags []uint8, x, y, i int32) []int32 {
	var dir int32
	for edgeFlags[i]&(1<<uint(dir)) == 0 {
		dir++
	}
	startDir, starti := dir, i
	area := chf.Areas[i]

	var points []int32
	for iter := 0; iter < 40000; iter++ {
		if edgeFlags[i]&(1<<uint(dir)) != 0 {
			h, isBorder := cornerHeight(chf, x, y, i, dir)
			px, pz := x, y
			switch dir {
			case 0:
				pz++
			case 1:
				px++
				pz++
			case 2:
				px++
			}

			var r int32
			isAreaBorder := false
			s := &chf.Spans[i]
			if s.GetCon(dir) != notConnected {
				nx, ny := x+dirOffsetX[dir], y+dirOffsetY[dir]
				ni := int32(chf.Cells[nx+ny*chf.Width].Index) + s.GetCon(dir)
				r = int32(chf.Spans[ni].Reg)
				if area != chf.Areas[ni] {
					isAreaBorder = true
				}
			}
			if isBorder {
				r |= borderVertexFlag
			}
			if isAreaBorder {
				r |= areaBorderFlag
			}
			points = append(points, px, h, pz, r)

			edgeFlags[i] &^= 1 << uint(dir)
			dir = (dir + 1) & 0x3
		} else {
			var ni int32 = -1
			nx, ny := x+dirOffsetX[dir], y+dirOffsetY[dir]
			s := &chf.Spans[i]
			if s.GetCon(dir) != notConnected {
				ni = int32(chf.Cells[nx+ny*chf.Width].Index) + s.GetCon(dir)
			}
			if ni == -1 {
				break
			}
			x, y, i = nx, ny, ni
			dir = (dir + 3) & 0x3
		}
		if starti == i && startDir == dir {
			break
		}
	}
	return points
}

func distPtSeg2D(x, z, px, pz, qx, qz int32) float32 {
	pqx, pqz := float32(qx-px), float32(qz-pz)
	dx, dz := float32(x-px), float32(z-pz)
	d := pqx*pqx + pqz*pqz
	t := pqx*dx + pqz*dz
	if d > 0 {
		t /= d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	dx = float32(px) + t*pqx - float32(x)
	dz = float32(pz) + t*pqz - float32(z)
	return dx*dx + dz*dz
}

// simplifyContour reduces the raw boundary walk to a Douglas-Peucker
// simplified polyline. Vertices that sit at a region or area-border
// transition are always kept; beyond those, points are added wherever the
// raw walk deviates from the simplified segment by more than maxError
// (squared, in voxel units). When maxEdgeLen > 0 and the corresponding
// ContourTess* flag is set, long wall/area-border segments are additionally
// bisected until short enough.
func simplifyContour(points []int32, maxError float32, maxEdgeLen int32, buildFlags int32) []int32 {
	var simplified []int32

	hasConnections := false
	for i := 0; i < len(points); i += 4 {
		if points[i+3]&regionMask != 0 {
			hasConnections = true
			break
		}
	}

	if hasConnections {
		n := len(points) / 4
		for i := 0; i < n; i++ {
			ii := (i + 1) % n
			diffRegs := points[i*4+3]&regionMask != points[ii*4+3]&regionMask
			diffAreaBorder := points[i*4+3]&areaBorderFlag != points[ii*4+3]&areaBorderFlag
			if diffRegs || diffAreaBorder {
				simplified = append(simplified, points[i*4+0], points[i*4+1], points[i*4+2], int32(i))
			}
		}
	}

	if len(simplified) == 0 {
		llx, lly, llz, lli := points[0], points[1], points[2], int32(0)
		urx, ury, urz, uri := points[0], points[1], points[2], int32(0)
		for i := 0; i < len(points); i += 4 {
			x, y, z := points[i], points[i+1], points[i+2]
			if x < llx || (x == llx && z < llz) {
				llx, lly, llz, lli = x, y, z, int32(i/4)
			}
			if x > urx || (x == urx && z > urz) {
				urx, ury, urz, uri = x, y, z, int32(i/4)
			}
		}
		simplified = append(simplified, llx, lly, llz, lli, urx, ury, urz, uri)
	}

	pn := int32(len(points) / 4)
	for i := 0; i < len(simplified)/4; {
		ii := (i + 1) % (len(simplified) / 4)
		ax, az, ai := simplified[i*4], simplified[i*4+2], simplified[i*4+3]
		bx, bz, bi := simplified[ii*4], simplified[ii*4+2], simplified[ii*4+3]

		var maxD float32
		maxI := int32(-1)
		var ci, cinc, endi int32
		if bx > ax || (bx == ax && bz > az) {
			cinc = 1
			ci = (ai + cinc) % pn
			endi = bi
		} else {
			cinc = pn - 1
			ci = (bi + cinc) % pn
			endi = ai
			ax, bx = bx, ax
			az, bz = bz, az
		}

		if points[ci*4+3]&regionMask == 0 || points[ci*4+3]&areaBorderFlag != 0 {
			for ci != endi {
				d := distPtSeg2D(points[ci*4], points[ci*4+2], ax, az, bx, bz)
				if d > maxD {
					maxD = d
					maxI = ci
				}
				ci = (ci + cinc) % pn
			}
		}

		if maxI != -1 && maxD > maxError*maxError {
			simplified = insertVertex(simplified, i+1, points[maxI*4], points[maxI*4+1], points[maxI*4+2], maxI)
		} else {
			i++
		}
	}

	if maxEdgeLen > 0 && buildFlags&(ContourTessWallEdges|ContourTessAreaEdges) != 0 {
		for i := 0; i < len(simplified)/4; {
			ii := (i + 1) % (len(simplified) / 4)
			ax, az, ai := simplified[i*4], simplified[i*4+2], simplified[i*4+3]
			bx, bz, bi := simplified[ii*4], simplified[ii*4+2], simplified[ii*4+3]

			ci := (ai + 1) % pn
			tess := false
			if buildFlags&ContourTessWallEdges != 0 && points[ci*4+3]&regionMask == 0 {
				tess = true
			}
			if buildFlags&ContourTessAreaEdges != 0 && points[ci*4+3]&areaBorderFlag != 0 {
				tess = true
			}

			maxI := int32(-1)
			if tess {
				dx, dz := bx-ax, bz-az
				if dx*dx+dz*dz > maxEdgeLen*maxEdgeLen {
					var n int32
					if bi < ai {
						n = bi + pn - ai
					} else {
						n = bi - ai
					}
					if n > 1 {
						if bx > ax || (bx == ax && bz > az) {
							maxI = (ai + n/2) % pn
						} else {
							maxI = (ai + (n+1)/2) % pn
						}
					}
				}
			}

			if maxI != -1 {
				simplified = insertVertex(simplified, i+1, points[maxI*4], points[maxI*4+1], points[maxI*4+2], maxI)
			} else {
				i++
			}
		}
	}

	for i := 0; i < len(simplified)/4; i++ {
		ai := (simplified[i*4+3] + 1) % pn
		bi := simplified[i*4+3]
		simplified[i*4+3] = points[ai*4+3]&(regionMask|areaBorderFlag) | points[bi*4+3]&borderVertexFlag
	}
	return simplified
}

func insertVertex(verts []int32, at int, x, y, z, rawIdx int32) []int32 {
	verts = append(verts, 0, 0, 0, 0)
	copy(verts[(at+1)*4:], verts[at*4:len(verts)-4])
	verts[at*4+0] = x
	verts[at*4+1] = y
	verts[at*4+2] = z
	verts[at*4+3] = rawIdx
	return verts
}

// removeDegenerateSegments drops adjacent vertices that coincide on the XZ
// plane, which would otherwise confuse the polygon triangulator.
func removeDegenerateSegments(simplified *[]int32) {
	npts := len(*simplified) / 4
	for i := 0; i < npts; i++ {
		ni := (i + 1) % npts
		if (*simplified)[i*4] == (*simplified)[ni*4] && (*simplified)[i*4+2] == (*simplified)[ni*4+2] {
			s := *simplified
			copy(s[i*4:], s[(i+1)*4:])
			*simplified = s[:len(s)-4]
			npts--
			i--
		}
	}
}
