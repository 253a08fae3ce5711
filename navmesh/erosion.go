package navmesh

// ErodeWalkableArea shrinks the walkable region by radius voxels: any span
// whose Chebyshev-style distance to the nearest non-walkable neighbor is
// below 2*radius is reassigned to NullArea. Distance is computed with the
// same two-pass chamfer kernel as the distance field, but seeded from a
// binary walkable/non-walkable mask rather than per-area grouping.
func ErodeWalkableArea(chf *CompactHeightfield, radius int32) error {
	w, h := chf.Width, chf.Height
	dist := make([]uint8, len(chf.Spans))
	for i := range dist {
		dist[i] = 0xff
	}

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				if chf.Areas[i] == NullArea {
					dist[i] = 0
					continue
				}
				s := &chf.Spans[i]
				nc := 0
				for dir := int32(0); dir < 4; dir++ {
					if s.GetCon(dir) == notConnected {
						continue
					}
					nx := x + dirOffsetX[dir]
					ny := y + dirOffsetY[dir]
					nidx := int32(chf.Cells[nx+ny*w].Index) + s.GetCon(dir)
					if chf.Areas[nidx] != NullArea {
						nc++
					}
				}
				if nc != 4 {
					dist[i] = 0
				}
			}
		}
	}

	chamferPass(chf, dist, true)
	chamferPass(chf, dist, false)

	thr := uint8(clampI32(radius*2, 0, 255))
	for i := range chf.Areas {
		if dist[i] < thr {
			chf.Areas[i] = NullArea
		}
	}
	return nil
}

// chamferPass runs one directional half of the two-pass chamfer distance
// relaxation: forward (row-major, increasing z then x, directions 0/3 plus
// the back diagonals) when forward is true, backward (decreasing z then x,
// directions 2/1 plus the forward diagonals) otherwise.
func chamferPass(chf *CompactHeightfield, dist []uint8, forward bool) {
	w, h := chf.Width, chf.Height
	relax := func(i, ai int32, cost uint8) {
		nd := dist[ai]
		if int32(nd)+int32(cost) < 255 {
			nd += cost
		} else {
			nd = 255
		}
		if nd < dist[i] {
			dist[i] = nd
		}
	}

	// leg relaxes span i against its neighbor in direction dir, then against
	// that neighbor's own neighbor in direction diag (the diagonal tap).
	leg := func(i, x, y, dir, diag int32) {
		s := &chf.Spans[i]
		if s.GetCon(dir) == notConnected {
			return
		}
		ax := x + dirOffsetX[dir]
		ay := y + dirOffsetY[dir]
		ai := int32(chf.Cells[ax+ay*w].Index) + s.GetCon(dir)
		relax(i, ai, 2)

		as := &chf.Spans[ai]
		if as.GetCon(diag) != notConnected {
			aax := ax + dirOffsetX[diag]
			aay := ay + dirOffsetY[diag]
			aai := int32(chf.Cells[aax+aay*w].Index) + as.GetCon(diag)
			relax(i, aai, 3)
		}
	}

	if forward {
		for y := int32(0); y < h; y++ {
			for x := int32(0); x < w; x++ {
				c := chf.Cells[x+y*w]
				for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
					leg(i, x, y, 0, 3) // (-1,0) then (-1,-1)
					leg(i, x, y, 3, 2) // (0,-1) then (+1,-1)
				}
			}
		}
	} else {
		for y := h - 1; y >= 0; y-- {
			for x := w - 1; x >= 0; x-- {
				c := chf.Cells[x+y*w]
				for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
					leg(i, x, y, 2, 1) // (+1,0) then (+1,+1)
					leg(i, x, y, 1, 0) // (0,+1) then (-1,+1)
				}
			}
		}
	}
}
