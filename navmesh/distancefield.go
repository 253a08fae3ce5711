package navmesh

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BuildDistanceField computes, for every walkable span, its distance to the
// nearest area boundary: two serialized chamfer sweeps seeded from spans
// with fewer than 4 same-area neighbors, followed by a box-blur smoothing
// pass. The boundary-marking seed pass is embarrassingly parallel across
// rows (writes are disjoint per span index) and runs on
// runtime.GOMAXPROCS(0) goroutines via errgroup; the two chamfer sweeps and
// the blur must each run in a single, fixed traversal order to keep the
// reduction associative and the result reproducible across sequential and
// parallel tile generation.
func BuildDistanceField(chf *CompactHeightfield) error {
	dist, err := markBoundaries(chf)
	if err != nil {
		return err
	}

	forwardDistancePass(chf, dist)
	backwardDistancePass(chf, dist)

	maxD := uint16(0)
	for _, d := range dist {
		if d > maxD {
			maxD = d
		}
	}
	chf.MaxDistance = maxD
	chf.Dist = boxBlur(chf, dist, 1)
	return nil
}

func markBoundaries(chf *CompactHeightfield) ([]uint16, error) {
	w, h := chf.Width, chf.Height
	dist := make([]uint16, len(chf.Spans))
	for i := range dist {
		dist[i] = 0xffff
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > int(h) {
		workers = int(h)
	}
	if workers <= 1 || h == 0 {
		markBoundaryRows(chf, dist, 0, h)
		return dist, nil
	}

	var g errgroup.Group
	rowsPerWorker := (h + int32(workers) - 1) / int32(workers)
	for wi := 0; wi < workers; wi++ {
		y0 := int32(wi) * rowsPerWorker
		y1 := y0 + rowsPerWorker
		if y1 > h {
			y1 = h
		}
		if y0 >= y1 {
			continue
		}
		g.Go(func() error {
			markBoundaryRows(chf, dist, y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrapStage(StageRegionBuild, err, "boundary marking")
	}
	_ = w
	return dist, nil
}

// markBoundaryRows writes dist[i]=0 for every span in rows [y0,y1) that has
// fewer than four same-area walkable neighbors. Each span index i is
// written by exactly one row band, so concurrent bands never race.
func markBoundaryRows(chf *CompactHeightfield, dist []uint16, y0, y1 int32) {
	w := chf.Width
	for y := y0; y < y1; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				s := &chf.Spans[i]
				nc := 0
				for dir := int32(0); dir < 4; dir++ {
					if s.GetCon(dir) == notConnected {
						continue
					}
					nx := x + dirOffsetX[dir]
					ny := y + dirOffsetY[dir]
					nidx := int32(chf.Cells[nx+ny*w].Index) + s.GetCon(dir)
					if chf.Areas[nidx] == chf.Areas[i] {
						nc++
					}
				}
				if nc != 4 {
					dist[i] = 0
				}
			}
		}
	}
}

func forwardDistancePass(chf *CompactHeightfield, dist []uint16) {
	w, h := chf.Width, chf.Height
	leg := func(i, x, y, dir, diag int32) {
		s := &chf.Spans[i]
		if s.GetCon(dir) == notConnected {
			return
		}
		ax, ay := x+dirOffsetX[dir], y+dirOffsetY[dir]
		ai := int32(chf.Cells[ax+ay*w].Index) + s.GetCon(dir)
		relaxDist(dist, i, ai, 2)

		as := &chf.Spans[ai]
		if as.GetCon(diag) != notConnected {
			aax, aay := ax+dirOffsetX[diag], ay+dirOffsetY[diag]
			aai := int32(chf.Cells[aax+aay*w].Index) + as.GetCon(diag)
			relaxDist(dist, i, aai, 3)
		}
	}
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				leg(i, x, y, 0, 3)
				leg(i, x, y, 3, 2)
			}
		}
	}
}

func backwardDistancePass(chf *CompactHeightfield, dist []uint16) {
	w, h := chf.Width, chf.Height
	leg := func(i, x, y, dir, diag int32) {
		s := &chf.Spans[i]
		if s.GetCon(dir) == notConnected {
			return
		}
		ax, ay := x+dirOffsetX[dir], y+dirOffsetY[dir]
		ai := int32(chf.Cells[ax+ay*w].Index) + s.GetCon(dir)
		relaxDist(dist, i, ai, 2)

		as := &chf.Spans[ai]
		if as.GetCon(diag) != notConnected {
			aax, aay := ax+dirOffsetX[diag], ay+dirOffsetY[diag]
			aai := int32(chf.Cells[aax+aay*w].Index) + as.GetCon(diag)
			relaxDist(dist, i, aai, 3)
		}
	}
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			c := chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				leg(i, x, y, 2, 1)
				leg(i, x, y, 1, 0)
			}
		}
	}
}

func relaxDist(dist []uint16, i, ai int32, cost uint16) {
	nd := dist[ai]
	if int32(nd)+int32(cost) < 0xffff {
		nd += cost
	} else {
		nd = 0xffff
	}
	if nd < dist[i] {
		dist[i] = nd
	}
}

// boxBlur averages each span with its up-to-8-neighbor tap, substituting
// the span's own value for any absent neighbor (and counting a missing
// axis neighbor twice). Spans at or below threshold*2 are left untouched.
func boxBlur(chf *CompactHeightfield, dist []uint16, thr int32) []uint16 {
	w, h := chf.Width, chf.Height
	out := make([]uint16, len(dist))
	copy(out, dist)

	threshold := uint16(thr * 2)
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				d := dist[i]
				if d <= threshold {
					out[i] = d
					continue
				}
				sum := int32(d)
				s := &chf.Spans[i]
				for dir := int32(0); dir < 4; dir++ {
					if s.GetCon(dir) == notConnected {
						sum += int32(d) * 2
						continue
					}
					ax, ay := x+dirOffsetX[dir], y+dirOffsetY[dir]
					ai := int32(chf.Cells[ax+ay*w].Index) + s.GetCon(dir)
					sum += int32(dist[ai])

					as := &chf.Spans[ai]
					dir2 := (dir + 1) % 4
					if as.GetCon(dir2) != notConnected {
						aax, aay := ax+dirOffsetX[dir2], ay+dirOffsetY[dir2]
						aai := int32(chf.Cells[aax+aay*w].Index) + as.GetCon(dir2)
						sum += int32(dist[aai])
					} else {
						sum += int32(d)
					}
				}
				out[i] = uint16((sum + 5) / 9)
			}
		}
	}
	return out
}
