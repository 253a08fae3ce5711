package navmesh

import "sort"

const (
	nullRegion   uint16 = 0
	borderRegBit uint16 = 0x8000
)

// regionInfo tracks the bookkeeping filterSmallRegions needs per surviving
// region: how many spans it owns and, for each neighbor region, how many
// span-pairs touch across the boundary (used as a proxy for shared edge
// length when choosing a merge target).
type regionInfo struct {
	id          uint16
	spanCount   int32
	connections map[uint16]int32
}

// BuildRegions partitions chf's walkable spans into regions using
// watershed flooding: existing region frontiers are expanded outward level
// by level (from the highest distance bucket down to zero), unclaimed
// spans at each level seed new regions by flood fill, and a final pass
// removes tiny regions and merges small ones into their largest neighbor.
// A borderSize perimeter, if > 0, is reserved as a distinct region first
// so contours never run along the tile cut.
//
// BuildDistanceField must have been called on chf first.
func BuildRegions(chf *CompactHeightfield, borderSize, minRegionArea, mergeRegionArea int32) error {
	w, h := chf.Width, chf.Height
	n := len(chf.Spans)
	regs := make([]uint16, n)
	dist2 := make([]uint16, n)
	copy(dist2, chf.Dist)

	nextID := uint16(1)

	if borderSize > 0 {
		bw := minI32(w, borderSize)
		bh := minI32(h, borderSize)
		nextID = paintBorderRects(chf, regs, w, h, bw, bh, nextID)
		chf.BorderSize = borderSize
	}

	// Bucket spans by distance level, descending.
	maxLevel := (int32(chf.MaxDistance) + 1) &^ 1
	if maxLevel < 2 {
		maxLevel = 2
	}

	for level := maxLevel; level > 0; level -= 2 {
		lo := uint16(maxI32(level-2, 0))
		// Expand existing region frontiers into newly-reached spans.
		for pass := 0; pass < 8; pass++ {
			if !expandRegions(chf, regs, dist2, lo) {
				break
			}
		}
		// Flood-fill unclaimed spans at this level into brand-new regions.
		for y := int32(0); y < h; y++ {
			for x := int32(0); x < w; x++ {
				c := chf.Cells[x+y*w]
				for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
					if chf.Areas[i] == NullArea || regs[i] != nullRegion || chf.Dist[i] < lo {
						continue
					}
					if floodNewRegion(chf, regs, dist2, x, y, i, lo, nextID) {
						nextID++
						if nextID == 0xfffe {
							return &BuildError{Stage: StageRegionBuild, Message: "region count exceeded u16 max: 65534"}
						}
					}
				}
			}
		}
	}

	if err := filterSmallRegions(chf, regs, minRegionArea, mergeRegionArea, &nextID); err != nil {
		return err
	}

	for i := range chf.Spans {
		chf.Spans[i].Reg = regs[i]
	}
	chf.MaxRegions = nextID
	return nil
}

func paintBorderRects(chf *CompactHeightfield, regs []uint16, w, h, bw, bh int32, id uint16) uint16 {
	paint := func(x0, x1, y0, y1 int32, r uint16) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				c := chf.Cells[x+y*w]
				for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
					if chf.Areas[i] != NullArea {
						regs[i] = r | borderRegBit
					}
				}
			}
		}
	}
	paint(0, bw, 0, h, id)
	id++
	paint(w-bw, w, 0, h, id)
	id++
	paint(0, w, 0, bh, id)
	id++
	paint(0, w, h-bh, h, id)
	id++
	return id
}

// expandRegions grows every existing (non-border) region by one voxel: a
// still-unclaimed span at or above the current level joins the unique
// region found among its 4-neighbors, if exactly one candidate exists.
// Returns whether any span changed, so the caller can stop once a level's
// frontier is stable (bounded at 8 passes).
func expandRegions(chf *CompactHeightfield, regs, dist []uint16, level uint16) bool {
	w, h := chf.Width, chf.Height
	changed := false
	dirty := make([]uint16, len(regs))
	copy(dirty, regs)

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				if chf.Areas[i] == NullArea || regs[i] != nullRegion || chf.Dist[i] < level {
					continue
				}
				s := &chf.Spans[i]
				var candidate uint16
				ambiguous := false
				for dir := int32(0); dir < 4; dir++ {
					if s.GetCon(dir) == notConnected {
						continue
					}
					nx, ny := x+dirOffsetX[dir], y+dirOffsetY[dir]
					nidx := int32(chf.Cells[nx+ny*w].Index) + s.GetCon(dir)
					nr := regs[nidx]
					if nr == nullRegion || nr&borderRegBit != 0 || chf.Areas[nidx] != chf.Areas[i] {
						continue
					}
					if candidate == nullRegion {
						candidate = nr
					} else if candidate != nr {
						ambiguous = true
					}
				}
				if candidate != nullRegion && !ambiguous {
					dirty[i] = candidate
					dist[i] = chf.Dist[i]
					changed = true
				}
			}
		}
	}
	copy(regs, dirty)
	return changed
}

// floodNewRegion flood-fills one brand-new region starting from span seed
// (all spans reachable without crossing a lower-distance boundary at this
// level, staying within the seed's area type). Returns false if the seed
// was claimed by a concurrent expansion before the flood started.
func floodNewRegion(chf *CompactHeightfield, regs, dist []uint16, x0, y0, seed int32, level, id uint16) bool {
	if regs[seed] != nullRegion {
		return false
	}
	w := chf.Width
	area := chf.Areas[seed]
	type cell struct{ x, y, i int32 }
	stack := []cell{{x0, y0, seed}}
	regs[seed] = id
	count := 0

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		s := &chf.Spans[cur.i]
		for dir := int32(0); dir < 4; dir++ {
			if s.GetCon(dir) == notConnected {
				continue
			}
			nx, ny := cur.x+dirOffsetX[dir], cur.y+dirOffsetY[dir]
			nidx := int32(chf.Cells[nx+ny*w].Index) + s.GetCon(dir)
			if chf.Areas[nidx] != area || regs[nidx] != nullRegion || chf.Dist[nidx] < level {
				continue
			}
			regs[nidx] = id
			stack = append(stack, cell{nx, ny, nidx})
		}
	}
	return count > 0
}

// filterSmallRegions removes regions with fewer than minRegionArea spans
// that border no other region (reassigning their spans to the null region);
// a small region that touches another region is not removed, only
// considered by the merge step. It then merges regions with
// fewer than mergeRegionArea spans into the adjacent region with which
// they share the longest boundary, refusing any merge that would make the
// target region multiply connected.
func filterSmallRegions(chf *CompactHeightfield, regs []uint16, minArea, mergeArea int32, maxID *uint16) error {
	if *maxID >= 0xfffe {
		return &BuildError{Stage: StageRegionBuild, Message: "region count exceeded u16 max: 65534"}
	}

	infos := map[uint16]*regionInfo{}
	getInfo := func(id uint16) *regionInfo {
		ri, ok := infos[id]
		if !ok {
			ri = &regionInfo{id: id, connections: map[uint16]int32{}}
			infos[id] = ri
		}
		return ri
	}

	w, h := chf.Width, chf.Height
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				r := regs[i]
				if r == nullRegion {
					continue
				}
				ri := getInfo(r)
				ri.spanCount++
				s := &chf.Spans[i]
				for dir := int32(0); dir < 4; dir++ {
					if s.GetCon(dir) == notConnected {
						continue
					}
					nx, ny := x+dirOffsetX[dir], y+dirOffsetY[dir]
					nidx := int32(chf.Cells[nx+ny*w].Index) + s.GetCon(dir)
					nr := regs[nidx]
					if nr != r && nr != nullRegion {
						ri.connections[nr]++
					}
				}
			}
		}
	}

	// Remove isolated tiny regions entirely (never border regions).
	for id, ri := range infos {
		if id&borderRegBit != 0 {
			continue
		}
		if ri.spanCount < minArea && len(ri.connections) == 0 {
			removeRegion(regs, id)
			delete(infos, id)
		}
	}

	// Merge small regions into their largest-boundary neighbor.
	ids := make([]uint16, 0, len(infos))
	for id := range infos {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		ri, ok := infos[id]
		if !ok || id&borderRegBit != 0 || ri.spanCount >= mergeArea {
			continue
		}
		var best uint16
		var bestLen int32 = -1
		for nr, length := range ri.connections {
			if nr == nullRegion {
				continue
			}
			if _, ok := infos[nr]; !ok {
				continue
			}
			if length > bestLen {
				best, bestLen = nr, length
			}
		}
		if bestLen < 0 {
			continue
		}
		if wouldDisconnect(ri, infos, best) {
			continue
		}
		mergeRegions(regs, infos, id, best)
	}

	// Renumber surviving regions densely starting at 1.
	remap := map[uint16]uint16{nullRegion: nullRegion}
	next := uint16(1)
	finalIDs := make([]uint16, 0, len(infos))
	for id := range infos {
		finalIDs = append(finalIDs, id)
	}
	sort.Slice(finalIDs, func(i, j int) bool { return finalIDs[i] < finalIDs[j] })
	for _, id := range finalIDs {
		if id&borderRegBit != 0 {
			remap[id] = id
			continue
		}
		remap[id] = next
		next++
	}
	for i, r := range regs {
		if nr, ok := remap[r]; ok {
			regs[i] = nr
		}
	}
	*maxID = next
	return nil
}

func removeRegion(regs []uint16, id uint16) {
	for i, r := range regs {
		if r == id {
			regs[i] = nullRegion
		}
	}
}

// wouldDisconnect is a conservative check: merging src into dst is refused
// if dst already touches src across more than one separate run of
// neighboring cells, since collapsing src in that case would wrap dst
// around a hole left behind and make it multiply connected. Counting
// connection-map entries is a coarse proxy for "more than one shared
// boundary run" — any region besides src and the null region that also
// borders src, and that dst does not already border, is treated as an
// unsafe merge since it would relocate that boundary onto dst.
func wouldDisconnect(src *regionInfo, all map[uint16]*regionInfo, dst uint16) bool {
	dstInfo, ok := all[dst]
	if !ok {
		return true
	}
	for nr := range src.connections {
		if nr == nullRegion || nr == src.id || nr == dst {
			continue
		}
		if _, borders := dstInfo.connections[nr]; !borders {
			return true
		}
	}
	return false
}

// mergeRegions folds src into dst: every span owned by src is relabeled to
// dst, dst's span count absorbs src's, and dst's connection tallies absorb
// src's (minus the now-internal src/dst boundary), then src is dropped
// from infos.
func mergeRegions(regs []uint16, infos map[uint16]*regionInfo, src, dst uint16) {
	srcInfo, ok := infos[src]
	if !ok {
		return
	}
	dstInfo, ok := infos[dst]
	if !ok {
		return
	}

	for i, r := range regs {
		if r == src {
			regs[i] = dst
		}
	}

	dstInfo.spanCount += srcInfo.spanCount
	for nr, n := range srcInfo.connections {
		if nr == dst {
			continue
		}
		dstInfo.connections[nr] += n
	}
	delete(dstInfo.connections, src)
	for _, ri := range infos {
		if n, ok := ri.connections[src]; ok {
			ri.connections[dst] += n
			delete(ri.connections, src)
		}
	}
	delete(infos, src)
}
