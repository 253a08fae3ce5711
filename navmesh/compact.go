package navmesh

import assert "github.com/aurelien-rainone/assertgo"

// CompactCell points into CompactHeightfield.Spans for one voxel column.
type CompactCell struct {
	Index uint32
	Count uint16
}

// CompactSpan is a walkable-surface span: its floor is Y, its ceiling
// clearance is H voxels above that, and Con packs up to four neighbor
// connection indices (6 bits each, notConnected meaning "no neighbor").
type CompactSpan struct {
	Y   uint16
	H   uint16
	Con uint32
	Reg uint16
}

// SetCon stores the relative neighbor span index i for direction dir.
func (s *CompactSpan) SetCon(dir, i int32) {
	shift := uint(dir) * 6
	s.Con = (s.Con &^ (0x3f << shift)) | (uint32(i&0x3f) << shift)
}

// GetCon returns the relative neighbor span index for direction dir, or
// notConnected.
func (s *CompactSpan) GetCon(dir int32) int32 {
	shift := uint(dir) * 6
	return int32((s.Con >> shift) & 0x3f)
}

// CompactHeightfield is the walkable-top surface extracted from a
// Heightfield, with neighbor links suitable for flood-fill style
// traversal.
type CompactHeightfield struct {
	Width, Height  int32
	WalkableHeight int32
	WalkableClimb  int32
	BorderSize     int32
	MaxDistance    uint16
	MaxRegions     uint16
	Bounds         AABB3D
	CellSize       float32
	CellHeight     float32

	Cells []CompactCell
	Spans []CompactSpan
	Areas []AreaType
	Dist  []uint16
}

// BuildCompactHeightfield rebuilds hf as a walkable-surface representation:
// for every column, for every pair of adjacent spans (lower, upper) — or
// the topmost span with an implicit infinite ceiling — it emits one
// compact span with Y = lower.max and H = upper.min - lower.max, dropping
// any span whose clearance is below walkableHeight. Neighbor linking then
// matches each compact span to the unique neighbor, in each of the four
// directions, whose floor is within walkableClimb and whose clearance
// covers the overlap.
func BuildCompactHeightfield(hf *Heightfield, walkableHeight, walkableClimb int32) (*CompactHeightfield, error) {
	w, h := hf.Width, hf.Height
	chf := &CompactHeightfield{
		Width: w, Height: h,
		WalkableHeight: walkableHeight,
		WalkableClimb:  walkableClimb,
		Bounds:         hf.Bounds,
		CellSize:       hf.CellSize,
		CellHeight:     hf.CellHeight,
		Cells:          make([]CompactCell, w*h),
	}
	chf.Bounds.Max[1] += float32(walkableHeight) * hf.CellHeight

	var spanCount int64
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			for s := hf.cols[x+y*w]; s != nil; s = s.next {
				if s.area != NullArea {
					spanCount++
				}
			}
		}
	}
	if spanCount > 0xffffffff {
		return nil, &BuildError{Stage: StageCompactHeightfield, Message: "span count exceeded u32 max"}
	}

	chf.Spans = make([]CompactSpan, 0, spanCount)
	chf.Areas = make([]AreaType, 0, spanCount)

	idx := uint32(0)
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := &chf.Cells[x+y*w]
			c.Index = idx
			c.Count = 0
			for s := hf.cols[x+y*w]; s != nil; s = s.next {
				if s.area == NullArea {
					continue
				}
				bot := int32(s.max)
				top := int32(maxSpanHeight)
				if s.next != nil {
					top = int32(s.next.min)
				}
				clearance := top - bot
				if clearance < walkableHeight {
					continue
				}
				if clearance > 0xffff {
					clearance = 0xffff
				}
				chf.Spans = append(chf.Spans, CompactSpan{Y: uint16(bot), H: uint16(clearance)})
				chf.Areas = append(chf.Areas, s.area)
				c.Count++
				idx++
			}
		}
	}

	// Neighbor linking.
	maxH := int32(0xffff)
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				s := &chf.Spans[i]
				for dir := int32(0); dir < 4; dir++ {
					s.SetCon(dir, notConnected)
					nx := x + dirOffsetX[dir]
					ny := y + dirOffsetY[dir]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					nc := chf.Cells[nx+ny*w]
					found, matches := int32(-1), 0
					for k := int32(nc.Index); k < int32(nc.Index)+int32(nc.Count); k++ {
						ns := &chf.Spans[k]
						bot := maxI32(int32(s.Y), int32(ns.Y))
						top := minI32(int32(s.Y)+int32(s.H), int32(ns.Y)+int32(ns.H))
						if (top-bot) >= walkableHeight && absI32(int32(ns.Y)-int32(s.Y)) <= walkableClimb {
							found = k
							matches++
						}
					}
					if matches == 1 {
						lidx := found - int32(nc.Index)
						if lidx >= 0 && lidx < maxH {
							s.SetCon(dir, lidx)
						}
					}
				}
			}
		}
	}

	assert.True(idx == uint32(len(chf.Spans)), "compact span count must match the index cursor")
	return chf, nil
}
