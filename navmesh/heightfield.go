package navmesh

// span is a solid vertical interval within one voxel column, stored as a
// singly linked ascending list per column. Span lifetimes are left to Go's
// allocator and GC — tile workspaces reset a Heightfield's column slice
// wholesale rather than ever returning individual spans to a pool.
type span struct {
	min, max uint16
	area     AreaType
	next     *span
}

const maxSpanHeight = 0xffff

// Heightfield is a grid of width*height voxel columns, each an ascending,
// non-overlapping sequence of solid spans.
type Heightfield struct {
	Width, Height int32
	Bounds        AABB3D
	CellSize      float32
	CellHeight    float32
	cols          []*span
}

// NewHeightfield allocates a heightfield over bounds with the given voxel
// grid dimensions and cell sizes.
func NewHeightfield(width, height int32, bounds AABB3D, cellSize, cellHeight float32) *Heightfield {
	return &Heightfield{
		Width:      width,
		Height:     height,
		Bounds:     bounds,
		CellSize:   cellSize,
		CellHeight: cellHeight,
		cols:       make([]*span, width*height),
	}
}

// reset clears every column without reallocating the backing slice, for
// reuse from a workspace pool.
func (hf *Heightfield) reset(width, height int32, bounds AABB3D, cellSize, cellHeight float32) {
	hf.Width, hf.Height, hf.Bounds = width, height, bounds
	hf.CellSize, hf.CellHeight = cellSize, cellHeight
	need := int(width * height)
	if cap(hf.cols) >= need {
		hf.cols = hf.cols[:need]
		for i := range hf.cols {
			hf.cols[i] = nil
		}
	} else {
		hf.cols = make([]*span, need)
	}
}

// addSpan inserts [smin,smax) with the given area into column (x,y),
// merging with any overlapping or climb-adjacent existing spans: overlapping
// spans union their extents; spans within flagMergeThr of each other in top
// height additionally take the higher area id, otherwise the taller span's
// area wins.
func (hf *Heightfield) addSpan(x, y int32, smin, smax uint16, area AreaType, flagMergeThr int32) {
	idx := x + y*hf.Width
	s := &span{min: smin, max: smax, area: area}

	if hf.cols[idx] == nil {
		hf.cols[idx] = s
		return
	}

	var prev *span
	cur := hf.cols[idx]
	for cur != nil {
		switch {
		case cur.min > s.max:
			goto insert
		case cur.max < s.min:
			prev, cur = cur, cur.next
		default:
			if cur.min < s.min {
				s.min = cur.min
			}
			if cur.max > s.max {
				s.max = cur.max
			}
			delta := int32(s.max) - int32(cur.max)
			if delta < 0 {
				delta = -delta
			}
			if delta <= flagMergeThr && cur.area > s.area {
				s.area = cur.area
			}
			next := cur.next
			if prev != nil {
				prev.next = next
			} else {
				hf.cols[idx] = next
			}
			cur = next
		}
	}

insert:
	if prev != nil {
		s.next = prev.next
		prev.next = s
	} else {
		s.next = hf.cols[idx]
		hf.cols[idx] = s
	}
}

// Spans returns the ascending span list of column (x,y); callers must not
// mutate the returned spans.
func (hf *Heightfield) Spans(x, y int32) []SpanView {
	var out []SpanView
	for s := hf.cols[x+y*hf.Width]; s != nil; s = s.next {
		out = append(out, SpanView{YMin: s.min, YMax: s.max, Area: s.area})
	}
	return out
}

// SpanView is a read-only snapshot of one solid span, used by callers that
// need to inspect a Heightfield without reaching into its internals.
type SpanView struct {
	YMin, YMax uint16
	Area       AreaType
}
