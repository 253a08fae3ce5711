package navmesh

// FilterLowHangingWalkableObstacles lets walkable regions flow over low
// obstacles (curbs, stair risers): a non-walkable span with a walkable span
// immediately below it (within walkableClimb of that span's top) is
// promoted to the span below's area.
func FilterLowHangingWalkableObstacles(hf *Heightfield, walkableClimb int32) {
	w, h := hf.Width, hf.Height
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			var prev *span
			prevWalkable := false
			prevArea := NullArea
			for s := hf.cols[x+y*w]; s != nil; s = s.next {
				walkable := s.area != NullArea
				if !walkable && prevWalkable {
					if absI32(int32(s.max)-int32(prev.max)) <= walkableClimb {
						s.area = prevArea
					}
				}
				prevWalkable = walkable
				prevArea = s.area
				prev = s
			}
		}
	}
}

// FilterLedgeSpans clears the area of any span whose drop to the lowest
// reachable neighbor exceeds walkableClimb, or whose reachable neighbors'
// heights vary by more than walkableClimb — both signs of conservative
// rasterization producing a mesh hanging in the air over a ledge.
func FilterLedgeSpans(hf *Heightfield, walkableHeight, walkableClimb int32) {
	const maxHeight = int32(maxSpanHeight)
	w, h := hf.Width, hf.Height

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			for s := hf.cols[x+y*w]; s != nil; s = s.next {
				if s.area == NullArea {
					continue
				}
				bot := int32(s.max)
				top := maxHeight
				if s.next != nil {
					top = int32(s.next.min)
				}

				minh := maxHeight
				asmin, asmax := s.max, s.max

				for dir := 0; dir < 4; dir++ {
					dx := x + dirOffsetX[dir]
					dy := y + dirOffsetY[dir]
					if dx < 0 || dy < 0 || dx >= w || dy >= h {
						minh = minI32(minh, -walkableClimb-bot)
						continue
					}
					ns := hf.cols[dx+dy*w]
					nbot := -walkableClimb
					ntop := maxHeight
					if ns != nil {
						ntop = int32(ns.min)
					}
					if minI32(top, ntop)-maxI32(bot, nbot) > walkableHeight {
						minh = minI32(minh, nbot-bot)
					}

					for ; ns != nil; ns = ns.next {
						nbot = int32(ns.max)
						ntop = maxHeight
						if ns.next != nil {
							ntop = int32(ns.next.min)
						}
						if minI32(top, ntop)-maxI32(bot, nbot) > walkableHeight {
							minh = minI32(minh, nbot-bot)
							if absI32(nbot-bot) <= walkableClimb {
								if nbot < int32(asmin) {
									asmin = uint16(nbot)
								}
								if nbot > int32(asmax) {
									asmax = uint16(nbot)
								}
							}
						}
					}
				}

				if minh < -walkableClimb {
					s.area = NullArea
				} else if int32(asmax-asmin) > walkableClimb {
					s.area = NullArea
				}
			}
		}
	}
}

// FilterWalkableLowHeightSpans clears the area of any span whose clearance
// to the next span above is below walkableHeight, so agents can never be
// routed somewhere they cannot stand.
func FilterWalkableLowHeightSpans(hf *Heightfield, walkableHeight int32) {
	const maxHeight = int32(maxSpanHeight)
	w, h := hf.Width, hf.Height
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			for s := hf.cols[x+y*w]; s != nil; s = s.next {
				bot := int32(s.max)
				top := maxHeight
				if s.next != nil {
					top = int32(s.next.min)
				}
				if top-bot < walkableHeight {
					s.area = NullArea
				}
			}
		}
	}
}

func absI32(a int32) int32 {
	if a < 0 {
		return -a
	}
	return a
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
