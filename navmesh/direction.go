package navmesh

// Direction numbering is load-bearing: compact-span connections, the
// chamfer distance field's diagonal traversals and contour tracing all
// depend on this exact mapping {0:-x, 1:+z, 2:+x, 3:-z}. Do not renumber
// without updating every consumer in lockstep.
var (
	dirOffsetX = [4]int32{-1, 0, 1, 0}
	dirOffsetY = [4]int32{0, 1, 0, -1}
)

// notConnected marks a CompactSpan connection slot as having no walkable
// neighbor in that direction.
const notConnected int32 = 0x3f

// oppositeDir returns the reciprocal of direction dir, per the invariant
// that a connection s->s' in dir implies s'->s in oppositeDir(dir).
func oppositeDir(dir int32) int32 { return (dir + 2) % 4 }
