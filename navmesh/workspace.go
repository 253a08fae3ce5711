package navmesh

import "sync"

// TileWorkspace holds the scratch Heightfield for one tile build. Reusing
// one across tiles of similar size avoids reallocating its column slice on
// every call.
type TileWorkspace struct {
	hf *Heightfield
}

// TileWorkspacePool hands out TileWorkspace instances sized on demand and
// recycles their backing storage between tiles, the way a pool of
// same-shaped buffers is recycled across frames.
type TileWorkspacePool struct {
	pool sync.Pool
}

// NewTileWorkspacePool returns an empty pool.
func NewTileWorkspacePool() *TileWorkspacePool {
	p := &TileWorkspacePool{}
	p.pool.New = func() any { return &TileWorkspace{} }
	return p
}

// Get returns a workspace whose Heightfield is sized and bounded for this
// tile, reusing a pooled instance's column slice when its capacity allows.
func (p *TileWorkspacePool) Get(width, height int32, bounds AABB3D, cellSize, cellHeight float32) *TileWorkspace {
	ws := p.pool.Get().(*TileWorkspace)
	if ws.hf == nil {
		ws.hf = NewHeightfield(width, height, bounds, cellSize, cellHeight)
	} else {
		ws.hf.reset(width, height, bounds, cellSize, cellHeight)
	}
	return ws
}

// Put returns ws to the pool for reuse by a later tile.
func (p *TileWorkspacePool) Put(ws *TileWorkspace) {
	if ws == nil {
		return
	}
	p.pool.Put(ws)
}
