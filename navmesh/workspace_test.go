package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileWorkspacePoolGetReusesBackingStorage(t *testing.T) {
	pool := NewTileWorkspacePool()
	bounds := AABB3D{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 1, 10}}

	ws1 := pool.Get(10, 10, bounds, 1, 1)
	require.NotNil(t, ws1)
	cols := ws1.hf.cols
	pool.Put(ws1)

	ws2 := pool.Get(10, 10, bounds, 1, 1)
	assert.Same(t, &cols[0], &ws2.hf.cols[0])
}

func TestTileWorkspacePoolPutNilIsNoop(t *testing.T) {
	pool := NewTileWorkspacePool()
	assert.NotPanics(t, func() { pool.Put(nil) })
}
