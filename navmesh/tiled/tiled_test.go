package tiled

import (
	"context"
	"testing"

	"github.com/arl-navgen/navmesh/navmesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig(aabb navmesh.AABB3D) navmesh.Config {
	return navmesh.Config{
		AABB:                  aabb,
		CellSize:              0.3,
		CellHeight:            0.2,
		WalkableSlopeAngle:    0.785398,
		WalkableHeight:        2,
		WalkableClimb:         1,
		WalkableRadius:        2,
		MinRegionArea:         8,
		MergeRegionArea:       20,
		MaxEdgeLen:            12,
		MaxSimplificationError: 1.3,
		MaxVerticesPerPolygon: 6,
		DetailSampleDist:      6,
		DetailSampleMaxError:  1,
		BorderSize:            3,
	}
}

// scenario (b): 100x100 world, tile_size=16, border_size=3.
func TestGridMatchesWorkedExample(t *testing.T) {
	aabb := navmesh.AABB3D{Min: [3]float32{0, 0, 0}, Max: [3]float32{100, 10, 100}}
	cfg, err := New(baseConfig(aabb), 16)
	require.NoError(t, err)

	tilesX, tilesZ := cfg.Grid()
	assert.Equal(t, int32(21), tilesX)
	assert.Equal(t, int32(21), tilesZ)
	assert.Equal(t, int32(441), tilesX*tilesZ)
}

// scenario (d): tile_size == 0 fails with TilingNotEnabled.
func TestNewRejectsZeroTileSize(t *testing.T) {
	aabb := navmesh.AABB3D{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 10, 10}}
	_, err := New(baseConfig(aabb), 0)
	require.Error(t, err)
	var buildErr *navmesh.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, navmesh.StageTilingNotEnabled, buildErr.Stage)
}

// tile_world_size <= 0 also fails, even with a positive tile_size, when
// cell_size is non-positive.
func TestNewRejectsNonPositiveTileWorldSize(t *testing.T) {
	aabb := navmesh.AABB3D{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 10, 10}}
	base := baseConfig(aabb)
	base.CellSize = 0
	_, err := New(base, 16)
	require.Error(t, err)
	var buildErr *navmesh.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, navmesh.StageTilingNotEnabled, buildErr.Stage)
}

func flatPlaneMesh(size float32) *navmesh.TriMesh {
	return &navmesh.TriMesh{
		Verts: [][3]float32{
			{0, 0, 0}, {size, 0, 0}, {size, 0, size}, {0, 0, size},
		},
		Tris:  [][3]int32{{0, 1, 2}, {0, 2, 3}},
		Areas: []navmesh.AreaType{navmesh.DefaultWalkableArea, navmesh.DefaultWalkableArea},
	}
}

// scenario (e): sequential and parallel batches over the same input produce
// byte-equal output, tile for tile.
func TestSequentialAndParallelAgree(t *testing.T) {
	aabb := navmesh.AABB3D{Min: [3]float32{0, -1, 0}, Max: [3]float32{20, 1, 20}}
	cfg, err := New(baseConfig(aabb), 8)
	require.NoError(t, err)

	mesh := flatPlaneMesh(20)

	seq, err := GenerateTilesSequential(cfg, mesh, nil)
	require.NoError(t, err)

	par, err := GenerateTilesParallel(context.Background(), cfg, mesh, nil)
	require.NoError(t, err)

	require.Equal(t, len(seq), len(par))
	for i := range seq {
		assert.Equal(t, seq[i].X, par[i].X)
		assert.Equal(t, seq[i].Z, par[i].Z)
		assert.Equal(t, seq[i].Bounds, par[i].Bounds)
		assert.Equal(t, seq[i].Poly, par[i].Poly)
		assert.Equal(t, seq[i].Detail, par[i].Detail)
	}
}

func TestTileBoundsExpandsByBorder(t *testing.T) {
	aabb := navmesh.AABB3D{Min: [3]float32{0, 0, 0}, Max: [3]float32{100, 10, 100}}
	base := baseConfig(aabb)
	cfg, err := New(base, 16)
	require.NoError(t, err)

	b := cfg.tileBounds(0, 0)
	border := base.BorderSize * 1
	expectedMin := -float32(border) * base.CellSize
	assert.InDelta(t, expectedMin, b.Min[0], 1e-5)
	assert.InDelta(t, expectedMin, b.Min[2], 1e-5)
}

func TestClipMeshDropsNonOverlappingTriangles(t *testing.T) {
	mesh := &navmesh.TriMesh{
		Verts: [][3]float32{
			{0, 0, 0}, {1, 0, 0}, {0, 0, 1},
			{50, 0, 50}, {51, 0, 50}, {50, 0, 51},
		},
		Tris:  [][3]int32{{0, 1, 2}, {3, 4, 5}},
		Areas: []navmesh.AreaType{navmesh.DefaultWalkableArea, navmesh.DefaultWalkableArea},
	}
	bounds := navmesh.AABB3D{Min: [3]float32{-1, -1, -1}, Max: [3]float32{2, 1, 2}}
	clipped := clipMesh(mesh, bounds)
	require.Len(t, clipped.Tris, 1)
	assert.Len(t, clipped.Verts, 3)
}
