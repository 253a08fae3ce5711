package cmd

import (
	"testing"

	"github.com/arl-navgen/navmesh/navmesh"
	"github.com/stretchr/testify/assert"
)

func TestToConfigConvertsAgentMetersToVoxels(t *testing.T) {
	s := DefaultBuildSettings()
	bounds := navmesh.AABB3D{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 10, 10}}

	cfg := s.ToConfig(bounds)

	assert.Equal(t, bounds, cfg.AABB)
	assert.Equal(t, s.CellSize, cfg.CellSize)
	assert.Equal(t, s.CellHeight, cfg.CellHeight)
	assert.Equal(t, int32(10), cfg.WalkableHeight) // ceil(2.0/0.2)
	assert.Equal(t, int32(4), cfg.WalkableClimb)   // floor(0.9/0.2)
	assert.Equal(t, int32(2), cfg.WalkableRadius)  // ceil(0.6/0.3)
	assert.Equal(t, int32(64), cfg.MinRegionArea)  // 8*8
	assert.Equal(t, int32(400), cfg.MergeRegionArea) // 20*20
	assert.Equal(t, navmesh.ContourTessWallEdges, cfg.ContourFlags)
}

func TestDefaultBuildSettingsProduceValidConfig(t *testing.T) {
	s := DefaultBuildSettings()
	bounds := navmesh.AABB3D{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 10, 10}}
	cfg := s.ToConfig(bounds)
	assert.NoError(t, cfg.Validate())
}
