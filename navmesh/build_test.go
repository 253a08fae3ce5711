package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatGroundConfig(size float32) *Config {
	return &Config{
		AABB:                   AABB3D{Min: [3]float32{0, -1, 0}, Max: [3]float32{size, 1, size}},
		CellSize:               0.3,
		CellHeight:             0.2,
		WalkableSlopeAngle:     0.785398,
		WalkableHeight:         2,
		WalkableClimb:          1,
		WalkableRadius:         2,
		MinRegionArea:          8,
		MergeRegionArea:        20,
		MaxEdgeLen:             12,
		MaxSimplificationError: 1.3,
		MaxVerticesPerPolygon:  6,
		DetailSampleDist:       6,
		DetailSampleMaxError:   1,
	}
}

func flatGroundMesh(size float32) *TriMesh {
	return &TriMesh{
		Verts: [][3]float32{
			{0, 0, 0}, {size, 0, 0}, {size, 0, size}, {0, 0, size},
		},
		Tris:  [][3]int32{{0, 1, 2}, {0, 2, 3}},
		Areas: []AreaType{NullArea, NullArea},
	}
}

// scenario (a): a single flat ground plane produces at least one polygon,
// with one detail-mesh entry per polygon.
func TestBuildSingleNavmeshFlatGround(t *testing.T) {
	cfg := flatGroundConfig(20)
	mesh := flatGroundMesh(20)

	poly, detail, err := BuildSingleNavmesh(cfg, mesh, nil)
	require.NoError(t, err)
	require.NotNil(t, poly)
	require.NotNil(t, detail)

	assert.NotEmpty(t, poly.Polys)
	assert.NotEmpty(t, poly.Verts)
	assert.Len(t, detail.Meshes, len(poly.Polys))
}

func TestBuildSingleNavmeshRejectsInvalidConfig(t *testing.T) {
	cfg := flatGroundConfig(20)
	cfg.CellSize = 0
	mesh := flatGroundMesh(20)

	_, _, err := BuildSingleNavmesh(cfg, mesh, nil)
	require.Error(t, err)
}

func TestBuildSingleNavmeshEmptyMeshProducesEmptyNavmesh(t *testing.T) {
	cfg := flatGroundConfig(10)
	mesh := &TriMesh{}

	poly, detail, err := BuildSingleNavmesh(cfg, mesh, nil)
	require.NoError(t, err)
	assert.Empty(t, poly.Polys)
	assert.Empty(t, detail.Meshes)
}

// A convex volume covering the whole footprint with a distinct area id
// should relabel every still-walkable span without otherwise changing the
// resulting mesh's shape.
func TestBuildSingleNavmeshWithAreaVolume(t *testing.T) {
	cfg := flatGroundConfig(20)
	cfg.AreaVolumes = []ConvexVolume{
		{
			Vertices: [][2]float32{{-1, -1}, {21, -1}, {21, 21}, {-1, 21}},
			MinY:     -1,
			MaxY:     1,
			Area:     DefaultWalkableArea + 1,
		},
	}
	mesh := flatGroundMesh(20)

	poly, _, err := BuildSingleNavmesh(cfg, mesh, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, poly.Polys)
}
