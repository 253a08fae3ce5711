package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFlatCompactHeightfield runs rasterization through erosion on a flat
// size x size ground plane and returns the resulting compact heightfield,
// exercising each stage's real call shape the way build.go wires them.
func buildFlatCompactHeightfield(t *testing.T, size float32) *CompactHeightfield {
	t.Helper()
	bounds := AABB3D{Min: [3]float32{0, -1, 0}, Max: [3]float32{size, 1, size}}
	cellSize, cellHeight := float32(0.3), float32(0.2)

	mesh := &TriMesh{
		Verts: [][3]float32{{0, 0, 0}, {size, 0, 0}, {size, 0, size}, {0, 0, size}},
		Tris:  [][3]int32{{0, 1, 2}, {0, 2, 3}},
		Areas: []AreaType{NullArea, NullArea},
	}
	MarkWalkableTriangles(mesh, 0.785398)
	require.Equal(t, DefaultWalkableArea, mesh.Areas[0])

	width, height := GridSize(bounds, cellSize)
	hf := NewHeightfield(width, height, bounds, cellSize, cellHeight)
	require.NoError(t, RasterizeTriMesh(hf, mesh, 1))

	FilterLowHangingWalkableObstacles(hf, 1)
	FilterLedgeSpans(hf, 2, 1)
	FilterWalkableLowHeightSpans(hf, 2)

	chf, err := BuildCompactHeightfield(hf, 2, 1)
	require.NoError(t, err)
	require.NoError(t, ErodeWalkableArea(chf, 2))
	return chf
}

func TestRasterizeProducesWalkableSpans(t *testing.T) {
	chf := buildFlatCompactHeightfield(t, 10)
	assert.NotEmpty(t, chf.Spans)
	walkable := 0
	for _, a := range chf.Areas {
		if a != NullArea {
			walkable++
		}
	}
	assert.Greater(t, walkable, 0)
}

func TestErosionShrinksOnlyNearBorder(t *testing.T) {
	small := buildFlatCompactHeightfield(t, 3)
	large := buildFlatCompactHeightfield(t, 30)

	walkableFrac := func(chf *CompactHeightfield) float64 {
		walkable := 0
		for _, a := range chf.Areas {
			if a != NullArea {
				walkable++
			}
		}
		return float64(walkable) / float64(len(chf.Areas))
	}

	// A small plane is mostly border relative to its area, so a larger
	// plane of the same cell size should retain a strictly larger walkable
	// fraction after the same erosion radius.
	assert.Greater(t, walkableFrac(large), walkableFrac(small))
}

func TestDistanceFieldAndRegionsAndContoursAndPolyMesh(t *testing.T) {
	chf := buildFlatCompactHeightfield(t, 20)
	require.NoError(t, BuildDistanceField(chf))
	assert.Greater(t, chf.MaxDistance, uint16(0))

	require.NoError(t, BuildRegions(chf, 0, 8, 20))
	hasRegion := false
	for _, s := range chf.Spans {
		if s.Reg != 0 {
			hasRegion = true
			break
		}
	}
	assert.True(t, hasRegion)

	cset, err := BuildContours(chf, 1.3, 12, ContourTessWallEdges)
	require.NoError(t, err)
	assert.NotEmpty(t, cset.Conts)

	pmesh, err := BuildPolygonMesh(cset, 6)
	require.NoError(t, err)
	assert.NotEmpty(t, pmesh.Polys)
	assert.NotEmpty(t, pmesh.Verts)

	dmesh, err := BuildDetailMesh(pmesh, chf, 6, 1)
	require.NoError(t, err)
	assert.Len(t, dmesh.Meshes, len(pmesh.Polys))
}

func TestMarkConvexPolyAreaRelabelsWithinFootprint(t *testing.T) {
	chf := buildFlatCompactHeightfield(t, 10)
	before := append([]AreaType{}, chf.Areas...)

	vol := ConvexVolume{
		Vertices: [][2]float32{{-1, -1}, {11, -1}, {11, 11}, {-1, 11}},
		MinY:     -1,
		MaxY:     1,
		Area:     DefaultWalkableArea + 5,
	}
	MarkConvexPolyArea(chf, vol)

	changed := false
	for i, a := range chf.Areas {
		if before[i] != NullArea {
			assert.Equal(t, DefaultWalkableArea+5, a)
			changed = true
		}
	}
	assert.True(t, changed)
}

// An empty-vertex volume is documented as a legal no-op.
func TestMarkConvexPolyAreaEmptyVolumeIsNoop(t *testing.T) {
	chf := buildFlatCompactHeightfield(t, 10)
	before := append([]AreaType{}, chf.Areas...)
	MarkConvexPolyArea(chf, ConvexVolume{})
	assert.Equal(t, before, chf.Areas)
}
