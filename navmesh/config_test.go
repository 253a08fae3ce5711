package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		AABB:                  AABB3D{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 10, 10}},
		CellSize:              0.3,
		CellHeight:            0.2,
		MaxVerticesPerPolygon: 6,
		WalkableHeight:        2,
	}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.AABB = AABB3D{Min: [3]float32{10, 0, 0}, Max: [3]float32{0, 10, 10}}
	assert.Error(t, bad.Validate())

	bad = valid
	bad.CellSize = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.MaxVerticesPerPolygon = 2
	assert.Error(t, bad.Validate())

	bad = valid
	bad.WalkableHeight = 0
	assert.Error(t, bad.Validate())
}

func TestTriMeshValidateAndBounds(t *testing.T) {
	empty := &TriMesh{}
	assert.NoError(t, empty.Validate())
	assert.Equal(t, AABB3D{}, empty.Bounds())

	mesh := &TriMesh{
		Verts: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}},
		Tris:  [][3]int32{{0, 1, 2}},
		Areas: []AreaType{NullArea},
	}
	assert.NoError(t, mesh.Validate())
	b := mesh.Bounds()
	assert.Equal(t, [3]float32{0, 0, 0}, b.Min)
	assert.Equal(t, [3]float32{1, 0, 1}, b.Max)

	bad := &TriMesh{
		Verts: mesh.Verts,
		Tris:  [][3]int32{{0, 1, 5}},
		Areas: []AreaType{NullArea},
	}
	assert.Error(t, bad.Validate())

	mismatched := &TriMesh{
		Verts: mesh.Verts,
		Tris:  mesh.Tris,
	}
	assert.Error(t, mismatched.Validate())
}

func TestGridSize(t *testing.T) {
	bounds := AABB3D{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 0, 5}}
	w, h := GridSize(bounds, 1)
	assert.Equal(t, int32(10), w)
	assert.Equal(t, int32(5), h)
}
