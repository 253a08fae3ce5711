package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOBJ(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mesh.obj")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOBJMeshTriangle(t *testing.T) {
	path := writeOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 0 1\nf 1 2 3\n")
	mesh, err := loadOBJMesh(path)
	require.NoError(t, err)
	assert.Len(t, mesh.Verts, 3)
	require.Len(t, mesh.Tris, 1)
	assert.Equal(t, [3]int32{0, 1, 2}, mesh.Tris[0])
}

func TestLoadOBJMeshFanTriangulatesQuad(t *testing.T) {
	path := writeOBJ(t, "v 0 0 0\nv 1 0 0\nv 1 0 1\nv 0 0 1\nf 1 2 3 4\n")
	mesh, err := loadOBJMesh(path)
	require.NoError(t, err)
	assert.Len(t, mesh.Tris, 2)
	assert.Equal(t, [3]int32{0, 1, 2}, mesh.Tris[0])
	assert.Equal(t, [3]int32{0, 2, 3}, mesh.Tris[1])
}

func TestLoadOBJMeshNegativeIndices(t *testing.T) {
	path := writeOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 0 1\nf -3 -2 -1\n")
	mesh, err := loadOBJMesh(path)
	require.NoError(t, err)
	assert.Equal(t, [3]int32{0, 1, 2}, mesh.Tris[0])
}

func TestLoadOBJMeshVertexTextureNormalForm(t *testing.T) {
	path := writeOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 0 1\nf 1/1/1 2/2/1 3/3/1\n")
	mesh, err := loadOBJMesh(path)
	require.NoError(t, err)
	assert.Equal(t, [3]int32{0, 1, 2}, mesh.Tris[0])
}

func TestLoadOBJMeshRejectsShortVertex(t *testing.T) {
	path := writeOBJ(t, "v 0 0\n")
	_, err := loadOBJMesh(path)
	assert.Error(t, err)
}

func TestLoadOBJMeshMissingFile(t *testing.T) {
	_, err := loadOBJMesh(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}
