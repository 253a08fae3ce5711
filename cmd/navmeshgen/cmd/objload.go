package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arl-navgen/navmesh/navmesh"
)

// loadOBJMesh reads a Wavefront OBJ file's "v" and "f" records into a
// TriMesh, fan-triangulating any face with more than three vertices.
// Normals, texture coordinates, and OBJ groups/materials are ignored: the
// pipeline only needs positions and connectivity. Every triangle's area
// starts at NullArea; MarkWalkableTriangles fills it in during the build.
func loadOBJMesh(path string) (*navmesh.TriMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mesh := &navmesh.TriMesh{}
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: vertex needs 3 components", path, lineNo)
			}
			var v [3]float32
			for i := 0; i < 3; i++ {
				x, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
				}
				v[i] = float32(x)
			}
			mesh.Verts = append(mesh.Verts, v)
		case "f":
			idx := make([]int32, len(fields)-1)
			for i, tok := range fields[1:] {
				vi, err := parseOBJIndex(tok, len(mesh.Verts))
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
				}
				idx[i] = vi
			}
			for i := 2; i < len(idx); i++ {
				mesh.Tris = append(mesh.Tris, [3]int32{idx[0], idx[i-1], idx[i]})
				mesh.Areas = append(mesh.Areas, navmesh.NullArea)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// parseOBJIndex parses one OBJ face vertex reference ("v", "v/vt", or
// "v/vt/vn"), returning a zero-based vertex index. Negative OBJ indices
// count backward from the current vertex count.
func parseOBJIndex(tok string, vertCount int) (int32, error) {
	vtok := strings.SplitN(tok, "/", 2)[0]
	n, err := strconv.Atoi(vtok)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = vertCount + n + 1
	}
	if n < 1 {
		return 0, fmt.Errorf("face vertex index %d out of range", n)
	}
	return int32(n - 1), nil
}
