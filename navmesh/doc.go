// Package navmesh builds walkable polygon navigation meshes from triangle
// soup, following the classic Recast voxelization pipeline: heightfield
// rasterization, compaction, area erosion and marking, distance field,
// watershed region partitioning, contour extraction and finally polygon and
// detail mesh generation.
//
// The package operates entirely in memory: callers provide a Config and a
// TriMesh and receive a PolygonNavmesh and DetailNavmesh back. There is no
// file I/O, no wire format and no persistent state. Tiling a large world
// into independently buildable tiles is handled by the sibling package
// navmesh/tiled.
package navmesh
