package navmesh

import "github.com/arl-navgen/navmesh/internal/buildlog"

// BuildSingleNavmesh runs the full voxel pipeline over one mesh and area:
// rasterize, filter, compact, erode, mark volumes, build the distance
// field, partition into watershed regions, trace contours, triangulate the
// polygon mesh, and finally attach per-polygon height detail. Each stage's
// error is wrapped with the stage that produced it; an empty input mesh
// flows all the way through to an empty, non-nil result pair. log may be
// nil, in which case no progress is reported.
func BuildSingleNavmesh(cfg *Config, mesh *TriMesh, log *buildlog.Build) (*PolygonNavmesh, *DetailNavmesh, error) {
	width, height := GridSize(cfg.AABB, cfg.CellSize)
	hf := NewHeightfield(width, height, cfg.AABB, cfg.CellSize, cfg.CellHeight)
	return buildNavmesh(cfg, mesh, hf, log)
}

// BuildTileNavmesh is BuildSingleNavmesh for one tile of a larger build,
// using ws's pooled Heightfield instead of allocating a fresh one. Callers
// obtain ws from a TileWorkspacePool sized to cfg.AABB/cfg.CellSize/
// cfg.CellHeight and return it to the pool once the returned meshes have
// been consumed.
func BuildTileNavmesh(cfg *Config, mesh *TriMesh, ws *TileWorkspace, log *buildlog.Build) (*PolygonNavmesh, *DetailNavmesh, error) {
	return buildNavmesh(cfg, mesh, ws.hf, log)
}

func buildNavmesh(cfg *Config, mesh *TriMesh, hf *Heightfield, log *buildlog.Build) (*PolygonNavmesh, *DetailNavmesh, error) {
	if log == nil {
		log = buildlog.New(nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := mesh.Validate(); err != nil {
		return nil, nil, err
	}

	// Mark walkable triangles on a copy of the area list so the caller's
	// mesh is left unchanged.
	mesh = &TriMesh{Verts: mesh.Verts, Tris: mesh.Tris, Areas: append([]AreaType(nil), mesh.Areas...)}
	MarkWalkableTriangles(mesh, cfg.WalkableSlopeAngle)
	if err := log.Timed("rasterize", func() error {
		return RasterizeTriMesh(hf, mesh, cfg.WalkableClimb)
	}); err != nil {
		return nil, nil, wrapStage(StageRasterization, err, "rasterize input mesh")
	}

	FilterLowHangingWalkableObstacles(hf, cfg.WalkableClimb)
	FilterLedgeSpans(hf, cfg.WalkableHeight, cfg.WalkableClimb)
	FilterWalkableLowHeightSpans(hf, cfg.WalkableHeight)

	var chf *CompactHeightfield
	var err error
	if terr := log.Timed("compact", func() error {
		chf, err = BuildCompactHeightfield(hf, cfg.WalkableHeight, cfg.WalkableClimb)
		return err
	}); terr != nil {
		return nil, nil, wrapStage(StageCompactHeightfield, terr, "build compact heightfield")
	}

	if err := ErodeWalkableArea(chf, cfg.WalkableRadius); err != nil {
		return nil, nil, wrapStage(StageCompactHeightfield, err, "erode walkable area")
	}

	for _, vol := range cfg.AreaVolumes {
		MarkConvexPolyArea(chf, vol)
	}

	if err := BuildDistanceField(chf); err != nil {
		return nil, nil, wrapStage(StageRegionBuild, err, "build distance field")
	}

	if err := log.Timed("regions", func() error {
		return BuildRegions(chf, cfg.BorderSize, cfg.MinRegionArea, cfg.MergeRegionArea)
	}); err != nil {
		return nil, nil, wrapStage(StageRegionBuild, err, "build watershed regions")
	}

	var cset *ContourSet
	if terr := log.Timed("contours", func() error {
		cset, err = BuildContours(chf, cfg.MaxSimplificationError/cfg.CellSize, cfg.MaxEdgeLen, cfg.ContourFlags)
		return err
	}); terr != nil {
		return nil, nil, wrapStage(StageContourBuild, terr, "trace contours")
	}

	var pmesh *PolygonNavmesh
	if terr := log.Timed("polymesh", func() error {
		pmesh, err = BuildPolygonMesh(cset, cfg.MaxVerticesPerPolygon)
		return err
	}); terr != nil {
		return nil, nil, wrapStage(StagePolygonMesh, terr, "build polygon mesh")
	}

	var dmesh *DetailNavmesh
	if terr := log.Timed("detailmesh", func() error {
		dmesh, err = BuildDetailMesh(pmesh, chf, cfg.DetailSampleDist, cfg.DetailSampleMaxError)
		return err
	}); terr != nil {
		return nil, nil, wrapStage(StageDetailMesh, terr, "build detail mesh")
	}

	log.Progress("navmesh build complete")
	return pmesh, dmesh, nil
}
