package navmesh

// Config is the immutable input to the voxel pipeline. All distances are in
// world units unless the field doc says otherwise; Width/Height/Border
// style quantities are voxel counts. A Config is read-only for the duration
// of a build or orchestrator call — nothing in this module mutates one.
type Config struct {
	// AABB is the world bounds the heightfield is rasterized against.
	AABB AABB3D

	// CellSize is the voxel size on the XZ plane. Must be > 0.
	CellSize float32

	// CellHeight is the voxel size along Y. Must be > 0.
	CellHeight float32

	// WalkableSlopeAngle is the maximum floor tilt, in radians, that is
	// still considered walkable.
	WalkableSlopeAngle float32

	// WalkableHeight is the minimum floor-to-ceiling clearance, in voxels.
	WalkableHeight int32

	// WalkableClimb is the maximum ledge height a span may still connect
	// across, in voxels.
	WalkableClimb int32

	// WalkableRadius is the agent radius used by erosion, in voxels.
	WalkableRadius int32

	// BorderSize is the voxel border reserved around a tile to keep
	// contours from running along the cut.
	BorderSize int32

	// MinRegionArea is the minimum span count of an isolated region;
	// smaller regions are removed.
	MinRegionArea int32

	// MergeRegionArea is the span-count threshold below which a region is
	// merged into its largest neighbor.
	MergeRegionArea int32

	// MaxEdgeLen is the longest a contour segment may be before it is
	// subdivided, in voxels.
	MaxEdgeLen int32

	// MaxSimplificationError bounds the Douglas-Peucker simplification of
	// contours, in world units.
	MaxSimplificationError float32

	// MaxVerticesPerPolygon bounds the vertex count of any output polygon.
	// Must be in [3, 6].
	MaxVerticesPerPolygon int32

	// DetailSampleDist is the spacing of the detail-mesh height sampling
	// grid, in world units. Zero disables detail sampling.
	DetailSampleDist float32

	// DetailSampleMaxError is the maximum allowed deviation of the detail
	// mesh from the compact heightfield, in world units.
	DetailSampleMaxError float32

	// ContourFlags selects contour-tracing tessellation options (see the
	// ContourTess* bits).
	ContourFlags int32

	// TileSize is the XZ voxel extent of one orchestrator tile. Zero
	// disables tiling.
	TileSize int32

	// AreaVolumes are applied, in order, after erosion.
	AreaVolumes []ConvexVolume
}

// Contour tracing flags, see Config.ContourFlags.
const (
	ContourTessWallEdges int32 = 0x01
	ContourTessAreaEdges int32 = 0x02
)

// Validate rejects a Config that would make the first stage it touches
// fail in a way that isn't a stage-specific algorithmic invariant. Degenerate
// but legal inputs (zero triangles, zero-span volumes) are not rejected
// here — they are handled downstream by producing empty output.
func (c *Config) Validate() error {
	if !c.AABB.Valid() {
		return &BuildError{Stage: StageHeightfieldBuild, Message: "aabb min must be <= max component-wise"}
	}
	if c.CellSize <= 0 {
		return &BuildError{Stage: StageHeightfieldBuild, Message: "cell_size must be > 0"}
	}
	if c.CellHeight <= 0 {
		return &BuildError{Stage: StageHeightfieldBuild, Message: "cell_height must be > 0"}
	}
	if c.MaxVerticesPerPolygon < 3 || c.MaxVerticesPerPolygon > 6 {
		return &BuildError{Stage: StagePolygonMesh, Message: "max_vertices_per_polygon must be in [3,6]"}
	}
	if c.WalkableHeight <= 0 {
		return &BuildError{Stage: StageCompactHeightfield, Message: "walkable_height must be > 0"}
	}
	return nil
}
