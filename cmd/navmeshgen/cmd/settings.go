package cmd

import (
	"math"
	"os"

	"github.com/arl-navgen/navmesh/navmesh"
	"gopkg.in/yaml.v3"
)

// BuildSettings is the YAML-serializable build configuration read by the
// build and info subcommands. Its agent-centric fields are in meters;
// ToConfig converts them to voxel units.
type BuildSettings struct {
	CellSize   float32 `yaml:"cell_size"`
	CellHeight float32 `yaml:"cell_height"`

	AgentHeight    float32 `yaml:"agent_height"`
	AgentMaxClimb  float32 `yaml:"agent_max_climb"`
	AgentRadius    float32 `yaml:"agent_radius"`
	AgentMaxSlope  float32 `yaml:"agent_max_slope_deg"`

	RegionMinSize   int32 `yaml:"region_min_size"`
	RegionMergeSize int32 `yaml:"region_merge_size"`

	EdgeMaxLen   int32   `yaml:"edge_max_len"`
	EdgeMaxError float32 `yaml:"edge_max_error"`
	VertsPerPoly int32   `yaml:"verts_per_poly"`

	DetailSampleDist     float32 `yaml:"detail_sample_dist"`
	DetailSampleMaxError float32 `yaml:"detail_sample_max_error"`

	BorderSize int32 `yaml:"border_size"`

	// TileSize is the tile size in voxels. Zero or negative builds a single
	// navmesh; a positive value runs the tiled orchestrator.
	TileSize int32 `yaml:"tile_size"`
	Parallel bool  `yaml:"parallel"`
}

// DefaultBuildSettings returns reasonable defaults for a human-scale agent
// on a moderately detailed mesh.
func DefaultBuildSettings() BuildSettings {
	return BuildSettings{
		CellSize:             0.3,
		CellHeight:           0.2,
		AgentHeight:          2.0,
		AgentMaxClimb:        0.9,
		AgentRadius:          0.6,
		AgentMaxSlope:        45,
		RegionMinSize:        8,
		RegionMergeSize:      20,
		EdgeMaxLen:           12,
		EdgeMaxError:         1.3,
		VertsPerPoly:         6,
		DetailSampleDist:     6,
		DetailSampleMaxError: 1,
		BorderSize:           0,
	}
}

func loadBuildSettings(path string) (*BuildSettings, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultBuildSettings()
	if err := yaml.Unmarshal(buf, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ToConfig converts settings plus the mesh's own bounds into a
// navmesh.Config: agent measurements in meters become voxel counts, and
// region sizes become areas by squaring.
func (s *BuildSettings) ToConfig(bounds navmesh.AABB3D) navmesh.Config {
	cfg := navmesh.Config{
		AABB:                   bounds,
		CellSize:               s.CellSize,
		CellHeight:             s.CellHeight,
		WalkableSlopeAngle:     float32(s.AgentMaxSlope) * math.Pi / 180,
		WalkableHeight:         int32(math.Ceil(float64(s.AgentHeight / s.CellHeight))),
		WalkableClimb:          int32(math.Floor(float64(s.AgentMaxClimb / s.CellHeight))),
		WalkableRadius:         int32(math.Ceil(float64(s.AgentRadius / s.CellSize))),
		BorderSize:             s.BorderSize,
		MinRegionArea:          s.RegionMinSize * s.RegionMinSize,
		MergeRegionArea:        s.RegionMergeSize * s.RegionMergeSize,
		MaxEdgeLen:             int32(float32(s.EdgeMaxLen) / s.CellSize),
		MaxSimplificationError: s.EdgeMaxError,
		MaxVerticesPerPolygon:  s.VertsPerPoly,
		ContourFlags:           navmesh.ContourTessWallEdges,
		TileSize:               s.TileSize,
	}
	if s.DetailSampleDist >= 0.9 {
		cfg.DetailSampleDist = s.CellSize * s.DetailSampleDist
	}
	cfg.DetailSampleMaxError = s.CellHeight * s.DetailSampleMaxError
	return cfg
}
