package cmd

import (
	"fmt"

	"github.com/arl-navgen/navmesh/navmesh"
	"github.com/arl-navgen/navmesh/navmesh/tiled"
	"github.com/spf13/cobra"
)

var infoInput string

// infosCmd reports the voxel grid and tile layout a build settings file
// plus an input mesh would produce, without running the pipeline. Since
// this module never serializes a navmesh to disk, there is no built
// artifact to inspect after the fact — this is the closest equivalent, a
// dry-run sizing report.
var infosCmd = &cobra.Command{
	Use:   "info",
	Short: "report the voxel grid and tile layout a build would produce",
	Long: `Read a build settings file and an input OBJ mesh, then print the
voxel grid dimensions and, if tiling is enabled, the tile grid layout that a
build would produce, without actually running the pipeline.`,
	RunE: doInfos,
}

func init() {
	RootCmd.AddCommand(infosCmd)
	infosCmd.Flags().StringVar(&buildCfgPath, "config", "navmesh.yml", "build settings file")
	infosCmd.Flags().StringVar(&infoInput, "input", "", "input geometry OBJ file (required)")
	infosCmd.MarkFlagRequired("input")
}

func doInfos(cmd *cobra.Command, args []string) error {
	settings, err := loadBuildSettings(buildCfgPath)
	if err != nil {
		return fmt.Errorf("loading build settings: %w", err)
	}
	mesh, err := loadOBJMesh(infoInput)
	if err != nil {
		return fmt.Errorf("loading input geometry: %w", err)
	}

	bounds := mesh.Bounds()
	cfg := settings.ToConfig(bounds)
	width, height := navmesh.GridSize(bounds, cfg.CellSize)

	fmt.Printf("vertices: %d, triangles: %d\n", len(mesh.Verts), len(mesh.Tris))
	fmt.Printf("bounds: min=%v max=%v\n", bounds.Min, bounds.Max)
	fmt.Printf("voxel grid: %d x %d (cell_size=%.3f, cell_height=%.3f)\n", width, height, cfg.CellSize, cfg.CellHeight)

	if settings.TileSize > 0 {
		tcfg, err := tiled.New(cfg, settings.TileSize)
		if err != nil {
			return err
		}
		tilesX, tilesZ := tcfg.Grid()
		fmt.Printf("tile grid: %d x %d (%d tiles, tile_size=%d)\n", tilesX, tilesZ, tilesX*tilesZ, settings.TileSize)
	} else {
		fmt.Println("tiling: disabled")
	}
	return nil
}
