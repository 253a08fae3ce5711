package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/arl-navgen/navmesh/navmesh"
	"github.com/arl-navgen/navmesh/internal/buildlog"
	"github.com/arl-navgen/navmesh/navmesh/tiled"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildCfgPath  string
	buildInput    string
)

// buildCmd builds a navigation mesh from input geometry.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "build a navigation mesh from input geometry",
	Long: `Build a navigation mesh from input geometry in Wavefront OBJ format.
Build process is controlled by the provided build settings file. Tiling is
enabled automatically when the settings file sets a positive tile_size.`,
	RunE: doBuild,
}

func init() {
	RootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildCfgPath, "config", "navmesh.yml", "build settings file")
	buildCmd.Flags().StringVar(&buildInput, "input", "", "input geometry OBJ file (required)")
	buildCmd.MarkFlagRequired("input")
}

func doBuild(cmd *cobra.Command, args []string) error {
	settings, err := loadBuildSettings(buildCfgPath)
	if err != nil {
		return fmt.Errorf("loading build settings: %w", err)
	}

	mesh, err := loadOBJMesh(buildInput)
	if err != nil {
		return fmt.Errorf("loading input geometry: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := buildlog.New(logger)

	cfg := settings.ToConfig(mesh.Bounds())

	if settings.TileSize <= 0 {
		poly, detail, err := navmesh.BuildSingleNavmesh(&cfg, mesh, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "built navmesh: %d vertices, %d polygons, %d detail verts\n",
			len(poly.Verts), len(poly.Polys), len(detail.Verts))
		return nil
	}

	tcfg, err := tiled.New(cfg, settings.TileSize)
	if err != nil {
		return err
	}
	tilesX, tilesZ := tcfg.Grid()
	fmt.Fprintf(os.Stdout, "building %d x %d tiles\n", tilesX, tilesZ)

	var tiles []*tiled.Tile
	if settings.Parallel {
		tiles, err = tiled.GenerateTilesParallel(context.Background(), tcfg, mesh, log)
	} else {
		tiles, err = tiled.GenerateTilesSequential(tcfg, mesh, log)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "built %d tiles\n", len(tiles))
	return nil
}
