package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the base command invoked when navmeshgen is called without a
// subcommand.
var RootCmd = &cobra.Command{
	Use:   "navmeshgen",
	Short: "build navigation meshes from level geometry",
	Long: `navmeshgen builds navigation meshes from OBJ level geometry:
	- build solo or tiled navmeshes from an OBJ file and a YAML build config,
	- write a default build config to start from,
	- report the voxel grid and tile layout a build would produce, without building.`,
}

// Execute runs RootCmd, exiting the process with a non-zero status if it
// returns an error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
