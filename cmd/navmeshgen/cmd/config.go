package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd writes a default build settings file.
var configCmd = &cobra.Command{
	Use:   "config [FILE]",
	Short: "create a build settings file",
	Long: `Create a build settings file in YAML format, prefilled with default values.

If FILE is not provided, 'navmesh.yml' is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "navmesh.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		ok, err := confirmIfExists(path, fmt.Sprintf("file '%s' already exists, overwrite? [y/N]", path))
		if err != nil {
			fmt.Println("aborted,", err)
			os.Exit(1)
		}
		if !ok {
			fmt.Println("aborted by user")
			return
		}
		buf, err := yaml.Marshal(DefaultBuildSettings())
		if err != nil {
			fmt.Println("error,", err)
			os.Exit(1)
		}
		if err := os.WriteFile(path, buf, 0644); err != nil {
			fmt.Println("error,", err)
			os.Exit(1)
		}
		fmt.Printf("build settings written to '%s'\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
