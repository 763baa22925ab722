package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "mapcore",
	Short: "build and inspect indoor navmeshes, render map scenes",
	Long: `mapcore is the command-line tool accompanying the indoorosm/mapcore
libraries:
	- build routable navigation meshes from a map's OSM data and a filter style,
	- save them to binary files readable by the detour package,
	- query shortest paths across floors and elevator/stair links,
	- render a floor's scene graph to a static SVG or PNG snapshot.`,
}

// Execute adds all child commands to the root command and executes it. It
// is called once by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
