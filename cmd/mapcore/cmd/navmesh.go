package cmd

import "github.com/spf13/cobra"

// navmeshCmd groups the navmesh build/query/infos subcommands.
var navmeshCmd = &cobra.Command{
	Use:   "navmesh",
	Short: "build, inspect and query navigation meshes",
}

func init() {
	RootCmd.AddCommand(navmeshCmd)
}
