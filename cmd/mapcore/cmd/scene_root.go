package cmd

import "github.com/spf13/cobra"

// sceneCmd groups the scene rendering subcommands.
var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "render map scene snapshots",
}

func init() {
	RootCmd.AddCommand(sceneCmd)
}
