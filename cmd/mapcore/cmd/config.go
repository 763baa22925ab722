package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indoorosm/mapcore/navmesh"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:   "config [FILE]",
	Short: "create a navmesh build settings file",
	Long: `Create a navmesh build settings file in YAML format, prefilled with
default values.

If FILE is not provided, 'navmesh.yml' is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "navmesh.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		ok, err := confirmIfExists(path,
			fmt.Sprintf("file %s already exists, overwrite? [y/N]", path))
		check(err)
		if !ok {
			fmt.Println("aborted")
			return
		}
		check(marshalYAMLFile(path, navmesh.DefaultSettings()))
		fmt.Printf("build settings written to %q\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
