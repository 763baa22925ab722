package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indoorosm/mapcore/navmesh"
)

var (
	navBuildDataFile   string
	navBuildStyleFile  string
	navBuildConfigFile string
)

// navmeshBuildCmd represents the navmesh build command.
var navmeshBuildCmd = &cobra.Command{
	Use:   "build OUTFILE",
	Short: "build a navigation mesh from map data and a filter style",
	Long: `Build a navigation mesh from a map data fixture filtered through a
routing style, using the settings from a build settings file (see 'mapcore
config'). The result is saved to OUTFILE in the binary format read by the
detour package.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		outfile := args[0]

		data, err := loadMapData(navBuildDataFile)
		check(err)
		style, err := loadStyle(navBuildStyleFile)
		check(err)

		settings := navmesh.DefaultSettings()
		if navBuildConfigFile != "" {
			check(unmarshalYAMLFile(navBuildConfigFile, &settings))
		}

		builder, err := navmesh.NewBuilder(data, style, settings)
		check(err)

		result := builder.Build()
		fmt.Printf("assembled %d triangles, %d off-mesh connections\n",
			result.Soup.NumTris(), len(result.Connections))

		finished := make(chan struct{})
		var vm *navmesh.VoxelizedMesh
		var voxErr error
		navmesh.VoxelizeAsync(result, func(mesh *navmesh.VoxelizedMesh, err error) {
			vm, voxErr = mesh, err
			close(finished)
		})
		<-finished
		check(voxErr)

		check(vm.NavMesh.SaveToFile(outfile))
		fmt.Printf("navmesh written to %q\n", outfile)
	},
}

func init() {
	navmeshCmd.AddCommand(navmeshBuildCmd)

	navmeshBuildCmd.Flags().StringVar(&navBuildDataFile, "data", "", "map data fixture in YAML (required)")
	navmeshBuildCmd.Flags().StringVar(&navBuildStyleFile, "style", "", "routing filter style in YAML (required)")
	navmeshBuildCmd.Flags().StringVar(&navBuildConfigFile, "config", "", "build settings file, defaults applied if absent")
	navmeshBuildCmd.MarkFlagRequired("data")
	navmeshBuildCmd.MarkFlagRequired("style")
}
