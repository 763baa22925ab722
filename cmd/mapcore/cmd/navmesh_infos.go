package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indoorosm/mapcore/detour"
)

// navmeshInfosCmd represents the navmesh infos command.
var navmeshInfosCmd = &cobra.Command{
	Use:   "infos NAVMESH",
	Short: "show information about a navmesh binary",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		check(err)
		defer f.Close()

		mesh, err := detour.Decode(f)
		check(err)

		polys, verts := 0, 0
		used := 0
		for i := range mesh.Tiles {
			t := &mesh.Tiles[i]
			if t.Header == nil {
				continue
			}
			used++
			polys += len(t.Polys)
			verts += len(t.Verts) / 3
		}

		fmt.Printf("max tiles:     %d\n", mesh.MaxTiles)
		fmt.Printf("tiles in use:  %d\n", used)
		fmt.Printf("tile size:     %g x %g\n", mesh.TileWidth, mesh.TileHeight)
		fmt.Printf("origin:        %v\n", mesh.Orig)
		fmt.Printf("polygons:      %d\n", polys)
		fmt.Printf("vertices:      %d\n", verts)
	},
}

func init() {
	navmeshCmd.AddCommand(navmeshInfosCmd)
}
