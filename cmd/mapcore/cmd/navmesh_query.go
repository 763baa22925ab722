package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arl/gogeo/f32/d3"

	"github.com/indoorosm/mapcore/detour"
)

var (
	queryFrom    string
	queryTo      string
	queryExtents string
	queryMaxPath int
)

// navmeshQueryCmd represents the navmesh query command.
var navmeshQueryCmd = &cobra.Command{
	Use:   "query NAVMESH",
	Short: "find the shortest path between two points on a navmesh",
	Long: `Load a navmesh binary and find the shortest sequence of polygons
connecting the poly nearest --from to the poly nearest --to, crossing
elevator and stair off-mesh links as needed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		from, err := parseVec3(queryFrom)
		check(err)
		to, err := parseVec3(queryTo)
		check(err)
		extents, err := parseVec3(queryExtents)
		check(err)

		f, err := os.Open(args[0])
		check(err)
		defer f.Close()

		mesh, err := detour.Decode(f)
		check(err)

		status, query := detour.NewNavMeshQuery(mesh, 2048)
		if detour.StatusFailed(status) {
			check(fmt.Errorf("navmesh query init failed: %v", status))
		}
		filter := detour.NewStandardQueryFilter()

		st, startRef, startPt := query.FindNearestPoly(from, extents, filter)
		if detour.StatusFailed(st) || startRef == 0 {
			check(fmt.Errorf("no polygon found near --from %v", queryFrom))
		}
		st, endRef, endPt := query.FindNearestPoly(to, extents, filter)
		if detour.StatusFailed(st) || endRef == 0 {
			check(fmt.Errorf("no polygon found near --to %v", queryTo))
		}

		path := make([]detour.PolyRef, queryMaxPath)
		n, st := query.FindPath(startRef, endRef, startPt, endPt, filter, path)
		if detour.StatusFailed(st) {
			check(fmt.Errorf("path query failed: %v", st))
		}
		if n == 0 {
			fmt.Println("no path found")
			return
		}

		fmt.Printf("path: %d polygons\n", n)
		for i := 0; i < n; i++ {
			fmt.Printf("  %d: poly ref %d\n", i, path[i])
		}
	},
}

func parseVec3(s string) (d3.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected \"x,y,z\", got %q", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return d3.NewVec3XYZ(v[0], v[1], v[2]), nil
}

func init() {
	navmeshCmd.AddCommand(navmeshQueryCmd)

	navmeshQueryCmd.Flags().StringVar(&queryFrom, "from", "", "start position as \"x,y,z\" (required)")
	navmeshQueryCmd.Flags().StringVar(&queryTo, "to", "", "end position as \"x,y,z\" (required)")
	navmeshQueryCmd.Flags().StringVar(&queryExtents, "extents", "2,4,2", "search box half-extents as \"x,y,z\"")
	navmeshQueryCmd.Flags().IntVar(&queryMaxPath, "max-path", 256, "maximum number of polygons in the returned path")
	navmeshQueryCmd.MarkFlagRequired("from")
	navmeshQueryCmd.MarkFlagRequired("to")
}
