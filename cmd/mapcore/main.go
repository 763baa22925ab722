// Command mapcore builds and inspects indoor navigation meshes and renders
// map scene snapshots from the mapcore libraries.
package main

import "github.com/indoorosm/mapcore/cmd/mapcore/cmd"

func main() {
	cmd.Execute()
}
