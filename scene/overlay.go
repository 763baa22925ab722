package scene

import (
	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/osm"
)

// OverlaySource supplies additional elements for a floor (equipment
// positions, live sensor markers, anything not baked into the loaded
// OSM data set) and may hide elements the base data set would otherwise
// show. Both scene.Controller and navmesh.Builder consume this interface
// identically, so overlays affect rendering and routing consistently.
type OverlaySource interface {
	// Elements returns the overlay's elements visible on floor l.
	Elements(l level.MapLevel) []osm.Element
	// Hidden reports whether e, which the base MapData would otherwise
	// show, should be suppressed.
	Hidden(e osm.Element) bool
}
