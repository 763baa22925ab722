package navmesh

import (
	"math"

	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/osm"
)

const earthRadiusMeters = 6378137.0

// Transform maps geographic coordinates and floor levels onto the flat,
// metric, Y-up local space the voxelizer and detour both work in. X/Z are
// an equirectangular projection centered on the building's bounding box,
// accurate enough at building scale; Y is the floor level times the
// configured inter-floor height.
type Transform struct {
	originLat float64
	originLon float64
	cosLat    float64
	heightPerLevel float32
}

// NewTransform centers the projection on bbox's midpoint.
func NewTransform(bbox osm.BBox, heightPerLevel float32) *Transform {
	originLat := (bbox.Min.Lat() + bbox.Max.Lat()) / 2
	originLon := (bbox.Min.Lon() + bbox.Max.Lon()) / 2
	return &Transform{
		originLat:      originLat,
		originLon:      originLon,
		cosLat:         math.Cos(originLat * math.Pi / 180),
		heightPerLevel: heightPerLevel,
	}
}

// Project converts a geographic coordinate into local (x, z) meters.
func (t *Transform) Project(c osm.Coord) (x, z float32) {
	dLat := (c.Lat() - t.originLat) * math.Pi / 180
	dLon := (c.Lon() - t.originLon) * math.Pi / 180
	x = float32(dLon * t.cosLat * earthRadiusMeters)
	z = float32(dLat * earthRadiusMeters)
	return x, z
}

// Height converts a map level into local Y meters.
func (t *Transform) Height(l level.MapLevel) float32 {
	return float32(l.Human()) * t.heightPerLevel
}

// Unproject converts a local (x, z) back into a geographic coordinate,
// the inverse of Project. Used by tests asserting the transform
// round-trips.
func (t *Transform) Unproject(x, z float32) osm.Coord {
	dLon := float64(x) / (t.cosLat * earthRadiusMeters)
	dLat := float64(z) / earthRadiusMeters
	lat := t.originLat + dLat*180/math.Pi
	lon := t.originLon + dLon*180/math.Pi
	return osm.Coord{
		LatE7: int32(lat * 1e7),
		LonE7: int32(lon * 1e7),
	}
}
