package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/osm"
)

func sampleBBox() osm.BBox {
	return osm.BBox{
		Min: osm.Coord{LatE7: 500000000, LonE7: 40000000},
		Max: osm.Coord{LatE7: 500010000, LonE7: 40010000},
	}
}

func TestTransformProjectCentersOnBBox(t *testing.T) {
	bbox := sampleBBox()
	tr := NewTransform(bbox, 3.2)

	centerLat := (bbox.Min.Lat() + bbox.Max.Lat()) / 2
	centerLon := (bbox.Min.Lon() + bbox.Max.Lon()) / 2
	x, z := tr.Project(osm.Coord{LatE7: int32(centerLat * 1e7), LonE7: int32(centerLon * 1e7)})
	assert.InDelta(t, 0, x, 1e-3)
	assert.InDelta(t, 0, z, 1e-3)
}

func TestTransformHeightScalesByLevel(t *testing.T) {
	tr := NewTransform(sampleBBox(), 3.2)
	assert.Equal(t, float32(0), tr.Height(level.MapLevel(0)))
	assert.InDelta(t, float32(3.2), tr.Height(level.MapLevel(10)), 1e-5)
	assert.InDelta(t, float32(-3.2), tr.Height(level.MapLevel(-10)), 1e-5)
	assert.InDelta(t, float32(1.6), tr.Height(level.MapLevel(5)), 1e-5)
}

func TestTransformProjectUnprojectRoundTrips(t *testing.T) {
	tr := NewTransform(sampleBBox(), 3.2)
	c := osm.Coord{LatE7: 500005000, LonE7: 40005000}

	x, z := tr.Project(c)
	got := tr.Unproject(x, z)

	assert.InDelta(t, c.Lat(), got.Lat(), 1e-6)
	assert.InDelta(t, c.Lon(), got.Lon(), 1e-6)
}
