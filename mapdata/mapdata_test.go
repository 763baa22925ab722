package mapdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/osm"
)

func TestBuilderFinishPopulatesLevelsAndBBox(t *testing.T) {
	b := NewBuilder()
	b.TimeZone = "Europe/Brussels"
	b.RegionCode = "BE"
	b.AddNode(osm.Node{ID: 1, Pos: osm.Coord{LatE7: 10, LonE7: 20}, Tags: osm.TagSet{{Key: "level", Value: "0"}}})
	b.AddNode(osm.Node{ID: 2, Pos: osm.Coord{LatE7: 30, LonE7: 40}})

	md := b.Finish()

	assert.Equal(t, "Europe/Brussels", md.TimeZone)
	assert.Equal(t, "BE", md.RegionCode)
	assert.Equal(t, osm.Coord{LatE7: 10, LonE7: 20}, md.BBox.Min)
	assert.Equal(t, osm.Coord{LatE7: 30, LonE7: 40}, md.BBox.Max)

	on0 := md.ElementsOnFloor(level.MapLevel(0))
	require.Len(t, on0, 2)
}
