package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/mapcss"
	"github.com/indoorosm/mapcore/mapdata"
	"github.com/indoorosm/mapcore/osm"
)

// buildingStyle covers every emission path Builder.Build drives: plain area
// geometry, a wall extrusion with a door gap, an area link (elevator) and a
// way link (escalator/steps).
func buildingStyle() *mapcss.Style {
	return mapcss.NewStyle([]mapcss.Rule{
		{
			Selector: &mapcss.BasicSelector{
				ObjectType: mapcss.ObjArea,
				Zoom:       mapcss.AnyZoom,
				Conditions: []mapcss.Condition{{Key: "indoor", Op: mapcss.OpEquals, Value: "room"}},
			},
			Declarations: []mapcss.Declaration{{Property: mapcss.PropFillColor, Value: mapcss.Value{Raw: "#ffffff"}}},
		},
		{
			Selector: &mapcss.BasicSelector{
				ObjectType: mapcss.ObjAny,
				Zoom:       mapcss.AnyZoom,
				Conditions: []mapcss.Condition{{Key: "building:part", Op: mapcss.OpEquals, Value: "wall"}},
			},
			Declarations: []mapcss.Declaration{{Property: mapcss.PropExtrude, Value: mapcss.Value{Raw: "1"}}},
		},
		{
			Selector: &mapcss.BasicSelector{
				ObjectType: mapcss.ObjAny,
				Zoom:       mapcss.AnyZoom,
				Conditions: []mapcss.Condition{{Key: "elevator", Op: mapcss.OpEquals, Value: "yes"}},
			},
			LayerSelector: "link",
			Declarations:  []mapcss.Declaration{{Property: mapcss.PropLinkLevels, Value: mapcss.Value{Raw: "0;1"}}},
		},
		{
			Selector: &mapcss.BasicSelector{
				ObjectType: mapcss.ObjAny,
				Zoom:       mapcss.AnyZoom,
				Conditions: []mapcss.Condition{{Key: "highway", Op: mapcss.OpEquals, Value: "steps"}},
			},
			LayerSelector: "link",
			Declarations:  []mapcss.Declaration{{Property: mapcss.PropLinkDirection, Value: mapcss.Value{Raw: "backward"}}},
		},
	})
}

// buildingDataSet assembles one floor's room+wall and a cross-floor
// elevator and stairway, grounded entirely on tags Builder.Build actually
// reads (indoor/area, building:part, door, elevator, highway=steps, level).
func buildingDataSet(t *testing.T) *osm.DataSet {
	t.Helper()
	b := osm.NewDataSetBuilder()

	// room, floor 0, a closed 4-node ring (closing node repeated, same
	// convention as the rest of this package's fixtures).
	b.AddNode(osm.Node{ID: 1, Pos: osm.Coord{LatE7: 0, LonE7: 0}})
	b.AddNode(osm.Node{ID: 2, Pos: osm.Coord{LatE7: 0, LonE7: 100000}})
	b.AddNode(osm.Node{ID: 3, Pos: osm.Coord{LatE7: 100000, LonE7: 100000}})
	b.AddNode(osm.Node{ID: 4, Pos: osm.Coord{LatE7: 100000, LonE7: 0}})
	b.AddWay(osm.Way{
		ID:    100,
		Nodes: []osm.ID{1, 2, 3, 4, 1},
		Tags:  osm.TagSet{{Key: "indoor", Value: "room"}, {Key: "area", Value: "yes"}, {Key: "level", Value: "0"}},
	})

	// wall, floor 0, 4 nodes / 3 segments; node 5 carries a door tag so the
	// first segment (5-6) is left open.
	b.AddNode(osm.Node{ID: 5, Pos: osm.Coord{LatE7: 0, LonE7: 0}, Tags: osm.TagSet{{Key: "door", Value: "yes"}}})
	b.AddNode(osm.Node{ID: 6, Pos: osm.Coord{LatE7: 0, LonE7: 10000}})
	b.AddNode(osm.Node{ID: 7, Pos: osm.Coord{LatE7: 0, LonE7: 20000}})
	b.AddNode(osm.Node{ID: 8, Pos: osm.Coord{LatE7: 0, LonE7: 30000}})
	b.AddWay(osm.Way{
		ID:    101,
		Nodes: []osm.ID{5, 6, 7, 8},
		Tags:  osm.TagSet{{Key: "building:part", Value: "wall"}, {Key: "level", Value: "0"}},
	})

	// elevator, floor 0, connecting human floors 0 and 1.
	b.AddNode(osm.Node{
		ID:   9,
		Pos:  osm.Coord{LatE7: 50000, LonE7: 50000},
		Tags: osm.TagSet{{Key: "elevator", Value: "yes"}, {Key: "level", Value: "0"}},
	})

	// steps, floor 0, between a node pinned to floor 0 and one pinned to
	// floor 1 via single-level marker ways.
	b.AddNode(osm.Node{ID: 10, Pos: osm.Coord{LatE7: 20000, LonE7: 20000}})
	b.AddNode(osm.Node{ID: 11, Pos: osm.Coord{LatE7: 20000, LonE7: 80000}})
	b.AddNode(osm.Node{ID: 12, Pos: osm.Coord{LatE7: 0, LonE7: 0}})
	b.AddWay(osm.Way{ID: 103, Nodes: []osm.ID{10, 1}, Tags: osm.TagSet{{Key: "level", Value: "0"}}})
	b.AddWay(osm.Way{ID: 104, Nodes: []osm.ID{11, 12}, Tags: osm.TagSet{{Key: "level", Value: "1"}}})
	b.AddWay(osm.Way{
		ID:    102,
		Nodes: []osm.ID{10, 11},
		Tags:  osm.TagSet{{Key: "highway", Value: "steps"}, {Key: "level", Value: "0"}},
	})

	return b.Finish()
}

func TestBuilderBuildEmitsRoomAndWallGeometry(t *testing.T) {
	ds := buildingDataSet(t)
	data := mapdata.New(ds)
	settings := DefaultSettings()
	settings.HeightPerLevel = 3.2

	builder, err := NewBuilder(data, buildingStyle(), settings)
	require.NoError(t, err)

	result := builder.Build()

	require.NotNil(t, result.Soup)
	assert.Greater(t, result.Soup.NumTris(), int32(0), "room area should produce walkable floor triangles")

	var walkable, solid int32
	for _, a := range result.Soup.Areas {
		switch a {
		case AreaWalkable:
			walkable++
		case AreaSolid:
			solid++
		}
	}
	assert.Greater(t, walkable, int32(0))
	// 3 wall segments minus the 1 skipped at the door node, 2 triangles each.
	assert.Equal(t, int32(4), solid)
}

func TestBuilderBuildEmitsElevatorAndEscalatorConnections(t *testing.T) {
	ds := buildingDataSet(t)
	data := mapdata.New(ds)
	settings := DefaultSettings()
	settings.HeightPerLevel = 3.2

	builder, err := NewBuilder(data, buildingStyle(), settings)
	require.NoError(t, err)

	result := builder.Build()
	require.Len(t, result.Connections, 2)

	var elevator, escalator *OffMeshConnection
	for i := range result.Connections {
		c := &result.Connections[i]
		switch c.Area {
		case AreaElevator:
			elevator = c
		case AreaEscalator:
			escalator = c
		}
	}
	require.NotNil(t, elevator)
	require.NotNil(t, escalator)

	assert.Equal(t, uint32(9), elevator.UserID)
	assert.Equal(t, LinkBidirectional, elevator.Direction)
	assert.Equal(t, PolyFlagElevator, elevator.Flags)
	assert.InDelta(t, 0, elevator.AY, 1e-5)
	assert.InDelta(t, 3.2, elevator.BY, 1e-5)

	assert.Equal(t, uint32(102), escalator.UserID)
	assert.Equal(t, PolyFlagEscalator, escalator.Flags)
	// direction was declared "backward": Builder normalizes it to forward
	// with the endpoints swapped, so A ends up on floor 1 and B on floor 0.
	assert.Equal(t, LinkForward, escalator.Direction)
	assert.InDelta(t, 3.2, escalator.AY, 1e-5)
	assert.InDelta(t, 0, escalator.BY, 1e-5)
}

func TestBuilderEmitAreaLinkSkipsSingleLevel(t *testing.T) {
	ds := buildingDataSet(t)
	data := mapdata.New(ds)
	builder, err := NewBuilder(data, buildingStyle(), DefaultSettings())
	require.NoError(t, err)

	result := &BuildResult{Soup: &TriangleSoup{}}
	n, _ := ds.NodeByID(9)
	builder.emitAreaLink(osm.NodeElement(n), "0", result)
	assert.Empty(t, result.Connections, "a single-level list can't bridge anything")
}

func TestBuilderStairEndpointHeightsRequiresDifferentLevels(t *testing.T) {
	ds := buildingDataSet(t)
	data := mapdata.New(ds)
	builder, err := NewBuilder(data, buildingStyle(), DefaultSettings())
	require.NoError(t, err)

	way102, _ := ds.WayByID(102)
	_, _, ok := builder.stairEndpointHeights(way102)
	assert.True(t, ok, "the steps way's two endpoints sit on different floors")

	way101, _ := ds.WayByID(101)
	_, _, ok = builder.stairEndpointHeights(way101)
	assert.False(t, ok, "a wall way has more than two nodes")
}

func TestClassifyLayerDefaultSelectorIsGeometry(t *testing.T) {
	ds := buildingDataSet(t)
	style := buildingStyle()
	require.NoError(t, style.Compile(ds))

	w, _ := ds.WayByID(100)
	e := osm.WayElement(w)
	result := mapcss.NewMapCSSResult()
	_, err := style.Evaluate(mapcss.MapCSSState{Element: e, ObjectType: style.ResolveObjectType(e)}, result)
	require.NoError(t, err)

	layers := result.Layers()
	require.Len(t, layers, 1)
	assert.Equal(t, resultGeometry, classifyLayer(layers[0]))
}

func TestClassifyLayerNamedSelectorIsLink(t *testing.T) {
	ds := buildingDataSet(t)
	style := buildingStyle()
	require.NoError(t, style.Compile(ds))

	n, _ := ds.NodeByID(9)
	e := osm.NodeElement(n)
	result := mapcss.NewMapCSSResult()
	_, err := style.Evaluate(mapcss.MapCSSState{Element: e, ObjectType: style.ResolveObjectType(e)}, result)
	require.NoError(t, err)

	layers := result.Layers()
	require.Len(t, layers, 1)
	assert.Equal(t, resultLink, classifyLayer(layers[0]))
}

func TestNewBuilderFailsOnUncompilableStyle(t *testing.T) {
	ds := buildingDataSet(t)
	data := mapdata.New(ds)

	style := mapcss.NewStyle([]mapcss.Rule{{Selector: nil}})
	_, err := NewBuilder(data, style, DefaultSettings())
	assert.Error(t, err)
}

var _ = level.AllLevels // keep the level import honest if assertions above change
