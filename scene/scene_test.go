package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"

	"github.com/indoorosm/mapcore/mapcss"
	"github.com/indoorosm/mapcore/mapdata"
	"github.com/indoorosm/mapcore/osm"
)

func roomMapData() *mapdata.MapData {
	b := mapdata.NewBuilder()
	b.AddNode(osm.Node{ID: 1, Pos: osm.Coord{LatE7: 0, LonE7: 0}})
	b.AddNode(osm.Node{ID: 2, Pos: osm.Coord{LatE7: 0, LonE7: 100000}})
	b.AddNode(osm.Node{ID: 3, Pos: osm.Coord{LatE7: 100000, LonE7: 100000}})
	b.AddWay(osm.Way{
		ID:    100,
		Nodes: []osm.ID{1, 2, 3, 1},
		Tags:  osm.TagSet{{Key: "indoor", Value: "room"}, {Key: "level", Value: "0"}},
	})
	return b.Finish()
}

func roomFillStyle() *mapcss.Style {
	return mapcss.NewStyle([]mapcss.Rule{
		{
			Selector: &mapcss.BasicSelector{
				ObjectType: mapcss.ObjAny,
				Zoom:       mapcss.AnyZoom,
				Conditions: []mapcss.Condition{{Key: "indoor", Op: mapcss.OpEquals, Value: "room"}},
			},
			Declarations: []mapcss.Declaration{{Property: mapcss.PropFillColor, Value: mapcss.Value{Raw: "#ff0000"}}},
		},
	})
}

func TestUpdateSceneProducesOnePolygon(t *testing.T) {
	md := roomMapData()
	style := roomFillStyle()
	view := NewView(ScreenSize{Width: 800, Height: 600}, md.BBox)

	ctrl, err := NewController(md, style, view)
	require.NoError(t, err)

	ctrl.UpdateScene()

	items := ctrl.Graph.Items()
	require.Len(t, items, 1)
	poly, ok := items[0].Payload.(*Polygon)
	require.True(t, ok)
	assert.Len(t, poly.Ring, 4)
	assert.Equal(t, mapcss.Color{R: 0xff, A: 0xff}, poly.Fill)
}

func TestSceneGraphFinalizeOrdersByLayerThenZIndexThenInsertion(t *testing.T) {
	g := NewSceneGraph()
	g.Add(SceneGraphItem{Layer: "b", ZIndex: 0, Element: osm.Null})
	g.Add(SceneGraphItem{Layer: "a", ZIndex: 5, Element: osm.Null})
	g.Add(SceneGraphItem{Layer: "a", ZIndex: 1, Element: osm.Null})
	g.Add(SceneGraphItem{Layer: "a", ZIndex: 1, Element: osm.Null}) // tie: must follow previous a/1

	g.Finalize()
	items := g.Items()
	require.Len(t, items, 4)
	assert.Equal(t, "a", items[0].Layer)
	assert.Equal(t, float32(1), items[0].ZIndex)
	assert.Equal(t, "a", items[1].Layer)
	assert.Equal(t, float32(1), items[1].ZIndex)
	assert.Equal(t, 2, items[0].seq)
	assert.Equal(t, 3, items[1].seq)
	assert.Equal(t, "a", items[2].Layer)
	assert.Equal(t, float32(5), items[2].ZIndex)
	assert.Equal(t, "b", items[3].Layer)
}

func TestViewScreenSceneRoundTrip(t *testing.T) {
	view := NewView(ScreenSize{Width: 800, Height: 600}, osm.BBox{
		Min: osm.Coord{LatE7: 0, LonE7: 0},
		Max: osm.Coord{LatE7: 100000, LonE7: 100000},
	})
	view.Zoom = 4

	p := view.MapScreenToScene(100, 50)
	sx, sy := view.MapSceneToScreen(p)
	assert.InDelta(t, 100, sx, 0.01)
	assert.InDelta(t, 50, sy, 0.01)
}

func TestBoundingBoxOfLabelUsesMemoizedDrawRectOnceSet(t *testing.T) {
	lbl := &Label{Pos: Point{X: 5, Y: 5}}

	minX, minY, maxX, maxY, ok := BoundingBox(lbl)
	require.True(t, ok)
	assert.Equal(t, [4]float32{5, 5, 5, 5}, [4]float32{minX, minY, maxX, maxY}, "falls back to the anchor point before the first draw")

	lbl.SetBBox(1, 2, 30, 14)
	minX, minY, maxX, maxY, ok = BoundingBox(lbl)
	require.True(t, ok)
	assert.Equal(t, [4]float32{1, 2, 30, 14}, [4]float32{minX, minY, maxX, maxY})
}

func TestViewPanAnimationReachesTarget(t *testing.T) {
	view := NewView(ScreenSize{Width: 800, Height: 600}, osm.BBox{
		Min: osm.Coord{LatE7: 0, LonE7: 0},
		Max: osm.Coord{LatE7: 100000, LonE7: 100000},
	})
	target := Point{X: 5, Y: 5}
	view.PanTo(target.X, target.Y, 1.0, ease.Linear)
	for i := 0; i < 120; i++ {
		view.Update(1.0 / 60)
	}
	assert.InDelta(t, target.X, view.centerX, 0.01)
	assert.InDelta(t, target.Y, view.centerY, 0.01)
}
