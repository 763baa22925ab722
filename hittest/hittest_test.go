package hittest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indoorosm/mapcore/osm"
	"github.com/indoorosm/mapcore/scene"
)

func square(minX, minY, maxX, maxY float32) []scene.Point {
	return []scene.Point{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}
}

func newTestView() *scene.View {
	return scene.NewView(scene.ScreenSize{Width: 100, Height: 100}, osm.BBox{
		Min: osm.Coord{LatE7: -100000, LonE7: -100000},
		Max: osm.Coord{LatE7: 100000, LonE7: 100000},
	})
}

func TestQuerySingleCandidate(t *testing.T) {
	g := scene.NewSceneGraph()
	poly := &scene.Polygon{Ring: square(-10, -10, 10, 10)}
	g.Add(scene.SceneGraphItem{Layer: "a", Payload: poly, Space: scene.SpaceScene})
	g.Finalize()

	view := newTestView()
	sx, sy := view.MapSceneToScreen(scene.Point{X: 0, Y: 0})

	item, ok := Query(g, view, sx, sy)
	require.True(t, ok)
	assert.Same(t, poly, item.Payload)
}

func TestQueryPrefersSmallestAreaWhenNoOpaqueFill(t *testing.T) {
	g := scene.NewSceneGraph()
	big := &scene.Polygon{Ring: square(-50, -50, 50, 50)}
	small := &scene.Polygon{Ring: square(-5, -5, 5, 5)}
	g.Add(scene.SceneGraphItem{Layer: "a", ZIndex: 0, Payload: big, Space: scene.SpaceScene})
	g.Add(scene.SceneGraphItem{Layer: "b", ZIndex: 0, Payload: small, Space: scene.SpaceScene})
	g.Finalize()

	view := newTestView()
	sx, sy := view.MapSceneToScreen(scene.Point{X: 0, Y: 0})

	item, ok := Query(g, view, sx, sy)
	require.True(t, ok)
	assert.Same(t, small, item.Payload)
}

func TestQueryNoCandidate(t *testing.T) {
	g := scene.NewSceneGraph()
	poly := &scene.Polygon{Ring: square(-10, -10, 10, 10)}
	g.Add(scene.SceneGraphItem{Layer: "a", Payload: poly, Space: scene.SpaceScene})
	g.Finalize()

	view := newTestView()
	sx, sy := view.MapSceneToScreen(scene.Point{X: 90, Y: 90})

	_, ok := Query(g, view, sx, sy)
	assert.False(t, ok)
}

func TestQueryMatchesLabelAcrossItsMemoizedBBoxNotJustTheAnchorPixel(t *testing.T) {
	g := scene.NewSceneGraph()
	lbl := &scene.Label{Pos: scene.Point{X: 0, Y: 0}, Text: "Room 101"}
	lbl.SetBBox(40, 40, 60, 48)
	g.Add(scene.SceneGraphItem{Layer: "labels", Payload: lbl, Space: scene.SpaceScene})
	g.Finalize()

	view := newTestView()

	item, ok := Query(g, view, 55, 45)
	require.True(t, ok)
	assert.Same(t, lbl, item.Payload)

	_, ok = Query(g, view, 90, 90)
	assert.False(t, ok)
}

func TestPointInPolygonOddEven(t *testing.T) {
	ring := square(0, 0, 10, 10)
	assert.True(t, pointInPolygon(ring, scene.Point{X: 5, Y: 5}))
	assert.False(t, pointInPolygon(ring, scene.Point{X: 20, Y: 20}))
}

func TestDistanceToSegment(t *testing.T) {
	d := distanceToSegment(scene.Point{X: 0, Y: 0}, scene.Point{X: 10, Y: 0}, scene.Point{X: 5, Y: 3})
	assert.InDelta(t, 3, d, 0.001)
}
