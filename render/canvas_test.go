package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indoorosm/mapcore/mapcss"
	"github.com/indoorosm/mapcore/osm"
	"github.com/indoorosm/mapcore/scene"
)

type fakeCanvas struct {
	calls []string
}

func (f *fakeCanvas) Size() (float32, float32) { return 100, 100 }

func (f *fakeCanvas) FillPolygon(ring []scene.Point, fill mapcss.Color) {
	f.calls = append(f.calls, "fill")
}

func (f *fakeCanvas) FillMultiPolygon(rings [][]scene.Point, fill mapcss.Color) {
	f.calls = append(f.calls, "fill")
}

func (f *fakeCanvas) StrokePath(pts []scene.Point, closed bool, pen scene.Pen) {
	f.calls = append(f.calls, "stroke")
}

func (f *fakeCanvas) DrawLabel(lbl *scene.Label) (float32, float32, float32, float32) {
	f.calls = append(f.calls, "label")
	return lbl.Pos.X, lbl.Pos.Y, lbl.Pos.X + 10, lbl.Pos.Y + 5
}

func testView() *scene.View {
	return scene.NewView(scene.ScreenSize{Width: 100, Height: 100}, osm.BBox{
		Min: osm.Coord{LatE7: -100000, LonE7: -100000},
		Max: osm.Coord{LatE7: 100000, LonE7: 100000},
	})
}

func TestDrawOrdersFillThenCasingThenStrokeThenLabel(t *testing.T) {
	g := scene.NewSceneGraph()
	g.Add(scene.SceneGraphItem{
		Layer: "a", Payload: &scene.Label{Pos: scene.Point{X: 0, Y: 0}, Text: "room"}, Space: scene.SpaceScene,
	})
	g.Add(scene.SceneGraphItem{
		Layer: "a", Payload: &scene.Polygon{Ring: []scene.Point{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}}, Pen: scene.Pen{Width: 1, Color: mapcss.Color{A: 255}}}, Space: scene.SpaceScene,
	})
	g.Add(scene.SceneGraphItem{
		Layer: "a", Payload: &scene.Polyline{Points: []scene.Point{{X: -1, Y: 0}, {X: 1, Y: 0}}, Stroke: scene.Pen{Width: 1, Color: mapcss.Color{A: 255}}}, Space: scene.SpaceScene,
	})
	g.Finalize()

	view := testView()
	canvas := &fakeCanvas{}
	Draw(canvas, g, view)

	require.Equal(t, []string{"fill", "stroke", "stroke", "label"}, canvas.calls)
}

func TestDrawMemoizesLabelBBox(t *testing.T) {
	g := scene.NewSceneGraph()
	lbl := &scene.Label{Pos: scene.Point{X: 0, Y: 0}, Text: "exit"}
	g.Add(scene.SceneGraphItem{Layer: "a", Payload: lbl, Space: scene.SpaceScene})
	g.Finalize()

	Draw(&fakeCanvas{}, g, testView())

	bbox, ok := lbl.BBox()
	require.True(t, ok)
	assert.Equal(t, [4]float32{50, 50, 60, 55}, bbox)
}

func TestDrawSkipsPhasesAPayloadDoesNotSupport(t *testing.T) {
	g := scene.NewSceneGraph()
	g.Add(scene.SceneGraphItem{
		Layer: "a",
		Payload: &scene.Polygon{
			Ring: []scene.Point{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}},
			// no casing pen: only the fill phase should fire
		},
		Space: scene.SpaceScene,
	})
	g.Finalize()

	canvas := &fakeCanvas{}
	Draw(canvas, g, testView())
	assert.Equal(t, []string{"fill"}, canvas.calls)
}
