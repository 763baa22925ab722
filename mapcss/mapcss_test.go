package mapcss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indoorosm/mapcore/osm"
)

func newRoomDataSet() *osm.DataSet {
	b := osm.NewDataSetBuilder()
	b.AddNode(osm.Node{ID: 1, Pos: osm.Coord{LatE7: 0, LonE7: 0}})
	b.AddNode(osm.Node{ID: 2, Pos: osm.Coord{LatE7: 0, LonE7: 10}})
	b.AddNode(osm.Node{ID: 3, Pos: osm.Coord{LatE7: 10, LonE7: 10}})
	b.AddWay(osm.Way{
		ID:    100,
		Nodes: []osm.ID{1, 2, 3, 1},
		Tags:  osm.TagSet{{Key: "indoor", Value: "room"}},
	})
	return b.Finish()
}

func fillColorStyle() *Style {
	return NewStyle([]Rule{
		{
			Selector: &BasicSelector{
				ObjectType: ObjAny,
				Zoom:       AnyZoom,
				Conditions: []Condition{{Key: "indoor", Op: OpEquals, Value: "room"}},
			},
			Declarations: []Declaration{{Property: PropFillColor, Value: Value{Raw: "#ff0000"}}},
		},
	})
}

func TestEvaluateSingleRuleProducesOneLayer(t *testing.T) {
	ds := newRoomDataSet()
	style := fillColorStyle()
	require.NoError(t, style.Compile(ds))

	w, _ := ds.WayByID(100)
	e := osm.WayElement(w)
	result := NewMapCSSResult()
	status, err := style.Evaluate(MapCSSState{
		Element:    e,
		Zoom:       18,
		FloorLevel: 0,
		ObjectType: style.ResolveObjectType(e),
	}, result)
	require.NoError(t, err)
	assert.True(t, status.Succeeded())

	layers := result.Layers()
	require.Len(t, layers, 1)
	v, ok := layers[0].Get(PropFillColor)
	require.True(t, ok)
	c, ok := v.Color()
	require.True(t, ok)
	assert.Equal(t, Color{R: 0xff, G: 0x00, B: 0x00, A: 0xff}, c)
}

func TestEvaluateBeforeCompileFails(t *testing.T) {
	style := fillColorStyle()
	result := NewMapCSSResult()
	_, err := style.Evaluate(MapCSSState{}, result)
	require.Error(t, err)
}

func TestEvaluateLastWriteWinsWithinLayer(t *testing.T) {
	ds := newRoomDataSet()
	style := NewStyle([]Rule{
		{
			Selector:     &BasicSelector{ObjectType: ObjAny, Zoom: AnyZoom},
			Declarations: []Declaration{{Property: PropFillColor, Value: Value{Raw: "#ff0000"}}},
		},
		{
			Selector:     &BasicSelector{ObjectType: ObjAny, Zoom: AnyZoom},
			Declarations: []Declaration{{Property: PropFillColor, Value: Value{Raw: "#00ff00"}}},
		},
	})
	require.NoError(t, style.Compile(ds))

	w, _ := ds.WayByID(100)
	e := osm.WayElement(w)
	result := NewMapCSSResult()
	_, err := style.Evaluate(MapCSSState{Element: e, ObjectType: style.ResolveObjectType(e)}, result)
	require.NoError(t, err)

	layers := result.Layers()
	require.Len(t, layers, 1)
	v, _ := layers[0].Get(PropFillColor)
	c, _ := v.Color()
	assert.Equal(t, Color{0, 0xff, 0, 0xff}, c)
}

func TestEvaluateClassWriteThenTest(t *testing.T) {
	ds := newRoomDataSet()
	style := NewStyle([]Rule{
		{
			Selector:   &BasicSelector{ObjectType: ObjAny, Zoom: AnyZoom},
			SetClasses: []string{"highlighted"},
		},
		{
			Selector:     &BasicSelector{ObjectType: ObjAny, Zoom: AnyZoom, RequireClasses: []string{"highlighted"}},
			Declarations: []Declaration{{Property: PropColor, Value: Value{Raw: "#0000ff"}}},
		},
	})
	require.NoError(t, style.Compile(ds))

	w, _ := ds.WayByID(100)
	e := osm.WayElement(w)
	result := NewMapCSSResult()
	_, err := style.Evaluate(MapCSSState{Element: e, ObjectType: style.ResolveObjectType(e)}, result)
	require.NoError(t, err)

	layers := result.Layers()
	require.Len(t, layers, 1)
	_, ok := layers[0].Get(PropColor)
	assert.True(t, ok)
}

func TestEvaluateCanvasIgnoresElementSelectors(t *testing.T) {
	ds := newRoomDataSet()
	style := NewStyle([]Rule{
		{
			Selector:     &BasicSelector{ObjectType: ObjCanvas, Zoom: AnyZoom},
			Declarations: []Declaration{{Property: PropBackgroundColor, Value: Value{Raw: "#ffffff"}}},
		},
		{
			Selector:     &BasicSelector{ObjectType: ObjAny, Zoom: AnyZoom},
			Declarations: []Declaration{{Property: PropFillColor, Value: Value{Raw: "#ff0000"}}},
		},
	})
	require.NoError(t, style.Compile(ds))

	result := NewMapCSSResult()
	_, err := style.EvaluateCanvas(18, result)
	require.NoError(t, err)

	layers := result.Layers()
	require.Len(t, layers, 1)
	_, ok := layers[0].Get(PropFillColor)
	assert.False(t, ok)
	_, ok = layers[0].Get(PropBackgroundColor)
	assert.True(t, ok)
}

func TestResolveObjectTypeAreaVsLine(t *testing.T) {
	b := osm.NewDataSetBuilder()
	b.AddNode(osm.Node{ID: 1})
	b.AddNode(osm.Node{ID: 2})
	b.AddWay(osm.Way{ID: 1, Nodes: []osm.ID{1, 2}}) // open way: line
	b.AddWay(osm.Way{ID: 2, Nodes: []osm.ID{1, 2, 1}, Tags: osm.TagSet{{Key: "area", Value: "yes"}}})
	ds := b.Finish()

	w1, _ := ds.WayByID(1)
	w2, _ := ds.WayByID(2)
	assert.Equal(t, ObjLine, ResolveObjectType(osm.WayElement(w1)))
	assert.Equal(t, ObjArea, ResolveObjectType(osm.WayElement(w2)))
}

func TestLoadStyleYAML(t *testing.T) {
	doc := []byte(`
rules:
  - selector:
      object_type: area
      conditions:
        - key: indoor
          op: eq
          value: room
    declarations:
      fill-color: "#ff0000"
`)
	style, err := LoadStyleYAML(doc)
	require.NoError(t, err)
	require.Len(t, style.Rules, 1)

	ds := newRoomDataSet()
	require.NoError(t, style.Compile(ds))

	w, _ := ds.WayByID(100)
	e := osm.WayElement(w)
	result := NewMapCSSResult()
	_, err = style.Evaluate(MapCSSState{Element: e, ObjectType: style.ResolveObjectType(e)}, result)
	require.NoError(t, err)
	require.Len(t, result.Layers(), 1)
}

func TestParseColorNamedAndHex(t *testing.T) {
	c, ok := ParseColor("red")
	require.True(t, ok)
	assert.Equal(t, Color{255, 0, 0, 255}, c)

	c, ok = ParseColor("#112233")
	require.True(t, ok)
	assert.Equal(t, Color{0x11, 0x22, 0x33, 255}, c)

	c, ok = ParseColor("#11223344")
	require.True(t, ok)
	assert.Equal(t, uint8(0x44), c.A)

	_, ok = ParseColor("not-a-color")
	assert.False(t, ok)
}

func TestParseColorExpandsShorthandHex(t *testing.T) {
	c, ok := ParseColor("#f00")
	require.True(t, ok)
	assert.Equal(t, Color{0xff, 0, 0, 255}, c)

	c, ok = ParseColor("#0f08")
	require.True(t, ok)
	assert.Equal(t, Color{0x00, 0xff, 0x00, 0x88}, c)
}
