package scene

import (
	"github.com/indoorosm/mapcore/diag"
	"github.com/indoorosm/mapcore/mapcss"
	"github.com/indoorosm/mapcore/mapdata"
	"github.com/indoorosm/mapcore/osm"
)

// Controller builds a SceneGraph from a MapData, a compiled style, a View
// and zero or more overlay sources. It owns the MapData from the moment
// it's constructed, per the "loader creates MapData, hands to Controller"
// lifecycle.
type Controller struct {
	MapData  *mapdata.MapData
	Style    *mapcss.Style
	View     *View
	Overlays []OverlaySource

	Graph      *SceneGraph
	Background mapcss.Color

	diag *diag.Context

	result *mapcss.MapCSSResult
}

// NewController compiles style against data's DataSet and returns a
// Controller ready for UpdateScene.
func NewController(data *mapdata.MapData, style *mapcss.Style, view *View) (*Controller, error) {
	if err := style.Compile(data.DataSet); err != nil {
		return nil, err
	}
	return &Controller{
		MapData: data,
		Style:   style,
		View:    view,
		Graph:   NewSceneGraph(),
		diag:    diag.New(),
		result:  mapcss.NewMapCSSResult(),
	}, nil
}

// SetStyle replaces the active style, recompiling it against the current
// MapData; the scene graph is cleared since the "replaced, not
// incrementally patched" contract applies on style change.
func (c *Controller) SetStyle(style *mapcss.Style) error {
	if err := style.Compile(c.MapData.DataSet); err != nil {
		return err
	}
	c.Style = style
	c.Graph.Clear()
	return nil
}

// UpdateScene rebuilds the scene graph for the view's current floor. The
// graph is cleared first: items are replaced, not incrementally patched.
func (c *Controller) UpdateScene() {
	c.diag.StartTimer("updateScene")
	defer c.diag.StopTimer("updateScene")

	c.Graph.Clear()

	elements := c.resolveElements()
	for _, e := range elements {
		c.emitElement(e)
	}
	c.Graph.Finalize()

	c.evaluateCanvas()
}

func (c *Controller) resolveElements() []osm.Element {
	elements := c.MapData.ElementsOnFloor(c.View.Floor)
	hidden := map[osm.ID]bool{}
	for _, ov := range c.Overlays {
		for _, e := range elements {
			if ov.Hidden(e) {
				hidden[e.ID()] = true
			}
		}
	}
	out := make([]osm.Element, 0, len(elements))
	for _, e := range elements {
		if !hidden[e.ID()] {
			out = append(out, e)
		}
	}
	for _, ov := range c.Overlays {
		out = append(out, ov.Elements(c.View.Floor)...)
	}
	return out
}

func (c *Controller) emitElement(e osm.Element) {
	objType := c.Style.ResolveObjectType(e)
	state := mapcss.MapCSSState{
		Element:    e,
		Zoom:       c.View.Zoom,
		FloorLevel: int32(c.View.Floor),
		ObjectType: objType,
	}
	if _, err := c.Style.Evaluate(state, c.result); err != nil {
		c.diag.Warningf("evaluate %s: %v", e.URL(), err)
		return
	}
	for _, layer := range c.result.Layers() {
		c.emitLayer(e, objType, layer)
	}
}

func (c *Controller) emitLayer(e osm.Element, objType mapcss.ObjectType, layer *mapcss.ResultLayer) {
	z := layer.ZIndex()

	if layer.HasAreaProperties() && (objType == mapcss.ObjArea) {
		if payload := c.buildAreaPayload(e, layer); payload != nil {
			c.Graph.Add(SceneGraphItem{Layer: layer.LayerSelector, ZIndex: z, Element: e, Payload: payload, Space: SpaceScene})
		}
	}
	if layer.HasLineProperties() && objType == mapcss.ObjLine {
		if payload := c.buildLinePayload(e, layer); payload != nil {
			c.Graph.Add(SceneGraphItem{Layer: layer.LayerSelector, ZIndex: z, Element: e, Payload: payload, Space: SpaceScene})
		}
	}
	if layer.HasLabelProperties() {
		if payload := c.buildLabelPayload(e, layer); payload != nil {
			c.Graph.Add(SceneGraphItem{Layer: layer.LayerSelector, ZIndex: z, Element: e, Payload: payload, Space: SpaceScene})
		}
	}
}

func (c *Controller) buildAreaPayload(e osm.Element, layer *mapcss.ResultLayer) Payload {
	fill, _ := layerColor(layer, mapcss.PropFillColor)
	casingColor, _ := layerColor(layer, mapcss.PropCasingColor)
	casingWidth, _ := layerFloat(layer, mapcss.PropCasingWidth)
	pen := Pen{Color: casingColor, Width: casingWidth}

	if e.Type() == osm.TypeRelation && isMultipolygon(e) {
		rings := multipolygonRings(c.MapData.DataSet, e)
		if len(rings) == 0 {
			return nil
		}
		return &MultiPolygon{Rings: rings, Fill: fill, Pen: pen}
	}

	path := e.OuterPath(c.MapData.DataSet)
	if len(path) < 3 {
		return nil
	}
	return &Polygon{Ring: projectRing(path), Fill: fill, Pen: pen}
}

func (c *Controller) buildLinePayload(e osm.Element, layer *mapcss.ResultLayer) Payload {
	path := e.OuterPath(c.MapData.DataSet)
	if len(path) < 2 {
		return nil
	}
	strokeColor, _ := layerColor(layer, mapcss.PropColor)
	strokeWidth, _ := layerFloat(layer, mapcss.PropWidth)
	casingColor, _ := layerColor(layer, mapcss.PropCasingColor)
	casingWidth, _ := layerFloat(layer, mapcss.PropCasingWidth)
	return &Polyline{
		Points: projectRing(path),
		Stroke: Pen{Color: strokeColor, Width: strokeWidth},
		Casing: Pen{Color: casingColor, Width: casingWidth},
	}
}

func (c *Controller) buildLabelPayload(e osm.Element, layer *mapcss.ResultLayer) Payload {
	text := ""
	if v, ok := layer.Get(mapcss.PropText); ok {
		text = v.String()
	}
	icon := ""
	if v, ok := layer.Get(mapcss.PropIconImage); ok {
		icon = v.String()
	}
	shield := ""
	if v, ok := layer.Get(mapcss.PropShieldImage); ok {
		shield = v.String()
	}
	if text == "" && icon == "" && shield == "" {
		return nil
	}
	textColor, _ := layerColor(layer, mapcss.PropTextColor)
	haloColor, _ := layerColor(layer, mapcss.PropHaloColor)
	haloRadius, _ := layerFloat(layer, mapcss.PropHaloRadius)
	fontSize, _ := layerFloat(layer, mapcss.PropFontSize)

	return &Label{
		Pos:        ProjectPoint(e.Center()),
		Text:       text,
		Icon:       icon,
		Shield:     shield,
		TextColor:  textColor,
		HaloColor:  haloColor,
		HaloRadius: haloRadius,
		FontSize:   fontSize,
	}
}

func (c *Controller) evaluateCanvas() {
	if _, err := c.Style.EvaluateCanvas(c.View.Zoom, c.result); err != nil {
		return
	}
	for _, layer := range c.result.Layers() {
		if bg, ok := layerColor(layer, mapcss.PropBackgroundColor); ok {
			c.Background = bg
		}
	}
}

func layerColor(layer *mapcss.ResultLayer, p mapcss.Property) (mapcss.Color, bool) {
	v, ok := layer.Get(p)
	if !ok {
		return mapcss.Color{}, false
	}
	return v.Color()
}

func layerFloat(layer *mapcss.ResultLayer, p mapcss.Property) (float32, bool) {
	v, ok := layer.Get(p)
	if !ok {
		return 0, false
	}
	return v.Float32()
}

func isMultipolygon(e osm.Element) bool {
	r := e.Relation()
	return r != nil && r.IsMultipolygon()
}

func multipolygonRings(ds *osm.DataSet, e osm.Element) [][]Point {
	outer := e.OuterPath(ds)
	if len(outer) < 3 {
		return nil
	}
	rings := [][]Point{projectRing(outer)}
	r := e.Relation()
	if r == nil {
		return rings
	}
	for _, m := range r.Members {
		if m.Type != osm.TypeWay || m.Role != "inner" {
			continue
		}
		w, ok := ds.WayByID(m.ID)
		if !ok {
			continue
		}
		inner := osm.WayElement(w).OuterPath(ds)
		if len(inner) >= 3 {
			rings = append(rings, projectRing(inner))
		}
	}
	return rings
}

func projectRing(coords []osm.Coord) []Point {
	pts := make([]Point, len(coords))
	for i, c := range coords {
		pts[i] = ProjectPoint(c)
	}
	return pts
}
