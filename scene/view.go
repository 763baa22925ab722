package scene

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/osm"
)

// ScreenSize is the viewport's pixel dimensions.
type ScreenSize struct{ Width, Height float32 }

// SceneRect is an axis-aligned rectangle in scene space.
type SceneRect struct{ MinX, MinY, MaxX, MaxY float32 }

// View is the (screen_size, viewport_in_scene, scene_bbox, zoom, floor,
// device_pixel_ratio) tuple. Scene coordinates are Mercator-projected and
// Y-flipped so ascending screen-Y matches ascending scene-Y.
type View struct {
	Screen           ScreenSize
	Viewport         SceneRect
	SceneBBox        SceneRect
	Zoom             int
	Floor            level.MapLevel
	DevicePixelRatio float32

	centerX, centerY float32 // scene-space viewport center, kept in sync with Viewport
	panTween         *panAnim
	zoomTween        *gween.Tween
}

type panAnim struct {
	tweenX, tweenY   *gween.Tween
	doneX, doneY     bool
}

// NewView returns a View centered on bbox at zoom 0, floor 0.
func NewView(screen ScreenSize, bbox osm.BBox) *View {
	v := &View{Screen: screen, DevicePixelRatio: 1}
	v.SceneBBox = mercatorBBox(bbox)
	cx := (v.SceneBBox.MinX + v.SceneBBox.MaxX) / 2
	cy := (v.SceneBBox.MinY + v.SceneBBox.MaxY) / 2
	v.centerAt(cx, cy)
	return v
}

// mercatorBBox projects a geographic bbox into scene space, Y flipped so
// ascending screen-Y matches ascending scene-Y (north is positive Y before
// the flip and negative after it, which gives the usual north-up
// orientation).
func mercatorBBox(b osm.BBox) SceneRect {
	x0, y0 := mercatorProject(b.Min)
	x1, y1 := mercatorProject(b.Max)
	return SceneRect{
		MinX: float32(math.Min(x0, x1)), MinY: float32(math.Min(y0, y1)),
		MaxX: float32(math.Max(x0, x1)), MaxY: float32(math.Max(y0, y1)),
	}
}

func mercatorProject(c osm.Coord) (x, y float64) {
	lon := c.Lon() * math.Pi / 180
	lat := c.Lat() * math.Pi / 180
	x = lon
	y = -math.Log(math.Tan(math.Pi/4 + lat/2)) // negated: ascending screen-Y ~ ascending scene-Y
	return
}

// ProjectPoint converts a geographic coordinate into a scene-space Point
// using the same Mercator projection as mercatorBBox.
func ProjectPoint(c osm.Coord) Point {
	x, y := mercatorProject(c)
	return Point{X: float32(x), Y: float32(y)}
}

func (v *View) centerAt(x, y float32) {
	v.centerX, v.centerY = x, y
	halfW := v.Screen.Width / 2 / v.scale()
	halfH := v.Screen.Height / 2 / v.scale()
	v.Viewport = SceneRect{MinX: x - halfW, MinY: y - halfH, MaxX: x + halfW, MaxY: y + halfH}
}

func (v *View) scale() float32 {
	return float32(math.Exp2(float64(v.Zoom)))
}

// MapScreenToScene converts a screen-space point to scene space.
func (v *View) MapScreenToScene(sx, sy float32) Point {
	s := v.scale()
	return Point{
		X: v.Viewport.MinX + sx/s,
		Y: v.Viewport.MinY + sy/s,
	}
}

// MapSceneToScreen converts a scene-space point to screen space.
func (v *View) MapSceneToScreen(p Point) (sx, sy float32) {
	s := v.scale()
	return (p.X - v.Viewport.MinX) * s, (p.Y - v.Viewport.MinY) * s
}

// MapScreenDistanceToSceneDistance converts a screen-space length to scene
// space, for hit-test radii and stroke widths authored in screen pixels.
func (v *View) MapScreenDistanceToSceneDistance(d float32) float32 {
	return d / v.scale()
}

// MapMetersToScene converts a ground-distance in meters to scene-space
// units at the view's current center latitude, where Mercator distortion
// is evaluated.
func (v *View) MapMetersToScene(meters float32) float32 {
	const earthRadius = 6378137.0
	latRad := 2*math.Atan(math.Exp(-float64(v.centerY))) - math.Pi/2
	metersPerSceneUnit := earthRadius * math.Cos(latRad)
	if metersPerSceneUnit == 0 {
		return 0
	}
	return float32(float64(meters) / metersPerSceneUnit)
}

// PanTo animates the viewport center to (x, y) in scene space over
// duration seconds. Instantaneous mutation remains available via SetCenter
// for hosts that don't want animation.
func (v *View) PanTo(x, y float32, duration float32, easeFn ease.TweenFunc) {
	v.panTween = &panAnim{
		tweenX: gween.New(v.centerX, x, duration, easeFn),
		tweenY: gween.New(v.centerY, y, duration, easeFn),
	}
}

// SetCenter immediately recenters the viewport, canceling any pan tween.
func (v *View) SetCenter(x, y float32) {
	v.panTween = nil
	v.centerAt(x, y)
}

// ZoomTo animates the zoom level to target over duration seconds.
func (v *View) ZoomTo(target float32, duration float32, easeFn ease.TweenFunc) {
	v.zoomTween = gween.New(float32(v.Zoom), target, duration, easeFn)
}

// Update advances any in-flight pan/zoom tween by dt seconds. Floor
// changes are never animated as a tween (a floor crossfade, if any, is a
// renderer concern, not a viewport-transform one) — SetFloor applies
// immediately.
func (v *View) Update(dt float32) {
	moved := false
	if v.panTween != nil {
		if !v.panTween.doneX {
			x, done := v.panTween.tweenX.Update(dt)
			v.centerX = x
			v.panTween.doneX = done
			moved = true
		}
		if !v.panTween.doneY {
			y, done := v.panTween.tweenY.Update(dt)
			v.centerY = y
			v.panTween.doneY = done
			moved = true
		}
		if v.panTween.doneX && v.panTween.doneY {
			v.panTween = nil
		}
	}
	if v.zoomTween != nil {
		z, done := v.zoomTween.Update(dt)
		v.Zoom = int(z + 0.5)
		if done {
			v.zoomTween = nil
		}
		moved = true
	}
	if moved {
		v.centerAt(v.centerX, v.centerY)
	}
}

// SetFloor changes the active floor immediately; the caller is responsible
// for triggering a scene graph rebuild, per the "replaced, not
// incrementally patched" lifecycle rule.
func (v *View) SetFloor(l level.MapLevel) { v.Floor = l }
