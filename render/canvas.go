// Package render paints a scene graph onto an abstract Canvas, walking
// layer/z-index ranges in order and, within each range, drawing the
// collected batch phase by phase (fill, casing, stroke, label). A higher
// (layer, z) item's fill can occlude a lower item's stroke or label, but
// within the same range every fill still sits below every casing, stroke
// and label. Concrete backends live in render/gg (an interactive
// gg.Context surface) and render/svg (a static SVG export).
package render

import (
	"github.com/indoorosm/mapcore/mapcss"
	"github.com/indoorosm/mapcore/scene"
)

// Canvas is the abstract drawing surface a SceneGraph is painted onto. It
// speaks only screen-space pixel coordinates: Draw resolves scene-space
// items through the View's pan/zoom transform, and passes HUD-space items
// through unchanged, before any Canvas method is called.
type Canvas interface {
	Size() (width, height float32)

	FillPolygon(ring []scene.Point, fill mapcss.Color)
	FillMultiPolygon(rings [][]scene.Point, fill mapcss.Color)
	StrokePath(pts []scene.Point, closed bool, pen scene.Pen)

	// DrawLabel paints lbl (already positioned in screen space) and
	// returns the screen-space bounding box it occupied, so Draw can
	// memoize it back onto the scene graph's Label payload.
	DrawLabel(lbl *scene.Label) (minX, minY, maxX, maxY float32)
}

// phaseOrder is fill-under-casing-under-stroke-under-label within a single
// (layer, z) range: a thin line's casing always sits under its own stroke,
// and every fill in the range sits under every casing/stroke/label in that
// same range, so a wide road casing never paints over a thin room's fill
// on the same range. It does not hold across ranges: a higher (layer, z)
// range's fill is painted after, and so occludes, a lower range's stroke
// or label.
var phaseOrder = []scene.Phase{scene.PhaseFill, scene.PhaseCasing, scene.PhaseStroke, scene.PhaseLabel}

// Draw paints graph onto canvas using view's current transform. It walks
// layer/z-index ranges in ascending order (SceneGraph.Walk's native
// order); within each range it draws the collected batch phase by phase,
// so ranges paint strictly back-to-front while phases stay layered within
// a range.
func Draw(canvas Canvas, graph *scene.SceneGraph, view *scene.View) {
	items := graph.Items()
	for i := 0; i < len(items); {
		j := i + 1
		for j < len(items) && items[j].Layer == items[i].Layer && items[j].ZIndex == items[i].ZIndex {
			j++
		}
		batch := items[i:j]
		for _, phase := range phaseOrder {
			for k := range batch {
				item := &batch[k]
				if item.Payload.Phases()&phase == 0 {
					continue
				}
				drawPhase(canvas, view, item, phase)
			}
		}
		i = j
	}
}

func drawPhase(canvas Canvas, view *scene.View, item *scene.SceneGraphItem, phase scene.Phase) {
	toScreen := func(pt scene.Point) scene.Point {
		if item.Space == scene.SpaceHUD {
			return pt
		}
		x, y := view.MapSceneToScreen(pt)
		return scene.Point{X: x, Y: y}
	}

	switch v := item.Payload.(type) {
	case *scene.Polygon:
		ring := projectPoints(v.Ring, toScreen)
		switch phase {
		case scene.PhaseFill:
			canvas.FillPolygon(ring, v.Fill)
		case scene.PhaseCasing:
			if v.Pen.Width > 0 {
				canvas.StrokePath(ring, true, v.Pen)
			}
		}
	case *scene.MultiPolygon:
		rings := make([][]scene.Point, len(v.Rings))
		for i, r := range v.Rings {
			rings[i] = projectPoints(r, toScreen)
		}
		switch phase {
		case scene.PhaseFill:
			canvas.FillMultiPolygon(rings, v.Fill)
		case scene.PhaseCasing:
			if v.Pen.Width > 0 && len(rings) > 0 {
				canvas.StrokePath(rings[0], true, v.Pen)
			}
		}
	case *scene.Polyline:
		pts := projectPoints(v.Points, toScreen)
		switch phase {
		case scene.PhaseCasing:
			if v.Casing.Width > 0 {
				canvas.StrokePath(pts, false, v.Casing)
			}
		case scene.PhaseStroke:
			if v.Stroke.Width > 0 {
				canvas.StrokePath(pts, false, v.Stroke)
			}
		}
	case *scene.Label:
		screenPos := toScreen(v.Pos)
		projected := *v
		projected.Pos = screenPos
		minX, minY, maxX, maxY := canvas.DrawLabel(&projected)
		v.SetBBox(minX, minY, maxX, maxY)
	}
}

func projectPoints(pts []scene.Point, toScreen func(scene.Point) scene.Point) []scene.Point {
	out := make([]scene.Point, len(pts))
	for i, p := range pts {
		out[i] = toScreen(p)
	}
	return out
}
