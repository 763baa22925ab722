// Package scene turns MapCSS evaluator output into an ordered, z-sorted
// scene graph of drawable items, and provides the viewport transforms used
// to place them on screen.
package scene

import (
	"github.com/indoorosm/mapcore/mapcss"
	"github.com/indoorosm/mapcore/osm"
)

// Phase is one step of the phase-ordered render pass.
type Phase uint8

const (
	PhaseFill Phase = 1 << iota
	PhaseCasing
	PhaseStroke
	PhaseLabel
)

// Space discriminates whether a payload lives in scene space (pans/zooms
// with the map) or HUD space (screen-fixed, scaled only by device pixel
// ratio).
type Space uint8

const (
	SpaceScene Space = iota
	SpaceHUD
)

// Point is a scene-space coordinate.
type Point struct{ X, Y float32 }

// Pen describes one stroke or fill operation's paint.
type Pen struct {
	Color mapcss.Color
	Width float32
}

// Polygon is a single-ring filled shape.
type Polygon struct {
	Ring  []Point
	Fill  mapcss.Color
	Pen   Pen // casing
}

// Phases implements Payload.
func (Polygon) Phases() Phase { return PhaseFill | PhaseCasing }

// MultiPolygon is an even-odd filled shape: one outer ring plus inner
// (hole) rings.
type MultiPolygon struct {
	Rings [][]Point // ring[0] is outer; subsequent rings are holes, even-odd fill
	Fill  mapcss.Color
	Pen   Pen
}

// Phases implements Payload.
func (MultiPolygon) Phases() Phase { return PhaseFill | PhaseCasing }

// Polyline is a stroked, non-closed line.
type Polyline struct {
	Points []Point
	Stroke Pen
	Casing Pen
}

// Phases implements Payload.
func (Polyline) Phases() Phase { return PhaseCasing | PhaseStroke }

// Label is text (plus optional icon/shield/halo) anchored at a point.
type Label struct {
	Pos        Point
	Angle      float32
	Text       string
	Icon       string
	Shield     string
	HaloColor  mapcss.Color
	HaloRadius float32
	TextColor  mapcss.Color
	FontSize   float32

	// bbox is the memoized screen-space bounding box from the last draw,
	// populated by the renderer, not by the scene controller.
	bbox     [4]float32
	bboxSet  bool
}

// Phases implements Payload.
func (Label) Phases() Phase { return PhaseLabel }

// SetBBox records the label's last-drawn screen bounding box
// (minX, minY, maxX, maxY). Called only by the renderer.
func (l *Label) SetBBox(minX, minY, maxX, maxY float32) {
	l.bbox = [4]float32{minX, minY, maxX, maxY}
	l.bboxSet = true
}

// BBox returns the memoized bounding box and whether it has been set.
func (l *Label) BBox() ([4]float32, bool) { return l.bbox, l.bboxSet }

// Payload is the tagged sum over {Polygon, MultiPolygon, Polyline, Label}.
type Payload interface {
	Phases() Phase
}

// BoundingBox returns the AABB of a payload, used by the renderer's
// viewport culling and the hit detector's first-pass filter. For every
// payload but Label this is the scene-space (or HUD-space, per the item's
// Space) AABB of its untransformed geometry. Label is the one exception:
// its box is always the screen-space rect memoized by the last Draw call
// (Label.BBox), since that is the only rect a label's actual glyphs and
// halo ever occupy; it falls back to the degenerate anchor point before
// the first draw.
func BoundingBox(p Payload) (minX, minY, maxX, maxY float32, ok bool) {
	switch v := p.(type) {
	case *Polygon:
		return ringBBox(v.Ring)
	case *MultiPolygon:
		if len(v.Rings) == 0 {
			return 0, 0, 0, 0, false
		}
		return ringBBox(v.Rings[0])
	case *Polyline:
		return ringBBox(v.Points)
	case *Label:
		if bbox, ok := v.BBox(); ok {
			return bbox[0], bbox[1], bbox[2], bbox[3], true
		}
		return v.Pos.X, v.Pos.Y, v.Pos.X, v.Pos.Y, true
	default:
		return 0, 0, 0, 0, false
	}
}

func ringBBox(pts []Point) (minX, minY, maxX, maxY float32, ok bool) {
	if len(pts) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = pts[0].X, pts[0].Y
	maxX, maxY = pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX, maxY, true
}

// SceneGraphItem is one entry in the scene graph: the layer/z-index it was
// sorted by, the source element, and its drawable payload.
type SceneGraphItem struct {
	Layer   string
	ZIndex  float32
	Element osm.Element
	Payload Payload
	Space   Space
	seq     int // original insertion order, for stable tie-breaking
}
