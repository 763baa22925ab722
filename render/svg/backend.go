// Package svg renders a scene graph into a static SVG document using
// github.com/ajstarks/svgo, for map exports and debug snapshots that don't
// need an interactive surface.
package svg

import (
	"bytes"
	"fmt"

	gosvg "github.com/ajstarks/svgo"
	"golang.org/x/image/font"

	"github.com/indoorosm/mapcore/mapcss"
	"github.com/indoorosm/mapcore/render"
	"github.com/indoorosm/mapcore/scene"
)

// Backend accumulates an SVG document in memory. Call Bytes after Draw to
// retrieve the finished markup.
type Backend struct {
	buf          *bytes.Buffer
	canvas       *gosvg.SVG
	width, height int
	Face         font.Face
}

// New starts an SVG document of the given pixel size.
func New(width, height int) *Backend {
	buf := &bytes.Buffer{}
	canvas := gosvg.New(buf)
	canvas.Start(width, height)
	return &Backend{buf: buf, canvas: canvas, width: width, height: height, Face: render.DefaultFace}
}

// Bytes closes the SVG document and returns its bytes. Calling Draw again
// afterward produces an invalid document; build a fresh Backend instead.
func (b *Backend) Bytes() []byte {
	b.canvas.End()
	return b.buf.Bytes()
}

// Size implements render.Canvas.
func (b *Backend) Size() (float32, float32) { return float32(b.width), float32(b.height) }

// FillPolygon implements render.Canvas.
func (b *Backend) FillPolygon(ring []scene.Point, fill mapcss.Color) {
	if len(ring) < 3 || fill.A == 0 {
		return
	}
	xs, ys := splitCoords(ring)
	b.canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;stroke:none", colorCSS(fill)))
}

// FillMultiPolygon implements render.Canvas. svgo has no native even-odd
// multi-ring polygon primitive, so holes are approximated by drawing the
// outer ring filled, then every hole ring filled opaque white on top: not
// true punch-through, so anything drawn beneath a hole is covered. A genuine clip-path export is left to a
// future version since svgo's clipPath support is limited.
func (b *Backend) FillMultiPolygon(rings [][]scene.Point, fill mapcss.Color) {
	if len(rings) == 0 || fill.A == 0 {
		return
	}
	xs, ys := splitCoords(rings[0])
	b.canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;stroke:none;fill-rule:evenodd", colorCSS(fill)))
	for _, hole := range rings[1:] {
		if len(hole) < 3 {
			continue
		}
		hxs, hys := splitCoords(hole)
		b.canvas.Polygon(hxs, hys, "fill:white;stroke:none")
	}
}

// StrokePath implements render.Canvas.
func (b *Backend) StrokePath(pts []scene.Point, closed bool, pen scene.Pen) {
	if len(pts) < 2 || pen.Color.A == 0 || pen.Width <= 0 {
		return
	}
	xs, ys := splitCoords(pts)
	style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", colorCSS(pen.Color), pen.Width)
	if closed {
		b.canvas.Polygon(xs, ys, style)
	} else {
		b.canvas.Polyline(xs, ys, style)
	}
}

// DrawLabel implements render.Canvas: an optional halo circle behind
// center-anchored text.
func (b *Backend) DrawLabel(lbl *scene.Label) (minX, minY, maxX, maxY float32) {
	w, h := render.MeasureLabel(b.Face, lbl.Text)
	x0 := lbl.Pos.X - float32(w)/2
	y0 := lbl.Pos.Y - float32(h)/2

	if lbl.HaloRadius > 0 && lbl.Text != "" && lbl.HaloColor.A > 0 {
		r := int(lbl.HaloRadius) + w/2
		if r < 1 {
			r = 1
		}
		b.canvas.Circle(int(lbl.Pos.X), int(lbl.Pos.Y), r, fmt.Sprintf("fill:%s", colorCSS(lbl.HaloColor)))
	}
	if lbl.Text != "" {
		fontSize := lbl.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		style := fmt.Sprintf("text-anchor:middle;dominant-baseline:middle;font-size:%gpx;fill:%s",
			fontSize, colorCSS(lbl.TextColor))
		b.canvas.Text(int(lbl.Pos.X), int(lbl.Pos.Y), lbl.Text, style)
	}
	return x0, y0, x0 + float32(w), y0 + float32(h)
}

func splitCoords(pts []scene.Point) (xs, ys []int) {
	xs = make([]int, len(pts))
	ys = make([]int, len(pts))
	for i, p := range pts {
		xs[i] = int(p.X)
		ys[i] = int(p.Y)
	}
	return xs, ys
}

func colorCSS(c mapcss.Color) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.R, c.G, c.B, float64(c.A)/255)
}
