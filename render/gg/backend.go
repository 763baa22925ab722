// Package gg renders a scene graph onto a github.com/gogpu/gg software
// drawing context: the interactive Canvas backend.
package gg

import (
	"image"
	"image/color"

	gg "github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/indoorosm/mapcore/mapcss"
	"github.com/indoorosm/mapcore/render"
	"github.com/indoorosm/mapcore/scene"
)

// Backend paints a scene graph onto a gg.Context. Face defaults to
// render.DefaultFace; set it before the first DrawLabel to use another
// golang.org/x/image/font face.
type Backend struct {
	ctx  *gg.Context
	Face font.Face
}

// New returns a Backend with a fresh software-rendered gg.Context of the
// given pixel size.
func New(width, height int) *Backend {
	return &Backend{ctx: gg.NewContext(width, height), Face: render.DefaultFace}
}

// Context exposes the underlying gg.Context, e.g. for SavePNG after a Draw.
func (b *Backend) Context() *gg.Context { return b.ctx }

// Size implements render.Canvas.
func (b *Backend) Size() (float32, float32) {
	return float32(b.ctx.Width()), float32(b.ctx.Height())
}

// FillPolygon implements render.Canvas.
func (b *Backend) FillPolygon(ring []scene.Point, fill mapcss.Color) {
	if len(ring) < 3 || fill.A == 0 {
		return
	}
	b.ctx.SetFillRule(gg.FillRuleNonZero)
	b.setPath(ring, true)
	b.ctx.SetFillBrush(solidBrush(fill))
	b.ctx.Fill()
}

// FillMultiPolygon implements render.Canvas: ring 0 is the outer boundary,
// every following ring is a hole, combined with the even-odd fill rule so
// holes punch through regardless of winding direction.
func (b *Backend) FillMultiPolygon(rings [][]scene.Point, fill mapcss.Color) {
	if len(rings) == 0 || fill.A == 0 {
		return
	}
	b.ctx.ClearPath()
	b.ctx.SetFillRule(gg.FillRuleEvenOdd)
	for i, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		if i > 0 {
			b.ctx.NewSubPath()
		}
		appendRing(b.ctx, ring)
		b.ctx.ClosePath()
	}
	b.ctx.SetFillBrush(solidBrush(fill))
	b.ctx.Fill()
}

// StrokePath implements render.Canvas.
func (b *Backend) StrokePath(pts []scene.Point, closed bool, pen scene.Pen) {
	if len(pts) < 2 || pen.Color.A == 0 || pen.Width <= 0 {
		return
	}
	b.setPath(pts, closed)
	b.ctx.SetStrokeBrush(solidBrush(pen.Color))
	b.ctx.SetLineWidth(float64(pen.Width))
	b.ctx.Stroke()
}

// DrawLabel implements render.Canvas: draws an optional rounded halo then
// the glyphs, both centered on lbl.Pos, and returns the occupied screen
// rectangle.
func (b *Backend) DrawLabel(lbl *scene.Label) (minX, minY, maxX, maxY float32) {
	w, h := render.MeasureLabel(b.Face, lbl.Text)
	x0 := lbl.Pos.X - float32(w)/2
	y0 := lbl.Pos.Y - float32(h)/2

	if lbl.HaloRadius > 0 && lbl.Text != "" && lbl.HaloColor.A > 0 {
		b.ctx.ClearPath()
		b.ctx.DrawRoundedRectangle(
			float64(x0-lbl.HaloRadius), float64(y0-lbl.HaloRadius),
			float64(float32(w)+2*lbl.HaloRadius), float64(float32(h)+2*lbl.HaloRadius),
			float64(lbl.HaloRadius),
		)
		b.ctx.SetFillBrush(solidBrush(lbl.HaloColor))
		b.ctx.Fill()
	}

	if lbl.Text != "" {
		img := rasterizeText(b.Face, lbl.Text, lbl.TextColor, w, h)
		b.ctx.DrawImage(gg.ImageBufFromImage(img), float64(x0), float64(y0))
	}

	return x0, y0, x0 + float32(w), y0 + float32(h)
}

func (b *Backend) setPath(pts []scene.Point, closed bool) {
	b.ctx.ClearPath()
	appendRing(b.ctx, pts)
	if closed {
		b.ctx.ClosePath()
	}
}

func appendRing(ctx *gg.Context, pts []scene.Point) {
	if len(pts) == 0 {
		return
	}
	ctx.MoveTo(float64(pts[0].X), float64(pts[0].Y))
	for _, p := range pts[1:] {
		ctx.LineTo(float64(p.X), float64(p.Y))
	}
}

func solidBrush(c mapcss.Color) gg.SolidBrush {
	return gg.Solid(gg.RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	})
}

// rasterizeText draws text into a tightly-fitted RGBA image using the
// stdlib font.Drawer, since gg.Context's own DrawString is unimplemented
// upstream.
func rasterizeText(face font.Face, text string, col mapcss.Color, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	m := face.Metrics()
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: color.RGBA{R: col.R, G: col.G, B: col.B, A: col.A}},
		Face: face,
		Dot:  fixed.P(0, m.Ascent.Round()),
	}
	d.DrawString(text)
	return img
}
