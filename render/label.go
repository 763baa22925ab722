package render

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultFace is the glyph metrics source a backend falls back to when it
// hasn't loaded its own font.
var DefaultFace font.Face = basicfont.Face7x13

// MeasureLabel returns the pixel width/height text occupies when set in
// face. Both backends return this measured box from DrawLabel. The gg
// backend rasterizes the glyphs with the same face and draws its halo
// around this box; the SVG backend leaves the glyphs to the viewer at the
// label's font size and draws a circular halo, so its drawn text can
// differ from the box.
func MeasureLabel(face font.Face, text string) (width, height int) {
	if text == "" {
		return 0, 0
	}
	var advance fixed.Int26_6
	for _, r := range text {
		a, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		advance += a
	}
	m := face.Metrics()
	return advance.Round(), (m.Ascent + m.Descent).Round()
}
