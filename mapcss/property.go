package mapcss

import (
	"fmt"
	"strconv"
	"strings"
)

// Property enumerates the declaration properties the evaluator understands.
// Using an enum instead of property name strings keeps ResultLayer's
// per-property table a flat array rather than a map on the evaluator's hot
// path.
type Property uint8

const (
	PropNone Property = iota
	PropFillColor
	PropFillOpacity
	PropColor // stroke/line color
	PropOpacity
	PropWidth // stroke width
	PropCasingWidth
	PropCasingColor
	PropCasingOpacity
	PropZIndex
	PropText
	PropTextColor
	PropFontSize
	PropIconImage
	PropHaloColor
	PropHaloRadius
	PropShieldImage
	PropBackgroundColor // canvas-only
	PropExtrude         // wall height in stories; presence marks an extrude rule
	PropLinkLevels      // "a;b;..." for area links (elevators)
	PropLinkDirection   // forward | backward | bidirectional
	propCount
)

var propertyNames = [propCount]string{
	PropFillColor:       "fill-color",
	PropFillOpacity:     "fill-opacity",
	PropColor:           "color",
	PropOpacity:         "opacity",
	PropWidth:           "width",
	PropCasingWidth:     "casing-width",
	PropCasingColor:     "casing-color",
	PropCasingOpacity:   "casing-opacity",
	PropZIndex:          "z-index",
	PropText:            "text",
	PropTextColor:       "text-color",
	PropFontSize:        "font-size",
	PropIconImage:       "icon-image",
	PropHaloColor:       "halo-color",
	PropHaloRadius:      "halo-radius",
	PropShieldImage:     "shield-image",
	PropBackgroundColor: "background-color",
	PropExtrude:         "extrude",
	PropLinkLevels:      "level",
	PropLinkDirection:   "direction",
}

// String returns the declaration's on-the-wire (YAML) property name.
func (p Property) String() string {
	if p == PropNone || int(p) >= int(propCount) {
		return "none"
	}
	return propertyNames[p]
}

// PropertyByName resolves a property by its YAML name, used when loading a
// rule list. Returns PropNone for an unrecognized name.
func PropertyByName(name string) Property {
	for p, n := range propertyNames {
		if n == name {
			return Property(p)
		}
	}
	return PropNone
}

// Value is a declaration's value, stored as the raw text it was authored
// with; accessors parse lazily, mirroring how MapCSS engines keep
// declaration values as opaque tokens until a specific property consumer
// needs a typed read.
type Value struct {
	Raw string
}

// String returns the value's raw text.
func (v Value) String() string { return v.Raw }

// Float32 parses the value as a floating point number.
func (v Value) Float32() (float32, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Raw), 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// Bool parses the value as a boolean, accepting "yes"/"no" alongside the
// usual strconv forms since that's the OSM tag convention this value often
// travels alongside.
func (v Value) Bool() (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v.Raw)) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0":
		return false, true
	}
	return false, false
}

// Color parses the value as a color: "#rrggbb", "#rrggbbaa", or one of a
// small set of named colors.
func (v Value) Color() (Color, bool) { return ParseColor(v.Raw) }

// Color is an RGBA color with 8 bits per channel.
type Color struct {
	R, G, B, A uint8
}

var namedColors = map[string]Color{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor parses "#rrggbb", "#rrggbbaa", the "#rgb"/"#rgba" shorthand
// (each nibble doubled), or a small set of named colors.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return Color{}, false
	}
	hex := s[1:]
	if len(hex) == 3 || len(hex) == 4 {
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	}
	switch len(hex) {
	case 6, 8:
		v, err := strconv.ParseUint(hex[:6], 16, 32)
		if err != nil {
			return Color{}, false
		}
		c := Color{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 255,
		}
		if len(hex) == 8 {
			a, err := strconv.ParseUint(hex[6:8], 16, 8)
			if err != nil {
				return Color{}, false
			}
			c.A = uint8(a)
		}
		return c, true
	default:
		return Color{}, false
	}
}

func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
