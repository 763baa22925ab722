// Package osm implements the data model of raw OpenStreetMap elements:
// nodes, ways and relations, their tags, and the discriminated Element
// reference that lets callers treat the three uniformly.
//
// Coordinates are stored as int32 in units of 1e-7 degree to avoid the
// floating point drift that accumulates when many elements share a few
// reference points (stitched multipolygon rings, shared way endpoints).
package osm

import "fmt"

// ID is a stable 64-bit OSM identifier. IDs are only unique within a single
// element kind: a Node, a Way and a Relation may share the same numeric ID.
type ID int64

// Type discriminates the three OSM element kinds, plus the null reference
// returned when a lookup fails.
type Type uint8

const (
	TypeNull Type = iota
	TypeNode
	TypeWay
	TypeRelation
)

func (t Type) String() string {
	switch t {
	case TypeNode:
		return "node"
	case TypeWay:
		return "way"
	case TypeRelation:
		return "relation"
	default:
		return "null"
	}
}

// Coord is a geographic point in units of 1e-7 degree.
type Coord struct {
	LatE7 int32
	LonE7 int32
}

// Lat returns the latitude in degrees.
func (c Coord) Lat() float64 { return float64(c.LatE7) / 1e7 }

// Lon returns the longitude in degrees.
func (c Coord) Lon() float64 { return float64(c.LonE7) / 1e7 }

// BBox is an axis-aligned bounding box in geographic coordinates. An empty
// BBox has Min > Max on at least one axis.
type BBox struct {
	Min, Max Coord
}

// Empty reports whether the box has never been extended.
func (b BBox) Empty() bool {
	return b.Min.LatE7 > b.Max.LatE7 || b.Min.LonE7 > b.Max.LonE7
}

// Extend grows the box to also cover c.
func (b BBox) Extend(c Coord) BBox {
	if b.Empty() {
		return BBox{Min: c, Max: c}
	}
	if c.LatE7 < b.Min.LatE7 {
		b.Min.LatE7 = c.LatE7
	}
	if c.LatE7 > b.Max.LatE7 {
		b.Max.LatE7 = c.LatE7
	}
	if c.LonE7 < b.Min.LonE7 {
		b.Min.LonE7 = c.LonE7
	}
	if c.LonE7 > b.Max.LonE7 {
		b.Max.LonE7 = c.LonE7
	}
	return b
}

// Union returns the smallest box covering both a and b.
func (a BBox) Union(b BBox) BBox {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	a = a.Extend(b.Min)
	a = a.Extend(b.Max)
	return a
}

// Contains reports whether c lies within the box, inclusive of the edges.
func (b BBox) Contains(c Coord) bool {
	return !b.Empty() &&
		c.LatE7 >= b.Min.LatE7 && c.LatE7 <= b.Max.LatE7 &&
		c.LonE7 >= b.Min.LonE7 && c.LonE7 <= b.Max.LonE7
}

// Tag is a single (key, value) pair. Key is stored as a literal string; its
// index into the dataset's interned key table lives in keyIdx once the
// containing DataSet has run InternAll.
type Tag struct {
	Key, Value string
	keyIdx     int32 // index into DataSet.keys, 0 until interned
}

// TagSet is an ordered sequence of tags, sorted by interned key once
// DataSet.InternAll has run (construction order otherwise).
type TagSet []Tag

// Find returns the value associated with key, or "" if absent.
func (t TagSet) Find(key string) string {
	for _, kv := range t {
		if kv.Key == key {
			return kv.Value
		}
	}
	return ""
}

// Has reports whether key is present, regardless of value.
func (t TagSet) Has(key string) bool {
	for _, kv := range t {
		if kv.Key == key {
			return true
		}
	}
	return false
}

// FindLocale resolves a locale-qualified tag lookup: it tries
// "key:language_Region", then "key:language", then the bare "key".
func (t TagSet) FindLocale(key, language, region string) string {
	if language != "" && region != "" {
		if v := t.Find(fmt.Sprintf("%s:%s_%s", key, language, region)); v != "" {
			return v
		}
	}
	if language != "" {
		if v := t.Find(fmt.Sprintf("%s:%s", key, language)); v != "" {
			return v
		}
	}
	return t.Find(key)
}
