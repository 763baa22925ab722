// Package mapdata combines a raw osm.DataSet with the building-level
// metadata (bounding box, time zone, region code, level index) that turns
// it into a map the rest of the system can render and route on.
package mapdata

import (
	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/osm"
)

// MapData is a DataSet plus bounding box, time zone, region code and the
// level map. It is created once by a loader and handed to the scene
// controller, which takes ownership — see Lifecycle in spec.md §3.
type MapData struct {
	DataSet    *osm.DataSet
	BBox       osm.BBox
	TimeZone   string
	RegionCode string
	Levels     *level.Index
}

// New builds a MapData from a finished DataSet, computing its bounding box
// and level index. TimeZone and RegionCode default to empty and are set by
// the loader from the source extract's metadata, not derived here.
func New(ds *osm.DataSet) *MapData {
	return &MapData{
		DataSet: ds,
		BBox:    computeBBox(ds),
		Levels:  level.Build(ds),
	}
}

func computeBBox(ds *osm.DataSet) osm.BBox {
	var b osm.BBox
	for i := range ds.Nodes() {
		b = b.Extend(ds.Nodes()[i].Pos)
	}
	return b
}

// ElementsOnFloor returns every element visible on the given level: those
// explicitly tagged with it, plus every element that carries no level tag
// at all and so spans every floor.
func (m *MapData) ElementsOnFloor(l level.MapLevel) []osm.Element {
	return m.Levels.ElementsOn(l)
}

// Builder extends osm.Builder with the metadata fields a loader discovers
// alongside the raw elements, so a single pass over a wire-format reader
// can populate both without an intermediate struct.
type Builder struct {
	*osm.DataSetBuilder
	TimeZone   string
	RegionCode string
}

// NewBuilder returns a Builder ready to accumulate a new map's elements.
func NewBuilder() *Builder {
	return &Builder{DataSetBuilder: osm.NewDataSetBuilder()}
}

// Finish sorts and interns the accumulated elements and returns the
// completed MapData, carrying over TimeZone/RegionCode set on the builder.
func (b *Builder) Finish() *MapData {
	md := New(b.DataSetBuilder.Finish())
	md.TimeZone = b.TimeZone
	md.RegionCode = b.RegionCode
	return md
}
