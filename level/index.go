package level

import (
	"sort"

	"github.com/indoorosm/mapcore/osm"
)

// AllLevels is the sentinel level key under which elements that carry no
// level/repeat_on tag (and so are visible on every floor) are stored.
const AllLevels MapLevel = 1<<31 - 1

// Index partitions a data set's elements by the level(s) they appear on,
// answering "which level(s) does element X appear on" and "what elements
// are on level L" without a per-query scan.
type Index struct {
	byLevel  map[MapLevel][]osm.Element
	byElem   map[elemKey][]MapLevel
	levels   []MapLevel // sorted ascending, excludes AllLevels
}

type elemKey struct {
	typ osm.Type
	id  osm.ID
}

// Build scans every node, way and relation in ds, reading its "level" tag
// (falling back to "repeat_on", which uses the same multi-value grammar),
// and buckets the element accordingly. An element with neither tag is
// filed under AllLevels: it is visible regardless of active floor.
func Build(ds *osm.DataSet) *Index {
	idx := &Index{
		byLevel: make(map[MapLevel][]osm.Element),
		byElem:  make(map[elemKey][]MapLevel),
	}
	for i := range ds.Relations() {
		idx.add(osm.RelationElement(&ds.Relations()[i]))
	}
	for i := range ds.Ways() {
		idx.add(osm.WayElement(&ds.Ways()[i]))
	}
	for i := range ds.Nodes() {
		idx.add(osm.NodeElement(&ds.Nodes()[i]))
	}

	seen := make(map[MapLevel]bool)
	for l := range idx.byLevel {
		if l != AllLevels {
			seen[l] = true
		}
	}
	idx.levels = make([]MapLevel, 0, len(seen))
	for l := range seen {
		idx.levels = append(idx.levels, l)
	}
	sort.Slice(idx.levels, func(i, j int) bool { return idx.levels[i] < idx.levels[j] })
	return idx
}

func (idx *Index) add(e osm.Element) {
	tags := e.Tags()
	raw := tags.Find("level")
	if raw == "" {
		raw = tags.Find("repeat_on")
	}
	levels := ParseList(raw)
	key := elemKey{typ: e.Type(), id: e.ID()}
	if len(levels) == 0 {
		idx.byLevel[AllLevels] = append(idx.byLevel[AllLevels], e)
		return
	}
	idx.byElem[key] = levels
	for _, l := range levels {
		idx.byLevel[l] = append(idx.byLevel[l], e)
	}
}

// Levels returns every full or partial level that has at least one element
// explicitly tagged onto it, ascending, excluding the all-floors bucket.
func (idx *Index) Levels() []MapLevel { return idx.levels }

// FullLevels returns the subset of Levels that are integer human floors.
func (idx *Index) FullLevels() []MapLevel {
	out := make([]MapLevel, 0, len(idx.levels))
	for _, l := range idx.levels {
		if l.IsFull() {
			out = append(out, l)
		}
	}
	return out
}

// ElementsOn returns every element visible on l: elements explicitly tagged
// with l, plus every all-floors element. The returned slice must not be
// mutated by the caller.
func (idx *Index) ElementsOn(l MapLevel) []osm.Element {
	if len(idx.byLevel[l]) == 0 && len(idx.byLevel[AllLevels]) == 0 {
		return nil
	}
	out := make([]osm.Element, 0, len(idx.byLevel[l])+len(idx.byLevel[AllLevels]))
	out = append(out, idx.byLevel[l]...)
	out = append(out, idx.byLevel[AllLevels]...)
	return out
}

// LevelsOf returns the levels explicitly tagged on e, or nil if e carries no
// level/repeat_on tag (i.e. it is an all-floors element).
func (idx *Index) LevelsOf(e osm.Element) []MapLevel {
	return idx.byElem[elemKey{typ: e.Type(), id: e.ID()}]
}
