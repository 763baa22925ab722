// Package floorui answers the two questions a floor picker needs: which
// floors exist on the active map, and which floors a specific elevator,
// stairwell or escalator element connects.
package floorui

import (
	"sort"

	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/mapdata"
	"github.com/indoorosm/mapcore/osm"
)

// Model exposes the ordered list of full levels for one MapData snapshot.
type Model struct {
	MapData *mapdata.MapData
}

// New returns a Model over data.
func New(data *mapdata.MapData) *Model {
	return &Model{MapData: data}
}

// ActiveLevels returns every integer human floor present in the active
// map, ascending. Half-levels and mezzanines are excluded: they're
// reachable while standing on their enclosing full floor, not a distinct
// picker entry.
func (m *Model) ActiveLevels() []level.MapLevel {
	return m.MapData.Levels.FullLevels()
}

// Has reports whether l is a level the floor picker can switch to.
func (m *Model) Has(l level.MapLevel) bool {
	for _, al := range m.ActiveLevels() {
		if al == l {
			return true
		}
	}
	return false
}

// LevelChangeModel is the set of floors one elevator/stairwell/escalator
// element connects, relative to the floor the user is currently viewing.
type LevelChangeModel struct {
	Current level.MapLevel
	Levels  []level.MapLevel // sorted ascending, de-duplicated
}

// BuildLevelChangeModel reads e's own building:levels / building:min_level
// / building:levels:underground range and its level / repeat_on list,
// merges and de-duplicates them, and pairs the result with current so
// callers can ask Shortcut/HasMultipleLevelChanges without recomputing.
func BuildLevelChangeModel(e osm.Element, current level.MapLevel) *LevelChangeModel {
	tags := e.Tags()
	building := level.ParseBuildingRange(
		tags.Find("building:levels"),
		tags.Find("building:min_level"),
		tags.Find("building:levels:underground"),
	)

	raw := tags.Find("level")
	if raw == "" {
		raw = tags.Find("repeat_on")
	}
	explicit := level.ParseList(raw)

	return &LevelChangeModel{Current: current, Levels: mergeSorted(building, explicit)}
}

// Shortcut reports the single other floor this model offers, when it
// connects exactly two floors and current is one of them. UIs use this to
// render a single "go to other floor" button instead of a picker list.
func (m *LevelChangeModel) Shortcut() (level.MapLevel, bool) {
	if len(m.Levels) != 2 {
		return 0, false
	}
	switch m.Current {
	case m.Levels[0]:
		return m.Levels[1], true
	case m.Levels[1]:
		return m.Levels[0], true
	default:
		return 0, false
	}
}

// HasMultipleLevelChanges reports whether this model must be presented as
// a list rather than a single shortcut.
func (m *LevelChangeModel) HasMultipleLevelChanges() bool {
	_, ok := m.Shortcut()
	return !ok
}

func mergeSorted(a, b []level.MapLevel) []level.MapLevel {
	seen := make(map[level.MapLevel]bool, len(a)+len(b))
	out := make([]level.MapLevel, 0, len(a)+len(b))
	for _, list := range [][]level.MapLevel{a, b} {
		for _, l := range list {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
