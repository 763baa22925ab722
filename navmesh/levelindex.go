package navmesh

import (
	"math"

	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/osm"
)

// AmbiguousLevel marks a node that two or more single-level ways disagree
// about: it cannot be assigned a single floor and must be excluded from
// any geometry that needs one (area-link anchoring, wall-stitching).
const AmbiguousLevel = level.MapLevel(math.MinInt32)

// NodeLevels answers "what level is this node on", derived from the
// levels tagged on the ways that reference it. This is distinct from
// level.Index, which buckets whole elements by level; a node itself is
// rarely tagged with "level" directly; it only ever acquires one by
// appearing in a way that is.
type NodeLevels struct {
	byNode map[osm.ID]level.MapLevel
}

// BuildNodeLevels derives a per-node level assignment from every way in ds
// that belongs to exactly one level, via the already-built element level
// index. Ways spanning several levels at once (a stairway drawn as one
// way tagged level="0;1") contribute no node-level info: none of their
// endpoints can be safely pinned to a single floor that way.
func BuildNodeLevels(ds *osm.DataSet, levels *level.Index) *NodeLevels {
	nl := &NodeLevels{byNode: make(map[osm.ID]level.MapLevel)}

	ways := ds.Ways()
	for i := range ways {
		way := &ways[i]
		elem := osm.WayElement(way)
		wayLevels := levels.LevelsOf(elem)
		if len(wayLevels) != 1 || wayLevels[0] == level.AllLevels {
			continue
		}
		l := wayLevels[0]
		for _, nodeID := range way.Nodes {
			if existing, ok := nl.byNode[nodeID]; ok {
				if existing != l {
					nl.byNode[nodeID] = AmbiguousLevel
				}
				continue
			}
			nl.byNode[nodeID] = l
		}
	}

	return nl
}

// LevelOf returns the node's assigned level and whether one could be
// determined (false for an unseen node or one marked AmbiguousLevel).
func (nl *NodeLevels) LevelOf(id osm.ID) (level.MapLevel, bool) {
	l, ok := nl.byNode[id]
	if !ok || l == AmbiguousLevel {
		return 0, false
	}
	return l, true
}
