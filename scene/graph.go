package scene

import "sort"

// rangeKey identifies a contiguous run of items sharing the same
// (layer, z-index).
type rangeKey struct {
	layer string
	z     float32
}

// itemRange is a half-open [Begin, End) slice range into SceneGraph.items.
type itemRange struct {
	Begin, End int
}

// SceneGraph is the stable ordered store of SceneGraphItem produced by one
// Controller.UpdateScene pass. Equal (layer, z) keys preserve insertion
// order, which itself follows OSM iteration order (relations, then ways,
// then nodes; a floor's own elements before the all-floors ones, overlay
// elements last) — this determinism is observable via hit-test tie-breaks.
type SceneGraph struct {
	items  []SceneGraphItem
	ranges map[rangeKey]itemRange
	order  []rangeKey // ranges in ascending (layer, z) order
}

// NewSceneGraph returns an empty scene graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{ranges: make(map[rangeKey]itemRange)}
}

// Clear empties the graph for a full rebuild: the contract is "replaced,
// not incrementally patched" on floor or style change.
func (g *SceneGraph) Clear() {
	g.items = g.items[:0]
	for k := range g.ranges {
		delete(g.ranges, k)
	}
	g.order = g.order[:0]
}

// Add appends an item to the graph, to be ordered by Finalize.
func (g *SceneGraph) Add(item SceneGraphItem) {
	item.seq = len(g.items)
	g.items = append(g.items, item)
}

// Finalize stable-sorts items by (layer, z_index), preserving insertion
// order among ties, and rebuilds the layer-offset range index. Must be
// called once after every batch of Add calls and before Items/Range reads.
func (g *SceneGraph) Finalize() {
	sort.SliceStable(g.items, func(i, j int) bool {
		a, b := g.items[i], g.items[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		return a.seq < b.seq
	})

	for k := range g.ranges {
		delete(g.ranges, k)
	}
	g.order = g.order[:0]
	if len(g.items) == 0 {
		return
	}
	start := 0
	cur := rangeKey{layer: g.items[0].Layer, z: g.items[0].ZIndex}
	for i := 1; i <= len(g.items); i++ {
		var next rangeKey
		if i < len(g.items) {
			next = rangeKey{layer: g.items[i].Layer, z: g.items[i].ZIndex}
		}
		if i == len(g.items) || next != cur {
			g.ranges[cur] = itemRange{Begin: start, End: i}
			g.order = append(g.order, cur)
			start = i
			cur = next
		}
	}
}

// Items returns the full ordered item slice. Callers must not mutate it.
func (g *SceneGraph) Items() []SceneGraphItem { return g.items }

// Walk visits every item in ascending (layer, z) order, range by range —
// the order the renderer and hit detector both rely on.
func (g *SceneGraph) Walk(fn func(item *SceneGraphItem)) {
	for _, k := range g.order {
		r := g.ranges[k]
		for i := r.Begin; i < r.End; i++ {
			fn(&g.items[i])
		}
	}
}

// Len returns the number of items currently in the graph.
func (g *SceneGraph) Len() int { return len(g.items) }
