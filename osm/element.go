package osm

import "fmt"

// Element is a discriminated, non-owning reference to a Node, Way or
// Relation (or nothing). It replaces the tagged-pointer-over-element-
// variants micro-optimization the original packs into a single machine
// word (see DESIGN.md): the discriminant and payload are explicit fields,
// the encode/decode step is just never needed.
type Element struct {
	typ  Type
	node *Node
	way  *Way
	rel  *Relation
}

// Null is the zero Element, matching no element.
var Null = Element{}

// NodeElement wraps a Node reference.
func NodeElement(n *Node) Element { return Element{typ: TypeNode, node: n} }

// WayElement wraps a Way reference.
func WayElement(w *Way) Element { return Element{typ: TypeWay, way: w} }

// RelationElement wraps a Relation reference.
func RelationElement(r *Relation) Element { return Element{typ: TypeRelation, rel: r} }

// Type returns the element's discriminant.
func (e Element) Type() Type { return e.typ }

// IsNull reports whether e references nothing.
func (e Element) IsNull() bool { return e.typ == TypeNull }

// ID returns the element's OSM id, or 0 for a null element.
func (e Element) ID() ID {
	switch e.typ {
	case TypeNode:
		return e.node.ID
	case TypeWay:
		return e.way.ID
	case TypeRelation:
		return e.rel.ID
	default:
		return 0
	}
}

// Tags returns the element's tag set, or nil for a null element.
func (e Element) Tags() TagSet {
	switch e.typ {
	case TypeNode:
		return e.node.Tags
	case TypeWay:
		return e.way.Tags
	case TypeRelation:
		return e.rel.Tags
	default:
		return nil
	}
}

// Node returns the underlying *Node, or nil if e isn't a node.
func (e Element) Node() *Node { return e.node }

// Way returns the underlying *Way, or nil if e isn't a way.
func (e Element) Way() *Way { return e.way }

// Relation returns the underlying *Relation, or nil if e isn't a relation.
func (e Element) Relation() *Relation { return e.rel }

// BoundingBox returns the element's cached bounding box. For a Node it is a
// degenerate box around its single point.
func (e Element) BoundingBox() BBox {
	switch e.typ {
	case TypeNode:
		return BBox{Min: e.node.Pos, Max: e.node.Pos}
	case TypeWay:
		return e.way.BBox
	case TypeRelation:
		return e.rel.BBox
	default:
		return BBox{}
	}
}

// Center returns the centroid of the element's bounding box. It is a cheap,
// deterministic stand-in for a true geometric centroid, sufficient for
// label placement and off-mesh connection anchoring (see DESIGN.md Open
// Questions on concave-polygon centroids).
func (e Element) Center() Coord {
	b := e.BoundingBox()
	if b.Empty() {
		return Coord{}
	}
	return Coord{
		LatE7: (b.Min.LatE7 + b.Max.LatE7) / 2,
		LonE7: (b.Min.LonE7 + b.Max.LonE7) / 2,
	}
}

// URL returns a stable, human-followable reference to the element on
// openstreetmap.org.
func (e Element) URL() string {
	if e.IsNull() {
		return ""
	}
	return fmt.Sprintf("https://www.openstreetmap.org/%s/%d", e.typ, e.ID())
}

// TagValue looks up key literally (a linear scan, since a literal string
// isn't interned). Use InternedTagValue on the evaluator's hot path
// instead.
func (e Element) TagValue(key string) string { return e.Tags().Find(key) }

// InternedTagValue looks up an interned key in O(log n). The key must have
// been interned against the same DataSet that owns e — see
// DataSet.InternKey. This is a correctness precondition: an Element from a
// different DataSet will silently miss, since interned indices aren't
// comparable across DataSets.
func (e Element) InternedTagValue(k InternedKey) (string, bool) {
	return internedLookup(e.Tags(), k)
}

// LocaleTagValue resolves a locale-qualified tag: "key:language_Region",
// then "key:language", then "key".
func (e Element) LocaleTagValue(key, language, region string) string {
	return e.Tags().FindLocale(key, language, region)
}

// OuterPath returns the ordered node sequence of the element's polygon
// boundary.
//
// For a Way it resolves each referenced node id, skipping ones absent from
// ds (an intentionally incomplete way is not an error, per spec).
//
// For a multipolygon Relation it gathers every "outer" member way and
// stitches them into one or more closed loops: start with any unused way,
// append its nodes, then repeatedly locate the next unused way whose first
// or last node equals the current end node (reversing it if it matches at
// the tail), until the loop closes or no way matches; if ways remain,
// start a new sub-loop. This implements the OSM multipolygon rule that
// outer ways may appear in any member order and either direction.
func (e Element) OuterPath(ds *DataSet) []Coord {
	switch e.typ {
	case TypeWay:
		return wayPath(ds, e.way)
	case TypeRelation:
		return stitchOuterRings(ds, e.rel)
	default:
		return nil
	}
}

func wayPath(ds *DataSet, w *Way) []Coord {
	path := make([]Coord, 0, len(w.Nodes))
	for _, id := range w.Nodes {
		if n, ok := ds.NodeByID(id); ok {
			path = append(path, n.Pos)
		}
		// missing node: skipped silently, per spec.
	}
	return path
}

type ringWay struct {
	id      ID
	nodes   []ID
	claimed bool
}

func stitchOuterRings(ds *DataSet, r *Relation) []Coord {
	ids := r.outerWayIDs()
	ways := make([]*ringWay, 0, len(ids))
	for _, id := range ids {
		w, ok := ds.WayByID(id)
		if !ok || len(w.Nodes) == 0 {
			continue
		}
		ways = append(ways, &ringWay{id: id, nodes: w.Nodes})
	}

	var out []Coord
	for {
		start := firstUnclaimed(ways)
		if start == nil {
			break
		}
		loop := stitchOneLoop(ds, ways, start)
		out = append(out, loop...)
	}
	return out
}

func firstUnclaimed(ways []*ringWay) *ringWay {
	for _, w := range ways {
		if !w.claimed {
			return w
		}
	}
	return nil
}

// stitchOneLoop consumes ways (marking them claimed) starting from start,
// returning the coordinate sequence of one closed (or best-effort, if data
// doesn't close) loop.
func stitchOneLoop(ds *DataSet, ways []*ringWay, start *ringWay) []Coord {
	start.claimed = true
	nodeIDs := append([]ID(nil), start.nodes...)
	endID := nodeIDs[len(nodeIDs)-1]
	closeID := nodeIDs[0]

	for endID != closeID {
		next, reversed := findNextWay(ways, endID)
		if next == nil {
			break // dangling ring: no matching way, stop as-is
		}
		next.claimed = true
		seg := next.nodes
		if reversed {
			seg = reverseIDs(seg)
		}
		// seg[0] == endID by construction; drop the duplicate join point.
		nodeIDs = append(nodeIDs, seg[1:]...)
		endID = nodeIDs[len(nodeIDs)-1]
	}

	path := make([]Coord, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if n, ok := ds.NodeByID(id); ok {
			path = append(path, n.Pos)
		}
	}
	return path
}

func findNextWay(ways []*ringWay, endID ID) (w *ringWay, reversed bool) {
	for _, c := range ways {
		if c.claimed {
			continue
		}
		if c.nodes[0] == endID {
			return c, false
		}
		if c.nodes[len(c.nodes)-1] == endID {
			return c, true
		}
	}
	return nil, false
}

func reverseIDs(ids []ID) []ID {
	out := make([]ID, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

// RecomputeBoundingBox recomputes the cached bounding box of a Way or
// Relation by unioning over its members, for use when an externally
// supplied bbox is absent or untrusted. It is a no-op for a Node.
func RecomputeBoundingBox(ds *DataSet, e Element) BBox {
	switch e.typ {
	case TypeWay:
		var b BBox
		for _, id := range e.way.Nodes {
			if n, ok := ds.NodeByID(id); ok {
				b = b.Extend(n.Pos)
			}
		}
		e.way.BBox = b
		return b
	case TypeRelation:
		var b BBox
		for _, m := range e.rel.Members {
			switch m.Type {
			case TypeNode:
				if n, ok := ds.NodeByID(m.ID); ok {
					b = b.Extend(n.Pos)
				}
			case TypeWay:
				if w, ok := ds.WayByID(m.ID); ok {
					if w.BBox.Empty() {
						RecomputeBoundingBox(ds, WayElement(w))
					}
					b = b.Union(w.BBox)
				}
			case TypeRelation:
				if sub, ok := ds.RelationByID(m.ID); ok && sub.ID != e.rel.ID {
					b = b.Union(sub.BBox)
				}
			}
		}
		e.rel.BBox = b
		return b
	default:
		return e.BoundingBox()
	}
}
