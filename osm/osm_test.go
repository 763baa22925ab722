package osm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(lat, lon int32) Coord { return Coord{LatE7: lat, LonE7: lon} }

func TestTagSetFindLocale(t *testing.T) {
	tags := TagSet{
		{Key: "name", Value: "Main Hall"},
		{Key: "name:fr", Value: "Hall principal"},
		{Key: "name:fr_CA", Value: "Hall principal (CA)"},
	}

	assert.Equal(t, "Hall principal (CA)", tags.FindLocale("name", "fr", "CA"))
	assert.Equal(t, "Hall principal", tags.FindLocale("name", "fr", "BE"))
	assert.Equal(t, "Main Hall", tags.FindLocale("name", "de", ""))
	assert.Equal(t, "Main Hall", tags.FindLocale("name", "", ""))
	assert.Equal(t, "", TagSet{}.FindLocale("name", "fr", "CA"))
}

func TestBBoxExtendAndUnion(t *testing.T) {
	var b BBox
	assert.True(t, b.Empty())

	b = b.Extend(pt(10, 20))
	b = b.Extend(pt(5, 30))
	assert.False(t, b.Empty())
	assert.Equal(t, pt(5, 20), b.Min)
	assert.Equal(t, pt(10, 30), b.Max)

	other := BBox{Min: pt(0, 0), Max: pt(1, 1)}
	u := b.Union(other)
	assert.Equal(t, pt(0, 0), u.Min)
	assert.Equal(t, pt(10, 30), u.Max)

	assert.True(t, u.Contains(pt(5, 5)))
	assert.False(t, u.Contains(pt(100, 100)))
}

func TestDataSetByIDLookup(t *testing.T) {
	b := NewDataSetBuilder()
	b.AddNode(Node{ID: 3, Pos: pt(0, 0)})
	b.AddNode(Node{ID: 1, Pos: pt(1, 1)})
	b.AddNode(Node{ID: 2, Pos: pt(2, 2)})
	ds := b.Finish()

	require.Len(t, ds.Nodes(), 3)
	assert.Equal(t, ID(1), ds.Nodes()[0].ID)
	assert.Equal(t, ID(2), ds.Nodes()[1].ID)
	assert.Equal(t, ID(3), ds.Nodes()[2].ID)

	n, ok := ds.NodeByID(2)
	require.True(t, ok)
	assert.Equal(t, pt(2, 2), n.Pos)

	_, ok = ds.NodeByID(42)
	assert.False(t, ok)
}

func TestInternedTagValueRoundTrip(t *testing.T) {
	b := NewDataSetBuilder()
	b.AddNode(Node{ID: 1, Tags: TagSet{{Key: "indoor", Value: "room"}, {Key: "level", Value: "2"}}})
	b.AddNode(Node{ID: 2, Tags: TagSet{{Key: "level", Value: "3"}}})
	ds := b.Finish()

	levelKey := ds.InternKey("level")
	indoorKey := ds.InternKey("indoor")

	n1, _ := ds.NodeByID(1)
	e1 := NodeElement(n1)
	v, ok := e1.InternedTagValue(levelKey)
	require.True(t, ok)
	assert.Equal(t, "2", v)

	v, ok = e1.InternedTagValue(indoorKey)
	require.True(t, ok)
	assert.Equal(t, "room", v)

	n2, _ := ds.NodeByID(2)
	e2 := NodeElement(n2)
	_, ok = e2.InternedTagValue(indoorKey)
	assert.False(t, ok)
}

// TestOuterPathWayIsItsOwnLoop mirrors a simple closed way with no
// multipolygon relation involved: OuterPath just resolves its nodes.
func TestOuterPathWayIsItsOwnLoop(t *testing.T) {
	b := NewDataSetBuilder()
	b.AddNode(Node{ID: 1, Pos: pt(0, 0)})
	b.AddNode(Node{ID: 2, Pos: pt(0, 10)})
	b.AddNode(Node{ID: 3, Pos: pt(10, 10)})
	b.AddWay(Way{ID: 100, Nodes: []ID{1, 2, 3, 1}})
	ds := b.Finish()

	w, ok := ds.WayByID(100)
	require.True(t, ok)
	path := WayElement(w).OuterPath(ds)
	assert.Equal(t, []Coord{pt(0, 0), pt(0, 10), pt(10, 10), pt(0, 0)}, path)
}

// TestOuterPathMultipolygonStitchesDisjointLoops covers the scenario where
// two outer ways are already independently closed and share no node: the
// result is the concatenation of both loops, each walked exactly once.
func TestOuterPathMultipolygonStitchesDisjointLoops(t *testing.T) {
	b := NewDataSetBuilder()
	for id, p := range map[ID]Coord{
		1: pt(0, 0), 2: pt(0, 10), 3: pt(10, 10),
		4: pt(100, 100), 5: pt(100, 110), 6: pt(110, 110),
	} {
		b.AddNode(Node{ID: id, Pos: p})
	}
	b.AddWay(Way{ID: 10, Nodes: []ID{1, 2, 3, 1}})
	b.AddWay(Way{ID: 11, Nodes: []ID{4, 5, 6, 4}})
	b.AddRelation(Relation{
		ID:   1,
		Tags: TagSet{{Key: "type", Value: "multipolygon"}},
		Members: []Member{
			{ID: 10, Type: TypeWay, Role: "outer"},
			{ID: 11, Type: TypeWay, Role: "outer"},
		},
	})
	ds := b.Finish()

	r, ok := ds.RelationByID(1)
	require.True(t, ok)
	require.True(t, r.IsMultipolygon())

	path := RelationElement(r).OuterPath(ds)
	assert.Equal(t, []Coord{
		pt(0, 0), pt(0, 10), pt(10, 10), pt(0, 0),
		pt(100, 100), pt(100, 110), pt(110, 110), pt(100, 100),
	}, path)
}

// TestOuterPathMultipolygonJoinsSplitRing covers the case that motivates
// stitching at all: one outer ring split across two ways sharing endpoints,
// one of which must be walked in reverse.
func TestOuterPathMultipolygonJoinsSplitRing(t *testing.T) {
	b := NewDataSetBuilder()
	for id, p := range map[ID]Coord{
		1: pt(0, 0), 2: pt(0, 10), 3: pt(10, 10), 4: pt(10, 0),
	} {
		b.AddNode(Node{ID: id, Pos: p})
	}
	// way A: 1 -> 2 -> 3
	b.AddWay(Way{ID: 20, Nodes: []ID{1, 2, 3}})
	// way B: 1 -> 4 -> 3 (stored reversed relative to how it must be walked:
	// it must be traversed 3 -> 4 -> 1 to continue and close the ring)
	b.AddWay(Way{ID: 21, Nodes: []ID{1, 4, 3}})
	b.AddRelation(Relation{
		ID:   2,
		Tags: TagSet{{Key: "type", Value: "multipolygon"}},
		Members: []Member{
			{ID: 20, Type: TypeWay, Role: "outer"},
			{ID: 21, Type: TypeWay, Role: "outer"},
		},
	})
	ds := b.Finish()

	r, _ := ds.RelationByID(2)
	path := RelationElement(r).OuterPath(ds)
	assert.Equal(t, []Coord{pt(0, 0), pt(0, 10), pt(10, 10), pt(10, 0), pt(0, 0)}, path)
}

func TestRecomputeBoundingBoxWay(t *testing.T) {
	b := NewDataSetBuilder()
	b.AddNode(Node{ID: 1, Pos: pt(0, 0)})
	b.AddNode(Node{ID: 2, Pos: pt(10, 20)})
	b.AddWay(Way{ID: 1, Nodes: []ID{1, 2}})
	ds := b.Finish()

	w, _ := ds.WayByID(1)
	assert.Equal(t, pt(0, 0), w.BBox.Min)
	assert.Equal(t, pt(10, 20), w.BBox.Max)
}

func TestElementURLAndNull(t *testing.T) {
	assert.True(t, Null.IsNull())
	assert.Equal(t, "", Null.URL())

	n := &Node{ID: 42}
	e := NodeElement(n)
	assert.Equal(t, "https://www.openstreetmap.org/node/42", e.URL())
	assert.Equal(t, ID(42), e.ID())
}

func TestDataSetBuilderMergeBufferDedupes(t *testing.T) {
	b := NewDataSetBuilder()
	b.SetMergeBuffer(true)
	b.AddNode(Node{ID: 1, Pos: pt(1, 1)})
	b.AddNode(Node{ID: 1, Pos: pt(1, 1)})
	b.AddNode(Node{ID: 2, Pos: pt(2, 2)})
	ds := b.Finish()

	assert.Len(t, ds.Nodes(), 2)
}
