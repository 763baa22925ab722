package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indoorosm/mapcore/osm"
)

func TestIsFullLevel(t *testing.T) {
	assert.True(t, MapLevel(0).IsFull())
	assert.True(t, MapLevel(10).IsFull())
	assert.True(t, MapLevel(-10).IsFull())
	assert.False(t, MapLevel(5).IsFull())
}

func TestBelowAndAbove(t *testing.T) {
	assert.Equal(t, MapLevel(0), MapLevel(5).Below())
	assert.Equal(t, MapLevel(10), MapLevel(5).Above())
	assert.Equal(t, MapLevel(-10), MapLevel(-5).Below())
	assert.Equal(t, MapLevel(0), MapLevel(-5).Above())
	assert.Equal(t, MapLevel(10), MapLevel(10).Below())
	assert.Equal(t, MapLevel(10), MapLevel(10).Above())
}

func TestFromHumanRoundTrip(t *testing.T) {
	assert.Equal(t, MapLevel(5), FromHuman(0.5))
	assert.Equal(t, MapLevel(-5), FromHuman(-0.5))
	assert.Equal(t, MapLevel(20), FromHuman(2))
	assert.InDelta(t, 0.5, MapLevel(5).Human(), 1e-9)
}

func TestParseListMultiValue(t *testing.T) {
	got := ParseList("-1;0;1;2")
	want := []MapLevel{-10, 0, 10, 20}
	assert.Equal(t, want, got)
}

func TestParseListRange(t *testing.T) {
	got := ParseList("1-3")
	want := []MapLevel{10, 20, 30}
	assert.Equal(t, want, got)
}

func TestParseListDedupesAndSorts(t *testing.T) {
	got := ParseList("2;0;1;0")
	want := []MapLevel{0, 10, 20}
	assert.Equal(t, want, got)
}

func TestParseListIgnoresGarbage(t *testing.T) {
	got := ParseList("; ;abc;1")
	assert.Equal(t, []MapLevel{10}, got)
}

func TestBuildIndexBucketsByLevel(t *testing.T) {
	b := osm.NewDataSetBuilder()
	b.AddNode(osm.Node{ID: 1, Tags: osm.TagSet{{Key: "level", Value: "0"}}})
	b.AddNode(osm.Node{ID: 2, Tags: osm.TagSet{{Key: "level", Value: "-1;0;1;2"}}})
	b.AddNode(osm.Node{ID: 3}) // no level tag: all-floors
	ds := b.Finish()

	idx := Build(ds)

	on0 := idx.ElementsOn(0)
	ids := make([]osm.ID, 0, len(on0))
	for _, e := range on0 {
		ids = append(ids, e.ID())
	}
	assert.ElementsMatch(t, []osm.ID{1, 2, 3}, ids)

	onMinus10 := idx.ElementsOn(-10)
	require.Len(t, onMinus10, 2) // node 2 + the all-floors node 3
}

func TestBuildIndexLevelsOf(t *testing.T) {
	b := osm.NewDataSetBuilder()
	b.AddNode(osm.Node{ID: 1, Tags: osm.TagSet{{Key: "level", Value: "-1;0;1;2"}}})
	ds := b.Finish()
	idx := Build(ds)

	n, _ := ds.NodeByID(1)
	levels := idx.LevelsOf(osm.NodeElement(n))
	assert.Equal(t, []MapLevel{-10, 0, 10, 20}, levels)
}

func TestBuildIndexFullLevels(t *testing.T) {
	b := osm.NewDataSetBuilder()
	b.AddNode(osm.Node{ID: 1, Tags: osm.TagSet{{Key: "level", Value: "0.5"}}})
	b.AddNode(osm.Node{ID: 2, Tags: osm.TagSet{{Key: "level", Value: "1"}}})
	ds := b.Finish()
	idx := Build(ds)

	assert.Equal(t, []MapLevel{5, 10}, idx.Levels())
	assert.Equal(t, []MapLevel{10}, idx.FullLevels())
}

func TestParseBuildingRange(t *testing.T) {
	got := ParseBuildingRange("3", "0", "1")
	want := []MapLevel{-10, 0, 10, 20}
	assert.Equal(t, want, got)
}
