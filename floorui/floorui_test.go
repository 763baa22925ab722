package floorui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/mapdata"
	"github.com/indoorosm/mapcore/osm"
)

func twoFloorDataSet(t *testing.T) *osm.DataSet {
	t.Helper()
	b := osm.NewDataSetBuilder()
	b.AddNode(osm.Node{ID: 1, Tags: osm.TagSet{{Key: "level", Value: "0"}}})
	b.AddNode(osm.Node{ID: 2, Tags: osm.TagSet{{Key: "level", Value: "1"}}})
	b.AddNode(osm.Node{ID: 3, Tags: osm.TagSet{{Key: "level", Value: "0.5"}}})
	return b.Finish()
}

func TestModelActiveLevelsExcludesHalfLevels(t *testing.T) {
	ds := twoFloorDataSet(t)
	m := New(mapdata.New(ds))

	assert.Equal(t, []level.MapLevel{0, 10}, m.ActiveLevels())
	assert.True(t, m.Has(0))
	assert.True(t, m.Has(10))
	assert.False(t, m.Has(5), "a mezzanine is not a floor-picker entry")
	assert.False(t, m.Has(20))
}

func TestBuildLevelChangeModelElevatorExplicitList(t *testing.T) {
	n := &osm.Node{ID: 9, Tags: osm.TagSet{
		{Key: "elevator", Value: "yes"},
		{Key: "level", Value: "-1;0;1;2"},
	}}
	model := BuildLevelChangeModel(osm.NodeElement(n), level.MapLevel(0))

	require.Equal(t, []level.MapLevel{-10, 0, 10, 20}, model.Levels)
	assert.True(t, model.HasMultipleLevelChanges())
	_, ok := model.Shortcut()
	assert.False(t, ok)
}

func TestBuildLevelChangeModelTwoFloorsOffersShortcut(t *testing.T) {
	n := &osm.Node{ID: 9, Tags: osm.TagSet{
		{Key: "elevator", Value: "yes"},
		{Key: "level", Value: "0;1"},
	}}
	model := BuildLevelChangeModel(osm.NodeElement(n), level.MapLevel(0))

	require.Equal(t, []level.MapLevel{0, 10}, model.Levels)
	assert.False(t, model.HasMultipleLevelChanges())

	other, ok := model.Shortcut()
	require.True(t, ok)
	assert.Equal(t, level.MapLevel(10), other)
}

func TestBuildLevelChangeModelShortcutAbsentWhenCurrentNotInSet(t *testing.T) {
	n := &osm.Node{ID: 9, Tags: osm.TagSet{{Key: "level", Value: "0;1"}}}
	model := BuildLevelChangeModel(osm.NodeElement(n), level.MapLevel(50))

	_, ok := model.Shortcut()
	assert.False(t, ok)
	assert.True(t, model.HasMultipleLevelChanges())
}

func TestBuildLevelChangeModelMergesBuildingRangeWithExplicitList(t *testing.T) {
	n := &osm.Node{ID: 9, Tags: osm.TagSet{
		{Key: "building:levels", Value: "3"},
		{Key: "building:min_level", Value: "0"},
		{Key: "building:levels:underground", Value: "1"},
		{Key: "level", Value: "5"}, // a floor outside the building range, still honored
	}}
	model := BuildLevelChangeModel(osm.NodeElement(n), level.MapLevel(0))

	// building range is floors -1,0,1,2 (underground=1, min=0, levels=3);
	// the explicit level=5 is merged in on top of that.
	assert.Equal(t, []level.MapLevel{-10, 0, 10, 20, 50}, model.Levels)
}

func TestBuildLevelChangeModelFallsBackToRepeatOn(t *testing.T) {
	n := &osm.Node{ID: 9, Tags: osm.TagSet{{Key: "repeat_on", Value: "0;1;2"}}}
	model := BuildLevelChangeModel(osm.NodeElement(n), level.MapLevel(10))

	require.Equal(t, []level.MapLevel{0, 10, 20}, model.Levels)
	assert.True(t, model.HasMultipleLevelChanges())
}
