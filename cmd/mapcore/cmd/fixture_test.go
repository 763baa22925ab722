package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indoorosm/mapcore/osm"
)

const testFixtureYAML = `
time_zone: Europe/Paris
nodes:
  - id: 1
    lat: 48.8566
    lon: 2.3522
    tags:
      level: "0"
  - id: 2
    lat: 48.8567
    lon: 2.3523
    tags:
      level: "0"
  - id: 3
    lat: 48.8566
    lon: 2.3524
    tags:
      level: "0"
ways:
  - id: 10
    nodes: [1, 2, 3, 1]
    tags:
      building: "yes"
`

func TestLoadMapDataParsesFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yml")
	require.NoError(t, os.WriteFile(path, []byte(testFixtureYAML), 0o644))

	md, err := loadMapData(path)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Paris", md.TimeZone)
	require.Len(t, md.DataSet.Nodes(), 3)
	require.Len(t, md.DataSet.Ways(), 1)
	assert.False(t, md.BBox.Empty())

	way, ok := md.DataSet.WayByID(osm.ID(10))
	require.True(t, ok)
	assert.Equal(t, "yes", way.Tags.Find("building"))
	assert.True(t, way.Closed())
}

func TestLoadMapDataMissingFile(t *testing.T) {
	_, err := loadMapData(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
