package cmd

import (
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/indoorosm/mapcore/mapcss"
	"github.com/indoorosm/mapcore/mapdata"
	"github.com/indoorosm/mapcore/osm"
)

// mapFixture is the YAML boundary format this CLI accepts in place of a raw
// OSM wire-format reader (o5m/pbf/xml decoding is out of scope for this
// module, same as the MapCSS text grammar): a flat node/way/relation list
// fed straight through osm.Builder, mirroring how tests across the repo
// build an *osm.DataSet by hand.
type mapFixture struct {
	TimeZone   string             `yaml:"time_zone"`
	RegionCode string             `yaml:"region_code"`
	Nodes      []fixtureNode      `yaml:"nodes"`
	Ways       []fixtureWay       `yaml:"ways"`
	Relations  []fixtureRelation  `yaml:"relations"`
}

type fixtureNode struct {
	ID   int64             `yaml:"id"`
	Lat  float64           `yaml:"lat"`
	Lon  float64           `yaml:"lon"`
	Tags map[string]string `yaml:"tags"`
}

type fixtureWay struct {
	ID    int64             `yaml:"id"`
	Nodes []int64           `yaml:"nodes"`
	Tags  map[string]string `yaml:"tags"`
}

type fixtureMember struct {
	ID   int64  `yaml:"id"`
	Type string `yaml:"type"`
	Role string `yaml:"role"`
}

type fixtureRelation struct {
	ID      int64             `yaml:"id"`
	Members []fixtureMember   `yaml:"members"`
	Tags    map[string]string `yaml:"tags"`
}

func tagSet(m map[string]string) osm.TagSet {
	if len(m) == 0 {
		return nil
	}
	ts := make(osm.TagSet, 0, len(m))
	for k, v := range m {
		ts = append(ts, osm.Tag{Key: k, Value: v})
	}
	return ts
}

func memberType(s string) osm.Type {
	switch s {
	case "way":
		return osm.TypeWay
	case "relation":
		return osm.TypeRelation
	default:
		return osm.TypeNode
	}
}

// loadMapData reads a YAML map fixture from path and builds a MapData from
// it, the same way a loader assembles one from a decoded OSM extract.
func loadMapData(path string) (*mapdata.MapData, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fx mapFixture
	if err := yaml.Unmarshal(buf, &fx); err != nil {
		return nil, err
	}

	b := mapdata.NewBuilder()
	b.TimeZone = fx.TimeZone
	b.RegionCode = fx.RegionCode
	for _, n := range fx.Nodes {
		b.AddNode(osm.Node{
			ID:   osm.ID(n.ID),
			Pos:  osm.Coord{LatE7: int32(n.Lat * 1e7), LonE7: int32(n.Lon * 1e7)},
			Tags: tagSet(n.Tags),
		})
	}
	for _, w := range fx.Ways {
		nodes := make([]osm.ID, len(w.Nodes))
		for i, id := range w.Nodes {
			nodes[i] = osm.ID(id)
		}
		b.AddWay(osm.Way{ID: osm.ID(w.ID), Nodes: nodes, Tags: tagSet(w.Tags)})
	}
	for _, r := range fx.Relations {
		members := make([]osm.Member, len(r.Members))
		for i, m := range r.Members {
			members[i] = osm.Member{ID: osm.ID(m.ID), Type: memberType(m.Type), Role: m.Role}
		}
		b.AddRelation(osm.Relation{ID: osm.ID(r.ID), Members: members, Tags: tagSet(r.Tags)})
	}
	return b.Finish(), nil
}

// loadStyle reads a YAML rule list from path into an uncompiled Style.
func loadStyle(path string) (*mapcss.Style, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return mapcss.LoadStyleYAML(buf)
}
