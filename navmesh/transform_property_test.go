package navmesh

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/osm"
)

// TestTransformProjectRoundTripsForArbitraryCoords is the property-based
// counterpart to TestTransformProjectUnprojectRoundTrips: for any point
// inside the bounding box the transform was centered on, Project then
// Unproject recovers the original coordinate, and distinct coordinates
// never collide on the same (x, z) — i.e. Project is injective.
func TestTransformProjectRoundTripsForArbitraryCoords(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bbox := osm.BBox{
			Min: osm.Coord{LatE7: 480000000, LonE7: 20000000},
			Max: osm.Coord{LatE7: 490000000, LonE7: 30000000},
		}
		tr := NewTransform(bbox, 3.2)

		latE7 := rapid.Int32Range(bbox.Min.LatE7, bbox.Max.LatE7).Draw(t, "latE7")
		lonE7 := rapid.Int32Range(bbox.Min.LonE7, bbox.Max.LonE7).Draw(t, "lonE7")
		c := osm.Coord{LatE7: latE7, LonE7: lonE7}

		x, z := tr.Project(c)
		got := tr.Unproject(x, z)

		if math.Abs(c.Lat()-got.Lat()) > 1e-6 {
			t.Fatalf("lat round-trip: want %v, got %v", c.Lat(), got.Lat())
		}
		if math.Abs(c.Lon()-got.Lon()) > 1e-6 {
			t.Fatalf("lon round-trip: want %v, got %v", c.Lon(), got.Lon())
		}

		other := osm.Coord{LatE7: rapid.Int32Range(bbox.Min.LatE7, bbox.Max.LatE7).Draw(t, "otherLatE7"), LonE7: lonE7}
		if other.LatE7 != c.LatE7 {
			ox, oz := tr.Project(other)
			if x == ox && z == oz {
				t.Fatalf("distinct coordinates %v and %v projected to the same point", c, other)
			}
		}
	})
}

// TestTransformHeightIsLinearInLevel checks that Height is an affine
// function of the human floor number for any settings, matching the
// linear stair interpolation property in spec §8 scenario 5.
func TestTransformHeightIsLinearInLevel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		heightPerLevel := float32(rapid.Float64Range(0.1, 10).Draw(t, "heightPerLevel"))
		bbox := sampleBBox()
		tr := NewTransform(bbox, heightPerLevel)

		l1 := rapid.IntRange(-50, 50).Draw(t, "l1") * 10
		l2 := rapid.IntRange(-50, 50).Draw(t, "l2") * 10

		h1 := tr.Height(level.MapLevel(l1))
		h2 := tr.Height(level.MapLevel(l2))

		wantDelta := float64(heightPerLevel) * (float64(l2-l1) / 10)
		gotDelta := float64(h2 - h1)
		if math.Abs(wantDelta-gotDelta) > 1e-3 {
			t.Fatalf("height delta not linear: want %v, got %v", wantDelta, gotDelta)
		}
	})
}
