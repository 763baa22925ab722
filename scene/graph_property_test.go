package scene

import (
	"sort"
	"testing"

	"pgregory.net/rapid"
)

// TestSceneGraphFinalizeOrdersByLayerThenZIndex is the property-based
// counterpart to the table tests in scene_test.go: for any sequence of
// items added in any order, Finalize leaves them sorted by (layer, z)
// lexicographically, and items sharing a (layer, z) key keep their
// original relative order.
func TestSceneGraphFinalizeOrdersByLayerThenZIndex(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		layers := []string{"ground", "walls", "labels", "overlay"}

		g := NewSceneGraph()
		type inserted struct {
			layer string
			z     float32
			seq   int
		}
		var want []inserted
		for i := 0; i < n; i++ {
			layer := layers[rapid.IntRange(0, len(layers)-1).Draw(t, "layerIdx")]
			z := float32(rapid.IntRange(-3, 3).Draw(t, "z"))
			g.Add(SceneGraphItem{Layer: layer, ZIndex: z})
			want = append(want, inserted{layer: layer, z: z, seq: i})
		}
		g.Finalize()

		sort.SliceStable(want, func(i, j int) bool {
			if want[i].layer != want[j].layer {
				return want[i].layer < want[j].layer
			}
			return want[i].z < want[j].z
		})

		got := g.Items()
		if len(got) != len(want) {
			t.Fatalf("item count: want %d, got %d", len(want), len(got))
		}
		for i := range got {
			if got[i].Layer != want[i].layer || got[i].ZIndex != want[i].z || got[i].seq != want[i].seq {
				t.Fatalf("item %d: want (%s,%v,#%d), got (%s,%v,#%d)", i, want[i].layer, want[i].z, want[i].seq, got[i].Layer, got[i].ZIndex, got[i].seq)
			}
		}

		for i := 1; i < len(got); i++ {
			a, b := got[i-1], got[i]
			if a.Layer > b.Layer || (a.Layer == b.Layer && a.ZIndex > b.ZIndex) {
				t.Fatalf("ordering violated between item %d and %d", i-1, i)
			}
		}
	})
}

// TestViewScreenSceneRoundTrips is the property-based counterpart to spec
// §8's coordinate round-trip invariant: mapSceneToScreen(mapScreenToScene(p))
// must recover p within a pixel, at any zoom (device pixel ratio 1).
func TestViewScreenSceneRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := &View{Screen: ScreenSize{Width: 800, Height: 600}, DevicePixelRatio: 1}
		v.Zoom = rapid.IntRange(-4, 10).Draw(t, "zoom")
		v.centerAt(0, 0)

		sx := float32(rapid.Float64Range(0, 800).Draw(t, "sx"))
		sy := float32(rapid.Float64Range(0, 600).Draw(t, "sy"))

		p := v.MapScreenToScene(sx, sy)
		gotX, gotY := v.MapSceneToScreen(p)

		if diff := gotX - sx; diff > 1 || diff < -1 {
			t.Fatalf("x round-trip off by more than a pixel: %v vs %v", sx, gotX)
		}
		if diff := gotY - sy; diff > 1 || diff < -1 {
			t.Fatalf("y round-trip off by more than a pixel: %v vs %v", sy, gotY)
		}
	})
}
