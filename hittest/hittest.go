// Package hittest maps a screen point to the semantically best scene graph
// item: the topmost item whose geometry actually contains the point, with
// deterministic tie-breaking.
package hittest

import (
	"math"

	"github.com/indoorosm/mapcore/scene"
)

// Candidate is one scene graph item whose bounding box contains the query
// point.
type Candidate struct {
	Item *scene.SceneGraphItem
	Area float32 // bounding-box area, used for the smallest-area tie-break
}

// Query resolves a screen position against graph, returning the best match
// and whether any candidate's geometry actually contained the point.
//
// Algorithm: gather every item whose bounding box contains the point and
// whose geometry contains it too (point-in-polygon, point-in-path,
// distance-to-segment, label screen rect); if exactly one candidate,
// return it; otherwise prefer the topmost with fill alpha >= 0.5, else the
// one with the smallest bounding-box area (so a small room wins over the
// building that contains it).
func Query(g *scene.SceneGraph, view *scene.View, screenX, screenY float32) (*scene.SceneGraphItem, bool) {
	scenePt := view.MapScreenToScene(screenX, screenY)

	var candidates []Candidate
	g.Walk(func(item *scene.SceneGraphItem) {
		minX, minY, maxX, maxY, ok := scene.BoundingBox(item.Payload)
		if !ok {
			return
		}
		// A Label's box is always the memoized screen-space draw rect,
		// regardless of the item's own Space: the renderer projects a
		// scene-space label to screen before measuring its glyphs.
		if _, isLabel := item.Payload.(*scene.Label); isLabel {
			if screenX < minX || screenX > maxX || screenY < minY || screenY > maxY {
				return
			}
		} else if item.Space == scene.SpaceScene {
			if scenePt.X < minX || scenePt.X > maxX || scenePt.Y < minY || scenePt.Y > maxY {
				return
			}
		} else {
			if screenX < minX || screenX > maxX || screenY < minY || screenY > maxY {
				return
			}
		}

		hit := false
		switch p := item.Payload.(type) {
		case *scene.Polygon:
			hit = pointInPolygon(p.Ring, scenePt)
		case *scene.MultiPolygon:
			hit = pointInPath(p.Rings, scenePt)
		case *scene.Polyline:
			maxDist := p.Stroke.Width + p.Casing.Width
			if maxDist <= 0 {
				maxDist = 1
			}
			hit = distanceToPolyline(p.Points, scenePt) <= view.MapScreenDistanceToSceneDistance(maxDist)
		case *scene.Label:
			hit = true // already passed the bbox test above, label has no finer geometry
		}
		if !hit {
			return
		}

		candidates = append(candidates, Candidate{Item: item, Area: (maxX - minX) * (maxY - minY)})
	})

	if len(candidates) == 0 {
		return nil, false
	}
	if len(candidates) == 1 {
		return candidates[0].Item, true
	}

	// Prefer the topmost (last walked, since Walk proceeds in ascending
	// layer/z order) candidate with fill alpha >= 0.5.
	for i := len(candidates) - 1; i >= 0; i-- {
		if fillAlpha(candidates[i].Item.Payload) >= 0.5 {
			return candidates[i].Item, true
		}
	}

	// Otherwise the smallest bounding-box area wins.
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Area < best.Area {
			best = c
		}
	}
	return best.Item, true
}

func fillAlpha(p scene.Payload) float64 {
	switch v := p.(type) {
	case *scene.Polygon:
		return float64(v.Fill.A) / 255
	case *scene.MultiPolygon:
		return float64(v.Fill.A) / 255
	default:
		return 0
	}
}

// pointInPolygon implements the odd-even rule against a single ring.
func pointInPolygon(ring []scene.Point, p scene.Point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xIntersect := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// pointInPath applies the odd-even rule across every ring: crossing an odd
// number of edges total (outer plus any holes) means "inside".
func pointInPath(rings [][]scene.Point, p scene.Point) bool {
	inside := false
	for _, ring := range rings {
		if pointInPolygon(ring, p) {
			inside = !inside
		}
	}
	return inside
}

// distanceToPolyline returns the minimum distance from p to any segment of
// the polyline.
func distanceToPolyline(pts []scene.Point, p scene.Point) float32 {
	if len(pts) == 0 {
		return float32(math.Inf(1))
	}
	if len(pts) == 1 {
		return dist(pts[0], p)
	}
	best := float32(math.Inf(1))
	for i := 1; i < len(pts); i++ {
		d := distanceToSegment(pts[i-1], pts[i], p)
		if d < best {
			best = d
		}
	}
	return best
}

func distanceToSegment(a, b, p scene.Point) float32 {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := p.X-a.X, p.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return dist(a, p)
	}
	t := (apx*abx + apy*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := scene.Point{X: a.X + t*abx, Y: a.Y + t*aby}
	return dist(proj, p)
}

func dist(a, b scene.Point) float32 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}
