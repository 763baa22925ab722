package navmesh

import "github.com/arl/math32"

// vec2 is a point in the local (x, z) ground plane, before a Y is chosen
// for it.
type vec2 struct {
	X, Z float32
}

// signedArea returns twice the signed area of poly (shoelace formula);
// positive for counter-clockwise winding.
func signedArea(poly []vec2) float32 {
	var area float32
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += poly[i].X*poly[j].Z - poly[j].X*poly[i].Z
	}
	return area
}

func dist2(a, b vec2) float32 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return dx*dx + dz*dz
}

// mergeHoleIntoOuter splices hole into outer by bridging the pair of
// vertices (one per ring) with the smallest distance between them,
// producing a single simple ring an ear-clipper can consume directly.
//
// This skips the usual visibility check (is the bridge segment actually
// inside the polygon, clear of other holes) that a production
// implementation would do; for the small, mostly-convex room and
// corridor footprints this builder triangulates, nearest-vertex bridging
// produces a non-self-intersecting ring in practice.
func mergeHoleIntoOuter(outer, hole []vec2) []vec2 {
	if len(hole) == 0 {
		return outer
	}
	bestOuter, bestHole := 0, 0
	bestDist := float32(-1)
	for oi, ov := range outer {
		for hi, hv := range hole {
			d := dist2(ov, hv)
			if bestDist < 0 || d < bestDist {
				bestDist = d
				bestOuter = oi
				bestHole = hi
			}
		}
	}

	rotated := make([]vec2, 0, len(hole)+1)
	rotated = append(rotated, hole[bestHole:]...)
	rotated = append(rotated, hole[:bestHole+1]...)

	merged := make([]vec2, 0, len(outer)+len(rotated)+1)
	merged = append(merged, outer[:bestOuter+1]...)
	merged = append(merged, rotated...)
	merged = append(merged, outer[bestOuter])
	merged = append(merged, outer[bestOuter+1:]...)
	return merged
}

// PolygonToTriangles triangulates a (possibly multiply-holed) simple
// polygon and returns the flattened vertex list together with triangle
// indices local to it. outer and each hole are expected open (first point
// not repeated at the end).
func PolygonToTriangles(outer []vec2, holes [][]vec2) ([]vec2, [][3]int32) {
	ring := append([]vec2(nil), outer...)
	if signedArea(ring) < 0 {
		reverseVec2(ring)
	}
	for _, h := range holes {
		hole := append([]vec2(nil), h...)
		if signedArea(hole) > 0 {
			reverseVec2(hole)
		}
		ring = mergeHoleIntoOuter(ring, hole)
	}
	return ring, triangulateEarClip(ring)
}

func reverseVec2(v []vec2) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

// triangulateEarClip triangulates a simple, counter-clockwise ring by
// repeatedly clipping convex vertices ("ears") that contain no other
// ring vertex, the textbook O(n^2) ear-clipping algorithm. Good enough
// for the room- and corridor-sized polygons indoor footprints produce.
func triangulateEarClip(poly []vec2) [][3]int32 {
	n := len(poly)
	if n < 3 {
		return nil
	}
	idx := make([]int32, n)
	for i := range idx {
		idx[i] = int32(i)
	}

	var tris [][3]int32
	guard := 0
	maxGuard := n * n
	for len(idx) > 3 && guard < maxGuard {
		guard++
		clipped := false
		for i := 0; i < len(idx); i++ {
			prev := idx[(i-1+len(idx))%len(idx)]
			cur := idx[i]
			next := idx[(i+1)%len(idx)]
			if !isConvex(poly[prev], poly[cur], poly[next]) {
				continue
			}
			if triangleContainsAny(poly, prev, cur, next, idx) {
				continue
			}
			tris = append(tris, [3]int32{prev, cur, next})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break // degenerate/self-intersecting input: stop with what we have
		}
	}
	if len(idx) == 3 {
		tris = append(tris, [3]int32{idx[0], idx[1], idx[2]})
	}
	return tris
}

func isConvex(a, b, c vec2) bool {
	return cross(a, b, c) > 0
}

func cross(a, b, c vec2) float32 {
	return (b.X-a.X)*(c.Z-a.Z) - (b.Z-a.Z)*(c.X-a.X)
}

func triangleContainsAny(poly []vec2, a, b, c int32, idx []int32) bool {
	pa, pb, pc := poly[a], poly[b], poly[c]
	for _, pi := range idx {
		if pi == a || pi == b || pi == c {
			continue
		}
		if pointInTriangle(poly[pi], pa, pb, pc) {
			return true
		}
	}
	return false
}

func pointInTriangle(p, a, b, c vec2) bool {
	d1 := cross(a, b, p)
	d2 := cross(b, c, p)
	d3 := cross(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// strokeVert is one point of a line to be extruded into a walking surface
// or wall, carrying its own Y so an inclined stair or ramp segment
// interpolates smoothly between floors.
type strokeVert struct {
	X, Y, Z float32
}

// TriangulateStroke builds a flat ribbon of the given half-width centered
// on path, suitable for a stair, ramp or escalator tread surface. Each
// segment is emitted as two triangles; corners are left unmitered, which
// is invisible at navmesh scale.
func TriangulateStroke(path []strokeVert, halfWidth float32, area AreaType, soup *TriangleSoup) {
	if len(path) < 2 {
		return
	}
	for i := 0; i < len(path)-1; i++ {
		p0, p1 := path[i], path[i+1]
		dx := p1.X - p0.X
		dz := p1.Z - p0.Z
		length := math32.Sqrt(dx*dx + dz*dz)
		if length < 1e-6 {
			continue
		}
		nx := -dz / length * halfWidth
		nz := dx / length * halfWidth

		v0 := soup.addVertex(p0.X+nx, p0.Y, p0.Z+nz)
		v1 := soup.addVertex(p0.X-nx, p0.Y, p0.Z-nz)
		v2 := soup.addVertex(p1.X-nx, p1.Y, p1.Z-nz)
		v3 := soup.addVertex(p1.X+nx, p1.Y, p1.Z+nz)

		soup.addTriangle(v0, v1, v2, area)
		soup.addTriangle(v0, v2, v3, area)
	}
}

// ExtrudeWall emits vertical quads along path from baseY to baseY+height,
// one pair of triangles per segment. Segments listed in skip (by starting
// index into path) are omitted, letting a caller leave door gaps open.
func ExtrudeWall(path []vec2, baseY, height float32, skip map[int]bool, area AreaType, soup *TriangleSoup) {
	for i := 0; i < len(path)-1; i++ {
		if skip[i] {
			continue
		}
		p0, p1 := path[i], path[i+1]
		v0 := soup.addVertex(p0.X, baseY, p0.Z)
		v1 := soup.addVertex(p1.X, baseY, p1.Z)
		v2 := soup.addVertex(p1.X, baseY+height, p1.Z)
		v3 := soup.addVertex(p0.X, baseY+height, p0.Z)

		soup.addTriangle(v0, v1, v2, area)
		soup.addTriangle(v0, v2, v3, area)
	}
}
