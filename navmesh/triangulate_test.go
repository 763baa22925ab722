package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x0, z0, x1, z1 float32) []vec2 {
	return []vec2{{x0, z0}, {x1, z0}, {x1, z1}, {x0, z1}}
}

func TestSignedAreaSignByWinding(t *testing.T) {
	ccw := square(0, 0, 1, 1)
	assert.Greater(t, signedArea(ccw), float32(0))

	cw := []vec2{ccw[0], ccw[3], ccw[2], ccw[1]}
	assert.Less(t, signedArea(cw), float32(0))
}

func TestPolygonToTrianglesSimpleSquare(t *testing.T) {
	outer := square(0, 0, 2, 2)
	verts, tris := PolygonToTriangles(outer, nil)

	require.Len(t, verts, 4)
	require.Len(t, tris, 2)

	var area float32
	for _, tr := range tris {
		a, b, c := verts[tr[0]], verts[tr[1]], verts[tr[2]]
		area += cross(a, b, c)
	}
	assert.InDelta(t, 8, area, 1e-4) // twice the square's true area (2x2=4)
}

func TestPolygonToTrianglesClockwiseInputIsNormalized(t *testing.T) {
	outer := []vec2{{0, 0}, {0, 2}, {2, 2}, {2, 0}} // clockwise
	_, tris := PolygonToTriangles(outer, nil)
	assert.NotEmpty(t, tris)
}

func TestPolygonToTrianglesWithHole(t *testing.T) {
	outer := square(0, 0, 10, 10)
	hole := square(4, 4, 6, 6)
	verts, tris := PolygonToTriangles(outer, [][]vec2{hole})

	require.NotEmpty(t, tris)

	var area float32
	for _, tr := range tris {
		a, b, c := verts[tr[0]], verts[tr[1]], verts[tr[2]]
		area += cross(a, b, c)
	}
	// the hole removes real area from the outer square (2x area 200), and
	// the bridged ring must never wind backwards into a negative total.
	assert.Greater(t, area, float32(0))
	assert.Less(t, area, float32(200))
}

func TestTriangulateStrokeEmitsTwoTrianglesPerSegment(t *testing.T) {
	soup := &TriangleSoup{}
	path := []strokeVert{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 10}}
	TriangulateStroke(path, 0.5, AreaWalkable, soup)

	assert.Equal(t, int32(4), soup.NumTris())
	assert.Equal(t, int32(8), soup.NumVerts())
	for _, a := range soup.Areas {
		assert.Equal(t, AreaWalkable, a)
	}
}

func TestTriangulateStrokeDegenerateSegmentSkipped(t *testing.T) {
	soup := &TriangleSoup{}
	path := []strokeVert{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 5, Y: 0, Z: 0}}
	TriangulateStroke(path, 0.5, AreaWalkable, soup)

	assert.Equal(t, int32(2), soup.NumTris()) // only the second, non-degenerate segment
}

func TestExtrudeWallSkipsDoorSegments(t *testing.T) {
	soup := &TriangleSoup{}
	path := []vec2{{0, 0}, {1, 0}, {2, 0}}
	ExtrudeWall(path, 0, 3, map[int]bool{0: true}, AreaSolid, soup)

	assert.Equal(t, int32(2), soup.NumTris()) // segment 0 skipped, segment 1 kept
	for _, a := range soup.Areas {
		assert.Equal(t, AreaSolid, a)
	}
}
