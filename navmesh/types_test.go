package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLinkDirection(t *testing.T) {
	assert.Equal(t, LinkForward, ParseLinkDirection("forward"))
	assert.Equal(t, LinkBackward, ParseLinkDirection("backward"))
	assert.Equal(t, LinkBidirectional, ParseLinkDirection("bidirectional"))
	assert.Equal(t, LinkBidirectional, ParseLinkDirection(""))
	assert.Equal(t, LinkBidirectional, ParseLinkDirection("sideways"))
}

func TestTriangleSoupAddVertexAndTriangle(t *testing.T) {
	soup := &TriangleSoup{}
	assert.Equal(t, int32(0), soup.NumVerts())
	assert.Equal(t, int32(0), soup.NumTris())

	a := soup.addVertex(0, 0, 0)
	b := soup.addVertex(1, 0, 0)
	c := soup.addVertex(0, 0, 1)
	assert.Equal(t, int32(0), a)
	assert.Equal(t, int32(1), b)
	assert.Equal(t, int32(2), c)
	assert.Equal(t, int32(3), soup.NumVerts())

	soup.addTriangle(a, b, c, AreaWalkable)
	assert.Equal(t, int32(1), soup.NumTris())
	assert.Equal(t, []AreaType{AreaWalkable}, soup.Areas)
	assert.Equal(t, []int32{0, 1, 2}, soup.Tris)
}

func TestDefaultSettingsAreUsable(t *testing.T) {
	s := DefaultSettings()
	assert.Greater(t, s.CellSize, float32(0))
	assert.Greater(t, s.CellHeight, float32(0))
	assert.Greater(t, s.AgentHeight, s.AgentMaxClimb)
	assert.Greater(t, s.VertsPerPoly, int32(0))
	assert.Greater(t, s.HeightPerLevel, float32(0))
}
