package navmesh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indoorosm/mapcore/detour"
	"github.com/indoorosm/mapcore/recast"
)

func TestSoupAreasMapsSolidToNullArea(t *testing.T) {
	soup := &TriangleSoup{Areas: []AreaType{AreaWalkable, AreaSolid, AreaElevator, AreaEscalator}}
	got := soupAreas(soup)

	require.Len(t, got, 4)
	assert.Equal(t, uint8(recast.RC_WALKABLE_AREA), got[0])
	assert.Equal(t, uint8(recast.RC_NULL_AREA), got[1])
	assert.Equal(t, uint8(recast.RC_WALKABLE_AREA), got[2], "off-mesh-link source areas still rasterize as walkable floor")
	assert.Equal(t, uint8(recast.RC_WALKABLE_AREA), got[3])
}

func TestAssignPolyFlagsOnlyWalkablePolysGetWalkFlag(t *testing.T) {
	pmesh := &recast.PolyMesh{
		NPolys: 3,
		Areas:  []uint8{recast.RC_WALKABLE_AREA, recast.RC_NULL_AREA, recast.RC_WALKABLE_AREA},
		Flags:  make([]uint16, 3),
	}
	assignPolyFlags(pmesh)

	assert.Equal(t, uint16(PolyFlagWalk), pmesh.Flags[0])
	assert.Equal(t, uint16(0), pmesh.Flags[1])
	assert.Equal(t, uint16(PolyFlagWalk), pmesh.Flags[2])
}

func TestFillOffMeshConnectionsEmpty(t *testing.T) {
	params := &detour.NavMeshCreateParams{}
	fillOffMeshConnections(params, nil)
	assert.Equal(t, int32(0), params.OffMeshConCount)
	assert.Nil(t, params.OffMeshConVerts)
}

func TestFillOffMeshConnectionsPacksDirectionAndFields(t *testing.T) {
	conns := []OffMeshConnection{
		{AX: 0, AY: 1, AZ: 2, BX: 3, BY: 4, BZ: 5, Radius: 0.4, Area: AreaElevator, Flags: PolyFlagElevator, Direction: LinkBidirectional, UserID: 9},
		{AX: 6, AY: 7, AZ: 8, BX: 9, BY: 10, BZ: 11, Radius: 0.3, Area: AreaEscalator, Flags: PolyFlagEscalator, Direction: LinkForward, UserID: 11},
	}

	params := &detour.NavMeshCreateParams{}
	fillOffMeshConnections(params, conns)

	assert.Equal(t, int32(2), params.OffMeshConCount)
	require.Len(t, params.OffMeshConVerts, 12)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5}, params.OffMeshConVerts[:6])
	assert.Equal(t, []float32{0.4, 0.3}, params.OffMeshConRad)
	assert.Equal(t, []uint8{dtOffMeshConBidir, 0}, params.OffMeshConDir)
	assert.Equal(t, []uint8{uint8(AreaElevator), uint8(AreaEscalator)}, params.OffMeshConAreas)
	assert.Equal(t, []uint16{uint16(PolyFlagElevator), uint16(PolyFlagEscalator)}, params.OffMeshConFlags)
	assert.Equal(t, []uint32{9, 11}, params.OffMeshConUserID)
}

func TestVoxelizeRejectsEmptySoup(t *testing.T) {
	br := &BuildResult{Soup: &TriangleSoup{}, Settings: DefaultSettings()}
	_, err := Voxelize(br)
	assert.Error(t, err)
}

func TestVoxelizeAsyncDiscardsMeshAndStillSignalsFinishedOnFailure(t *testing.T) {
	br := &BuildResult{Soup: &TriangleSoup{}, Settings: DefaultSettings()}

	finished := make(chan struct{})
	var gotMesh *VoxelizedMesh
	var gotErr error
	VoxelizeAsync(br, func(mesh *VoxelizedMesh, err error) {
		gotMesh, gotErr = mesh, err
		close(finished)
	})

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("onFinished never fired")
	}

	assert.Nil(t, gotMesh, "partial navmesh must be discarded on failure")
	assert.Error(t, gotErr)
}
