package navmesh

import (
	"fmt"

	"github.com/arl/math32"
	"github.com/indoorosm/mapcore/detour"
	"github.com/indoorosm/mapcore/recast"
)

// dtOffMeshConBidir is Detour's off-mesh connection direction bit: zero
// means A-to-B only, non-zero means bidirectional.
const dtOffMeshConBidir uint8 = 1

// VoxelizedMesh is the final output of the navmesh pipeline: a single-tile
// Detour navigation mesh plus a query object ready to answer path requests
// across every floor BuildResult covered.
type VoxelizedMesh struct {
	NavMesh *detour.NavMesh
	Query   *detour.NavMeshQuery
}

// voxelizeOutcome is the payload carried over the handoff channel between
// the VoxelizeAsync worker goroutine and the goroutine that invokes the
// caller's completion callback.
type voxelizeOutcome struct {
	mesh *VoxelizedMesh
	err  error
}

// VoxelizeAsync runs Voxelize on a background goroutine and hands the
// outcome back to onFinished through a single buffered channel, matching
// the builder's "queued completion callback" handoff to its worker half.
// br is owned by the worker goroutine for the duration of the call; the
// caller must not touch it again until onFinished has fired. onFinished
// fires exactly once: on failure the partial navmesh is discarded and mesh
// is nil, but finished still fires.
func VoxelizeAsync(br *BuildResult, onFinished func(mesh *VoxelizedMesh, err error)) {
	done := make(chan voxelizeOutcome, 1)
	go func() {
		mesh, err := Voxelize(br)
		if err != nil {
			mesh = nil
		}
		done <- voxelizeOutcome{mesh: mesh, err: err}
	}()
	go func() {
		outcome := <-done
		onFinished(outcome.mesh, outcome.err)
	}()
}

// Voxelize is the synchronous body of the worker-thread half of the
// pipeline: it takes the triangle soup and off-mesh connections a Builder
// produced and feeds them through the voxel heightfield, region, contour
// and polygon mesh stages before handing the result to Detour. Safe to call
// once BuildResult's producing Builder.Build has returned; it touches no
// OSM data. Most callers want VoxelizeAsync, which wraps this with the
// worker handoff; Voxelize stays exported for callers that are already on
// a throwaway goroutine and have no need for the channel indirection.
func Voxelize(br *BuildResult) (*VoxelizedMesh, error) {
	soup := br.Soup
	if soup.NumTris() == 0 {
		return nil, fmt.Errorf("navmesh: empty triangle soup")
	}
	settings := br.Settings

	cfg := recast.Config{}
	cfg.Cs = settings.CellSize
	cfg.Ch = settings.CellHeight
	cfg.WalkableSlopeAngle = settings.WalkableSlopeAngle
	cfg.WalkableHeight = int32(math32.Ceil(settings.AgentHeight / cfg.Ch))
	cfg.WalkableClimb = int32(math32.Floor(settings.AgentMaxClimb / cfg.Ch))
	cfg.WalkableRadius = int32(math32.Ceil(settings.AgentRadius / cfg.Cs))
	cfg.MaxEdgeLen = int32(settings.EdgeMaxLen / settings.CellSize)
	cfg.MaxSimplificationError = settings.EdgeMaxError
	cfg.MinRegionArea = int32(settings.RegionMinSize * settings.RegionMinSize)
	cfg.MergeRegionArea = int32(settings.RegionMergeSize * settings.RegionMergeSize)
	cfg.MaxVertsPerPoly = settings.VertsPerPoly
	if settings.DetailSampleDist < 0.9 {
		cfg.DetailSampleDist = 0
	} else {
		cfg.DetailSampleDist = settings.CellSize * settings.DetailSampleDist
	}
	cfg.DetailSampleMaxError = settings.CellHeight * settings.DetailSampleMaxError

	recast.CalcBounds(soup.Verts, soup.NumVerts(), cfg.BMin[:], cfg.BMax[:])
	cfg.Width, cfg.Height = recast.CalcGridSize(cfg.BMin, cfg.BMax, cfg.Cs)

	logCtx := recast.NewLogContext(true)
	buildCtx := recast.NewBuildContext(true)

	solid := recast.NewHeightfield()
	if !solid.Create(logCtx, cfg.Width, cfg.Height, cfg.BMin[:], cfg.BMax[:], cfg.Cs, cfg.Ch) {
		return nil, fmt.Errorf("navmesh: could not create voxel heightfield")
	}

	triAreas := soupAreas(soup)
	if !recast.RasterizeTriangles(buildCtx, soup.Verts, soup.NumVerts(), soup.Tris, triAreas, soup.NumTris(), solid, cfg.WalkableClimb) {
		return nil, fmt.Errorf("navmesh: could not rasterize triangle soup")
	}

	recast.FilterLowHangingWalkableObstacles(logCtx, cfg.WalkableClimb, solid)
	recast.FilterLedgeSpans(logCtx, cfg.WalkableHeight, cfg.WalkableClimb, solid)
	recast.FilterWalkableLowHeightSpans(logCtx, cfg.WalkableHeight, solid)

	chf := &recast.CompactHeightfield{}
	if !recast.BuildCompactHeightfield(buildCtx, cfg.WalkableHeight, cfg.WalkableClimb, solid, chf) {
		return nil, fmt.Errorf("navmesh: could not build compact heightfield")
	}

	if !recast.ErodeWalkableArea(logCtx, cfg.WalkableRadius, chf) {
		return nil, fmt.Errorf("navmesh: could not erode walkable area")
	}

	// Corridors and rooms are small, disjoint and rarely need the
	// watershed algorithm's nicer tessellation: monotone partitioning is
	// faster and never leaves holes or overlaps, which matters more here
	// than polygon shape.
	if !recast.BuildRegionsMonotone(buildCtx, chf, 0, cfg.MinRegionArea, cfg.MergeRegionArea) {
		return nil, fmt.Errorf("navmesh: could not build regions")
	}

	cset := &recast.ContourSet{}
	if !recast.BuildContours(buildCtx, chf, cfg.MaxSimplificationError, cfg.MaxEdgeLen, cset, recast.ContourTessWallEdges) {
		return nil, fmt.Errorf("navmesh: could not build contours")
	}

	pmesh, ok := recast.BuildPolyMesh(buildCtx, cset, cfg.MaxVertsPerPoly)
	if !ok {
		return nil, fmt.Errorf("navmesh: could not triangulate contours")
	}

	dmesh, ok := recast.BuildPolyMeshDetail(buildCtx, pmesh, chf, cfg.DetailSampleDist, cfg.DetailSampleMaxError)
	if !ok {
		return nil, fmt.Errorf("navmesh: could not build detail mesh")
	}

	assignPolyFlags(pmesh)

	params := detour.NavMeshCreateParams{
		Verts:            pmesh.Verts,
		VertCount:        pmesh.NVerts,
		Polys:            pmesh.Polys,
		PolyAreas:        pmesh.Areas,
		PolyFlags:        pmesh.Flags,
		PolyCount:        pmesh.NPolys,
		Nvp:              pmesh.Nvp,
		DetailMeshes:     dmesh.Meshes,
		DetailVerts:      dmesh.Verts,
		DetailVertsCount: dmesh.NVerts,
		DetailTris:       dmesh.Tris,
		DetailTriCount:   dmesh.NTris,
		WalkableHeight:   settings.AgentHeight,
		WalkableRadius:   settings.AgentRadius,
		WalkableClimb:    settings.AgentMaxClimb,
		Cs:               cfg.Cs,
		Ch:               cfg.Ch,
		BuildBvTree:      true,
	}
	copy(params.BMin[:], pmesh.BMin[:])
	copy(params.BMax[:], pmesh.BMax[:])
	fillOffMeshConnections(&params, br.Connections)

	navData, err := detour.CreateNavMeshData(&params)
	if err != nil {
		return nil, fmt.Errorf("navmesh: could not build detour nav mesh data: %w", err)
	}

	navMesh := &detour.NavMesh{}
	if status := navMesh.InitForSingleTile(navData, 0); detour.StatusFailed(status) {
		return nil, fmt.Errorf("navmesh: could not init detour nav mesh: %v", status)
	}

	status, query := detour.NewNavMeshQuery(navMesh, 2048)
	if detour.StatusFailed(status) {
		return nil, fmt.Errorf("navmesh: could not init detour nav mesh query: %v", status)
	}

	return &VoxelizedMesh{NavMesh: navMesh, Query: query}, nil
}

// soupAreas converts the soup's per-triangle AreaType into the uint8 area
// ids recast works with: everything but a wall extrusion is walkable floor,
// a wall rasterizes into the heightfield as a plain (non-walkable)
// obstruction so the compact heightfield still carves the right headroom
// gap above it.
func soupAreas(soup *TriangleSoup) []uint8 {
	out := make([]uint8, len(soup.Areas))
	for i, a := range soup.Areas {
		if a == AreaSolid {
			out[i] = recast.RC_NULL_AREA
		} else {
			out[i] = recast.RC_WALKABLE_AREA
		}
	}
	return out
}

// assignPolyFlags sets a PolyFlagWalk on every walkable polygon recast
// produced; door and link areas are assigned at the OffMeshConnection
// level, never as polygon area ids, since a door is just a gap left in a
// wall rather than its own floor polygon.
func assignPolyFlags(pmesh *recast.PolyMesh) {
	for i := int32(0); i < pmesh.NPolys; i++ {
		if pmesh.Areas[i] == recast.RC_WALKABLE_AREA {
			pmesh.Flags[i] = uint16(PolyFlagWalk)
		}
	}
}

// fillOffMeshConnections packs the builder's off-mesh connections (elevator
// and escalator hops) into Detour's flat per-field arrays.
func fillOffMeshConnections(params *detour.NavMeshCreateParams, conns []OffMeshConnection) {
	n := int32(len(conns))
	params.OffMeshConCount = n
	if n == 0 {
		return
	}
	params.OffMeshConVerts = make([]float32, 0, n*6)
	params.OffMeshConRad = make([]float32, 0, n)
	params.OffMeshConDir = make([]uint8, 0, n)
	params.OffMeshConAreas = make([]uint8, 0, n)
	params.OffMeshConFlags = make([]uint16, 0, n)
	params.OffMeshConUserID = make([]uint32, 0, n)

	for _, c := range conns {
		params.OffMeshConVerts = append(params.OffMeshConVerts, c.AX, c.AY, c.AZ, c.BX, c.BY, c.BZ)
		params.OffMeshConRad = append(params.OffMeshConRad, c.Radius)
		if c.Direction == LinkBidirectional {
			params.OffMeshConDir = append(params.OffMeshConDir, dtOffMeshConBidir)
		} else {
			params.OffMeshConDir = append(params.OffMeshConDir, 0)
		}
		params.OffMeshConAreas = append(params.OffMeshConAreas, uint8(c.Area))
		params.OffMeshConFlags = append(params.OffMeshConFlags, uint16(c.Flags))
		params.OffMeshConUserID = append(params.OffMeshConUserID, c.UserID)
	}
}
