// Package navmesh turns a MapData snapshot into the triangle soup and
// off-mesh connections a solid-voxel navmesh generator needs, then drives
// that generator to produce a routable detour.NavMesh spanning every floor
// of a building.
package navmesh

import "github.com/indoorosm/mapcore/mapcss"

// AreaType is the per-triangle / per-off-mesh-connection area id this
// builder assigns. It replaces the generic ground/water/road/door set a
// terrain sample would use: everything here is either plain floor, a
// door gap, or one of the two vertical-connection kinds.
type AreaType uint8

const (
	AreaWalkable AreaType = iota
	AreaDoor
	AreaElevator
	AreaEscalator
	// AreaSolid marks a triangle (a wall extrusion) that should rasterize
	// as an obstruction rather than walkable floor: present in the soup so
	// the voxelizer carves the right gap above it, never itself walkable.
	AreaSolid
)

// PolyFlags are the traversal flags detour assigns per polygon / off-mesh
// connection, queried by a path filter to include or exclude a class of
// connection (e.g. "no elevators" for a wheelchair-unfriendly route).
type PolyFlags uint16

const (
	PolyFlagWalk PolyFlags = 1 << iota
	PolyFlagDoor
	PolyFlagElevator
	PolyFlagEscalator
	PolyFlagDisabled PolyFlags = 0x8000
)

// LinkDirection is the permitted travel direction of an off-mesh
// connection, as declared by a link rule's "direction" property.
type LinkDirection uint8

const (
	LinkForward LinkDirection = iota
	LinkBackward
	LinkBidirectional
)

// ParseLinkDirection resolves a declared direction value, defaulting to
// bidirectional for an empty or unrecognized value.
func ParseLinkDirection(raw string) LinkDirection {
	switch raw {
	case "forward":
		return LinkForward
	case "backward":
		return LinkBackward
	default:
		return LinkBidirectional
	}
}

// TriangleSoup is the builder's main-thread output: flat vertex/triangle
// arrays plus a parallel per-triangle area id, in the layout the downstream
// voxelizer consumes directly (recast.RasterizeTriangles wants exactly
// this shape).
type TriangleSoup struct {
	Verts []float32 // (x, y, z) * NumVerts
	Tris  []int32   // (a, b, c) vertex index * NumTris
	Areas []AreaType
}

// NumVerts returns the number of vertices in the soup.
func (s *TriangleSoup) NumVerts() int32 { return int32(len(s.Verts) / 3) }

// NumTris returns the number of triangles in the soup.
func (s *TriangleSoup) NumTris() int32 { return int32(len(s.Tris) / 3) }

// addVertex appends one vertex and returns its index.
func (s *TriangleSoup) addVertex(x, y, z float32) int32 {
	idx := s.NumVerts()
	s.Verts = append(s.Verts, x, y, z)
	return idx
}

// addTriangle appends one triangle referencing three already-added vertex
// indices, tagged with the given area.
func (s *TriangleSoup) addTriangle(a, b, c int32, area AreaType) {
	s.Tris = append(s.Tris, a, b, c)
	s.Areas = append(s.Areas, area)
}

// OffMeshConnection is one user-navigable shortcut outside the walkable
// mesh surface: an elevator or escalator hop between two points that may
// sit on different floors entirely.
type OffMeshConnection struct {
	AX, AY, AZ float32
	BX, BY, BZ float32
	Radius     float32
	Area       AreaType
	Flags      PolyFlags
	Direction  LinkDirection
	UserID     uint32
}

// Settings carries the agent and voxelization parameters the downstream
// generator needs, mirroring the shape of the teacher sample's own build
// settings but with every field exported from the start (that struct's
// settings were inconsistently unexported against its own usage).
type Settings struct {
	CellSize   float32
	CellHeight float32

	AgentHeight   float32
	AgentRadius   float32
	AgentMaxClimb float32
	WalkableSlopeAngle float32

	RegionMinSize   float32
	RegionMergeSize float32

	EdgeMaxLen   float32
	EdgeMaxError float32
	VertsPerPoly int32

	DetailSampleDist     float32
	DetailSampleMaxError float32

	// HeightPerLevel is the world-space Y distance between two consecutive
	// full levels, applied by Transform.Height.
	HeightPerLevel float32
}

// DefaultSettings returns reasonable defaults for an indoor building scale
// (meters), scaled down from the teacher's outdoor-terrain defaults since
// corridors and doorways are much narrower than the open terrain that
// sample was tuned for.
func DefaultSettings() Settings {
	return Settings{
		CellSize:             0.15,
		CellHeight:           0.1,
		AgentHeight:          2.0,
		AgentRadius:          0.3,
		AgentMaxClimb:        0.3,
		WalkableSlopeAngle:   45,
		RegionMinSize:        2,
		RegionMergeSize:      10,
		EdgeMaxLen:           6,
		EdgeMaxError:         1.0,
		VertsPerPoly:         6,
		DetailSampleDist:     3,
		DetailSampleMaxError: 0.5,
		HeightPerLevel:       3.2,
	}
}

// resultKind is the classification of one evaluated ResultLayer during the
// geometry/link split step.
type resultKind uint8

const (
	resultGeometry resultKind = iota
	resultLink
)

func classifyLayer(layer *mapcss.ResultLayer) resultKind {
	if layer.LayerSelector == "" {
		return resultGeometry
	}
	return resultLink
}
