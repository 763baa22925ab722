package navmesh

import (
	"github.com/indoorosm/mapcore/diag"
	"github.com/indoorosm/mapcore/level"
	"github.com/indoorosm/mapcore/mapcss"
	"github.com/indoorosm/mapcore/mapdata"
	"github.com/indoorosm/mapcore/osm"
	"github.com/indoorosm/mapcore/scene"
)

// Builder drives a MapData through a dedicated filter style (never the
// render style: what counts as "solid" for routing and what counts as
// "visible" for rendering are independent concerns) to produce the
// triangle soup and off-mesh connections a solid-voxel navmesh generator
// needs, plus the settings it should run with.
type Builder struct {
	MapData  *mapdata.MapData
	Style    *mapcss.Style
	Overlays []scene.OverlaySource
	Settings Settings

	transform *Transform
	nodeLevel *NodeLevels
	diag      *diag.Context
}

// BuildResult is the main-thread half of the pipeline's output, ready to
// hand to the downstream voxel/contour/poly/detail-mesh/detour pipeline
// on a worker thread.
type BuildResult struct {
	Soup        *TriangleSoup
	Connections []OffMeshConnection
	Transform   *Transform
	Settings    Settings
}

// NewBuilder compiles style against data's DataSet and returns a Builder
// ready for Build.
func NewBuilder(data *mapdata.MapData, style *mapcss.Style, settings Settings, overlays ...scene.OverlaySource) (*Builder, error) {
	if err := style.Compile(data.DataSet); err != nil {
		return nil, err
	}
	return &Builder{
		MapData:   data,
		Style:     style,
		Overlays:  overlays,
		Settings:  settings,
		transform: NewTransform(data.BBox, settings.HeightPerLevel),
		nodeLevel: BuildNodeLevels(data.DataSet, data.Levels),
		diag:      diag.New(),
	}, nil
}

// Build runs the main-thread half of the pipeline (step 1 through 4 of
// the navmesh algorithm): every full level is walked in turn, every
// visible element on it is evaluated against the filter style, and each
// result layer is routed to geometry emission or off-mesh link emission.
// The caller hands the result to VoxelizeAsync, which runs the downstream
// pipeline on a worker thread; the OSM data model backing Builder is not
// shared-mutable once that starts.
func (b *Builder) Build() *BuildResult {
	b.diag.StartTimer("navmesh.Build")
	defer b.diag.StopTimer("navmesh.Build")

	result := &BuildResult{
		Soup:      &TriangleSoup{},
		Transform: b.transform,
		Settings:  b.Settings,
	}
	eval := mapcss.NewMapCSSResult()

	for _, l := range b.MapData.Levels.FullLevels() {
		elements := b.resolveElements(l)
		for _, e := range elements {
			b.emitElement(e, l, eval, result)
		}
	}
	return result
}

func (b *Builder) resolveElements(l level.MapLevel) []osm.Element {
	elements := b.MapData.ElementsOnFloor(l)
	hidden := map[osm.ID]bool{}
	for _, ov := range b.Overlays {
		for _, e := range elements {
			if ov.Hidden(e) {
				hidden[e.ID()] = true
			}
		}
	}
	out := make([]osm.Element, 0, len(elements))
	for _, e := range elements {
		if !hidden[e.ID()] {
			out = append(out, e)
		}
	}
	for _, ov := range b.Overlays {
		out = append(out, ov.Elements(l)...)
	}
	return out
}

func (b *Builder) emitElement(e osm.Element, l level.MapLevel, eval *mapcss.MapCSSResult, result *BuildResult) {
	objType := b.Style.ResolveObjectType(e)
	state := mapcss.MapCSSState{
		Element:    e,
		FloorLevel: int32(l),
		ObjectType: objType,
	}
	if _, err := b.Style.Evaluate(state, eval); err != nil {
		b.diag.Warningf("navmesh evaluate %s: %v", e.URL(), err)
		return
	}
	for _, layer := range eval.Layers() {
		switch classifyLayer(layer) {
		case resultGeometry:
			b.emitGeometry(e, objType, l, layer, result.Soup)
		case resultLink:
			b.emitLink(e, l, layer, result)
		}
	}
}

func (b *Builder) emitGeometry(e osm.Element, objType mapcss.ObjectType, l level.MapLevel, layer *mapcss.ResultLayer, soup *TriangleSoup) {
	y := b.transform.Height(l)

	if v, ok := layer.Get(mapcss.PropExtrude); ok {
		if stories, ok := v.Float32(); ok && stories > 0 {
			b.emitExtrude(e, y, stories*b.Settings.HeightPerLevel, soup)
		}
		return
	}

	if layer.HasAreaProperties() && objType == mapcss.ObjArea {
		b.emitAreaGeometry(e, y, soup)
		return
	}

	if layer.HasLineProperties() && objType == mapcss.ObjLine {
		b.emitLineGeometry(e, l, layer, soup)
	}
}

func (b *Builder) emitAreaGeometry(e osm.Element, y float32, soup *TriangleSoup) {
	path := e.OuterPath(b.MapData.DataSet)
	if len(path) < 3 {
		return
	}
	outer := b.projectRing(path)
	var holes [][]vec2
	if e.Type() == osm.TypeRelation {
		if r := e.Relation(); r != nil {
			for _, m := range r.Members {
				if m.Type != osm.TypeWay || m.Role != "inner" {
					continue
				}
				w, ok := b.MapData.DataSet.WayByID(m.ID)
				if !ok {
					continue
				}
				inner := osm.WayElement(w).OuterPath(b.MapData.DataSet)
				if len(inner) >= 3 {
					holes = append(holes, b.projectRing(inner))
				}
			}
		}
	}

	verts, tris := PolygonToTriangles(outer, holes)
	base := soup.NumVerts()
	for _, v := range verts {
		soup.addVertex(v.X, y, v.Z)
	}
	for _, t := range tris {
		soup.addTriangle(base+t[0], base+t[1], base+t[2], AreaWalkable)
	}
}

func (b *Builder) emitLineGeometry(e osm.Element, l level.MapLevel, layer *mapcss.ResultLayer, soup *TriangleSoup) {
	width, ok := layer.Get(mapcss.PropWidth)
	if !ok {
		return
	}
	w, ok := width.Float32()
	if !ok || w <= 0 {
		return
	}

	way := e.Way()
	if way == nil {
		return
	}
	path := e.OuterPath(b.MapData.DataSet)
	if len(path) < 2 {
		return
	}

	stroke := make([]strokeVert, len(path))
	y := b.transform.Height(l)
	if len(way.Nodes) == 2 {
		if y0, y1, ok := b.stairEndpointHeights(way); ok {
			for i, c := range path {
				x, z := b.transform.Project(c)
				t := float32(i) // 0 or 1 for a 2-node way
				stroke[i] = strokeVert{X: x, Y: lerp(y0, y1, t), Z: z}
			}
			TriangulateStroke(stroke, w/2, AreaWalkable, soup)
			return
		}
	}

	for i, c := range path {
		x, z := b.transform.Project(c)
		stroke[i] = strokeVert{X: x, Y: y, Z: z}
	}
	TriangulateStroke(stroke, w/2, AreaWalkable, soup)
}

// stairEndpointHeights returns the per-endpoint Y of a 2-node way whose
// ends sit on different floors (a stair or ramp segment), so its stroke
// can interpolate smoothly instead of sitting flat on one floor.
func (b *Builder) stairEndpointHeights(way *osm.Way) (y0, y1 float32, ok bool) {
	if len(way.Nodes) != 2 {
		return 0, 0, false
	}
	l0, ok0 := b.nodeLevel.LevelOf(way.Nodes[0])
	l1, ok1 := b.nodeLevel.LevelOf(way.Nodes[1])
	if !ok0 || !ok1 || l0 == l1 {
		return 0, 0, false
	}
	return b.transform.Height(l0), b.transform.Height(l1), true
}

func (b *Builder) emitExtrude(e osm.Element, baseY, height float32, soup *TriangleSoup) {
	path := e.OuterPath(b.MapData.DataSet)
	if len(path) < 2 {
		return
	}
	way := e.Way()
	var nodeIDs []osm.ID
	if way != nil {
		nodeIDs = way.Nodes
	}

	skip := make(map[int]bool)
	for i := 0; i < len(path)-1 && nodeIDs != nil && i+1 < len(nodeIDs); i++ {
		if nodeHasDoor(b.MapData.DataSet, nodeIDs[i]) || nodeHasDoor(b.MapData.DataSet, nodeIDs[i+1]) {
			skip[i] = true
		}
	}

	ring := b.projectRing(path)
	ExtrudeWall(ring, baseY, height, skip, AreaSolid, soup)
}

func nodeHasDoor(ds *osm.DataSet, id osm.ID) bool {
	n, ok := ds.NodeByID(id)
	if !ok {
		return false
	}
	return n.Tags.Has("door")
}

func (b *Builder) emitLink(e osm.Element, l level.MapLevel, layer *mapcss.ResultLayer, result *BuildResult) {
	if v, ok := layer.Get(mapcss.PropLinkLevels); ok {
		b.emitAreaLink(e, v.Raw, result)
		return
	}
	b.emitWayLink(e, layer, result)
}

// emitAreaLink handles an area link rule declaring level="a;b;...": one
// bidirectional Elevator connection at the element's centroid between
// every consecutive level pair.
func (b *Builder) emitAreaLink(e osm.Element, levelsRaw string, result *BuildResult) {
	levels := level.ParseList(levelsRaw)
	if len(levels) < 2 {
		return
	}
	center := e.Center()
	x, z := b.transform.Project(center)

	for i := 0; i+1 < len(levels); i++ {
		y0 := b.transform.Height(levels[i])
		y1 := b.transform.Height(levels[i+1])
		result.Connections = append(result.Connections, OffMeshConnection{
			AX: x, AY: y0, AZ: z,
			BX: x, BY: y1, BZ: z,
			Radius:    b.Settings.AgentRadius,
			Area:      AreaElevator,
			Flags:     PolyFlagElevator,
			Direction: LinkBidirectional,
			UserID:    uint32(e.ID()),
		})
	}
}

// emitWayLink handles a 2-node way link rule whose endpoints sit on
// distinct levels: one Escalator connection between the node positions,
// direction taken from the "direction" property and normalized so a
// declared backward link is stored as forward with swapped endpoints.
func (b *Builder) emitWayLink(e osm.Element, layer *mapcss.ResultLayer, result *BuildResult) {
	way := e.Way()
	if way == nil || len(way.Nodes) != 2 {
		return
	}
	l0, ok0 := b.nodeLevel.LevelOf(way.Nodes[0])
	l1, ok1 := b.nodeLevel.LevelOf(way.Nodes[1])
	if !ok0 || !ok1 || l0 == l1 {
		return
	}

	n0, ok0 := b.MapData.DataSet.NodeByID(way.Nodes[0])
	n1, ok1 := b.MapData.DataSet.NodeByID(way.Nodes[1])
	if !ok0 || !ok1 {
		return
	}

	dir := LinkBidirectional
	if v, ok := layer.Get(mapcss.PropLinkDirection); ok {
		dir = ParseLinkDirection(v.Raw)
	}

	ax, az := b.transform.Project(n0.Pos)
	ay := b.transform.Height(l0)
	bx, bz := b.transform.Project(n1.Pos)
	by := b.transform.Height(l1)

	if dir == LinkBackward {
		ax, ay, az, bx, by, bz = bx, by, bz, ax, ay, az
		dir = LinkForward
	}

	result.Connections = append(result.Connections, OffMeshConnection{
		AX: ax, AY: ay, AZ: az,
		BX: bx, BY: by, BZ: bz,
		Radius:    b.Settings.AgentRadius,
		Area:      AreaEscalator,
		Flags:     PolyFlagEscalator,
		Direction: dir,
		UserID:    uint32(e.ID()),
	})
}

func (b *Builder) projectRing(coords []osm.Coord) []vec2 {
	out := make([]vec2, len(coords))
	for i, c := range coords {
		x, z := b.transform.Project(c)
		out[i] = vec2{X: x, Z: z}
	}
	return out
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }
