package recast

// These mirror the packed-vertex flag bits and region-id sentinel the
// region- and contour-building code in this package (region.go,
// contour.go, polymesh.go) already references under these exact names,
// but that were never actually declared anywhere in this snapshot: only
// their RC_* counterparts (RC_CONTOUR_REG_MASK, RC_CONTOUR_TESS_*,
// RC_NULL_AREA) exist. Values match the originals these constants are
// named after.
const (
	borderVertex = 0x10000
	areaBorder   = 0x20000
	borderReg    = 0x8000

	contourRegMask = RC_CONTOUR_REG_MASK
	nullArea       = RC_NULL_AREA
	notConnected   = RC_NOT_CONNECTED
	meshNullIdx    = RC_MESH_NULL_IDX

	ContourTessWallEdges = RC_CONTOUR_TESS_WALL_EDGES
	ContourTessAreaEdges = RC_CONTOUR_TESS_AREA_EDGES
)

// GetDirForOffset is the inverse of GetDirOffsetX/GetDirOffsetY: given a
// neighbor cell offset, returns which of the four standard directions it
// corresponds to.
func GetDirForOffset(x, y int32) int32 {
	dirs := [5]int32{3, 0, -1, 2, 1}
	return dirs[((y+1)<<1)+x]
}
