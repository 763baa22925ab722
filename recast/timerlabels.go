package recast

// These mirror the RC_TIMER_* constants under the names the BuildContext-era
// functions in this package (rasterization.go, contour.go, region.go,
// meshdetail.go, polymesh.go) already reference but that were never actually
// declared anywhere in this snapshot.
const (
	TimerRasterizeTriangles     = RC_TIMER_RASTERIZE_TRIANGLES
	TimerBuildPolymesh          = RC_TIMER_BUILD_POLYMESH
	TimerBuildPolyMeshDetail    = RC_TIMER_BUILD_POLYMESHDETAIL
	TimerBuildContours          = RC_TIMER_BUILD_CONTOURS
	TimerBuildContoursTrace     = RC_TIMER_BUILD_CONTOURS_TRACE
	TimerBuildContoursSimplify  = RC_TIMER_BUILD_CONTOURS_SIMPLIFY
	TimerBuildRegions           = RC_TIMER_BUILD_REGIONS
	TimerBuildRegionsWatershed  = RC_TIMER_BUILD_REGIONS_WATERSHED
	TimerBuildRegionsExpand     = RC_TIMER_BUILD_REGIONS_EXPAND
	TimerBuildRegionsFlood      = RC_TIMER_BUILD_REGIONS_FLOOD
	TimerBuildRegionsFilter     = RC_TIMER_BUILD_REGIONS_FILTER
)
