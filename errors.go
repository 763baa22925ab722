// Package mapcore renders and routes on indoor maps derived from
// OpenStreetMap data: a MapCSS-style evaluator drives a per-floor scene
// graph, a hit detector, and a navmesh builder that stitches floors through
// elevator, stair and escalator connections.
package mapcore

import "fmt"

// StyleNotCompiled is returned when a style is evaluated before Compile has
// run against the active data set.
var StyleNotCompiled = fmt.Errorf("mapcss: style not compiled")

// ParseError wraps a failure parsing a style's textual or YAML source.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string { return fmt.Sprintf("mapcss: parse %s: %v", e.Source, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// UnknownLevel is returned when the UI requests a level absent from the
// active map's level index. Callers treat it as a no-op, not a hard error.
type UnknownLevel struct {
	Level int32
}

func (e *UnknownLevel) Error() string { return fmt.Sprintf("mapcore: unknown level %d", e.Level) }

// NavmeshStageFailed wraps the name of a downstream voxel/contour/poly/
// detail-mesh/detour stage that returned a failure during navmesh build.
type NavmeshStageFailed struct {
	Stage string
	Err   error
}

func (e *NavmeshStageFailed) Error() string {
	return fmt.Sprintf("navmesh: stage %q failed: %v", e.Stage, e.Err)
}
func (e *NavmeshStageFailed) Unwrap() error { return e.Err }
