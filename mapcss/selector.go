package mapcss

import "github.com/indoorosm/mapcore/osm"

// ObjectType is the coarse kind a selector matches against: the element's
// raw OSM kind for Node/Way/Relation, the geometric refinement for
// Area/Line, the pseudo-element for Canvas, or Any to match everything.
type ObjectType uint8

const (
	ObjAny ObjectType = iota
	ObjNode
	ObjWay
	ObjRelation
	ObjArea
	ObjLine
	ObjCanvas
)

// ZoomRange is an inclusive zoom-level range; a zero-value range (0, 0)
// does not mean "unbounded" — use AnyZoom for that.
type ZoomRange struct {
	Min, Max int
}

// AnyZoom matches every zoom level.
var AnyZoom = ZoomRange{Min: 0, Max: 1<<31 - 1}

// Contains reports whether zoom falls within the range, inclusive.
func (z ZoomRange) Contains(zoom int) bool { return zoom >= z.Min && zoom <= z.Max }

// ConditionOp is the comparison a Condition performs against an element's
// tag value.
type ConditionOp uint8

const (
	OpExists ConditionOp = iota
	OpNotExists
	OpEquals
	OpNotEquals
)

// Condition tests one tag against a literal value or mere presence. Key is
// interned against the active data set during Style.Compile; matching
// before compilation always fails closed (returns false), since an
// uninterned Condition carries no resolvable key.
type Condition struct {
	Key   string
	Op    ConditionOp
	Value string

	interned osm.InternedKey
	compiled bool
}

func (c *Condition) compile(ds *osm.DataSet) {
	c.interned = ds.InternKey(c.Key)
	c.compiled = true
}

func (c *Condition) matches(e osm.Element) bool {
	if !c.compiled {
		return false
	}
	val, ok := e.InternedTagValue(c.interned)
	switch c.Op {
	case OpExists:
		return ok
	case OpNotExists:
		return !ok
	case OpEquals:
		return ok && val == c.Value
	case OpNotEquals:
		return !ok || val != c.Value
	default:
		return false
	}
}

// evalCtx is the per-evaluation state threaded through selector matching:
// the caller's MapCSSState plus the classes written by earlier rules in
// this same evaluation pass (classes are write-then-test within one pass,
// in rule order).
type evalCtx struct {
	state      MapCSSState
	objectType ObjectType
	classes    map[string]bool
	style      *Style
}

func (ctx *evalCtx) hasClass(name string) bool { return ctx.classes[name] }
func (ctx *evalCtx) setClass(name string)      { ctx.classes[name] = true }

// Selector is a compiled MapCSS selector: Basic, Chained, or Union.
type Selector interface {
	compile(ds *osm.DataSet, style *Style)
	matches(ctx *evalCtx) bool
}

// BasicSelector is `(objectType, zoomRange, conditions, requiredClasses)`.
type BasicSelector struct {
	ObjectType     ObjectType
	Zoom           ZoomRange
	Conditions     []Condition
	RequireClasses []string
}

func (s *BasicSelector) compile(ds *osm.DataSet, style *Style) {
	for i := range s.Conditions {
		s.Conditions[i].compile(ds)
	}
}

func (s *BasicSelector) matches(ctx *evalCtx) bool {
	if !objectTypeMatches(s.ObjectType, ctx) {
		return false
	}
	if !s.Zoom.Contains(ctx.state.Zoom) {
		return false
	}
	for i := range s.Conditions {
		if !s.Conditions[i].matches(ctx.state.Element) {
			return false
		}
	}
	for _, cls := range s.RequireClasses {
		if !ctx.hasClass(cls) {
			return false
		}
	}
	return true
}

func objectTypeMatches(sel ObjectType, ctx *evalCtx) bool {
	switch sel {
	case ObjAny:
		return true
	case ObjCanvas:
		return ctx.objectType == ObjCanvas
	case ObjNode:
		return ctx.state.Element.Type() == osm.TypeNode
	case ObjWay:
		return ctx.state.Element.Type() == osm.TypeWay
	case ObjRelation:
		return ctx.state.Element.Type() == osm.TypeRelation
	case ObjArea:
		return ctx.objectType == ObjArea
	case ObjLine:
		return ctx.objectType == ObjLine
	default:
		return false
	}
}

// ChainedSelector matches a descendant/parent chain of basic selectors: the
// last selector must match the element itself, and each preceding selector
// must match some relation that (transitively, via earlier links of the
// chain) contains the element — resolved through Style's ancestor index,
// built at compile time from the data set's relation memberships.
type ChainedSelector struct {
	Selectors []Selector // Selectors[len-1] matches the element; earlier ones match ancestors
}

func (s *ChainedSelector) compile(ds *osm.DataSet, style *Style) {
	for _, sel := range s.Selectors {
		sel.compile(ds, style)
	}
}

func (s *ChainedSelector) matches(ctx *evalCtx) bool {
	if len(s.Selectors) == 0 {
		return false
	}
	if !s.Selectors[len(s.Selectors)-1].matches(ctx) {
		return false
	}
	ancestors := ctx.style.ancestorsOf(ctx.state.Element)
	for i := len(s.Selectors) - 2; i >= 0; i-- {
		found := false
		for _, anc := range ancestors {
			ancCtx := &evalCtx{state: ctx.state, objectType: ResolveObjectType(anc), classes: ctx.classes, style: ctx.style}
			ancCtx.state.Element = anc
			if s.Selectors[i].matches(ancCtx) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// UnionSelector matches if any alternative matches (selector disjunction).
type UnionSelector struct {
	Selectors []Selector
}

func (s *UnionSelector) compile(ds *osm.DataSet, style *Style) {
	for _, sel := range s.Selectors {
		sel.compile(ds, style)
	}
}

func (s *UnionSelector) matches(ctx *evalCtx) bool {
	for _, sel := range s.Selectors {
		if sel.matches(ctx) {
			return true
		}
	}
	return false
}

// ResolveObjectType classifies an element into the ObjectType a selector
// matches against: Node for nodes, Canvas is never inferred (it's supplied
// directly by EvaluateCanvas), and for ways/relations, Area or Line per an
// explicit "area=yes/no" tag if present, else the closedness test (a
// multipolygon relation, or a way whose first and last node coincide, is an
// Area; everything else is a Line).
func ResolveObjectType(e osm.Element) ObjectType {
	switch e.Type() {
	case osm.TypeNode:
		return ObjNode
	case osm.TypeWay:
		if area := e.Tags().Find("area"); area != "" {
			if area == "no" {
				return ObjLine
			}
			return ObjArea
		}
		if w := e.Way(); w != nil && w.Closed() {
			return ObjArea
		}
		return ObjLine
	case osm.TypeRelation:
		if area := e.Tags().Find("area"); area != "" {
			if area == "no" {
				return ObjLine
			}
			return ObjArea
		}
		if r := e.Relation(); r != nil && r.IsMultipolygon() {
			return ObjArea
		}
		return ObjLine
	default:
		return ObjAny
	}
}
