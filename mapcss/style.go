package mapcss

import (
	"sort"
	"strings"

	mapcore "github.com/indoorosm/mapcore"
	"github.com/indoorosm/mapcore/osm"
)

func styleNotCompiledErr() error { return mapcore.StyleNotCompiled }

// Declaration is one `property: value` pair inside a rule's declaration
// block.
type Declaration struct {
	Property Property
	Value    Value
}

// Rule is `(selector_set, declaration_block)` plus the layer selector and
// classes it writes when matched.
type Rule struct {
	Selector      Selector
	Declarations  []Declaration
	LayerSelector string   // "" is the default (null) layer
	SetClasses    []string // classes this rule marks on the element when matched
}

// MapCSSState is the evaluator's per-call input:
// (element, zoom_level, floor_level, object_type, opening_hours_cache).
// ObjectType is supplied by the caller (normally via ResolveObjectType),
// not recomputed here, so the scene controller and navmesh builder agree
// on classification without evaluating it twice.
type MapCSSState struct {
	Element           osm.Element
	Zoom              int
	FloorLevel        int32
	ObjectType        ObjectType
	OpeningHoursCache map[osm.ID]bool
}

// Style is a compiled sequence of rules. A Style must be compiled against
// the active data set (Compile) before Evaluate or EvaluateCanvas may run.
type Style struct {
	Rules []Rule

	compiled    bool
	ds          *osm.DataSet
	areaKey     osm.InternedKey
	typeKey     osm.InternedKey
	ancestorIdx map[ancestorKey][]osm.Element
}

type ancestorKey struct {
	typ osm.Type
	id  osm.ID
}

// NewStyle returns an uncompiled style from a rule list, in the order the
// rules must be tested (rule order determines write-then-test class
// visibility and last-write-wins declaration precedence).
func NewStyle(rules []Rule) *Style {
	return &Style{Rules: rules}
}

// Compile interns every condition's tag key against ds, pre-resolves the
// "area"/"type" tag keys used for object-type disambiguation, and builds
// the chained-selector ancestor index from ds's relation memberships. It
// must be re-run if ds changes.
func (s *Style) Compile(ds *osm.DataSet) error {
	s.ds = ds
	s.areaKey = ds.InternKey("area")
	s.typeKey = ds.InternKey("type")
	for i := range s.Rules {
		if s.Rules[i].Selector != nil {
			s.Rules[i].Selector.compile(ds, s)
		}
	}
	s.ancestorIdx = buildAncestorIndex(ds)
	s.compiled = true
	return nil
}

func buildAncestorIndex(ds *osm.DataSet) map[ancestorKey][]osm.Element {
	idx := make(map[ancestorKey][]osm.Element)
	for i := range ds.Relations() {
		r := &ds.Relations()[i]
		parent := osm.RelationElement(r)
		for _, m := range r.Members {
			idx[ancestorKey{typ: m.Type, id: m.ID}] = append(idx[ancestorKey{typ: m.Type, id: m.ID}], parent)
		}
	}
	return idx
}

func (s *Style) ancestorsOf(e osm.Element) []osm.Element {
	if s.ancestorIdx == nil {
		return nil
	}
	return s.ancestorIdx[ancestorKey{typ: e.Type(), id: e.ID()}]
}

// ResolveObjectType classifies e the same way ResolveObjectType does, but
// reads the "area"/"type" tags through this style's pre-resolved interned
// keys (the compile step's "(b) pre-resolve area/type keys" requirement),
// avoiding a second literal string scan on the evaluator's hot path.
func (s *Style) ResolveObjectType(e osm.Element) ObjectType {
	if !s.compiled {
		return ResolveObjectType(e)
	}
	switch e.Type() {
	case osm.TypeNode:
		return ObjNode
	case osm.TypeWay, osm.TypeRelation:
		if area, ok := e.InternedTagValue(s.areaKey); ok {
			if area == "no" {
				return ObjLine
			}
			return ObjArea
		}
		if e.Type() == osm.TypeWay {
			if w := e.Way(); w != nil && w.Closed() {
				return ObjArea
			}
			return ObjLine
		}
		if t, ok := e.InternedTagValue(s.typeKey); ok && t == "multipolygon" {
			return ObjArea
		}
		return ObjLine
	default:
		return ObjAny
	}
}

// Evaluate tests every rule against state in order, writing matched
// declarations into result (which the caller owns and reuses across
// calls). Classes set by an earlier rule are visible to later rules'
// class-filter conditions within this same call.
//
// Returns mapcore.StyleNotCompiled if Compile has not run.
func (s *Style) Evaluate(state MapCSSState, result *MapCSSResult) (EvalStatus, error) {
	if !s.compiled {
		return 0, styleNotCompiledErr()
	}
	result.Reset()
	if len(s.Rules) == 0 {
		return EvalEmptyStyle, nil
	}

	ctx := &evalCtx{state: state, objectType: state.ObjectType, classes: make(map[string]bool), style: s}
	classKey := func() string {
		if len(ctx.classes) == 0 {
			return ""
		}
		names := make([]string, 0, len(ctx.classes))
		for c := range ctx.classes {
			names = append(names, c)
		}
		sort.Strings(names)
		return strings.Join(names, ",")
	}

	for i := range s.Rules {
		rule := &s.Rules[i]
		if rule.Selector == nil || !rule.Selector.matches(ctx) {
			continue
		}
		for _, decl := range rule.Declarations {
			result.apply(rule.LayerSelector, classKey(), decl)
		}
		for _, cls := range rule.SetClasses {
			ctx.setClass(cls)
		}
	}
	return EvalSuccess, nil
}

// EvaluateCanvas evaluates only rules whose selector targets ObjCanvas,
// ignoring every per-element condition and class filter: canvas rules
// configure the background/foreground of the whole view, not one element.
func (s *Style) EvaluateCanvas(zoom int, result *MapCSSResult) (EvalStatus, error) {
	if !s.compiled {
		return 0, styleNotCompiledErr()
	}
	result.Reset()
	ctx := &evalCtx{
		state:      MapCSSState{Zoom: zoom, ObjectType: ObjCanvas, Element: osm.Null},
		objectType: ObjCanvas,
		classes:    make(map[string]bool),
		style:      s,
	}
	for i := range s.Rules {
		rule := &s.Rules[i]
		basic, ok := rule.Selector.(*BasicSelector)
		if !ok || basic.ObjectType != ObjCanvas {
			continue
		}
		if !basic.Zoom.Contains(zoom) {
			continue
		}
		for _, decl := range rule.Declarations {
			result.apply(rule.LayerSelector, "", decl)
		}
	}
	return EvalSuccess, nil
}
