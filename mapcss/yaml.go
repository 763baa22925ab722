package mapcss

import (
	"fmt"

	"gopkg.in/yaml.v2"

	mapcore "github.com/indoorosm/mapcore"
)

// Since the MapCSS text grammar itself is out of scope, YAML is the
// boundary format actually accepted at this layer: a rule list document
// loads directly into a Style via yaml.v2, the teacher's existing
// serialization dependency.

type yamlDoc struct {
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	Selector      yamlSelector      `yaml:"selector"`
	Layer         string            `yaml:"layer"`
	SetClasses    []string          `yaml:"set_classes"`
	Declarations  map[string]string `yaml:"declarations"`
}

type yamlSelector struct {
	ObjectType     string            `yaml:"object_type"`
	ZoomMin        *int              `yaml:"zoom_min"`
	ZoomMax        *int              `yaml:"zoom_max"`
	Conditions     []yamlCondition   `yaml:"conditions"`
	RequireClasses []string          `yaml:"require_classes"`
	AnyOf          []yamlSelector    `yaml:"any_of"`
	Chain          []yamlSelector    `yaml:"chain"`
}

type yamlCondition struct {
	Key   string `yaml:"key"`
	Op    string `yaml:"op"` // "exists", "not_exists", "eq", "neq"
	Value string `yaml:"value"`
}

var objectTypeNames = map[string]ObjectType{
	"":         ObjAny,
	"any":      ObjAny,
	"node":     ObjNode,
	"way":      ObjWay,
	"relation": ObjRelation,
	"area":     ObjArea,
	"line":     ObjLine,
	"canvas":   ObjCanvas,
}

var conditionOps = map[string]ConditionOp{
	"":          OpExists,
	"exists":    OpExists,
	"not_exists": OpNotExists,
	"eq":        OpEquals,
	"neq":       OpNotEquals,
}

// LoadStyleYAML parses a YAML-encoded rule list into an uncompiled Style.
// Compile must still be run against the active data set before use.
func LoadStyleYAML(data []byte) (*Style, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &mapcore.ParseError{Source: "mapcss style", Err: err}
	}
	rules := make([]Rule, 0, len(doc.Rules))
	for _, yr := range doc.Rules {
		sel, err := buildSelector(yr.Selector)
		if err != nil {
			return nil, &mapcore.ParseError{Source: "mapcss style", Err: err}
		}
		decls := make([]Declaration, 0, len(yr.Declarations))
		for name, raw := range yr.Declarations {
			p := PropertyByName(name)
			if p == PropNone {
				return nil, &mapcore.ParseError{Source: "mapcss style", Err: fmt.Errorf("unknown property %q", name)}
			}
			decls = append(decls, Declaration{Property: p, Value: Value{Raw: raw}})
		}
		rules = append(rules, Rule{
			Selector:      sel,
			Declarations:  decls,
			LayerSelector: yr.Layer,
			SetClasses:    yr.SetClasses,
		})
	}
	return NewStyle(rules), nil
}

func buildSelector(ys yamlSelector) (Selector, error) {
	if len(ys.AnyOf) > 0 {
		subs := make([]Selector, 0, len(ys.AnyOf))
		for _, s := range ys.AnyOf {
			sub, err := buildSelector(s)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		return &UnionSelector{Selectors: subs}, nil
	}
	if len(ys.Chain) > 0 {
		subs := make([]Selector, 0, len(ys.Chain))
		for _, s := range ys.Chain {
			sub, err := buildSelector(s)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		return &ChainedSelector{Selectors: subs}, nil
	}

	objType, ok := objectTypeNames[ys.ObjectType]
	if !ok {
		return nil, fmt.Errorf("unknown object_type %q", ys.ObjectType)
	}
	zoom := AnyZoom
	if ys.ZoomMin != nil {
		zoom.Min = *ys.ZoomMin
	}
	if ys.ZoomMax != nil {
		zoom.Max = *ys.ZoomMax
	}
	conds := make([]Condition, 0, len(ys.Conditions))
	for _, yc := range ys.Conditions {
		op, ok := conditionOps[yc.Op]
		if !ok {
			return nil, fmt.Errorf("unknown condition op %q", yc.Op)
		}
		conds = append(conds, Condition{Key: yc.Key, Op: op, Value: yc.Value})
	}
	return &BasicSelector{
		ObjectType:     objType,
		Zoom:           zoom,
		Conditions:     conds,
		RequireClasses: ys.RequireClasses,
	}, nil
}
