package forge

import (
	"fmt"

	"github.com/aizetachan/ui-forge-sub001/pkg/cascade"
	"github.com/aizetachan/ui-forge-sub001/pkg/css"
	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// ComponentStyles returns the effective properties of comp for view, with
// computed-only properties from computed appended. When view has no base
// class the first class of the component's first unconditional rule is used.
func ComponentStyles(comp *model.Component, view cascade.View, computed map[string]string) ([]model.MergedCSSProperty, error) {
	if comp == nil {
		return nil, fmt.Errorf("no component")
	}
	if view.BaseClass == "" {
		base, ok := baseClass(comp.CSSRules)
		if !ok {
			return nil, fmt.Errorf("component %s has no class rules", comp.Name)
		}
		view.BaseClass = base
	}
	merged := cascade.MergeView(comp.CSSRules, view)
	if len(computed) > 0 {
		merged = cascade.MergeComputed(merged, computed)
	}
	if merged == nil {
		merged = []model.MergedCSSProperty{}
	}
	return merged, nil
}

func baseClass(rules []model.ParsedCSSRule) (string, bool) {
	for _, r := range rules {
		if r.MediaQuery != "" {
			continue
		}
		for _, part := range css.SelectorList(r.Selector) {
			if names := css.SelectorClasses(part); len(names) == 1 && len(css.SelectorStates(part)) == 0 {
				return names[0], true
			}
		}
	}
	return "", false
}
