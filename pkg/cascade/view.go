package cascade

import (
	"sort"
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// View identifies one rendering of a component: its root class, the active
// variant classes, an optional interactive state and an optional media query.
type View struct {
	BaseClass string   `json:"baseClass"`
	Variants  []string `json:"variants,omitempty"`
	State     string   `json:"state,omitempty"`
	Media     string   `json:"media,omitempty"`
}

// Layer is the priority band a rule falls into for a view.
type Layer int

const (
	LayerBase Layer = iota
	LayerVariant
	LayerState
	LayerMedia
)

// RulesForView selects the rules that apply to view and orders them base,
// variant, state, media. Document order is kept within a layer.
//
// A selector applies when every class it names belongs to the view, it names
// at least one, and any interactive state it names is the view's state.
// Selectors with pseudo-elements never apply. Rules under a media query apply
// only when the view's media matches it after normalization. For a selector
// list the highest layer among applicable members is used.
func RulesForView(rules []model.ParsedCSSRule, view View) []model.ParsedCSSRule {
	classes := map[string]bool{view.BaseClass: true}
	for _, v := range view.Variants {
		classes[v] = true
	}
	media := css.NormalizeMedia(view.Media)

	type ranked struct {
		rule  model.ParsedCSSRule
		layer Layer
		index int
	}
	var picked []ranked
	for i, rule := range rules {
		if rule.MediaQuery != "" && (media == "" || css.NormalizeMedia(rule.MediaQuery) != media) {
			continue
		}
		layer, ok := selectorLayer(rule.Selector, view, classes)
		if !ok {
			continue
		}
		if rule.MediaQuery != "" {
			layer = LayerMedia
		}
		picked = append(picked, ranked{rule: rule, layer: layer, index: i})
	}

	sort.SliceStable(picked, func(a, b int) bool {
		return picked[a].layer < picked[b].layer
	})
	out := make([]model.ParsedCSSRule, len(picked))
	for i, p := range picked {
		out[i] = p.rule
	}
	return out
}

// MergeView is RulesForView followed by Merge.
func MergeView(rules []model.ParsedCSSRule, view View) []model.MergedCSSProperty {
	return Merge(RulesForView(rules, view))
}

func selectorLayer(selector string, view View, classes map[string]bool) (Layer, bool) {
	best, found := LayerBase, false
	for _, part := range css.SelectorList(selector) {
		if strings.Contains(part, "::") {
			continue
		}
		names := css.SelectorClasses(part)
		if len(names) == 0 {
			continue
		}
		applies := true
		variant := false
		for _, name := range names {
			if !classes[name] {
				applies = false
				break
			}
			if name != view.BaseClass {
				variant = true
			}
		}
		if !applies {
			continue
		}

		layer := LayerBase
		if variant {
			layer = LayerVariant
		}
		states := css.SelectorStates(part)
		if len(states) > 0 {
			if len(states) > 1 || states[0] != view.State {
				continue
			}
			layer = LayerState
		}
		if !found || layer > best {
			best, found = layer, true
		}
	}
	return best, found
}
