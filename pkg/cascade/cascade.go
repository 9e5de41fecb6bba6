// Package cascade merges parsed CSS rules into one effective property map
// for a component view.
//
// Merging does not compute selector specificity. Callers must supply rules
// ordered by increasing priority; RulesForView produces that order for the
// usual base, variant, state and breakpoint layering.
package cascade

import (
	"sort"
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// Merge walks rules in order. Each property name takes a slot the first time
// it is seen; later rules overwrite the slot's value and selector.
func Merge(rules []model.ParsedCSSRule) []model.MergedCSSProperty {
	var merged []model.MergedCSSProperty
	slot := make(map[string]int)
	for _, rule := range rules {
		rule.Each(func(property string, value model.CSSPropertyValue) {
			entry := model.MergedCSSProperty{Property: property, Value: value, Selector: rule.Selector}
			if i, ok := slot[property]; ok {
				merged[i] = entry
				return
			}
			slot[property] = len(merged)
			merged = append(merged, entry)
		})
	}
	return merged
}

// trivialComputed lists computed values that are never surfaced on their own.
var trivialComputed = map[string]bool{
	"0px":              true,
	"0":                true,
	"none":             true,
	"auto":             true,
	"visible":          true,
	"transparent":      true,
	"normal":           true,
	"initial":          true,
	"rgba(0, 0, 0, 0)": true,
}

// IsTrivialComputed reports whether a computed value is filtered out by
// MergeComputed.
func IsTrivialComputed(value string) bool {
	return trivialComputed[strings.TrimSpace(value)]
}

// MergeComputed appends computed-only properties to merged: entries of the
// computed map (camelCase or kebab-case keys) whose property was never
// authored and whose value is not trivial. They are added in name order with
// an empty selector and ComputedOnly set.
func MergeComputed(merged []model.MergedCSSProperty, computed map[string]string) []model.MergedCSSProperty {
	authored := make(map[string]bool, len(merged))
	for _, m := range merged {
		authored[m.Property] = true
	}

	extra := make(map[string]model.CSSPropertyValue)
	for name, value := range computed {
		key := css.CamelCase(name)
		if authored[key] || IsTrivialComputed(value) {
			continue
		}
		extra[key] = css.ParseValue(value)
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.MergedCSSProperty, len(merged), len(merged)+len(names))
	copy(out, merged)
	for _, name := range names {
		out = append(out, model.MergedCSSProperty{Property: name, Value: extra[name], ComputedOnly: true})
	}
	return out
}
