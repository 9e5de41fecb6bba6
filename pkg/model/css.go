package model

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ValueType classifies a raw CSS property value.
type ValueType string

const (
	ValueColor    ValueType = "color"
	ValueLength   ValueType = "length"
	ValueNumber   ValueType = "number"
	ValueKeyword  ValueType = "keyword"
	ValueFunction ValueType = "function"
	ValueString   ValueType = "string"
	ValueVariable ValueType = "variable"
	ValueOther    ValueType = "other"
)

// CSSPropertyValue is a declaration value as written in the stylesheet.
type CSSPropertyValue struct {
	Raw          string    `json:"raw"`
	IsVariable   bool      `json:"isVariable"`
	VariableName string    `json:"variableName,omitempty"`
	Fallback     string    `json:"fallback,omitempty"`
	ValueType    ValueType `json:"valueType"`
}

// PropertyMap holds declarations keyed by camelCase property name in
// declaration order.
type PropertyMap = orderedmap.OrderedMap[string, CSSPropertyValue]

// NewPropertyMap returns an empty PropertyMap.
func NewPropertyMap() *PropertyMap {
	return orderedmap.New[string, CSSPropertyValue]()
}

// ParsedCSSRule is one selector block, optionally scoped to a media query.
type ParsedCSSRule struct {
	Selector   string       `json:"selector"`
	MediaQuery string       `json:"mediaQuery,omitempty"`
	Properties *PropertyMap `json:"properties"`
}

// NewParsedCSSRule returns a rule with an empty property map.
func NewParsedCSSRule(selector, media string) ParsedCSSRule {
	return ParsedCSSRule{Selector: selector, MediaQuery: media, Properties: NewPropertyMap()}
}

// Get returns the value for a camelCase property name.
func (r ParsedCSSRule) Get(property string) (CSSPropertyValue, bool) {
	if r.Properties == nil {
		return CSSPropertyValue{}, false
	}
	return r.Properties.Get(property)
}

// Len returns the number of distinct properties in the rule.
func (r ParsedCSSRule) Len() int {
	if r.Properties == nil {
		return 0
	}
	return r.Properties.Len()
}

// Each calls fn for every property in declaration order.
func (r ParsedCSSRule) Each(fn func(property string, value CSSPropertyValue)) {
	if r.Properties == nil {
		return
	}
	for pair := r.Properties.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// MergedCSSProperty is the winning value of one property after cascading.
type MergedCSSProperty struct {
	Property     string           `json:"property"`
	Value        CSSPropertyValue `json:"value"`
	Selector     string           `json:"selector"`
	ComputedOnly bool             `json:"computedOnly,omitempty"`
}
