package forge

import (
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// variantProps are the enum prop names whose options map to stylesheet
// classes.
var variantProps = map[string]model.VariantType{
	"variant":    model.VariantStyle,
	"kind":       model.VariantStyle,
	"appearance": model.VariantStyle,
	"intent":     model.VariantStyle,
	"size":       model.VariantSize,
}

// detectVariants derives variants from enum props whose options have a
// matching class in the stylesheet, then adds one state variant per
// interactive pseudo-class the stylesheet uses. Options without a class are
// skipped.
func detectVariants(propDefs []model.PropDef, rules []model.ParsedCSSRule) []model.Variant {
	classes := css.ClassNames(rules)
	have := make(map[string]bool, len(classes))
	for _, c := range classes {
		have[c] = true
	}

	var out []model.Variant
	for _, p := range propDefs {
		typ, ok := variantProps[p.Name]
		if !ok || p.Kind != model.KindEnum {
			continue
		}
		def, _ := p.DefaultValue.(string)
		for _, opt := range p.Options {
			if opt == "" {
				continue
			}
			cls, ok := variantClass(classes, have, p.Name, opt)
			if !ok {
				continue
			}
			out = append(out, model.Variant{Name: opt, Type: typ, CSSClass: cls, IsDefault: opt == def})
		}
	}

	for _, state := range css.PseudoStates(rules) {
		out = append(out, model.Variant{Name: state, Type: model.VariantState, CSSClass: ":" + state})
	}
	return out
}

// variantClass finds the class for option opt of prop: the option itself,
// its camelCase form, prop-prefixed forms (size-sm, size_sm, sizeSm) or a
// BEM modifier (btn--sm).
func variantClass(classes []string, have map[string]bool, prop, opt string) (string, bool) {
	camel := css.CamelCase(opt)
	candidates := []string{opt, camel, prop + "-" + opt, prop + "_" + opt}
	if camel != "" {
		candidates = append(candidates, prop+strings.ToUpper(camel[:1])+camel[1:])
	}
	for _, c := range candidates {
		if have[c] {
			return c, true
		}
	}
	for _, c := range classes {
		if strings.HasSuffix(c, "--"+opt) {
			return c, true
		}
	}
	return "", false
}
