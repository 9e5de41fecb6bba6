package css

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// CamelCase converts a CSS property name to the camelCase key used in the
// model: "background-color" becomes "backgroundColor", "-webkit-transition"
// becomes "WebkitTransition" and "-ms-flex" becomes "msFlex". Custom
// properties and names without a dash are returned unchanged.
func CamelCase(property string) string {
	property = strings.TrimSpace(property)
	if strings.HasPrefix(property, "--") || !strings.Contains(property, "-") {
		return property
	}
	property = strings.ToLower(property)
	if strings.HasPrefix(property, "-ms-") {
		property = property[1:]
	}
	var b strings.Builder
	b.Grow(len(property))
	upper := false
	for _, r := range property {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// KebabCase is the inverse of CamelCase. Names that already contain a dash
// are only lowercased.
func KebabCase(property string) string {
	property = strings.TrimSpace(property)
	if strings.HasPrefix(property, "--") {
		return property
	}
	if strings.Contains(property, "-") {
		return strings.ToLower(property)
	}
	var b strings.Builder
	b.Grow(len(property) + 4)
	if strings.HasPrefix(property, "ms") && len(property) > 2 && unicode.IsUpper(rune(property[2])) {
		b.WriteByte('-')
	}
	for _, r := range property {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var (
	varPattern    = regexp.MustCompile(`^var\(\s*(--[A-Za-z0-9_-]+)\s*(?:,\s*(.*?))?\s*\)$`)
	hexPattern    = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	numberPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:e[+-]?\d+)?$`)
	lengthPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:%|[a-zA-Z]+)$`)
	funcPattern   = regexp.MustCompile(`^([a-zA-Z-]+)\(.*\)$`)
	identPattern  = regexp.MustCompile(`^-?[a-zA-Z_][a-zA-Z0-9_-]*$`)
)

var colorFunctions = map[string]bool{
	"rgb": true, "rgba": true, "hsl": true, "hsla": true, "hwb": true,
	"lab": true, "lch": true, "oklab": true, "oklch": true, "color": true,
	"color-mix": true,
}

var namedColors = map[string]bool{
	"transparent": true, "currentcolor": true, "black": true, "white": true,
	"red": true, "green": true, "blue": true, "yellow": true, "orange": true,
	"purple": true, "pink": true, "gray": true, "grey": true, "silver": true,
	"maroon": true, "olive": true, "lime": true, "aqua": true, "teal": true,
	"navy": true, "fuchsia": true, "cyan": true, "magenta": true, "brown": true,
	"gold": true, "indigo": true, "violet": true, "coral": true, "crimson": true,
	"salmon": true, "tomato": true, "khaki": true, "beige": true, "ivory": true,
	"lavender": true, "tan": true, "turquoise": true, "orchid": true,
	"darkgray": true, "darkgrey": true, "lightgray": true, "lightgrey": true,
	"dimgray": true, "slategray": true, "whitesmoke": true, "gainsboro": true,
	"rebeccapurple": true, "steelblue": true, "royalblue": true, "skyblue": true,
	"darkblue": true, "darkred": true, "darkgreen": true, "lightblue": true,
	"lightgreen": true, "firebrick": true, "chocolate": true, "seagreen": true,
}

// ParseValue classifies a raw declaration value. A value that is exactly a
// var(--name[, fallback]) call is flagged as a variable reference.
func ParseValue(raw string) model.CSSPropertyValue {
	raw = strings.TrimSpace(raw)
	v := model.CSSPropertyValue{Raw: raw}
	if m := varPattern.FindStringSubmatch(raw); m != nil {
		v.IsVariable = true
		v.VariableName = m[1]
		v.Fallback = strings.TrimSpace(m[2])
		v.ValueType = model.ValueVariable
		return v
	}
	v.ValueType = ClassifyValue(raw)
	return v
}

// ClassifyValue returns the value type of a raw CSS value.
func ClassifyValue(raw string) model.ValueType {
	value := strings.TrimSpace(raw)
	value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
	lower := strings.ToLower(value)

	switch {
	case value == "":
		return model.ValueOther
	case hexPattern.MatchString(value) || namedColors[lower]:
		return model.ValueColor
	case numberPattern.MatchString(value):
		return model.ValueNumber
	case lengthPattern.MatchString(value):
		return model.ValueLength
	case isQuoted(value):
		return model.ValueString
	}

	if m := funcPattern.FindStringSubmatch(value); m != nil && balancedCall(value) {
		if colorFunctions[strings.ToLower(m[1])] {
			return model.ValueColor
		}
		if strings.EqualFold(m[1], "var") {
			return model.ValueVariable
		}
		return model.ValueFunction
	}
	if identPattern.MatchString(value) {
		return model.ValueKeyword
	}
	return model.ValueOther
}

func isQuoted(s string) bool {
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]
}

// balancedCall reports whether the outermost parentheses of fn(...) enclose
// the whole value, so "calc(1px) calc(2px)" is not treated as one call.
func balancedCall(s string) bool {
	open := strings.IndexByte(s, '(')
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}
