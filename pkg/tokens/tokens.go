// Package tokens extracts design tokens from theme stylesheets and JSON
// token files and classifies them for the editor.
package tokens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// ErrMalformed is wrapped when a token file is not a JSON object.
var ErrMalformed = errors.New("malformed token file")

var (
	radiusWords     = []string{"radius", "rounded", "corner"}
	colorWords      = []string{"color", "colour", "bg", "background", "foreground", "fg", "fill", "stroke", "border-color", "brand", "accent", "surface", "primary", "secondary", "muted", "destructive", "ring"}
	typographyWords = []string{"font", "text", "line-height", "leading", "letter-spacing", "tracking", "weight", "typography", "heading"}
	spacingWords    = []string{"space", "spacing", "gap", "margin", "padding", "inset", "gutter", "size", "width", "height"}
)

// Classify guesses a token's type from its name and value. Tokens that
// match no category return false.
func Classify(name, value string) (model.TokenType, bool) {
	n := strings.ToLower(strings.TrimPrefix(name, "--"))
	kind := css.ClassifyValue(value)
	switch {
	case hasWord(n, radiusWords):
		return model.TokenRadius, true
	case kind == model.ValueColor:
		return model.TokenColor, true
	case hasWord(n, colorWords):
		return model.TokenColor, true
	case hasWord(n, typographyWords):
		return model.TokenTypography, true
	case hasWord(n, spacingWords), kind == model.ValueLength:
		return model.TokenSpacing, true
	}
	return "", false
}

// hasWord reports whether one of words appears in name as whole
// dash-separated segments.
func hasWord(name string, words []string) bool {
	padded := "-" + strings.NewReplacer("_", "-", ".", "-").Replace(name) + "-"
	for _, w := range words {
		if strings.Contains(padded, "-"+w+"-") {
			return true
		}
	}
	return false
}

// FromCSS returns the custom properties declared in a stylesheet as tokens,
// in document order. A name declared more than once keeps its first value.
// Properties that cannot be classified are skipped.
func FromCSS(text, source string) []model.Token {
	var out []model.Token
	seen := make(map[string]bool)
	var walk func([]*css.Block)
	walk = func(blocks []*css.Block) {
		for _, b := range blocks {
			for _, d := range b.Decls {
				if !strings.HasPrefix(d.Property, "--") || seen[d.Property] {
					continue
				}
				seen[d.Property] = true
				name := strings.TrimPrefix(d.Property, "--")
				if typ, ok := Classify(name, d.Value); ok {
					out = append(out, model.Token{Name: name, Value: d.Value, Type: typ, Source: source})
				}
			}
			walk(b.Children)
		}
	}
	walk(css.Outline(text).Blocks)
	return out
}

// FromJSON reads a design token file. Groups nest with objects; a leaf is
// either a primitive or an object with "$value" (or "value") and optional
// "$type" (or "type"), which groups may also set for their children. Token
// names join the path with "-". Composite values are skipped.
func FromJSON(data []byte, source string) ([]model.Token, error) {
	_, typ, _, err := jsonparser.Get(data)
	if err != nil || typ != jsonparser.Object {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, source)
	}
	var out []model.Token
	if err := walkGroup(data, nil, "", source, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, source, err)
	}
	return out, nil
}

func walkGroup(group []byte, path []string, inherited, source string, out *[]model.Token) error {
	if t, err := stringField(group, "$type", "type"); err == nil {
		inherited = t
	}
	return jsonparser.ObjectEach(group, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		k := string(key)
		if strings.HasPrefix(k, "$") || (len(path) > 0 && (k == "type" || k == "description")) {
			return nil
		}
		child := append(append([]string(nil), path...), k)
		name := strings.Join(child, "-")

		switch dataType {
		case jsonparser.Object:
			if raw, vt, _, err := jsonparser.Get(value, "$value"); err == nil {
				addLeaf(out, name, raw, vt, value, inherited, source)
				return nil
			}
			if raw, vt, _, err := jsonparser.Get(value, "value"); err == nil && vt != jsonparser.Object {
				addLeaf(out, name, raw, vt, value, inherited, source)
				return nil
			}
			return walkGroup(value, child, inherited, source, out)
		case jsonparser.String, jsonparser.Number:
			addLeaf(out, name, value, dataType, nil, inherited, source)
		}
		return nil
	})
}

func addLeaf(out *[]model.Token, name string, raw []byte, vt jsonparser.ValueType, leaf []byte, inherited, source string) {
	if vt != jsonparser.String && vt != jsonparser.Number {
		return
	}
	value := string(raw)
	if vt == jsonparser.String {
		if s, err := jsonparser.ParseString(raw); err == nil {
			value = s
		}
	}
	declared := inherited
	if leaf != nil {
		if t, err := stringField(leaf, "$type", "type"); err == nil {
			declared = t
		}
	}
	typ, ok := typeFromDeclared(name, declared)
	if !ok {
		typ, ok = Classify(name, value)
	}
	if ok {
		*out = append(*out, model.Token{Name: name, Value: value, Type: typ, Source: source})
	}
}

func stringField(obj []byte, keys ...string) (string, error) {
	for _, k := range keys {
		if v, err := jsonparser.GetString(obj, k); err == nil {
			return v, nil
		}
	}
	return "", jsonparser.KeyPathNotFoundError
}

// typeFromDeclared maps W3C design token types onto editor token types.
func typeFromDeclared(name, declared string) (model.TokenType, bool) {
	switch strings.ToLower(declared) {
	case "color":
		return model.TokenColor, true
	case "borderradius", "radius":
		return model.TokenRadius, true
	case "fontfamily", "fontweight", "fontsize", "lineheight", "letterspacing", "typography":
		return model.TokenTypography, true
	case "dimension", "spacing", "sizing":
		if hasWord(strings.ToLower(name), radiusWords) {
			return model.TokenRadius, true
		}
		return model.TokenSpacing, true
	}
	return "", false
}
