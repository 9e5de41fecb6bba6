package props

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// findCVACall returns the cva() call assigned to the top-level variable name.
func findCVACall(sf *SourceFile, name string) *ts.Node {
	root := sf.Tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		node := root.Child(i)
		if node.Kind() == "export_statement" {
			if decl := node.ChildByFieldName("declaration"); decl != nil {
				node = decl
			}
		}
		if node.Kind() != "lexical_declaration" && node.Kind() != "variable_declaration" {
			continue
		}
		for j := uint(0); j < node.ChildCount(); j++ {
			d := node.Child(j)
			if d.Kind() != "variable_declarator" {
				continue
			}
			if n := d.ChildByFieldName("name"); n == nil || n.Utf8Text(sf.Source) != name {
				continue
			}
			value := d.ChildByFieldName("value")
			if value == nil || value.Kind() != "call_expression" {
				return nil
			}
			if fn := value.ChildByFieldName("function"); fn == nil || fn.Utf8Text(sf.Source) != "cva" {
				return nil
			}
			return value
		}
	}
	return nil
}

// cvaMembers turns the variants of a cva() config into optional enum props,
// in declaration order, with defaultVariants as defaults. A variant keyed
// only by true and false is a boolean.
func cvaMembers(call *ts.Node, sf *SourceFile) []member {
	config := nthNamedChild(call.ChildByFieldName("arguments"), 1)
	if config == nil || config.Kind() != "object" {
		return nil
	}

	var variants, defaults *ts.Node
	for i := uint(0); i < config.ChildCount(); i++ {
		pair := config.Child(i)
		if pair.Kind() != "pair" {
			continue
		}
		key, value := pair.ChildByFieldName("key"), pair.ChildByFieldName("value")
		if key == nil || value == nil || value.Kind() != "object" {
			continue
		}
		switch unquoteString(key.Utf8Text(sf.Source)) {
		case "variants":
			variants = value
		case "defaultVariants":
			defaults = value
		}
	}
	if variants == nil {
		return nil
	}

	defaultValues := objectPairs(defaults, sf)
	out := []member{}
	for i := uint(0); i < variants.ChildCount(); i++ {
		pair := variants.Child(i)
		if pair.Kind() != "pair" {
			continue
		}
		key, value := pair.ChildByFieldName("key"), pair.ChildByFieldName("value")
		if key == nil || value == nil || value.Kind() != "object" {
			continue
		}
		name := unquoteString(key.Utf8Text(sf.Source))
		var options []string
		for j := uint(0); j < value.ChildCount(); j++ {
			opt := value.Child(j)
			if opt.Kind() != "pair" {
				continue
			}
			if k := opt.ChildByFieldName("key"); k != nil {
				options = append(options, unquoteString(k.Utf8Text(sf.Source)))
			}
		}

		m := member{name: name, optional: true, file: sf, kind: model.KindEnum, options: options}
		if isBooleanOptions(options) {
			m.kind, m.options = model.KindBoolean, nil
		}
		if raw, ok := defaultValues[name]; ok {
			if v, ok := ParseLiteral(raw); ok {
				m.def = v
			}
		}
		out = append(out, m)
	}
	return out
}

// objectPairs returns the raw value text of each key in an object literal.
func objectPairs(obj *ts.Node, sf *SourceFile) map[string]string {
	out := make(map[string]string)
	if obj == nil {
		return out
	}
	for i := uint(0); i < obj.ChildCount(); i++ {
		pair := obj.Child(i)
		if pair.Kind() != "pair" {
			continue
		}
		key, value := pair.ChildByFieldName("key"), pair.ChildByFieldName("value")
		if key != nil && value != nil {
			out[unquoteString(key.Utf8Text(sf.Source))] = value.Utf8Text(sf.Source)
		}
	}
	return out
}

func isBooleanOptions(options []string) bool {
	if len(options) == 0 || len(options) > 2 {
		return false
	}
	for _, o := range options {
		if o != "true" && o != "false" {
			return false
		}
	}
	return true
}
