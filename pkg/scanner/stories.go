package scanner

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser/queries"
	"github.com/aizetachan/ui-forge-sub001/pkg/props"
)

// readStories lists the named story exports of a CSF file in declaration
// order. Args come from an `args` property of an object story or from a
// later `Story.args = {...}` assignment; only literal values are kept.
func (s *Scanner) readStories(file string) ([]model.StoryVariant, error) {
	source, err := s.read(file)
	if err != nil {
		return nil, err
	}
	src := []byte(source)
	tree, err := s.pm.ParseFile(src, file)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	query, err := s.qm.GetQuery(parser.DetectLanguage(file), parser.IsTSXFile(file), queries.QueryTypeStories)
	if err != nil {
		return nil, err
	}
	matches, err := s.qm.ExecuteQuery(tree, query, src)
	if err != nil {
		return nil, err
	}

	var stories []model.StoryVariant
	index := make(map[string]int)
	assigned := make(map[string]map[string]any)
	for _, m := range matches {
		if name, ok := m.Capture("story.name"); ok {
			if _, dup := index[name.Text]; dup {
				continue
			}
			sv := model.StoryVariant{Name: name.Text}
			if value, ok := m.Capture("story.value"); ok && value.Node.Kind() == "object" {
				if argsNode := objectProperty(value.Node, src, "args"); argsNode != nil {
					sv.Args = literalObject(argsNode, src)
				}
			}
			index[name.Text] = len(stories)
			stories = append(stories, sv)
			continue
		}
		target, ok := m.Capture("story.target")
		if !ok {
			continue
		}
		if field, ok := m.Capture("story.field"); !ok || field.Text != "args" {
			continue
		}
		if args, ok := m.Capture("story.args"); ok {
			assigned[target.Text] = literalObject(args.Node, src)
		}
	}

	for name, args := range assigned {
		if i, ok := index[name]; ok {
			stories[i].Args = args
		}
	}
	return stories, nil
}

// objectProperty returns the value node of key in an object literal.
func objectProperty(obj *ts.Node, src []byte, key string) *ts.Node {
	for i := uint(0); i < obj.NamedChildCount(); i++ {
		pair := obj.NamedChild(i)
		if pair == nil || pair.Kind() != "pair" {
			continue
		}
		k := pair.ChildByFieldName("key")
		if k != nil && propertyKey(k, src) == key {
			return pair.ChildByFieldName("value")
		}
	}
	return nil
}

// literalObject reads the literal-valued pairs of an object literal.
func literalObject(obj *ts.Node, src []byte) map[string]any {
	if obj == nil || obj.Kind() != "object" {
		return nil
	}
	out := make(map[string]any)
	for i := uint(0); i < obj.NamedChildCount(); i++ {
		pair := obj.NamedChild(i)
		if pair == nil || pair.Kind() != "pair" {
			continue
		}
		k, v := pair.ChildByFieldName("key"), pair.ChildByFieldName("value")
		if k == nil || v == nil {
			continue
		}
		if lit, ok := props.ParseLiteral(v.Utf8Text(src)); ok {
			out[propertyKey(k, src)] = lit
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func propertyKey(n *ts.Node, src []byte) string {
	text := n.Utf8Text(src)
	if n.Kind() == "string" {
		return strings.Trim(text, `"'`)
	}
	return text
}
