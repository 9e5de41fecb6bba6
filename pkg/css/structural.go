package css

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// structuralOutline converts a tree-sitter-css tree into an outline.
// The caller guarantees the tree has no errors.
func structuralOutline(root *ts.Node, text string) *Stylesheet {
	return &Stylesheet{
		Text:   text,
		Mode:   ModeStructural,
		Blocks: blockItems(root, text),
	}
}

// blockItems converts the rule-bearing children of a stylesheet or block.
func blockItems(n *ts.Node, text string) []*Block {
	var blocks []*Block
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if b := convertBlock(child, text); b != nil {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func convertBlock(n *ts.Node, text string) *Block {
	body := findChild(n, "block")
	switch n.Kind() {
	case "rule_set":
		if body == nil {
			return nil
		}
		b := newBlock(n, body, text, BlockRule)
		b.Prelude = cleanPrelude(text[n.StartByte():body.StartByte()])
		fillBody(b, body, text)
		return b

	case "media_statement":
		if body == nil {
			return nil
		}
		b := newBlock(n, body, text, BlockMedia)
		header := cleanPrelude(text[n.StartByte():body.StartByte()])
		b.Prelude = strings.TrimSpace(strings.TrimPrefix(header, "@media"))
		fillBody(b, body, text)
		return b

	case "supports_statement", "at_rule", "keyframes_statement", "scope_statement", "namespace_statement":
		if body == nil {
			body = findChild(n, "keyframe_block_list")
		}
		if body == nil {
			return nil
		}
		b := newBlock(n, body, text, BlockOther)
		b.Prelude = cleanPrelude(text[n.StartByte():body.StartByte()])
		if body.Kind() == "block" {
			fillBody(b, body, text)
		}
		return b
	}
	return nil
}

func newBlock(n, body *ts.Node, text string, kind BlockKind) *Block {
	open := int(body.StartByte())
	closePos := int(body.EndByte()) - 1
	if closePos < open || closePos >= len(text) || text[closePos] != '}' {
		closePos = len(text)
	}
	return &Block{Kind: kind, Start: int(n.StartByte()), OpenBrace: open, CloseBrace: closePos}
}

// fillBody collects declarations and nested blocks of a block node.
func fillBody(b *Block, body *ts.Node, text string) {
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child.Kind() == "declaration" {
			if d, ok := convertDecl(child, text); ok {
				b.Decls = append(b.Decls, d)
			}
			continue
		}
		if nested := convertBlock(child, text); nested != nil {
			b.Children = append(b.Children, nested)
		}
	}
}

func convertDecl(n *ts.Node, text string) (Decl, bool) {
	prop := findChild(n, "property_name")
	if prop == nil {
		return Decl{}, false
	}
	start := int(n.StartByte())
	end := int(n.EndByte())

	colon := strings.IndexByte(text[prop.EndByte():end], ':')
	if colon < 0 {
		return Decl{}, false
	}
	valueFrom := int(prop.EndByte()) + colon + 1

	valueTo := end
	semicolon := false
	if count := n.ChildCount(); count > 0 {
		if last := n.Child(count - 1); last != nil && last.Kind() == ";" {
			semicolon = true
			valueTo = int(last.StartByte())
		}
	}
	vStart, vEnd := trimSpan(text, valueFrom, valueTo)
	d := Decl{
		Property:     text[prop.StartByte():prop.EndByte()],
		Value:        text[vStart:vEnd],
		Start:        start,
		End:          end,
		ValueStart:   vStart,
		ValueEnd:     vEnd,
		HasSemicolon: semicolon,
	}
	if !semicolon {
		d.End = vEnd
	}
	return d, true
}

func findChild(n *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}
