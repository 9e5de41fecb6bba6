package patch

import (
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
)

// format holds the layout conventions detected in a stylesheet so that
// inserted text looks like its neighbours.
type format struct {
	text string
	nl   string
	unit string
}

func newFormat(text string, sheet *css.Stylesheet) format {
	f := format{text: text, nl: "\n", unit: "  "}
	if strings.Contains(text, "\r\n") {
		f.nl = "\r\n"
	}
	for _, ref := range sheet.Rules() {
		b := ref.Block
		if len(b.Decls) == 0 {
			continue
		}
		outer, ok1 := lineIndent(text, b.Start)
		inner, ok2 := lineIndent(text, b.Decls[0].Start)
		if ok1 && ok2 && len(inner) > len(outer) && strings.HasPrefix(inner, outer) {
			f.unit = inner[len(outer):]
			break
		}
	}
	return f
}

// rule formats a one-declaration rule at the given indentation.
func (f format) rule(selector, decl, indent string) string {
	return indent + selector + " {" + f.nl + indent + f.unit + decl + f.nl + indent + "}"
}

// appendDecl adds decl after the last declaration of b, or at the start of
// an empty block.
func (f format) appendDecl(b *css.Block, decl string) string {
	text := f.text
	if n := len(b.Decls); n > 0 {
		last := b.Decls[n-1]
		var edits []splice
		if !last.HasSemicolon {
			edits = append(edits, splice{at: last.End, end: last.End, text: ";"})
		}
		if indent, own := lineIndent(text, last.Start); own {
			at := f.endOfLine(last.End, b.CloseBrace)
			edits = append(edits, splice{at: at, end: at, text: f.nl + indent + decl})
		} else {
			edits = append(edits, splice{at: last.End, end: last.End, text: " " + decl})
		}
		return apply(text, edits...)
	}

	open := b.OpenBrace + 1
	end := b.CloseBrace
	if len(b.Children) > 0 {
		end = b.Children[0].Start
	}
	inner := text[open:min(end, len(text))]
	switch {
	case strings.Contains(inner, "\n"):
		base, _ := lineIndent(text, b.Start)
		return apply(text, splice{at: open, end: open, text: f.nl + base + f.unit + decl})
	case inner == "":
		return apply(text, splice{at: open, end: open, text: " " + decl + " "})
	default:
		return apply(text, splice{at: open, end: open, text: " " + decl})
	}
}

// appendRule adds a rule as the last item of the @media block m.
func (f format) appendRule(m *css.Block, selector, decl string) string {
	text := f.text
	base, _ := lineIndent(text, m.Start)
	indent := base + f.unit
	if len(m.Children) > 0 {
		if ci, own := lineIndent(text, m.Children[0].Start); own {
			indent = ci
		}
	}

	at := min(m.CloseBrace, len(text))
	for at > m.OpenBrace+1 && isSpace(text[at-1]) {
		at--
	}
	insert := f.nl + f.rule(selector, decl, indent)
	if !strings.Contains(text[at:min(m.CloseBrace, len(text))], "\n") {
		insert += f.nl + base
	}
	return apply(text, splice{at: at, end: at, text: insert})
}

// appendTopLevel adds a block at the end of the text, separated from the
// previous content by a blank line.
func (f format) appendTopLevel(block string) string {
	text := f.text
	switch {
	case strings.TrimSpace(text) == "":
		return block + f.nl
	case strings.HasSuffix(text, "\n"):
		return text + f.nl + block + f.nl
	default:
		return text + f.nl + f.nl + block + f.nl
	}
}

// endOfLine returns the offset of the line break following from when only
// whitespace and comments sit between them, so trailing comments stay with
// their declaration. Otherwise it returns from.
func (f format) endOfLine(from, limit int) int {
	text := f.text
	limit = min(limit, len(text))
	i := strings.IndexByte(text[from:limit], '\n')
	if i < 0 {
		return from
	}
	i += from
	rest := text[from:i]
	if strings.Count(rest, "/*") != strings.Count(rest, "*/") || strings.TrimSpace(css.StripComments(rest)) != "" {
		return from
	}
	if i > from && text[i-1] == '\r' {
		i--
	}
	return i
}

// lineIndent returns the whitespace before pos on its line, and whether
// pos is the first non-blank character of the line.
func lineIndent(text string, pos int) (string, bool) {
	i := pos
	for i > 0 && (text[i-1] == ' ' || text[i-1] == '\t') {
		i--
	}
	if i == 0 || text[i-1] == '\n' {
		return text[i:pos], true
	}
	return "", false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
