package css

import (
	"strings"
)

// fallbackOutline builds an outline by tracking brace depth. It tolerates
// unbalanced braces: a block missing its '}' runs to end of input and a
// stray '}' at top level is skipped. Comments and quoted strings are never
// interpreted as structure.
func fallbackOutline(text string) *Stylesheet {
	s := &braceScanner{text: text}
	blocks, _, _ := s.items(0)
	return &Stylesheet{Text: text, Mode: ModeFallback, Blocks: blocks}
}

type braceScanner struct {
	text string
	pos  int
}

// items reads blocks and declarations until the '}' closing the current
// block (consumed, its offset returned) or end of input.
func (s *braceScanner) items(depth int) ([]*Block, []Decl, int) {
	var blocks []*Block
	var decls []Decl

	for {
		s.skipSpaceAndComments()
		if s.pos >= len(s.text) {
			return blocks, decls, len(s.text)
		}

		switch s.text[s.pos] {
		case '}':
			if depth == 0 {
				s.pos++
				continue
			}
			closePos := s.pos
			s.pos++
			return blocks, decls, closePos
		case ';':
			s.pos++
			continue
		}

		start := s.pos
		stop, stopPos := s.scanUntil()
		switch stop {
		case '{':
			block := &Block{Start: start, OpenBrace: stopPos}
			header := cleanPrelude(s.text[start:stopPos])
			block.Kind, block.Prelude = classifyHeader(header)
			s.pos = stopPos + 1
			children, childDecls, closePos := s.items(depth + 1)
			block.Children = children
			block.Decls = childDecls
			block.CloseBrace = closePos
			blocks = append(blocks, block)

		default:
			// ';', '}' or end of input terminates a declaration or an
			// at-rule statement such as @import.
			if depth > 0 {
				if d, ok := s.declaration(start, stopPos, stop == ';'); ok {
					decls = append(decls, d)
				}
			}
			if stop == ';' {
				s.pos = stopPos + 1
			} else {
				s.pos = stopPos
			}
		}
	}
}

// declaration builds a Decl from text[start:stop].
func (s *braceScanner) declaration(start, stop int, semicolon bool) (Decl, bool) {
	raw := s.text[start:stop]
	colon := indexTopLevelColon(raw)
	if colon < 0 {
		return Decl{}, false
	}
	prop := strings.TrimSpace(stripComments(raw[:colon]))
	if prop == "" || strings.ContainsAny(prop, " \t\n") || strings.HasPrefix(prop, "@") {
		return Decl{}, false
	}

	vStart, vEnd := trimSpan(s.text, start+colon+1, stop)
	d := Decl{
		Property:     prop,
		Value:        s.text[vStart:vEnd],
		Start:        start,
		ValueStart:   vStart,
		ValueEnd:     vEnd,
		HasSemicolon: semicolon,
	}
	if semicolon {
		d.End = stop + 1
	} else {
		d.End = vEnd
	}
	return d, true
}

// scanUntil advances from s.pos to the next structural '{', ';' or '}'
// outside comments, strings and parentheses. Returns 0 at end of input.
func (s *braceScanner) scanUntil() (byte, int) {
	depth := 0
	i := s.pos
	for i < len(s.text) {
		c := s.text[i]
		switch {
		case c == '/' && i+1 < len(s.text) && s.text[i+1] == '*':
			end := strings.Index(s.text[i+2:], "*/")
			if end < 0 {
				return 0, len(s.text)
			}
			i += end + 4
			continue
		case c == '"' || c == '\'':
			i = skipString(s.text, i)
			continue
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (c == '{' || c == ';' || c == '}'):
			return c, i
		}
		i++
	}
	return 0, len(s.text)
}

func (s *braceScanner) skipSpaceAndComments() {
	for s.pos < len(s.text) {
		c := s.text[s.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' {
			s.pos++
			continue
		}
		if c == '/' && s.pos+1 < len(s.text) && s.text[s.pos+1] == '*' {
			end := strings.Index(s.text[s.pos+2:], "*/")
			if end < 0 {
				s.pos = len(s.text)
				return
			}
			s.pos += end + 4
			continue
		}
		return
	}
}

// skipString returns the offset just past the string starting at i.
func skipString(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(text)
}

// indexTopLevelColon finds the ':' separating property from value.
func indexTopLevelColon(raw string) int {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ':':
			return i
		case '"', '\'', '(':
			return -1
		}
	}
	return -1
}

// trimSpan narrows [start, end) of text to exclude surrounding whitespace.
func trimSpan(text string, start, end int) (int, int) {
	for start < end && isSpace(text[start]) {
		start++
	}
	for end > start && isSpace(text[end-1]) {
		end--
	}
	return start, end
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// classifyHeader maps a block header to its kind and prelude.
func classifyHeader(header string) (BlockKind, string) {
	if !strings.HasPrefix(header, "@") {
		return BlockRule, header
	}
	keyword, rest, _ := strings.Cut(header, " ")
	if strings.EqualFold(keyword, "@media") {
		return BlockMedia, strings.TrimSpace(rest)
	}
	if strings.HasPrefix(strings.ToLower(header), "@media(") {
		return BlockMedia, strings.TrimSpace(header[len("@media"):])
	}
	return BlockOther, header
}
