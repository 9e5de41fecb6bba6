package css

import (
	"strings"
)

// NormalizeSelector canonicalizes a selector for comparison: comments are
// removed, whitespace runs collapse to one space, and spaces around the
// combinators and list separators ", > + ~" are dropped.
func NormalizeSelector(sel string) string {
	sel = collapseSpace(stripComments(sel))
	var b strings.Builder
	b.Grow(len(sel))
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		if c == ' ' {
			prev := byte(0)
			if b.Len() > 0 {
				prev = b.String()[b.Len()-1]
			}
			next := byte(0)
			if i+1 < len(sel) {
				next = sel[i+1]
			}
			if isCombinator(prev) || isCombinator(next) {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isCombinator(c byte) bool {
	return c == ',' || c == '>' || c == '+' || c == '~'
}

// NormalizeMedia canonicalizes a media query for comparison. A leading
// "@media" keyword is dropped, case is folded, and whitespace next to
// parentheses and colons is removed.
func NormalizeMedia(media string) string {
	m := collapseSpace(stripComments(media))
	m = strings.ToLower(m)
	m = strings.TrimSpace(strings.TrimPrefix(m, "@media"))
	replacer := strings.NewReplacer("( ", "(", " )", ")", " :", ":", ": ", ":", " ,", ",", ", ", ",")
	for {
		next := replacer.Replace(m)
		if next == m {
			return m
		}
		m = next
	}
}

// collapseSpace trims s and replaces every whitespace run with one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripComments removes /* ... */ comments. An unterminated comment runs to
// end of input.
func stripComments(s string) string {
	if !strings.Contains(s, "/*") {
		return s
	}
	var b strings.Builder
	for {
		i := strings.Index(s, "/*")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteByte(' ')
		j := strings.Index(s[i+2:], "*/")
		if j < 0 {
			return b.String()
		}
		s = s[i+2+j+2:]
	}
}

// cleanPrelude turns raw text before a '{' into a block prelude.
func cleanPrelude(s string) string {
	return collapseSpace(stripComments(s))
}

// splitSelectorList splits on commas that are not inside parentheses,
// brackets or strings.
func splitSelectorList(sel string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(sel[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(sel[start:]))
}

// resolveNested expands a nested selector against its parent. "&" is
// replaced by the parent; selectors without "&" become descendants.
func resolveNested(parent, sel string) string {
	if parent == "" {
		return sel
	}
	var out []string
	for _, p := range splitSelectorList(parent) {
		for _, s := range splitSelectorList(sel) {
			if strings.Contains(s, "&") {
				out = append(out, strings.ReplaceAll(s, "&", p))
			} else {
				out = append(out, p+" "+s)
			}
		}
	}
	return strings.Join(out, ", ")
}

// combineMedia joins an outer and inner media query.
func combineMedia(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	default:
		return outer + " and " + inner
	}
}

// StripComments removes /* ... */ comments from s.
func StripComments(s string) string {
	return stripComments(s)
}
