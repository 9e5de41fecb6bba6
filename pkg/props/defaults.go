package props

import (
	"regexp"
	"strconv"
	"strings"
)

// Declaration shapes whose destructured first parameter carries defaults.
// Each pattern ends on the opening brace of the destructuring.
var defaultShapes = []string{
	// const Button = forwardRef<El, P>(({ a = 1 }, ref) => ...)
	`\b(?:const|let|var)\s+%s\s*(?::(?:[^=]|=>)+?)?=\s*(?:React\.)?forwardRef\s*(?:<[^;]*?>)?\s*\(\s*(?:function\s*[\w$]*\s*)?\(\s*\{`,
	// const Button: React.FC<P> = ({ a = 1 }) => ...
	`\b(?:const|let|var)\s+%s\s*:(?:[^=]|=>)+?=\s*(?:React\.)?(?:memo\s*(?:<[^;]*?>)?\s*\(\s*)?(?:async\s+)?(?:function\s*[\w$]*\s*)?\(\s*\{`,
	// function Button({ a = 1 }: P) { ... }
	`\bfunction\s+%s\s*(?:<[^(;]*?>)?\s*\(\s*\{`,
	// const Button = ({ a = 1 }: P) => ...
	`\b(?:const|let|var)\s+%s\s*=\s*(?:React\.)?(?:memo\s*(?:<[^;]*?>)?\s*\(\s*)?(?:async\s+)?(?:function\s*[\w$]*\s*)?\(\s*\{`,
}

// destructuredParams returns the text between the braces of the component's
// destructured first parameter, or false.
func destructuredParams(source []byte, componentName string) (string, bool) {
	quoted := regexp.QuoteMeta(componentName)
	for _, shape := range defaultShapes {
		re, err := regexp.Compile(strings.ReplaceAll(shape, "%s", quoted))
		if err != nil {
			continue
		}
		loc := re.FindIndex(source)
		if loc == nil {
			continue
		}
		open := loc[1] - 1
		if end := matchBrace(source, open); end > open {
			return string(source[open+1 : end]), true
		}
	}
	return "", false
}

// ExtractDefaults returns the literal default values of the component's
// destructured props. Expressions that are not boolean, number or string
// literals are left out.
func ExtractDefaults(source []byte, componentName string) map[string]any {
	defaults := make(map[string]any)
	params, ok := destructuredParams(source, componentName)
	if !ok {
		return defaults
	}
	for _, entry := range destructuredEntries(params) {
		if !entry.hasDefault {
			continue
		}
		if v, ok := ParseLiteral(entry.value); ok {
			defaults[entry.name] = v
		}
	}
	return defaults
}

type destructured struct {
	name       string
	value      string
	hasDefault bool
}

// destructuredEntries splits a destructuring pattern into its props.
// { a, b = 1, c: local = "x", ...rest } yields a, b and c.
func destructuredEntries(params string) []destructured {
	var out []destructured
	for _, part := range splitTopLevel(params, ',', false) {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasPrefix(part, "...") {
			continue
		}
		var d destructured
		left := part
		if i := assignIndex(part); i >= 0 {
			left = part[:i]
			d.value = strings.TrimSpace(part[i+1:])
			d.hasDefault = true
		}
		if i := strings.Index(left, ":"); i >= 0 {
			left = left[:i]
		}
		d.name = unquoteString(strings.TrimSpace(left))
		if identPattern.MatchString(d.name) {
			out = append(out, d)
		}
	}
	return out
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][\w$-]*$`)

// ParseLiteral converts a JavaScript literal expression: true/false,
// integers, floats and quoted strings.
func ParseLiteral(expr string) (any, bool) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "true":
		return true, true
	case expr == "false":
		return false, true
	case intPattern.MatchString(expr):
		if n, err := strconv.Atoi(expr); err == nil {
			return n, true
		}
	case floatPattern.MatchString(expr):
		if f, err := strconv.ParseFloat(expr, 64); err == nil {
			return f, true
		}
	case isStringLiteral(expr):
		if expr[0] == '`' && strings.Contains(expr, "${") {
			return nil, false
		}
		return unquoteString(expr), true
	}
	return nil, false
}

// assignIndex finds a top-level '=' that is not part of =>, == or a
// comparison.
func assignIndex(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			next := byte(0)
			if i+1 < len(s) {
				next = s[i+1]
			}
			prev := byte(0)
			if i > 0 {
				prev = s[i-1]
			}
			if next == '>' || next == '=' || prev == '=' || prev == '!' || prev == '<' || prev == '>' {
				continue
			}
			return i
		}
	}
	return -1
}

// splitTopLevel splits s on sep outside brackets, braces and strings, and
// outside angle brackets when angles is set.
func splitTopLevel(s string, sep byte, angles bool) []string {
	var parts []string
	depth, start := 0, 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '<':
			if angles {
				depth++
			}
		case '>':
			if angles && (i == 0 || s[i-1] != '=') {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// matchBrace returns the index of the brace closing the one at open, or -1.
// Strings and comments are skipped.
func matchBrace(src []byte, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			} else if i+1 < len(src) && src[i+1] == '*' {
				end := strings.Index(string(src[i+2:]), "*/")
				if end < 0 {
					return -1
				}
				i += end + 3
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
