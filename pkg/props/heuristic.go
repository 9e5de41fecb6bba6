package props

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// memberPattern matches a property or method name at the start of a member
// of a masked object type body.
var memberPattern = regexp.MustCompile(`(?m)(?:^|[;,])[ \t]*(?:readonly\s+)?(['"]?[A-Za-z_$][\w$-]*['"]?)[ \t]*(\?)?[ \t]*([:(])`)

// HeuristicResolver reads props from source text with regular expressions.
// It understands a <Name>Props body declared in the component file, or
// failing that the names in the component's destructured parameter.
type HeuristicResolver struct {
	log *slog.Logger
}

// NewHeuristicResolver creates the text-pattern resolver.
func NewHeuristicResolver(logger *slog.Logger) *HeuristicResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeuristicResolver{log: logger}
}

// Resolve implements TypeShapeResolver. prog may be nil, in which case the
// file is read from disk.
func (r *HeuristicResolver) Resolve(prog *Program, file, componentName string) ([]model.PropDef, error) {
	source, err := readSource(prog, file)
	if err != nil {
		return nil, err
	}
	text := maskComments(source)

	if body, ok := declarationBody(text, componentName+"Props"); ok {
		return membersFromText(body, string(text)), nil
	}
	if params, ok := destructuredParams(text, componentName); ok {
		return propsFromDestructuring(params), nil
	}
	r.log.Debug("no props pattern matched", "component", componentName, "file", file)
	return nil, nil
}

func readSource(prog *Program, file string) ([]byte, error) {
	if prog != nil {
		if sf, ok := prog.File(file); ok {
			return sf.Source, nil
		}
	}
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return source, nil
}

// declarationBody returns the object body of interface or type typeName.
func declarationBody(text []byte, typeName string) (string, bool) {
	re := regexp.MustCompile(`\b(?:interface|type)\s+` + regexp.QuoteMeta(typeName) + `\b`)
	loc := re.FindIndex(text)
	if loc == nil {
		return "", false
	}
	for i := loc[1]; i < len(text); i++ {
		switch text[i] {
		case ';':
			return "", false
		case '{':
			end := matchBrace(text, i)
			if end < 0 {
				return "", false
			}
			return string(text[i+1 : end]), true
		}
	}
	return "", false
}

// membersFromText reads the top-level members of an object type body. text
// is the whole file, used to follow local type aliases.
func membersFromText(body, text string) []model.PropDef {
	masked := maskNested(body)
	matches := memberPattern.FindAllStringSubmatchIndex(masked, -1)

	var props []model.PropDef
	for i, m := range matches {
		name := unquoteString(body[m[2]:m[3]])
		optional := m[4] >= 0
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		pd := model.PropDef{Name: name, Required: !optional}
		if body[m[6]:m[7]] == "(" {
			pd.Kind = model.KindFunction
		} else {
			typ := strings.TrimRight(strings.TrimSpace(body[m[1]:end]), ";,")
			pd.Kind, pd.Options = classify(textTerms(typ, text, map[string]bool{}))
		}
		props = append(props, pd.Normalize())
	}
	return props
}

// textTerms splits a type expression into classified union members.
func textTerms(typ, text string, visiting map[string]bool) []term {
	var out []term
	for _, piece := range splitTopLevel(typ, '|', true) {
		piece = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(piece), "readonly "))
		if piece == "" {
			continue
		}
		out = append(out, textTerm(piece, text, visiting)...)
	}
	return out
}

func textTerm(piece, text string, visiting map[string]bool) []term {
	switch {
	case strings.Contains(piece, "=>"):
		return []term{{kind: termFunction}}
	case strings.HasPrefix(piece, "(") && strings.HasSuffix(piece, ")"):
		return textTerms(piece[1:len(piece)-1], text, visiting)
	case strings.HasPrefix(piece, "`"):
		return []term{{kind: termString}}
	case strings.HasSuffix(piece, "[]"), strings.HasPrefix(piece, "["):
		return []term{{kind: termArray}}
	case strings.HasPrefix(piece, "{"):
		return []term{{kind: termOther}}
	case strings.HasPrefix(piece, "keyof "):
		return []term{{kind: termString}}
	}
	if t := literalTerm(piece); t.kind != termOther {
		return []term{t}
	}
	if t := predefinedTerm(piece); t.kind != termOther {
		return []term{t}
	}

	name := piece
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if t, ok := namedTerm(name); ok {
		return []term{t}
	}
	if visiting[name] {
		return []term{{kind: termOther}}
	}
	alias, ok := aliasText(text, name)
	if !ok {
		return []term{{kind: termOther}}
	}
	visiting[name] = true
	defer delete(visiting, name)
	return textTerms(alias, text, visiting)
}

// aliasText returns the right-hand side of `type name = ...` in text.
func aliasText(text, name string) (string, bool) {
	re := regexp.MustCompile(`\btype\s+` + regexp.QuoteMeta(name) + `\s*=\s*`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	masked := maskNested(rest)
	end := len(rest)
	for i := 0; i < len(masked); i++ {
		if masked[i] == ';' {
			end = i
			break
		}
		if masked[i] == '\n' && strings.TrimSpace(masked[:i]) != "" {
			next := strings.TrimLeft(masked[i+1:], " \t\r\n")
			if next == "" || (next[0] != '|' && next[0] != '&') {
				end = i
				break
			}
		}
	}
	return strings.TrimSpace(rest[:end]), true
}

// propsFromDestructuring builds props from destructured parameter names,
// typing each from its default value.
func propsFromDestructuring(params string) []model.PropDef {
	var props []model.PropDef
	for _, d := range destructuredEntries(params) {
		kind := model.KindString
		switch {
		case d.name == "children":
			kind = model.KindReactNode
		case isEventName(d.name):
			kind = model.KindFunction
		case d.hasDefault:
			if v, ok := ParseLiteral(d.value); ok {
				switch v.(type) {
				case bool:
					kind = model.KindBoolean
				case int, float64:
					kind = model.KindNumber
				}
			}
		}
		props = append(props, model.NewPropDef(d.name, kind, nil))
	}
	return props
}

// maskNested blanks everything inside brackets, braces and parentheses so
// only top-level structure remains. Newlines are kept.
func maskNested(s string) string {
	out := []byte(s)
	depth := 0
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		if quote != 0 {
			if c == '\\' && i+1 < len(out) {
				if depth > 0 {
					out[i], out[i+1] = ' ', ' '
				}
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			if depth > 0 && c != '\n' {
				out[i] = ' '
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
			if depth > 1 {
				out[i] = ' '
			}
			continue
		case ')', ']', '}':
			depth--
			if depth > 0 {
				out[i] = ' '
			}
			continue
		}
		if depth > 0 && c != '\n' {
			out[i] = ' '
		}
	}
	return string(out)
}

// maskComments replaces comments with spaces, keeping offsets and newlines.
func maskComments(src []byte) []byte {
	out := append([]byte(nil), src...)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '/' && i+1 < len(out) && out[i+1] == '/':
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			j := i
			for ; j < len(out); j++ {
				if j > i+1 && src[j-1] == '*' && src[j] == '/' {
					out[j] = ' '
					break
				}
				if out[j] != '\n' {
					out[j] = ' '
				}
			}
			i = j
		}
	}
	return out
}
