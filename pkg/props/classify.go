package props

import (
	"regexp"
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

type termKind int

const (
	termOther termKind = iota
	termNullish
	termString
	termStringLit
	termNumber
	termNumberLit
	termBoolean
	termBoolLit
	termArray
	termFunction
	termNode
)

// term is one member of a (possibly single-member) union type.
type term struct {
	kind  termKind
	value string
}

// classify maps union members onto a prop kind. undefined and null are
// ignored. Unions mixing string literals with anything else are plain
// strings so a partial option list is never reported.
func classify(terms []term) (model.PropKind, []string) {
	live := terms[:0:0]
	for _, t := range terms {
		if t.kind != termNullish {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return model.KindObject, nil
	}

	all := func(kinds ...termKind) bool {
		for _, t := range live {
			ok := false
			for _, k := range kinds {
				if t.kind == k {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		return true
	}
	anyOf := func(kinds ...termKind) bool {
		for _, t := range live {
			for _, k := range kinds {
				if t.kind == k {
					return true
				}
			}
		}
		return false
	}

	switch {
	case all(termBoolean, termBoolLit):
		return model.KindBoolean, nil
	case all(termNumber, termNumberLit):
		return model.KindNumber, nil
	case all(termStringLit):
		var options []string
		seen := make(map[string]bool, len(live))
		for _, t := range live {
			if !seen[t.value] {
				seen[t.value] = true
				options = append(options, t.value)
			}
		}
		return model.KindEnum, options
	case anyOf(termString, termStringLit):
		return model.KindString, nil
	case all(termArray):
		return model.KindArray, nil
	case all(termFunction):
		return model.KindFunction, nil
	case anyOf(termNode):
		return model.KindReactNode, nil
	}
	return model.KindObject, nil
}

// nodeTypes are the React type names rendered as slots.
var nodeTypes = map[string]bool{
	"ReactNode":      true,
	"ReactElement":   true,
	"ReactChild":     true,
	"ReactChildren":  true,
	"ReactPortal":    true,
	"ReactFragment":  true,
	"ReactNodeArray": true,
	"Element":        true,
}

// namedTerm classifies well-known type names. ok is false for names that
// need resolving.
func namedTerm(name string) (term, bool) {
	base := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		base = name[i+1:]
	}
	switch {
	case nodeTypes[base]:
		return term{kind: termNode}, true
	case base == "Array" || base == "ReadonlyArray":
		return term{kind: termArray}, true
	case base == "Function" || base == "Dispatch" || strings.HasSuffix(base, "EventHandler"):
		return term{kind: termFunction}, true
	}
	return term{}, false
}

func predefinedTerm(name string) term {
	switch name {
	case "string":
		return term{kind: termString}
	case "number", "bigint":
		return term{kind: termNumber}
	case "boolean":
		return term{kind: termBoolean}
	case "undefined", "null", "void", "never":
		return term{kind: termNullish}
	}
	return term{kind: termOther}
}

var (
	intPattern   = regexp.MustCompile(`^-?\d+$`)
	floatPattern = regexp.MustCompile(`^-?(\d+\.\d*|\.\d+|\d+)([eE][-+]?\d+)?$`)
)

// literalTerm classifies the text of a literal type.
func literalTerm(text string) term {
	text = strings.TrimSpace(text)
	switch {
	case text == "true" || text == "false":
		return term{kind: termBoolLit, value: text}
	case text == "null" || text == "undefined":
		return term{kind: termNullish}
	case isStringLiteral(text):
		return term{kind: termStringLit, value: unquoteString(text)}
	case floatPattern.MatchString(text):
		return term{kind: termNumberLit, value: text}
	}
	return term{kind: termOther}
}

// isStringLiteral checks if text is a quoted string literal.
func isStringLiteral(text string) bool {
	if len(text) < 2 {
		return false
	}
	q := text[0]
	return (q == '"' || q == '\'' || q == '`') && text[len(text)-1] == q
}

// unquoteString strips the surrounding quotes and simple escapes.
func unquoteString(text string) string {
	if !isStringLiteral(text) {
		return text
	}
	inner := text[1 : len(text)-1]
	if !strings.Contains(inner, `\`) {
		return inner
	}
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
