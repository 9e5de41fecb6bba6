package patch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
)

// CSSRequest sets one property of the rule matching Selector, optionally
// inside an @media block matching Media. Property may be kebab-case or
// camelCase.
type CSSRequest struct {
	Selector string `json:"selector"`
	Property string `json:"property"`
	Value    string `json:"value"`
	Media    string `json:"mediaQuery,omitempty"`
}

// CSSResult is the outcome of PatchCSSProperty. PreviousValue is set when
// Found is true.
type CSSResult struct {
	Content       string
	PreviousValue string
	Found         bool
	Outcome       Outcome
	Err           error
}

// PatchCSSProperty applies req to text with the default engine.
func PatchCSSProperty(text string, req CSSRequest) CSSResult {
	return defaultEngine().PatchCSSProperty(text, req)
}

// ReadCSSProperty looks up a declaration with the default engine.
func ReadCSSProperty(text, selector, property, media string) (string, bool) {
	return defaultEngine().ReadCSSProperty(text, selector, property, media)
}

// PatchCSSProperty sets a declaration value.
//
// The target is the last rule whose normalized selector and media query
// match the request and that declares the property; within it the last
// declaration of the property is rewritten, leaving every other byte in
// place. An authored !important is kept unless the new value carries its
// own. When no matching rule declares the property, the declaration is
// appended to the last matching rule. When no rule matches, a rule is
// added inside the last matching @media block, in a new @media block, or
// at the end of the text. Adding at the end fails with ErrMalformedInput
// when the last top-level block is never closed, since the new block would
// land inside it.
func (e *Engine) PatchCSSProperty(text string, req CSSRequest) CSSResult {
	fail := func(err error) CSSResult {
		return CSSResult{Content: text, Outcome: OutcomeFailed, Err: err}
	}
	property, err := checkCSSRequest(req)
	if err != nil {
		return fail(err)
	}
	value := strings.TrimSpace(req.Value)
	media := mediaText(req.Media)

	sheet := e.css.Outline(text)
	outcome := outcomeFor(sheet.Mode)
	refs := matchingRules(sheet, req.Selector, media)

	if d, ok := findDecl(refs, property); ok {
		return CSSResult{
			Content:       apply(text, splice{at: d.ValueStart, end: d.ValueEnd, text: keepImportant(d.Value, value)}),
			PreviousValue: d.Value,
			Found:         true,
			Outcome:       outcome,
		}
	}

	f := newFormat(text, sheet)
	decl := property + ": " + value + ";"
	var content string
	m := lastMedia(sheet, media)
	switch {
	case len(refs) > 0:
		content = f.appendDecl(refs[len(refs)-1].Block, decl)
	case media != "" && m != nil:
		content = f.appendRule(m, collapse(req.Selector), decl)
	default:
		if b := unclosedBlock(sheet); b != nil {
			return fail(fmt.Errorf("%w: block %q at offset %d is never closed", ErrMalformedInput, b.Prelude, b.Start))
		}
		if media != "" {
			block := "@media " + media + " {" + f.nl + f.rule(collapse(req.Selector), decl, f.unit) + f.nl + "}"
			content = f.appendTopLevel(block)
		} else {
			content = f.appendTopLevel(f.rule(collapse(req.Selector), decl, ""))
		}
	}
	return CSSResult{Content: content, Outcome: outcome}
}

var importantPattern = regexp.MustCompile(`(?i)!\s*important\s*$`)

// keepImportant carries a trailing !important of prev over to value.
func keepImportant(prev, value string) string {
	if importantPattern.MatchString(prev) && !importantPattern.MatchString(value) {
		return value + " !important"
	}
	return value
}

// unclosedBlock returns the top-level block that runs to end of input, if
// any. Only the last top-level block can.
func unclosedBlock(sheet *css.Stylesheet) *css.Block {
	if n := len(sheet.Blocks); n > 0 && sheet.Blocks[n-1].Unterminated(sheet.Text) {
		return sheet.Blocks[n-1]
	}
	return nil
}

// ReadCSSProperty returns the value PatchCSSProperty would replace.
func (e *Engine) ReadCSSProperty(text, selector, property, media string) (string, bool) {
	property = css.KebabCase(property)
	if property == "" || strings.TrimSpace(selector) == "" {
		return "", false
	}
	sheet := e.css.Outline(text)
	d, ok := findDecl(matchingRules(sheet, selector, mediaText(media)), property)
	if !ok {
		return "", false
	}
	return d.Value, true
}

var propertyPattern = regexp.MustCompile(`^-{0,2}[a-zA-Z_][a-zA-Z0-9_-]*$`)

func checkCSSRequest(req CSSRequest) (string, error) {
	selector := strings.TrimSpace(req.Selector)
	if selector == "" || strings.ContainsAny(selector, "{};") {
		return "", fmt.Errorf("%w: selector %q", ErrInvalidRequest, req.Selector)
	}
	property := css.KebabCase(req.Property)
	if !propertyPattern.MatchString(property) {
		return "", fmt.Errorf("%w: property %q", ErrInvalidRequest, req.Property)
	}
	if strings.ContainsAny(req.Media, "{};") {
		return "", fmt.Errorf("%w: media query %q", ErrInvalidRequest, req.Media)
	}
	if err := checkValue(req.Value); err != nil {
		return "", err
	}
	return property, nil
}

// checkValue rejects values that would end the declaration or block early.
// Terminators inside parentheses, as in url(data:...;base64,...), are part
// of the value.
func checkValue(value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return fmt.Errorf("%w: empty value", ErrInvalidRequest)
	}
	depth := 0
	var quote byte
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unbalanced parentheses in value %q", ErrInvalidRequest, value)
			}
		case depth == 0 && (c == ';' || c == '{' || c == '}'):
			return fmt.Errorf("%w: value %q contains %q", ErrInvalidRequest, value, c)
		case c == '/' && i+1 < len(v) && v[i+1] == '*':
			end := strings.Index(v[i+2:], "*/")
			if end < 0 {
				return fmt.Errorf("%w: unterminated comment in value %q", ErrInvalidRequest, value)
			}
			i += end + 3
		}
	}
	if quote != 0 || depth != 0 {
		return fmt.Errorf("%w: unbalanced value %q", ErrInvalidRequest, value)
	}
	return nil
}

// mediaText strips an optional "@media" keyword and collapses whitespace.
func mediaText(media string) string {
	m := collapse(media)
	if len(m) >= 6 && strings.EqualFold(m[:6], "@media") {
		m = strings.TrimSpace(m[6:])
	}
	return m
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func matchingRules(sheet *css.Stylesheet, selector, media string) []css.RuleRef {
	sel := css.NormalizeSelector(selector)
	med := css.NormalizeMedia(media)
	var out []css.RuleRef
	for _, ref := range sheet.Rules() {
		if css.NormalizeSelector(ref.Selector) == sel && css.NormalizeMedia(ref.Media) == med {
			out = append(out, ref)
		}
	}
	return out
}

// findDecl returns the last declaration of property in the last rule that
// declares it.
func findDecl(refs []css.RuleRef, property string) (css.Decl, bool) {
	for i := len(refs) - 1; i >= 0; i-- {
		decls := refs[i].Block.Decls
		for j := len(decls) - 1; j >= 0; j-- {
			if sameProperty(decls[j].Property, property) {
				return decls[j], true
			}
		}
	}
	return css.Decl{}, false
}

// sameProperty compares property names. Custom properties are case
// sensitive, standard ones are not.
func sameProperty(a, b string) bool {
	if strings.HasPrefix(a, "--") || strings.HasPrefix(b, "--") {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// lastMedia returns the last top-level @media block with the given query.
func lastMedia(sheet *css.Stylesheet, media string) *css.Block {
	want := css.NormalizeMedia(media)
	var found *css.Block
	for _, b := range sheet.Blocks {
		if b.Kind == css.BlockMedia && css.NormalizeMedia(b.Prelude) == want {
			found = b
		}
	}
	return found
}
