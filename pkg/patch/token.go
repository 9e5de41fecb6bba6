package patch

import (
	"fmt"
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
)

// TokenResult is the outcome of PatchTokenValue.
type TokenResult struct {
	Content       string
	PreviousValue string
	Outcome       Outcome
	Err           error
}

// PatchTokenValue sets a custom property in a theme with the default engine.
func PatchTokenValue(theme, token, value string) TokenResult {
	return defaultEngine().PatchTokenValue(theme, token, value)
}

// ReadTokenValue looks up a custom property with the default engine.
func ReadTokenValue(theme, token string) (string, bool) {
	return defaultEngine().ReadTokenValue(theme, token)
}

// TokenProperty returns the custom property name for a token name given
// with or without its "--" prefix.
func TokenProperty(token string) string {
	token = strings.TrimSpace(token)
	if token == "" || strings.HasPrefix(token, "--") {
		return token
	}
	return "--" + token
}

// PatchTokenValue rewrites the value of the first declaration of the custom
// property named token, in document order and at any nesting depth. A
// missing token fails with ErrTokenNotFound and leaves theme unchanged.
func (e *Engine) PatchTokenValue(theme, token, value string) TokenResult {
	fail := func(err error) TokenResult {
		return TokenResult{Content: theme, Outcome: OutcomeFailed, Err: err}
	}
	name := TokenProperty(token)
	if !propertyPattern.MatchString(name) {
		return fail(fmt.Errorf("%w: token name %q", ErrInvalidRequest, token))
	}
	if err := checkValue(value); err != nil {
		return fail(err)
	}

	sheet := e.css.Outline(theme)
	d, ok := firstDecl(sheet.Blocks, name)
	if !ok {
		return fail(fmt.Errorf("%w: %s", ErrTokenNotFound, name))
	}
	return TokenResult{
		Content:       apply(theme, splice{at: d.ValueStart, end: d.ValueEnd, text: strings.TrimSpace(value)}),
		PreviousValue: d.Value,
		Outcome:       outcomeFor(sheet.Mode),
	}
}

// ReadTokenValue returns the value PatchTokenValue would replace.
func (e *Engine) ReadTokenValue(theme, token string) (string, bool) {
	d, ok := firstDecl(e.css.Outline(theme).Blocks, TokenProperty(token))
	return d.Value, ok
}

// firstDecl finds the declaration of name with the lowest offset.
func firstDecl(blocks []*css.Block, name string) (css.Decl, bool) {
	var best css.Decl
	found := false
	var walk func([]*css.Block)
	walk = func(blocks []*css.Block) {
		for _, b := range blocks {
			for _, d := range b.Decls {
				if d.Property == name && (!found || d.Start < best.Start) {
					best, found = d, true
					break
				}
			}
			walk(b.Children)
		}
	}
	walk(blocks)
	return best, found
}
