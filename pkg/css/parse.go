package css

import (
	"log/slog"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
)

// Parser turns stylesheet text into outlines and rules. It prefers the
// tree-sitter grammar and falls back to a brace-depth scanner when the text
// does not parse cleanly (unsupported syntax, unbalanced braces).
type Parser struct {
	pm  *parser.ParserManager
	log *slog.Logger
}

// NewParser creates a Parser backed by pm. A nil pm disables the structural
// scan and always uses the fallback.
func NewParser(pm *parser.ParserManager, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{pm: pm, log: logger}
}

var (
	defaultOnce   sync.Once
	defaultParser *Parser
)

// Default returns a process-wide Parser with its own ParserManager.
func Default() *Parser {
	defaultOnce.Do(func() {
		defaultParser = NewParser(parser.NewParserManager(nil), nil)
	})
	return defaultParser
}

// Outline scans text into a positional outline.
func (p *Parser) Outline(text string) *Stylesheet {
	if p.pm != nil {
		tree, err := p.pm.Parse([]byte(text), parser.LanguageCSS, false)
		if err == nil {
			defer tree.Close()
			root := tree.RootNode()
			if !root.HasError() {
				return structuralOutline(root, text)
			}
		}
		p.log.Debug("structural css scan failed, using fallback", "bytes", len(text))
	}
	return fallbackOutline(text)
}

// Parse returns the rules of a stylesheet in document order. Rules inside
// @media carry the query in MediaQuery; rules inside other at-rules are
// skipped. A comma-separated selector list stays a single rule.
func (p *Parser) Parse(text string) ([]model.ParsedCSSRule, Mode) {
	sheet := p.Outline(text)
	return RulesOf(sheet), sheet.Mode
}

// Parse parses text with the Default parser.
func Parse(text string) ([]model.ParsedCSSRule, Mode) {
	return Default().Parse(text)
}

// Outline scans text with the Default parser.
func Outline(text string) *Stylesheet {
	return Default().Outline(text)
}

// RulesOf converts an outline into model rules. A property declared twice in
// one rule keeps its first position and its last value.
func RulesOf(sheet *Stylesheet) []model.ParsedCSSRule {
	refs := sheet.Rules()
	rules := make([]model.ParsedCSSRule, 0, len(refs))
	for _, ref := range refs {
		rule := model.NewParsedCSSRule(ref.Selector, ref.Media)
		for _, d := range ref.Block.Decls {
			rule.Properties.Set(CamelCase(d.Property), ParseValue(d.Value))
		}
		rules = append(rules, rule)
	}
	return rules
}

var classPattern = regexp.MustCompile(`\.(-?[_a-zA-Z][_a-zA-Z0-9-]*)`)

// SelectorList splits a selector list on top-level commas.
func SelectorList(selector string) []string {
	return splitSelectorList(selector)
}

// SelectorClasses returns the class names referenced by a selector in order
// of appearance, without duplicates.
func SelectorClasses(selector string) []string {
	var out []string
	for _, m := range classPattern.FindAllStringSubmatch(selector, -1) {
		if !slices.Contains(out, m[1]) {
			out = append(out, m[1])
		}
	}
	return out
}

// SelectorStates returns the interactive pseudo-classes a selector uses.
func SelectorStates(selector string) []string {
	var out []string
	for _, state := range interactiveStates {
		if hasPseudo(selector, state) {
			out = append(out, state)
		}
	}
	return out
}

// ClassNames returns the distinct class names referenced by rule selectors
// in first-seen order.
func ClassNames(rules []model.ParsedCSSRule) []string {
	var out []string
	for _, r := range rules {
		for _, c := range SelectorClasses(r.Selector) {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// interactiveStates are the pseudo-classes the editor can preview.
var interactiveStates = []string{"hover", "focus", "focus-visible", "focus-within", "active", "disabled", "checked"}

// PseudoStates returns the interactive pseudo-classes used by any selector,
// sorted by name.
func PseudoStates(rules []model.ParsedCSSRule) []string {
	var out []string
	for _, r := range rules {
		for _, state := range SelectorStates(r.Selector) {
			if !slices.Contains(out, state) {
				out = append(out, state)
			}
		}
	}
	sort.Strings(out)
	return out
}

func hasPseudo(selector, state string) bool {
	needle := ":" + state
	for i := strings.Index(selector, needle); i >= 0; {
		end := i + len(needle)
		if end == len(selector) || !isIdentByte(selector[end]) {
			if i == 0 || selector[i-1] != ':' {
				return true
			}
		}
		next := strings.Index(selector[end:], needle)
		if next < 0 {
			return false
		}
		i = end + next
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
