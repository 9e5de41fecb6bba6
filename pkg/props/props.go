// Package props derives the editable prop schema of a React component.
//
// Two resolvers implement TypeShapeResolver: ASTResolver walks tree-sitter
// syntax trees and follows type aliases and base interfaces across the
// repository, HeuristicResolver pattern-matches source text. Extractor picks
// between them, fills in destructured defaults and drops passthrough props.
package props

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// TypeShapeResolver derives the props of componentName declared in file.
type TypeShapeResolver interface {
	Resolve(prog *Program, file, componentName string) ([]model.PropDef, error)
}

// excludedProps have no visual-editing value.
var excludedProps = map[string]bool{
	"key":       true,
	"ref":       true,
	"className": true,
	"style":     true,
	"id":        true,
	"role":      true,
	"tabIndex":  true,
	"testId":    true,
}

// Excluded reports whether a prop is a structural or accessibility
// passthrough.
func Excluded(name string) bool {
	return excludedProps[name] || strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-")
}

// Extractor produces PropDefs for components. With TypeAware set it tries
// the AST resolver first and falls back to the heuristic one when that
// yields nothing; otherwise only the heuristic resolver runs.
type Extractor struct {
	TypeAware bool

	ast       TypeShapeResolver
	heuristic TypeShapeResolver
	log       *slog.Logger
}

// NewExtractor creates an Extractor with the default resolvers.
func NewExtractor(typeAware bool, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		TypeAware: typeAware,
		ast:       NewASTResolver(logger),
		heuristic: NewHeuristicResolver(logger),
		log:       logger,
	}
}

// WithResolvers replaces the resolvers. A nil resolver keeps the current one.
func (e *Extractor) WithResolvers(ast, heuristic TypeShapeResolver) *Extractor {
	if ast != nil {
		e.ast = ast
	}
	if heuristic != nil {
		e.heuristic = heuristic
	}
	return e
}

// Extract returns the props of componentName declared in file. prog is the
// repository Program and may be nil when TypeAware is off. Extract never
// fails: resolver errors are logged and yield an empty schema.
func (e *Extractor) Extract(prog *Program, file, componentName string) []model.PropDef {
	var props []model.PropDef
	if e.TypeAware && prog != nil {
		props = e.run(e.ast, "ast", prog, file, componentName)
	}
	if len(props) == 0 {
		props = e.run(e.heuristic, "heuristic", prog, file, componentName)
	}

	var defaults map[string]any
	if source, err := readSource(prog, file); err == nil {
		defaults = ExtractDefaults(source, componentName)
	}
	return finalize(props, defaults)
}

func (e *Extractor) run(r TypeShapeResolver, name string, prog *Program, file, componentName string) (props []model.PropDef) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Warn("prop resolver panicked", "resolver", name, "component", componentName,
				"file", file, "error", fmt.Sprint(rec))
			props = nil
		}
	}()
	props, err := r.Resolve(prog, file, componentName)
	if err != nil {
		e.log.Warn("prop resolution failed", "resolver", name, "component", componentName,
			"file", file, "error", err)
		return nil
	}
	return props
}

// finalize drops excluded and duplicate props, applies defaults and
// normalizes every definition.
func finalize(props []model.PropDef, defaults map[string]any) []model.PropDef {
	out := make([]model.PropDef, 0, len(props))
	seen := make(map[string]bool, len(props))
	for _, p := range props {
		if p.Name == "" || Excluded(p.Name) || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		if v, ok := defaults[p.Name]; ok {
			p.DefaultValue = v
		}
		out = append(out, p.Normalize())
	}
	return out
}
