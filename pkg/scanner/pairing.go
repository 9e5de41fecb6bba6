package scanner

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser/queries"
)

// styleConventions are the stylesheet names tried beside a component, in
// order. %s is the component name, %l the same with a lowercase first
// letter.
var styleConventions = []string{
	"%s.module.css",
	"%s.css",
	"%l.module.css",
	"styles.module.css",
	"index.module.css",
}

// storyExtensions are tried for <Name>.stories.* and <Name>.story.*.
var storyExtensions = []string{".tsx", ".jsx", ".ts", ".js"}

// pairStylesheet picks the stylesheet of c: a manifest cssModule first,
// then a relative .css import in the component source, then the naming
// conventions.
func (s *Scanner) pairStylesheet(root string, c Candidate, declared string) (string, []string) {
	var warnings []string
	if declared != "" {
		paths := []string{
			filepath.Join(root, filepath.FromSlash(declared)),
			filepath.Join(filepath.Dir(c.Path), filepath.FromSlash(declared)),
		}
		if filepath.IsAbs(declared) {
			paths = []string{declared}
		}
		for _, p := range paths {
			if fileExists(p) {
				return p, nil
			}
		}
		s.log.Warn("manifest cssModule not found", "component", c.Name, "cssModule", declared)
		warnings = append(warnings, fmt.Sprintf("component %s: cssModule %s not found", c.Name, declared))
	}

	imports, err := s.styleImports(c.Path)
	if err != nil {
		s.log.Debug("style import lookup failed", "component", c.Name, "file", c.Path, "error", err)
	}
	for _, p := range imports {
		if fileExists(p) {
			return p, warnings
		}
	}

	dir := filepath.Dir(c.Path)
	for _, pattern := range styleConventions {
		p := filepath.Join(dir, conventionName(pattern, c.Name))
		if fileExists(p) {
			return p, warnings
		}
	}
	return "", warnings
}

func conventionName(pattern, name string) string {
	lower := name
	if name != "" {
		lower = strings.ToLower(name[:1]) + name[1:]
	}
	out := strings.ReplaceAll(pattern, "%s", name)
	return strings.ReplaceAll(out, "%l", lower)
}

type styleImport struct {
	source string
	bound  bool
}

// styleImports returns the absolute paths of relative stylesheet imports in
// file. Bound imports (import styles from "./x.module.css") come before
// side-effect imports; CSS modules come first within each group.
func (s *Scanner) styleImports(file string) ([]string, error) {
	source, err := s.read(file)
	if err != nil {
		return nil, err
	}
	src := []byte(source)
	tree, err := s.pm.ParseFile(src, file)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	query, err := s.qm.GetQuery(parser.DetectLanguage(file), parser.IsTSXFile(file), queries.QueryTypeStyleImports)
	if err != nil {
		return nil, err
	}
	matches, err := s.qm.ExecuteQuery(tree, query, src)
	if err != nil {
		return nil, err
	}

	// One bound import produces two matches; merge by source position.
	var order []uint
	found := make(map[uint]*styleImport)
	for _, m := range matches {
		capture, ok := m.Capture("style.source")
		if !ok {
			continue
		}
		pos := capture.Node.StartByte()
		imp, seen := found[pos]
		if !seen {
			imp = &styleImport{source: capture.Text}
			found[pos] = imp
			order = append(order, pos)
		}
		if _, ok := m.Capture("style.binding"); ok {
			imp.bound = true
		}
	}

	dir := filepath.Dir(file)
	var ranked [4][]string
	for _, pos := range order {
		imp := found[pos]
		if !strings.HasPrefix(imp.source, ".") {
			continue
		}
		rank := 0
		if !imp.bound {
			rank += 2
		}
		if !strings.HasSuffix(imp.source, ".module.css") {
			rank++
		}
		ranked[rank] = append(ranked[rank], filepath.Join(dir, filepath.FromSlash(imp.source)))
	}

	var out []string
	for _, group := range ranked {
		out = append(out, group...)
	}
	return out, nil
}

// findStoryFile looks for <Name>.stories.* beside the component, and for
// index.stories.* when the component is an index file.
func findStoryFile(c Candidate) (string, bool) {
	dir := filepath.Dir(c.Path)
	stems := []string{c.Name}
	if strings.TrimSuffix(path.Base(c.RelPath), path.Ext(c.RelPath)) == "index" {
		stems = append(stems, "index")
	}
	for _, stem := range stems {
		for _, kind := range []string{".stories", ".story"} {
			for _, ext := range storyExtensions {
				p := filepath.Join(dir, stem+kind+ext)
				if fileExists(p) {
					return p, true
				}
			}
		}
	}
	return "", false
}
