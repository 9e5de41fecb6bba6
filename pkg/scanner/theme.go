package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// ThemeFiles are the conventional theme stylesheet locations, in order.
var ThemeFiles = []string{
	"src/theme.css",
	"src/styles/theme.css",
	"theme.css",
	"src/index.css",
	"src/styles/globals.css",
	"styles/globals.css",
	"app/globals.css",
}

// TokenFileNames are the conventional JSON design token locations.
var TokenFileNames = []string{
	"tokens.json",
	"src/tokens.json",
	"design-tokens.json",
}

// findTheme resolves the theme stylesheet: the configured path, the
// manifest's theme, the conventional locations, then the first discovered
// non-module stylesheet whose :root declares custom properties.
func (s *Scanner) findTheme(inv *Inventory, cfg ScanConfig, m *model.Manifest) string {
	for _, declared := range []string{cfg.Theme, manifestTheme(m)} {
		if declared == "" {
			continue
		}
		p := resolveIn(inv.Root, declared)
		if fileExists(p) {
			return p
		}
		s.log.Warn("declared theme not found", "theme", declared)
		inv.warn(fmt.Sprintf("theme %s not found", declared))
	}

	for _, name := range ThemeFiles {
		if p := filepath.Join(inv.Root, filepath.FromSlash(name)); fileExists(p) {
			return p
		}
	}

	for _, f := range inv.CSSFiles {
		if strings.HasSuffix(f, ".module.css") {
			continue
		}
		text, err := s.read(f)
		if err != nil {
			continue
		}
		if declaresRootTokens(text) {
			return f
		}
	}
	return ""
}

func declaresRootTokens(text string) bool {
	if !strings.Contains(text, ":root") {
		return false
	}
	for _, r := range css.Outline(text).Rules() {
		if !strings.Contains(r.Selector, ":root") {
			continue
		}
		for _, d := range r.Block.Decls {
			if strings.HasPrefix(d.Property, "--") {
				return true
			}
		}
	}
	return false
}

// findTokenFiles returns the configured token files, else the manifest's,
// else the conventional ones that exist. Missing declared files are warned
// about and skipped.
func findTokenFiles(inv *Inventory, cfg ScanConfig, m *model.Manifest) []string {
	declared := cfg.TokenFiles
	if len(declared) == 0 && m != nil {
		declared = m.TokenFiles
	}
	if len(declared) > 0 {
		var out []string
		for _, name := range declared {
			p := resolveIn(inv.Root, name)
			if !fileExists(p) {
				inv.warn(fmt.Sprintf("token file %s not found", name))
				continue
			}
			out = append(out, p)
		}
		return out
	}

	var out []string
	for _, name := range TokenFileNames {
		if p := filepath.Join(inv.Root, filepath.FromSlash(name)); fileExists(p) {
			out = append(out, p)
		}
	}
	return out
}

func manifestTheme(m *model.Manifest) string {
	if m == nil {
		return ""
	}
	return m.Theme
}

func resolveIn(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}
