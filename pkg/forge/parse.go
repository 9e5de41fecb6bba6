package forge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
	"github.com/aizetachan/ui-forge-sub001/pkg/manifest"
	"github.com/aizetachan/ui-forge-sub001/pkg/model"
	"github.com/aizetachan/ui-forge-sub001/pkg/props"
	"github.com/aizetachan/ui-forge-sub001/pkg/scanner"
	"github.com/aizetachan/ui-forge-sub001/pkg/tokens"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

// ParseRepository scans repoPath and builds its model: components with prop
// schemas, stylesheets, variants and stories, the manifest overrides and the
// design tokens.
//
// Only a missing or unreadable root (ErrRootNotFound) or a cancelled ctx is
// an error. A component that fails to build is omitted and reported in
// Warnings.
func (f *Forge) ParseRepository(ctx context.Context, repoPath string) (*model.RepositoryModel, error) {
	start := time.Now()

	var warnings []string
	cfg, err := scanner.LoadConfig(repoPath, scanner.DefaultScanConfig())
	if err != nil {
		f.log.Warn("ignoring repository config", "root", repoPath, "error", err)
		warnings = append(warnings, fmt.Sprintf("config ignored: %v", err))
	}

	files := util.NewFileCache(&util.FileCacheConfig{Logger: f.log})
	defer files.Close()

	inv, err := scanner.New(f.pm, f.qm, files, f.log).Scan(repoPath, cfg)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, inv.Warnings...)

	typeAware := cfg.TypeAware && !f.disableTypeAware
	var prog *props.Program
	if typeAware {
		var release func()
		prog, release = f.cache.Get(inv.Root, inv.ScriptFiles)
		defer release()
	}
	extractor := props.NewExtractor(typeAware, f.log)

	extractStart := time.Now()
	components := make([]model.Component, 0, len(inv.Candidates))
	seen := make(map[string]bool, len(inv.Candidates))
	for _, c := range inv.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parse cancelled: %w", err)
		}
		if seen[c.Name] {
			warnings = append(warnings, fmt.Sprintf("component %s: duplicate name in %s ignored", c.Name, c.RelPath))
			continue
		}
		comp, err := f.buildComponent(files, extractor, prog, c)
		if err != nil {
			f.log.Warn("omitting component", "component", c.Name, "file", c.Path, "error", err)
			warnings = append(warnings, fmt.Sprintf("component %s omitted: %v", c.Name, err))
			continue
		}
		seen[c.Name] = true
		components = append(components, comp)
	}
	f.log.Info("component extraction complete", "components", len(components), "type_aware", typeAware,
		"ms", time.Since(extractStart).Milliseconds())

	if inv.Manifest != nil {
		components = manifest.Resolve(components, inv.Manifest)
		if err := manifest.Validate(inv.Manifest); err != nil {
			for _, w := range splitJoined(err) {
				warnings = append(warnings, "manifest: "+w.Error())
			}
		}
	}

	repo := &model.RepositoryModel{
		Root:       inv.Root,
		Components: components,
		ThemePath:  inv.ThemePath,
		Manifest:   inv.Manifest,
	}
	repo.Tokens, repo.ThemeSource, warnings = f.loadTokens(files, inv, warnings)
	repo.Warnings = warnings

	f.log.Info("repository parsed", "root", inv.Root, "components", len(repo.Components),
		"tokens", len(repo.Tokens), "warnings", len(repo.Warnings), "ms", time.Since(start).Milliseconds())
	return repo, nil
}

// buildComponent extracts one component. Panics are recovered so a single
// pathological file cannot abort the parse.
func (f *Forge) buildComponent(files util.FileCache, extractor *props.Extractor, prog *props.Program, c scanner.Candidate) (comp model.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while extracting: %v", r)
		}
	}()

	source, err := files.ReadString(c.Path)
	if err != nil {
		return model.Component{}, fmt.Errorf("failed to read source: %w", err)
	}

	comp = model.Component{
		ID:             model.ComponentID(c.RelPath, c.Name),
		Name:           c.Name,
		SourceFilePath: c.Path,
		SourceCode:     source,
		PropDefs:       extractor.Extract(prog, c.Path, c.Name),
		StoryVariants:  c.Stories,
	}

	if c.StylePath != "" {
		raw, err := files.ReadString(c.StylePath)
		if err != nil {
			f.log.Warn("stylesheet unreadable", "component", c.Name, "file", c.StylePath, "error", err)
		} else {
			rules, mode := f.css.Parse(raw)
			if mode == css.ModeFallback {
				f.log.Warn("stylesheet parsed with fallback scanner", "component", c.Name, "file", c.StylePath)
			}
			comp.CSSModulePath = c.StylePath
			comp.RawCSS = raw
			comp.CSSRules = rules
		}
	}

	comp.Variants = detectVariants(comp.PropDefs, comp.CSSRules)
	if comp.PropDefs == nil {
		comp.PropDefs = []model.PropDef{}
	}
	if comp.Variants == nil {
		comp.Variants = []model.Variant{}
	}
	return comp, nil
}

// loadTokens reads the theme and JSON token files. A token name seen twice
// keeps its first definition, so the theme wins over JSON files.
func (f *Forge) loadTokens(files util.FileCache, inv *scanner.Inventory, warnings []string) ([]model.Token, string, []string) {
	var out []model.Token
	seen := make(map[string]bool)
	add := func(ts []model.Token) {
		for _, t := range ts {
			if !seen[t.Name] {
				seen[t.Name] = true
				out = append(out, t)
			}
		}
	}

	var themeSource string
	if inv.ThemePath != "" {
		text, err := files.ReadString(inv.ThemePath)
		if err != nil {
			f.log.Warn("theme unreadable", "file", inv.ThemePath, "error", err)
			warnings = append(warnings, fmt.Sprintf("theme %s unreadable: %v", relPath(inv.Root, inv.ThemePath), err))
		} else {
			themeSource = text
			add(tokens.FromCSS(text, relPath(inv.Root, inv.ThemePath)))
		}
	}

	for _, path := range inv.TokenFiles {
		data, err := files.ReadString(path)
		if err == nil {
			var ts []model.Token
			if ts, err = tokens.FromJSON([]byte(data), relPath(inv.Root, path)); err == nil {
				add(ts)
				continue
			}
		}
		f.log.Warn("token file ignored", "file", path, "error", err)
		warnings = append(warnings, fmt.Sprintf("token file %s ignored: %v", relPath(inv.Root, path), err))
	}
	if out == nil {
		out = []model.Token{}
	}
	return out, themeSource, warnings
}

// splitJoined unwraps an errors.Join result into its parts.
func splitJoined(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}

func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
