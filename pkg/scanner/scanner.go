// Package scanner walks a component library, locates the optional manifest
// and builds the inventory of candidate component files, each paired with
// its stylesheet and stories, plus the theme and token files.
package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/aizetachan/ui-forge-sub001/pkg/manifest"
	"github.com/aizetachan/ui-forge-sub001/pkg/model"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser/queries"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

// Scanner builds an Inventory for a repository root.
type Scanner struct {
	pm    *parser.ParserManager
	qm    *queries.QueryManager
	files util.FileCache
	log   *slog.Logger
}

// New creates a Scanner. files may be nil, in which case sources are read
// with os.ReadFile.
func New(pm *parser.ParserManager, qm *queries.QueryManager, files util.FileCache, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{pm: pm, qm: qm, files: files, log: logger}
}

// Scan inventories root. It only fails when root is not a readable
// directory; everything else degrades to warnings on the Inventory.
func (s *Scanner) Scan(root string, cfg ScanConfig) (*Inventory, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootNotFound, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootNotFound, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, absRoot)
	}
	if _, err := os.ReadDir(absRoot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootNotFound, err)
	}

	inv := &Inventory{Root: absRoot}

	m, manifestPath, err := LoadManifest(absRoot, cfg)
	inv.ManifestPath = manifestPath
	if err != nil {
		s.log.Warn("ignoring manifest", "path", manifestPath, "error", err)
		inv.warn(fmt.Sprintf("manifest %s ignored: %v", relTo(absRoot, manifestPath), err))
	}
	inv.Manifest = m

	files, err := DiscoverFiles(absRoot, cfg)
	if err != nil {
		s.log.Warn("discovery with configured globs failed, using defaults", "error", err)
		inv.warn(fmt.Sprintf("invalid scan configuration: %v", err))
		def := DefaultScanConfig()
		def.RespectGitignore = cfg.RespectGitignore
		if files, err = DiscoverFiles(absRoot, def); err != nil {
			return nil, fmt.Errorf("failed to discover files: %w", err)
		}
	}
	for _, f := range files {
		switch {
		case parser.IsScriptFile(f):
			inv.ScriptFiles = append(inv.ScriptFiles, f)
		case strings.EqualFold(filepath.Ext(f), ".css"):
			inv.CSSFiles = append(inv.CSSFiles, f)
		}
	}
	s.log.Info("file discovery complete", "scripts", len(inv.ScriptFiles), "stylesheets", len(inv.CSSFiles),
		"ms", time.Since(start).Milliseconds())

	pairStart := time.Now()
	if m != nil {
		inv.Candidates = s.manifestCandidates(inv, m)
	} else {
		inv.Candidates = s.discoveredCandidates(inv)
	}
	s.pairAll(inv, m)
	s.log.Info("component pairing complete", "components", len(inv.Candidates),
		"ms", time.Since(pairStart).Milliseconds())

	inv.ThemePath = s.findTheme(inv, cfg, m)
	inv.TokenFiles = findTokenFiles(inv, cfg, m)

	s.log.Info("scan complete", "root", absRoot, "components", len(inv.Candidates),
		"warnings", len(inv.Warnings), "ms", time.Since(start).Milliseconds())
	return inv, nil
}

// LoadManifest locates and parses the manifest of root. The returned path is
// set whenever a manifest file exists, even when it fails to parse.
func LoadManifest(root string, cfg ScanConfig) (*model.Manifest, string, error) {
	p, ok := manifest.Locate(root, cfg.Manifest)
	if !ok {
		return nil, "", nil
	}
	m, err := manifest.Load(p)
	if err != nil {
		return nil, p, err
	}
	return m, p, nil
}

// manifestCandidates returns one candidate per manifest component, sorted
// by name. An entry without a path is located among the discovered files
// by name.
func (s *Scanner) manifestCandidates(inv *Inventory, m *model.Manifest) []Candidate {
	var discovered map[string]Candidate
	names := make([]string, 0, len(m.Components))
	for name := range m.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Candidate
	for _, name := range names {
		entry := m.Components[name].Entry
		if entry == "" {
			if discovered == nil {
				discovered = make(map[string]Candidate)
				for _, c := range s.discoveredCandidates(&Inventory{Root: inv.Root, ScriptFiles: inv.ScriptFiles}) {
					discovered[c.Name] = c
				}
			}
			c, ok := discovered[name]
			if !ok {
				s.log.Warn("manifest component has no entry and no matching file", "component", name)
				inv.warn(fmt.Sprintf("component %s: no entry in manifest and no matching source file", name))
				continue
			}
			c.FromManifest = true
			out = append(out, c)
			continue
		}

		abs := entry
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(inv.Root, filepath.FromSlash(entry))
		}
		if info, err := os.Stat(abs); err != nil || info.IsDir() {
			s.log.Warn("manifest entry not found", "component", name, "entry", entry)
			inv.warn(fmt.Sprintf("component %s: entry %s not found", name, entry))
			continue
		}
		out = append(out, Candidate{
			Name:         name,
			Path:         abs,
			RelPath:      relTo(inv.Root, abs),
			FromManifest: true,
		})
	}
	return out
}

// discoveredCandidates applies the component-likeness filter to the
// discovered script files. A name claimed by an earlier file (in path
// order) drops later files with a warning.
func (s *Scanner) discoveredCandidates(inv *Inventory) []Candidate {
	var out []Candidate
	seen := make(map[string]string)
	for _, f := range inv.ScriptFiles {
		rel := relTo(inv.Root, f)
		name, ok := ComponentName(rel)
		if !ok {
			continue
		}
		source, err := s.read(f)
		if err != nil {
			s.log.Warn("skipping unreadable file", "file", f, "error", err)
			continue
		}
		if !declaresComponent(source, name) {
			continue
		}
		if prev, dup := seen[name]; dup {
			s.log.Warn("duplicate component name", "component", name, "file", rel, "kept", prev)
			inv.warn(fmt.Sprintf("component %s: %s ignored, already defined in %s", name, rel, prev))
			continue
		}
		seen[name] = rel
		out = append(out, Candidate{Name: name, Path: f, RelPath: rel})
	}
	return out
}

// ComponentName derives a component name from a repository-relative path:
// the base name when it is PascalCase, or the directory name for an index
// file inside a PascalCase directory.
func ComponentName(rel string) (string, bool) {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "index" {
		dir := path.Base(path.Dir(rel))
		if isPascalCase(dir) {
			return dir, true
		}
		return "", false
	}
	if isPascalCase(stem) {
		return stem, true
	}
	return "", false
}

func isPascalCase(s string) bool {
	if s == "" || s == "." || !unicode.IsUpper(rune(s[0])) {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// declaresComponent reports whether source declares a binding called name.
// This drops PascalCase files that only hold types or re-exports.
func declaresComponent(source, name string) bool {
	re := regexp.MustCompile(`\b(?:function|class|const|let|var)\s+` + regexp.QuoteMeta(name) + `\b`)
	return re.MatchString(source)
}

// pairAll resolves the stylesheet and stories of every candidate with a
// worker pool.
func (s *Scanner) pairAll(inv *Inventory, m *model.Manifest) {
	type job struct {
		index int
	}
	type result struct {
		index    int
		style    string
		story    string
		stories  []model.StoryVariant
		warnings []string
	}

	jobs := make(chan job, len(inv.Candidates))
	results := make(chan result, len(inv.Candidates))

	var wg sync.WaitGroup
	for range util.WorkerCount(len(inv.Candidates)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				c := inv.Candidates[j.index]
				r := result{index: j.index}

				var declared string
				if m != nil {
					declared = m.Components[c.Name].CSSModule
				}
				r.style, r.warnings = s.pairStylesheet(inv.Root, c, declared)

				if story, ok := findStoryFile(c); ok {
					r.story = story
					stories, err := s.readStories(story)
					if err != nil {
						s.log.Warn("failed to read stories", "component", c.Name, "file", story, "error", err)
						r.warnings = append(r.warnings, fmt.Sprintf("component %s: stories unreadable: %v", c.Name, err))
					}
					r.stories = stories
				}
				results <- r
			}
		}()
	}

	for i := range inv.Candidates {
		jobs <- job{index: i}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]result, len(inv.Candidates))
	for r := range results {
		collected[r.index] = r
	}
	for _, r := range collected {
		c := &inv.Candidates[r.index]
		c.StylePath = r.style
		c.StoryPath = r.story
		c.Stories = r.stories
		for _, w := range r.warnings {
			inv.warn(w)
		}
	}
}

func (s *Scanner) read(path string) (string, error) {
	if s.files != nil {
		return s.files.ReadString(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func relTo(root, p string) string {
	if p == "" {
		return ""
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
