// Package forge is the entry point of the library: it parses a component
// repository into a model.RepositoryModel and applies single edits to
// stylesheets, the manifest and the theme.
//
//	f := forge.New(forge.Options{Logger: logger})
//	defer f.Close()
//
//	repo, err := f.ParseRepository(ctx, "/path/to/ui-lib")
//	res := f.WriteCSSChange(forge.CSSChange{FilePath: path, Selector: ".root", Property: "color", Value: "red"})
package forge

import (
	"log/slog"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser/queries"
	"github.com/aizetachan/ui-forge-sub001/pkg/patch"
	"github.com/aizetachan/ui-forge-sub001/pkg/props"
	"github.com/aizetachan/ui-forge-sub001/pkg/scanner"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

// ErrRootNotFound is returned by ParseRepository when the repository root
// is missing or unreadable.
var ErrRootNotFound = scanner.ErrRootNotFound

// Options configures a Forge.
type Options struct {
	// Logger receives warnings and phase timings. Nil uses slog.Default().
	Logger *slog.Logger
	// Cache is the per-repository type resolution cache. Nil creates one
	// owned by the Forge.
	Cache *props.ProgramCache
	// DisableTypeAware forces heuristic prop extraction regardless of the
	// repository configuration.
	DisableTypeAware bool
}

// Forge parses repositories and applies edits. It is safe for concurrent
// use; writes to the same file are serialized.
type Forge struct {
	pm     *parser.ParserManager
	qm     *queries.QueryManager
	css    *css.Parser
	engine *patch.Engine
	cache  *props.ProgramCache
	locks  *util.PathLocks
	log    *slog.Logger

	ownsCache        bool
	disableTypeAware bool
}

// New creates a Forge.
func New(opts Options) *Forge {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pm := parser.NewParserManager(logger)
	cssParser := css.NewParser(pm, logger)

	f := &Forge{
		pm:               pm,
		qm:               queries.NewQueryManager(pm, logger),
		css:              cssParser,
		engine:           patch.NewEngine(cssParser),
		cache:            opts.Cache,
		locks:            util.NewPathLocks(),
		log:              logger,
		disableTypeAware: opts.DisableTypeAware,
	}
	if f.cache == nil {
		f.cache = props.NewProgramCache(pm, props.DefaultCacheSize, logger)
		f.ownsCache = true
	}
	return f
}

// InvalidateRepository drops the cached type resolution context of root.
// Callers must invalidate after source files change or before switching
// repositories; stale entries yield stale prop schemas.
func (f *Forge) InvalidateRepository(root string) bool {
	return f.cache.Invalidate(root)
}

// Close releases parsers, compiled queries and, when owned, the cache.
func (f *Forge) Close() error {
	if f.ownsCache {
		f.cache.Purge()
	}
	f.qm.Close()
	return f.pm.Close()
}
