// Package parser owns the tree-sitter grammars used to analyze a component
// library: TypeScript/TSX and JavaScript/JSX for component sources, CSS for
// stylesheets.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

// poolKey uniquely identifies a parser pool (language + TSX variant)
type poolKey struct {
	lang  Language
	isTSX bool
}

// ParserManager manages tree-sitter parsers for multiple languages with
// lazy initialization and thread-safe concurrent access.
//
// Parser pools are created on first use per language and owned by the
// manager, which must be closed via Close(). Callers own returned trees and
// must call tree.Close() after use.
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.ParseFile(source, "src/Button.tsx")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools    map[poolKey]*parserPool
	mutex    sync.RWMutex
	logger   *slog.Logger
	poolSize int

	parsesCalled int
}

// NewParserManager creates a new ParserManager instance.
func NewParserManager(logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &ParserManager{
		pools:    make(map[poolKey]*parserPool),
		logger:   logger,
		poolSize: util.GetOptimalPoolSize(),
	}
}

// Parse parses source code using the specified language grammar.
//
// isTSX only matters for TypeScript. Trees with syntax errors are still
// returned; callers decide whether a partial tree is usable via
// tree.RootNode().HasError().
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}
	if lang != LanguageTypeScript {
		isTSX = false
	}

	pm.mutex.Lock()
	pm.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}

	if tree.RootNode().HasError() {
		pm.logger.Debug("parse tree contains errors", "language", lang.String())
	}

	return tree, nil
}

// ParseFile parses source, picking the grammar from the file extension.
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return pm.Parse(source, lang, IsTSXFile(filePath))
}

// Close releases all parser pool resources. The manager cannot be used
// afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	created := 0
	for _, pool := range pm.pools {
		created += pool.getCreatedCount()
		pool.close()
	}
	pm.pools = make(map[poolKey]*parserPool)

	pm.logger.Debug("closed ParserManager",
		"parsers_created", created,
		"parses_called", pm.parsesCalled)
	return nil
}

// getOrCreatePool returns an existing parser pool or creates a new one.
// Thread-safe using double-checked locking pattern.
func (pm *ParserManager) getOrCreatePool(lang Language, isTSX bool) (*parserPool, error) {
	key := poolKey{lang: lang, isTSX: isTSX}

	pm.mutex.RLock()
	pool, exists := pm.pools[key]
	pm.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, exists = pm.pools[key]; exists {
		return pool, nil
	}

	langPtr, err := pm.GetLanguagePointer(lang, isTSX)
	if err != nil {
		return nil, err
	}

	pool = newParserPool(key, langPtr, pm.poolSize, pm.logger)
	pm.pools[key] = pool

	pm.logger.Debug("created parser pool",
		"language", lang.String(),
		"isTSX", isTSX,
		"maxSize", pm.poolSize)

	return pool, nil
}

// GetLanguagePointer returns the raw tree-sitter grammar. QueryManager uses
// it to compile queries against the same grammar the parsers use.
func (pm *ParserManager) GetLanguagePointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	case LanguageCSS:
		return ts_css.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	total := 0
	for _, pool := range pm.pools {
		total += pool.getCreatedCount()
	}
	return ParserStats{ParsersCreated: total, ParsesCalled: pm.parsesCalled}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}
