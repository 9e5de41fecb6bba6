// Package queries provides tree-sitter query compilation, caching, and execution.
package queries

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser/queries/stories"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser/queries/styles"
)

// QueryType identifies which query to execute.
type QueryType int

const (
	// QueryTypeStyleImports finds stylesheet imports in component sources.
	QueryTypeStyleImports QueryType = iota
	// QueryTypeStories finds story exports and their args in story files.
	QueryTypeStories
)

// String returns the string representation of a QueryType.
func (qt QueryType) String() string {
	switch qt {
	case QueryTypeStyleImports:
		return "style_imports"
	case QueryTypeStories:
		return "stories"
	default:
		return "unknown"
	}
}

// queryKey identifies a compiled query. TSX and plain TypeScript are
// distinct grammars, so a query compiled for one cannot run on the other.
type queryKey struct {
	lang  parser.Language
	isTSX bool
	qtype QueryType
}

// QueryManager compiles queries lazily and caches them per grammar.
//
//	qm := NewQueryManager(parserManager, logger)
//	defer qm.Close()
//
//	query, err := qm.GetQuery(parser.LanguageTypeScript, true, QueryTypeStyleImports)
//	matches, err := qm.ExecuteQuery(tree, query, source)
type QueryManager struct {
	parserManager *parser.ParserManager
	cache         map[queryKey]*ts.Query
	mutex         sync.RWMutex
	logger        *slog.Logger
}

// NewQueryManager creates a new query manager.
func NewQueryManager(pm *parser.ParserManager, logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &QueryManager{
		parserManager: pm,
		cache:         make(map[queryKey]*ts.Query),
		logger:        logger,
	}
}

// GetQuery returns a compiled query for the grammar and query type.
func (qm *QueryManager) GetQuery(lang parser.Language, isTSX bool, qtype QueryType) (*ts.Query, error) {
	if lang != parser.LanguageTypeScript {
		isTSX = false
	}
	key := queryKey{lang: lang, isTSX: isTSX, qtype: qtype}

	qm.mutex.RLock()
	query, exists := qm.cache[key]
	qm.mutex.RUnlock()
	if exists {
		return query, nil
	}

	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	if query, exists = qm.cache[key]; exists {
		return query, nil
	}

	queryString, err := getQueryString(lang, qtype)
	if err != nil {
		return nil, err
	}

	langPtr, err := qm.parserManager.GetLanguagePointer(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get language pointer for %s: %w", lang, err)
	}

	query, qerr := ts.NewQuery(ts.NewLanguage(langPtr), queryString)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile %s query for %s: %s", qtype, lang, qerr.Message)
	}
	qm.cache[key] = query

	qm.logger.Debug("compiled query", "language", lang.String(), "isTSX", isTSX, "type", qtype.String())

	return query, nil
}

func getQueryString(lang parser.Language, qtype QueryType) (string, error) {
	if lang != parser.LanguageTypeScript && lang != parser.LanguageJavaScript {
		return "", fmt.Errorf("unsupported language for %s queries: %s", qtype, lang)
	}
	switch qtype {
	case QueryTypeStyleImports:
		return styles.Queries, nil
	case QueryTypeStories:
		return stories.Queries, nil
	default:
		return "", fmt.Errorf("unknown query type: %d", qtype)
	}
}

// ExecuteQuery runs a compiled query on a parse tree and returns structured
// matches. Capture nodes stay valid until the tree is closed.
func (qm *QueryManager) ExecuteQuery(tree *ts.Tree, query *ts.Query, source []byte) ([]QueryMatch, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	iter := cursor.Matches(query, tree.RootNode(), source)
	captureNames := query.CaptureNames()

	var matches []QueryMatch
	for {
		match := iter.Next()
		if match == nil {
			break
		}

		captures := make([]QueryCapture, 0, len(match.Captures))
		for _, capture := range match.Captures {
			var name string
			if int(capture.Index) < len(captureNames) {
				name = captureNames[capture.Index]
			}
			category, field := parseCaptureName(name)
			node := capture.Node
			captures = append(captures, QueryCapture{
				Name:     name,
				Category: category,
				Field:    field,
				Node:     &node,
				Text:     node.Utf8Text(source),
			})
		}

		matches = append(matches, QueryMatch{
			PatternIndex: uint32(match.PatternIndex),
			Captures:     captures,
		})
	}

	return matches, nil
}

// Close releases all compiled queries.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	for key, query := range qm.cache {
		query.Close()
		delete(qm.cache, key)
	}
	return nil
}

// QueryMatch represents a single pattern match from query execution.
type QueryMatch struct {
	PatternIndex uint32
	Captures     []QueryCapture
}

// Capture returns the first capture with the given full name.
func (m QueryMatch) Capture(name string) (QueryCapture, bool) {
	for _, c := range m.Captures {
		if c.Name == name {
			return c, true
		}
	}
	return QueryCapture{}, false
}

// QueryCapture represents a single captured node from a query match.
type QueryCapture struct {
	// Name is the full capture name, e.g. "style.source".
	Name string
	// Category and Field are Name split at the first dot.
	Category string
	Field    string
	Node     *ts.Node
	Text     string
}

// parseCaptureName splits "style.source" into ("style", "source").
func parseCaptureName(name string) (category, field string) {
	if category, field, ok := strings.Cut(name, "."); ok {
		return category, field
	}
	return name, ""
}
