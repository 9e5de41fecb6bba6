// Package patch applies single edits to stylesheet, theme and manifest text.
//
// Every operation is a pure function of the current text and an edit
// request. On failure the input is returned unchanged together with an
// error wrapping one of the sentinel errors below, so callers never write
// a partially edited file.
package patch

import (
	"errors"
	"sort"
	"sync"

	"github.com/aizetachan/ui-forge-sub001/pkg/css"
)

var (
	// ErrInvalidRequest is returned for empty names or values that would
	// break the surrounding syntax.
	ErrInvalidRequest = errors.New("invalid edit request")
	// ErrMalformedInput is returned when the input text cannot be edited.
	ErrMalformedInput = errors.New("malformed input")
	// ErrPropertyNotFound is returned by lookups of absent declarations.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrTokenNotFound is returned when a theme has no such custom property.
	ErrTokenNotFound = errors.New("token not found")
	// ErrComponentNotFound is returned when a manifest has no such component.
	ErrComponentNotFound = errors.New("component not found")
)

// Outcome records which path produced a result.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	// OutcomePatched means the edit was located with the structural scan.
	OutcomePatched
	// OutcomeFallbackPatched means the brace-depth scanner was used.
	OutcomeFallbackPatched
)

func (o Outcome) String() string {
	switch o {
	case OutcomePatched:
		return "patched"
	case OutcomeFallbackPatched:
		return "fallback_patched"
	default:
		return "failed"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func outcomeFor(mode css.Mode) Outcome {
	if mode == css.ModeStructural {
		return OutcomePatched
	}
	return OutcomeFallbackPatched
}

// Engine applies stylesheet edits with a specific CSS parser.
type Engine struct {
	css *css.Parser
}

// NewEngine returns an Engine using p, or the default parser when p is nil.
func NewEngine(p *css.Parser) *Engine {
	if p == nil {
		p = css.Default()
	}
	return &Engine{css: p}
}

var defaultEngine = sync.OnceValue(func() *Engine { return NewEngine(nil) })

// splice inserts or replaces text[at:end] with text. end == at inserts.
type splice struct {
	at, end int
	text    string
}

// apply performs non-overlapping splices. Splices at the same offset are
// applied in the order given.
func apply(text string, edits ...splice) string {
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].at < edits[j].at })
	var out []byte
	prev := 0
	for _, e := range edits {
		out = append(out, text[prev:e.at]...)
		out = append(out, e.text...)
		prev = max(e.end, e.at)
	}
	out = append(out, text[prev:]...)
	return string(out)
}
