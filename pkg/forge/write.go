package forge

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aizetachan/ui-forge-sub001/pkg/patch"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

// CSSChange sets one declaration in a stylesheet.
type CSSChange struct {
	FilePath   string `json:"filePath"`
	Selector   string `json:"selector"`
	Property   string `json:"property"`
	Value      string `json:"value"`
	MediaQuery string `json:"mediaQuery,omitempty"`
}

// PropDefaultChange sets a default prop value in the manifest.
type PropDefaultChange struct {
	ManifestPath  string `json:"manifestPath"`
	ComponentName string `json:"componentName"`
	PropName      string `json:"propName"`
	Value         any    `json:"value"`
}

// TokenChange sets a custom property value in the theme.
type TokenChange struct {
	ThemeFilePath string `json:"themeFilePath"`
	TokenName     string `json:"tokenName"`
	NewValue      string `json:"newValue"`
}

// WriteResult reports a write. On failure the file is untouched, Error
// describes what was attempted and Err wraps the cause.
type WriteResult struct {
	Success       bool          `json:"success"`
	NewContent    string        `json:"newContent,omitempty"`
	PreviousValue string        `json:"previousValue,omitempty"`
	Outcome       patch.Outcome `json:"outcome"`
	Error         string        `json:"error,omitempty"`
	Err           error         `json:"-"`
}

func failed(err error) WriteResult {
	return WriteResult{Outcome: patch.OutcomeFailed, Error: err.Error(), Err: err}
}

// WriteCSSChange patches a stylesheet on disk. The previous value is empty
// when the declaration did not exist.
func (f *Forge) WriteCSSChange(ch CSSChange) WriteResult {
	target := fmt.Sprintf("%s { %s } in %s", ch.Selector, ch.Property, ch.FilePath)
	return f.rewrite(ch.FilePath, target, func(data []byte) ([]byte, string, patch.Outcome, error) {
		res := f.engine.PatchCSSProperty(string(data), patch.CSSRequest{
			Selector: ch.Selector,
			Property: ch.Property,
			Value:    ch.Value,
			Media:    ch.MediaQuery,
		})
		return []byte(res.Content), res.PreviousValue, res.Outcome, res.Err
	})
}

// WritePropDefault patches defaultProps of a component in the manifest.
// The previous value is the JSON encoding of the replaced default.
func (f *Forge) WritePropDefault(ch PropDefaultChange) WriteResult {
	target := fmt.Sprintf("default of %s.%s in %s", ch.ComponentName, ch.PropName, ch.ManifestPath)
	return f.rewrite(ch.ManifestPath, target, func(data []byte) ([]byte, string, patch.Outcome, error) {
		res := patch.PatchPropDefault(data, ch.ComponentName, ch.PropName, ch.Value)
		return res.Content, res.PreviousValue, res.Outcome, res.Err
	})
}

// WriteTokenValue patches a custom property in the theme stylesheet.
func (f *Forge) WriteTokenValue(ch TokenChange) WriteResult {
	target := fmt.Sprintf("token %s in %s", ch.TokenName, ch.ThemeFilePath)
	return f.rewrite(ch.ThemeFilePath, target, func(data []byte) ([]byte, string, patch.Outcome, error) {
		res := f.engine.PatchTokenValue(string(data), ch.TokenName, ch.NewValue)
		return []byte(res.Content), res.PreviousValue, res.Outcome, res.Err
	})
}

// ReadCSSProperty returns the authored value of a declaration, resolved the
// same way WriteCSSChange resolves its target.
func (f *Forge) ReadCSSProperty(path, selector, property, media string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read stylesheet: %w", err)
	}
	value, ok := f.engine.ReadCSSProperty(string(data), selector, property, media)
	return value, ok, nil
}

type patchFunc func(data []byte) (content []byte, previous string, outcome patch.Outcome, err error)

// rewrite holds the path lock while reading, patching and atomically
// writing path. The file is written only when the patch succeeded and
// changed the content.
func (f *Forge) rewrite(path, target string, fn patchFunc) WriteResult {
	if path == "" {
		return failed(fmt.Errorf("%w: no file path for %s", patch.ErrInvalidRequest, target))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return failed(fmt.Errorf("failed to resolve %s: %w", path, err))
	}

	unlock := f.locks.Lock(abs)
	defer unlock()

	data, err := os.ReadFile(abs)
	if err != nil {
		f.log.Warn("write failed", "target", target, "error", err)
		return failed(fmt.Errorf("failed to read %s: %w", path, err))
	}

	content, previous, outcome, err := fn(data)
	if err != nil {
		f.log.Warn("patch failed", "target", target, "error", err)
		return failed(fmt.Errorf("cannot set %s: %w", target, err))
	}

	if !bytes.Equal(content, data) {
		if err := util.WriteFileAtomic(abs, content); err != nil {
			f.log.Warn("write failed", "target", target, "error", err)
			return failed(fmt.Errorf("failed to write %s: %w", path, err))
		}
	}
	f.log.Info("file patched", "file", abs, "target", target, "outcome", outcome.String())
	return WriteResult{
		Success:       true,
		NewContent:    string(content),
		PreviousValue: previous,
		Outcome:       outcome,
	}
}
