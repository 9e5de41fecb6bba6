package scanner

import (
	"errors"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// ErrRootNotFound is returned by Scan when the repository root is missing,
// unreadable or not a directory.
var ErrRootNotFound = errors.New("repository root not found")

// Candidate is a component source file with its paired stylesheet and
// stories.
type Candidate struct {
	Name string
	// Path is absolute; RelPath is relative to the root with forward slashes.
	Path    string
	RelPath string
	// StylePath is the paired stylesheet, "" when none was found.
	StylePath string
	// StoryPath is the adjacent story file, "" when none was found.
	StoryPath string
	Stories   []model.StoryVariant
	// FromManifest is set when the candidate came from a manifest entry.
	FromManifest bool
}

// Inventory is the read-only result of scanning a repository.
type Inventory struct {
	Root string
	// Manifest is nil when no manifest exists or it is malformed.
	Manifest     *model.Manifest
	ManifestPath string
	Candidates   []Candidate
	// ScriptFiles and CSSFiles are every discovered file, absolute and
	// sorted. ScriptFiles feed type resolution.
	ScriptFiles []string
	CSSFiles    []string
	// ThemePath is the theme stylesheet, "" when none was found.
	ThemePath  string
	TokenFiles []string
	Warnings   []string
}

func (inv *Inventory) warn(msg string) {
	inv.Warnings = append(inv.Warnings, msg)
}
