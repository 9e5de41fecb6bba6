// Package model defines the repository model produced by a parse: components,
// their prop schemas and variants, parsed stylesheets, design tokens and the
// optional manifest.
package model

import (
	"path/filepath"

	"github.com/google/uuid"
)

// VariantType groups variants for the editor.
type VariantType string

const (
	VariantStyle VariantType = "variant"
	VariantSize  VariantType = "size"
	VariantState VariantType = "state"
)

// Valid reports whether t is a known variant type.
func (t VariantType) Valid() bool {
	return t == VariantStyle || t == VariantSize || t == VariantState
}

// Variant is a named visual variation of a component backed by a CSS class
// or pseudo-state.
type Variant struct {
	Name      string      `json:"name"`
	Type      VariantType `json:"type"`
	CSSClass  string      `json:"cssClass,omitempty"`
	IsDefault bool        `json:"isDefault,omitempty"`
}

// StoryVariant is a named story export with its static args.
type StoryVariant struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Component is one library component as seen by the editor.
type Component struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	SourceFilePath string          `json:"sourceFilePath"`
	SourceCode     string          `json:"sourceCode"`
	PropDefs       []PropDef       `json:"propDefs"`
	Variants       []Variant       `json:"variants"`
	CSSModulePath  string          `json:"cssModulePath,omitempty"`
	RawCSS         string          `json:"rawCSS,omitempty"`
	CSSRules       []ParsedCSSRule `json:"cssRules,omitempty"`
	StoryVariants  []StoryVariant  `json:"storyVariants,omitempty"`
}

// RepositoryModel is the full result of parsing a component library.
type RepositoryModel struct {
	Root        string      `json:"root"`
	Components  []Component `json:"components"`
	Tokens      []Token     `json:"tokens"`
	ThemePath   string      `json:"themePath,omitempty"`
	ThemeSource string      `json:"themeSource,omitempty"`
	Manifest    *Manifest   `json:"manifest,omitempty"`
	Warnings    []string    `json:"warnings,omitempty"`
}

// Component returns the component with the given name.
func (m *RepositoryModel) Component(name string) (*Component, bool) {
	for i := range m.Components {
		if m.Components[i].Name == name {
			return &m.Components[i], true
		}
	}
	return nil, false
}

// idNamespace scopes component IDs so they never collide with other
// name-based UUIDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("uiforge:component"))

// ComponentID returns a stable identifier for a component from its
// repository-relative source path and name. Re-parsing an unchanged
// repository yields the same IDs.
func ComponentID(relPath, name string) string {
	return uuid.NewSHA1(idNamespace, []byte(filepath.ToSlash(relPath)+"#"+name)).String()
}
