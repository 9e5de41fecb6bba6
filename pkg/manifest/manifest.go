// Package manifest reads the optional component manifest and reconciles it
// with extracted component data.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

// ErrMalformed is wrapped by Parse and Load when the manifest is not valid
// JSON or does not have the manifest shape.
var ErrMalformed = errors.New("malformed manifest")

// FileNames are the repository-relative locations searched for a manifest,
// in order.
var FileNames = []string{"uiforge.json", ".uiforge/manifest.json", "ui-manifest.json"}

// Locate returns the manifest path for root. A non-empty override is used
// as is (relative to root) when it exists.
func Locate(root, override string) (string, bool) {
	candidates := FileNames
	if override != "" {
		candidates = []string{override}
	}
	for _, name := range candidates {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, name)
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Parse decodes a manifest. Prop definitions are kept as written so that
// Validate can report them; Resolve normalizes them when applied.
func Parse(data []byte) (*model.Manifest, error) {
	var m model.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if m.Components == nil {
		m.Components = make(map[string]model.ManifestComponent)
	}
	return &m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*model.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Resolve applies manifest entries to components field by field. Non-empty
// PropDefs and Variants replace the extracted lists outright; DefaultProps
// then overrides defaults of the resulting prop definitions. Components
// without an entry, and all components when m is nil, are returned as is.
// The input slice is not modified.
func Resolve(components []model.Component, m *model.Manifest) []model.Component {
	out := make([]model.Component, len(components))
	copy(out, components)
	if m == nil {
		return out
	}

	for i := range out {
		entry, ok := m.Components[out[i].Name]
		if !ok {
			continue
		}
		c := &out[i]
		if len(entry.PropDefs) > 0 {
			c.PropDefs = make([]model.PropDef, len(entry.PropDefs))
			for j, p := range entry.PropDefs {
				c.PropDefs[j] = p.Normalize()
			}
		}
		if len(entry.Variants) > 0 {
			c.Variants = append([]model.Variant(nil), entry.Variants...)
		}
		if len(entry.DefaultProps) > 0 {
			c.PropDefs = applyDefaults(c.PropDefs, entry.DefaultProps)
		}
	}
	return out
}

// applyDefaults returns a copy of props with defaults overridden. Defaults
// for props that do not exist are ignored.
func applyDefaults(props []model.PropDef, defaults map[string]any) []model.PropDef {
	out := append([]model.PropDef(nil), props...)
	for name, value := range defaults {
		if i := model.FindProp(out, name); i >= 0 {
			out[i].DefaultValue = value
		}
	}
	return out
}

// Validate reports inconsistencies in a manifest: enum props without
// options, props with unknown kinds, variants with unknown types and default
// props naming undeclared props. It returns nil for a nil manifest.
func Validate(m *model.Manifest) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, name := range sortedKeys(m.Components) {
		c := m.Components[name]
		for _, p := range c.PropDefs {
			switch {
			case !p.Kind.Valid():
				errs = append(errs, fmt.Errorf("component %s: prop %s has unknown kind %q", name, p.Name, p.Kind))
			case p.Kind == model.KindEnum && len(p.Options) == 0:
				errs = append(errs, fmt.Errorf("component %s: enum prop %s has no options", name, p.Name))
			}
		}
		for _, v := range c.Variants {
			if !v.Type.Valid() {
				errs = append(errs, fmt.Errorf("component %s: variant %s has unknown type %q", name, v.Name, v.Type))
			}
		}
		if len(c.PropDefs) > 0 {
			for _, prop := range sortedKeys(c.DefaultProps) {
				if model.FindProp(c.PropDefs, prop) < 0 {
					errs = append(errs, fmt.Errorf("component %s: default for undeclared prop %s", name, prop))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
