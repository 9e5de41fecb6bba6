package model

// Manifest is the optional repository-level declaration file that overrides
// heuristic discovery and extraction.
type Manifest struct {
	Version    string                       `json:"version,omitempty"`
	Theme      string                       `json:"theme,omitempty"`
	TokenFiles []string                     `json:"tokenFiles,omitempty"`
	Components map[string]ManifestComponent `json:"components"`
}

// ManifestComponent is the manifest entry for one component. Any non-empty
// field fully replaces the extracted value of the same field.
type ManifestComponent struct {
	Entry        string         `json:"entry,omitempty"`
	CSSModule    string         `json:"cssModule,omitempty"`
	PropDefs     []PropDef      `json:"propDefs,omitempty"`
	Variants     []Variant      `json:"variants,omitempty"`
	DefaultProps map[string]any `json:"defaultProps,omitempty"`
}
