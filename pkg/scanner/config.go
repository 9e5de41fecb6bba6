package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the repository-relative location of the optional scan
// configuration file.
const ConfigPath = ".uiforge/config.yaml"

// ScanConfig controls file discovery and extraction for one repository.
type ScanConfig struct {
	// Include and Exclude are doublestar globs relative to the repository root.
	Include []string
	Exclude []string

	// Manifest overrides the manifest location (relative to the root).
	Manifest string
	// Theme overrides the theme stylesheet location.
	Theme string
	// TokenFiles overrides JSON token file discovery.
	TokenFiles []string

	// TypeAware selects the AST prop resolver; off means heuristics only.
	TypeAware bool
	// RespectGitignore skips files matched by the root .gitignore.
	RespectGitignore bool
}

// DefaultScanConfig returns the defaults used when a repository carries no
// configuration file.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Include: []string{
			"**/*.{tsx,jsx,ts,js}",
			"**/*.css",
		},
		Exclude: []string{
			"**/node_modules/**",
			"**/.git/**",
			"dist/**",
			"build/**",
			".next/**",
			"coverage/**",
			"out/**",
			"storybook-static/**",
			"**/*.test.*",
			"**/*.spec.*",
			"**/*.stories.*",
			"**/*.story.*",
			"**/__tests__/**",
			"**/__mocks__/**",
			"**/*.d.ts",
		},
		TypeAware:        true,
		RespectGitignore: true,
	}
}

// fileConfig is the YAML shape of ConfigPath. Pointers distinguish an
// explicit false from an absent key.
type fileConfig struct {
	Include          []string `yaml:"include"`
	Exclude          []string `yaml:"exclude"`
	Manifest         string   `yaml:"manifest"`
	Theme            string   `yaml:"theme"`
	TokenFiles       []string `yaml:"token_files"`
	TypeAware        *bool    `yaml:"type_aware"`
	RespectGitignore *bool    `yaml:"respect_gitignore"`
}

// LoadConfig overlays root's configuration file on base. Include replaces
// the base globs, Exclude is appended to them, scalar fields replace when
// set. A missing file returns base unchanged.
func LoadConfig(root string, base ScanConfig) (ScanConfig, error) {
	data, err := os.ReadFile(filepath.Join(root, ConfigPath))
	if errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("failed to parse %s: %w", ConfigPath, err)
	}

	cfg := base
	if len(fc.Include) > 0 {
		cfg.Include = fc.Include
	}
	if len(fc.Exclude) > 0 {
		cfg.Exclude = append(append([]string(nil), base.Exclude...), fc.Exclude...)
	}
	if fc.Manifest != "" {
		cfg.Manifest = fc.Manifest
	}
	if fc.Theme != "" {
		cfg.Theme = fc.Theme
	}
	if len(fc.TokenFiles) > 0 {
		cfg.TokenFiles = fc.TokenFiles
	}
	if fc.TypeAware != nil {
		cfg.TypeAware = *fc.TypeAware
	}
	if fc.RespectGitignore != nil {
		cfg.RespectGitignore = *fc.RespectGitignore
	}
	return cfg, nil
}
