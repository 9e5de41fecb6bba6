package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aizetachan/ui-forge-sub001/pkg/scanner"
)

// ProjectConfig holds the CLI settings of .uiforge/config.yaml. The scan
// settings in the same file are read by the scanner.
type ProjectConfig struct {
	CallLog string `yaml:"call_log"`
}

// loadProjectConfig reads the project config under root.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig(root string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(root, scanner.ConfigPath))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveCallLogPath returns the MCP call log path, applying the fallback chain:
//  1. Explicit --log-file flag value
//  2. call_log from the project config, relative to root
//  3. None: call logging stays off
func resolveCallLogPath(flagValue, root string) string {
	if flagValue != "" {
		return flagValue
	}
	cfg, err := loadProjectConfig(root)
	if err != nil || cfg == nil || cfg.CallLog == "" {
		return ""
	}
	if filepath.IsAbs(cfg.CallLog) {
		return cfg.CallLog
	}
	return filepath.Join(root, cfg.CallLog)
}
